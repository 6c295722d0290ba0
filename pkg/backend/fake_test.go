package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/quatton/qjob/pkg/qexec"
)

// fakeExec answers LookPath from a set of installed tools and Run from canned responses keyed by
// the full command line.
type fakeExec struct {
	installed map[string]bool
	responses map[string]fakeResponse
	calls     [][]string
}

type fakeResponse struct {
	stdout string
	stderr string
	code   int
}

func newFakeExec(installed ...string) *fakeExec {
	f := &fakeExec{installed: map[string]bool{}, responses: map[string]fakeResponse{}}
	for _, tool := range installed {
		f.installed[tool] = true
	}
	return f
}

func (f *fakeExec) on(stdout string, argv ...string) *fakeExec {
	f.responses[strings.Join(argv, " ")] = fakeResponse{stdout: stdout}
	return f
}

func (f *fakeExec) fail(code int, stderr string, argv ...string) *fakeExec {
	f.responses[strings.Join(argv, " ")] = fakeResponse{stderr: stderr, code: code}
	return f
}

func (f *fakeExec) LookPath(_ context.Context, name string) (string, error) {
	if f.installed[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("%s: %w", name, qexec.ErrNotFound)
}

func (f *fakeExec) Run(_ context.Context, name string, args ...string) (*qexec.Output, error) {
	argv := append([]string{name}, args...)
	f.calls = append(f.calls, argv)

	resp, ok := f.responses[strings.Join(argv, " ")]
	if !ok {
		return nil, fmt.Errorf("unexpected command %q", argv)
	}
	out := &qexec.Output{Stdout: resp.stdout, Stderr: resp.stderr}
	if resp.code != 0 {
		return out, &qexec.ExitError{Command: name, Code: resp.code, Stderr: resp.stderr}
	}
	return out, nil
}
