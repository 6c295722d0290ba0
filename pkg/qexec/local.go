package qexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	utilexec "k8s.io/utils/exec"
)

// LocalExecutor runs commands on this host.
type LocalExecutor struct {
	exec utilexec.Interface
}

// LocalExecutorOption configures a LocalExecutor
type LocalExecutorOption func(*LocalExecutor)

// WithExec replaces the process interface, mainly for tests.
func WithExec(e utilexec.Interface) LocalExecutorOption {
	return func(l *LocalExecutor) {
		l.exec = e
	}
}

func NewLocalExecutor(opts ...LocalExecutorOption) *LocalExecutor {
	l := &LocalExecutor{exec: utilexec.New()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *LocalExecutor) LookPath(_ context.Context, name string) (string, error) {
	path, err := l.exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return path, nil
}

func (l *LocalExecutor) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	cmd := l.exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	err := cmd.Run()
	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("running %s: %w", name, ctxErr)
	}

	var exitErr utilexec.ExitError
	if errors.As(err, &exitErr) {
		return out, &ExitError{Command: name, Code: exitErr.ExitStatus(), Stderr: out.Stderr}
	}
	return out, fmt.Errorf("running %s: %w", name, err)
}

var _ Executor = (*LocalExecutor)(nil)
