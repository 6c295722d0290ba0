// Package backend queries scheduler accounting tools and turns their output into job records.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qexec"
)

// Adapter queries one external tool for a batch of jobs.
type Adapter interface {
	// Name returns the executable the adapter drives.
	Name() string

	// Query runs a single external query for all jobIDs. Jobs the tool does not know produce no
	// record; that is not an error.
	Query(ctx context.Context, jobIDs []string) ([]jobrec.JobRecord, error)
}

// QueryError reports a backend tool that exited non-zero. It is not retried: a failed accounting
// query means a bad job ID or a misconfigured tool, not a transient fault.
type QueryError struct {
	Tool     string
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *QueryError) Error() string {
	msg := fmt.Sprintf("%s %s failed with exit status %d", e.Tool, strings.Join(e.Args, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// run executes tool and converts a non-zero exit into a coded QueryError.
func run(ctx context.Context, exec qexec.Executor, tool string, args ...string) (string, error) {
	out, err := exec.Run(ctx, tool, args...)
	if err != nil {
		var exitErr *qexec.ExitError
		if errors.As(err, &exitErr) {
			return "", qerr.New(qerr.CodeQueryFailed, &QueryError{
				Tool:     tool,
				Args:     args,
				ExitCode: exitErr.Code,
				Stderr:   exitErr.Stderr,
			})
		}
		return "", qerr.New(qerr.CodeQueryFailed, err)
	}
	return out.Stdout, nil
}

// lines splits tool output into non-blank lines.
func lines(output string) []string {
	var result []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		result = append(result, line)
	}
	return result
}
