package backend

import (
	"context"
	"errors"

	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qexec"
)

// Availability is the lookup result for one candidate tool.
type Availability struct {
	Tool  string
	Path  string
	Found bool
}

// Probe checks every candidate, in order, without stopping at the first hit.
func Probe(ctx context.Context, exec qexec.Executor, candidates []string) ([]Availability, error) {
	result := make([]Availability, 0, len(candidates))
	for _, tool := range candidates {
		path, err := exec.LookPath(ctx, tool)
		switch {
		case err == nil:
			result = append(result, Availability{Tool: tool, Path: path, Found: true})
		case errors.Is(err, qexec.ErrNotFound):
			result = append(result, Availability{Tool: tool})
		default:
			return nil, err
		}
	}
	return result, nil
}

// Select returns the first candidate present on the executor's search path. If none is, the
// error names every candidate that was tried.
func Select(ctx context.Context, exec qexec.Executor, candidates []string) (string, error) {
	for _, tool := range candidates {
		_, err := exec.LookPath(ctx, tool)
		if err == nil {
			return tool, nil
		}
		if !errors.Is(err, qexec.ErrNotFound) {
			return "", qerr.Errorf(qerr.CodeNoBackend, "checking for %s: %w", tool, err)
		}
	}
	return "", qerr.Errorf(qerr.CodeNoBackend, "none of the backend tools %v were found on the search path", candidates)
}
