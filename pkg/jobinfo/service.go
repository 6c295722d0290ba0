// Package jobinfo answers "what happened to these jobs": it validates a request, picks the best
// available backend tool, queries it once and renders the normalized records.
package jobinfo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/quatton/qjob/pkg/backend"
	"github.com/quatton/qjob/pkg/jobrec"
	"github.com/quatton/qjob/pkg/qerr"
	"github.com/quatton/qjob/pkg/qexec"
)

const DefaultTimeout = 10 * time.Minute

type Service struct {
	exec       qexec.Executor
	priorities map[string][]string
	cache      *RecordCache
	sinks      []Sink
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Service)

// WithPriorities overrides the backend preference list per scheduler name.
func WithPriorities(p map[string][]string) Option {
	return func(s *Service) {
		s.priorities = p
	}
}

func WithCache(c *RecordCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithSinks(sinks ...Sink) Option {
	return func(s *Service) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithTimeout bounds the backend query. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.timeout = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(exec qexec.Executor, opts ...Option) *Service {
	s := &Service{
		exec:    exec,
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup resolves the request to records. Every configuration problem (scheduler, input, missing
// tools) is reported before any backend is queried. Unknown jobs are absent from the result.
func (s *Service) Lookup(ctx context.Context, req Request) (*Result, error) {
	scheduler, ids, err := req.validate()
	if err != nil {
		return nil, err
	}
	if req.Threads > 1 {
		s.logger.Debug("thread count is advisory; issuing a single query", "threads", req.Threads)
	}

	tools, err := backend.ResolvePriorities(scheduler, s.priorities[string(scheduler)])
	if err != nil {
		return nil, err
	}
	tool, err := backend.Select(ctx, s.exec, tools)
	if err != nil {
		return nil, err
	}
	adapter, err := backend.New(tool, s.exec)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("selected backend", "scheduler", scheduler, "tool", tool)

	var hits []jobrec.JobRecord
	remaining := ids
	if s.cache != nil {
		found, err := s.cache.Get(ctx, scheduler, ids)
		if err != nil {
			s.logger.Warn("record cache unavailable", "error", err)
		}
		if len(found) > 0 {
			remaining = remaining[:0:0]
			for _, id := range ids {
				if r, ok := found[id]; ok {
					hits = append(hits, r)
				} else {
					remaining = append(remaining, id)
				}
			}
		}
	}

	var fresh []jobrec.JobRecord
	if len(remaining) > 0 {
		fresh, err = s.query(ctx, adapter, remaining)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if _, err := s.cache.Put(ctx, scheduler, fresh); err != nil {
				s.logger.Warn("could not cache job records", "error", err)
			}
		}
	}
	records, cached := mergeRecords(hits, fresh)

	return &Result{
		ReportID:  newReportID(),
		Scheduler: scheduler,
		Backend:   tool,
		Records:   orderRecords(ids, records),
		CreatedAt: s.now().UTC(),
		Cached:    cached,
		TmpDir:    req.TmpDir,
	}, nil
}

func (s *Service) query(ctx context.Context, adapter backend.Adapter, ids []string) ([]jobrec.JobRecord, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := s.now()
	records, err := adapter.Query(ctx, ids)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, qerr.Errorf(qerr.CodeQueryFailed, "%s did not answer within %s: %w", adapter.Name(), s.timeout, err)
		}
		return nil, err
	}
	s.logger.Debug("backend query finished", "tool", adapter.Name(), "jobs", len(ids), "records", len(records), "took", s.now().Sub(start))
	return records, nil
}

// Run performs the lookup and writes the header and one row per record to w. Nothing is written
// if the lookup fails. Sinks run afterwards; their failures are only logged.
func (s *Service) Run(ctx context.Context, req Request, w io.Writer) (*Result, error) {
	result, err := s.Lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := jobrec.NewWriter(w).WriteAll(result.Records); err != nil {
		return result, err
	}
	s.publish(ctx, result)
	return result, nil
}

func (s *Service) publish(ctx context.Context, result *Result) {
	for _, sink := range s.sinks {
		if err := sink.Publish(ctx, result); err != nil {
			s.logger.Warn("sink failed", "sink", sink.Name(), "report", result.ReportID, "error", err)
			continue
		}
		s.logger.Debug("published report", "sink", sink.Name(), "report", result.ReportID)
	}
}

func newReportID() uuid.UUID {
	if id, err := uuid.NewV7(); err == nil {
		return id
	}
	return uuid.New()
}
