package jobinfo

import "context"

// Sink receives every successful result after it has been written out. A failing sink does not
// fail the lookup.
type Sink interface {
	Name() string
	Publish(ctx context.Context, result *Result) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc struct {
	SinkName string
	Fn       func(ctx context.Context, result *Result) error
}

func (f SinkFunc) Name() string { return f.SinkName }

func (f SinkFunc) Publish(ctx context.Context, result *Result) error {
	return f.Fn(ctx, result)
}
