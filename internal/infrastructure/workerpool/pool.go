// Package workerpool bounds concurrent scanning with an ants goroutine pool.
package workerpool

import (
	"fmt"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"i18nscan/internal/ports/output"
)

var _ output.TaskPool = (*Pool)(nil)

// Options defines configurable options for the pool.
type Options struct {
	Logger *slog.Logger
}

// Option defines a function that configures pool options.
type Option func(*Options)

// WithLogger sets the logger that receives task panics.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Pool runs tasks on at most size goroutines. Submission blocks while
// every worker is busy.
type Pool struct {
	pool *ants.Pool
}

func New(size int, opts ...Option) (*Pool, error) {
	o := &Options{Logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	antsOpts := []ants.Option{
		ants.WithNonblocking(false),
		ants.WithPanicHandler(func(v any) {
			o.Logger.Error("worker task panicked", "panic", fmt.Sprint(v))
		}),
	}

	p, err := ants.NewPool(size, antsOpts...)
	if err != nil {
		return nil, fmt.Errorf("workerpool: %w", err)
	}
	return &Pool{pool: p}, nil
}

// Go submits task.
func (p *Pool) Go(task func()) error {
	return p.pool.Submit(task)
}

// Release stops the pool. Submitted tasks are not waited for.
func (p *Pool) Release() {
	p.pool.Release()
}
