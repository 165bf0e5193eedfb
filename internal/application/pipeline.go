package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"i18nscan/internal/domain"
	"i18nscan/internal/domain/entities"
	"i18nscan/internal/domain/resource"
	"i18nscan/internal/ports/input"
	"i18nscan/internal/ports/output"
)

// Pipeline reads units in order, scans them, merges the results into the
// store and flushes once.
type Pipeline struct {
	reader     output.SourceReader
	scanner    *Scanner
	store      *resource.Store
	serializer output.BundleSerializer
	writers    []output.BundleWriter

	sort       bool
	pool       output.TaskPool
	transform  input.Transformer
	flush      input.Flusher
	translator output.T
	locale     string
	logger     *slog.Logger
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithSort emits keys in ascending order instead of first-observed order.
func WithSort(sort bool) PipelineOption {
	return func(p *Pipeline) { p.sort = sort }
}

// WithPool scans units concurrently on pool. Merging stays sequential.
func WithPool(pool output.TaskPool) PipelineOption {
	return func(p *Pipeline) { p.pool = pool }
}

// WithTransformer replaces scanning for every unit.
func WithTransformer(t input.Transformer) PipelineOption {
	return func(p *Pipeline) { p.transform = t }
}

// WithFlusher replaces serialization of the store.
func WithFlusher(f input.Flusher) PipelineOption {
	return func(p *Pipeline) { p.flush = f }
}

// WithDiagnostics localizes diagnostic log messages into locale.
func WithDiagnostics(t output.T, locale string) PipelineOption {
	return func(p *Pipeline) {
		p.translator = t
		p.locale = locale
	}
}

// WithLogger sets the logger; slog.Default is used otherwise.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) { p.logger = l }
}

func NewPipeline(
	reader output.SourceReader,
	scanner *Scanner,
	store *resource.Store,
	serializer output.BundleSerializer,
	writers []output.BundleWriter,
	opts ...PipelineOption,
) *Pipeline {
	p := &Pipeline{
		reader:     reader,
		scanner:    scanner,
		store:      store,
		serializer: serializer,
		writers:    writers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ input.ScanUseCase = (*Pipeline)(nil)

type unitResult struct {
	res entities.ScanResult
	err error
}

// Run processes paths in order. A read, parse or write failure aborts the
// run; diagnostics are logged and returned in the report.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*entities.Report, error) {
	report := &entities.Report{Units: len(paths)}

	if p.transform != nil {
		if err := p.runTransformer(ctx, paths); err != nil {
			return nil, err
		}
	} else {
		results := p.scanAll(ctx, paths)
		for _, r := range results {
			if r.err != nil {
				return nil, r.err
			}
			if err := p.merge(r.res, report); err != nil {
				return nil, err
			}
		}
	}

	docs, err := p.flushStore(ctx)
	if err != nil {
		return nil, err
	}
	report.Documents = docs
	for _, d := range docs {
		report.Keys += d.Keys
	}
	return report, nil
}

func (p *Pipeline) runTransformer(ctx context.Context, paths []string) error {
	for _, path := range paths {
		text, err := p.read(ctx, path)
		if err != nil {
			return err
		}
		if err := p.transform.Transform(ctx, entities.SourceUnit{Path: path, Text: text}, p.store); err != nil {
			return fmt.Errorf("transform %s: %w", path, err)
		}
	}
	return nil
}

func (p *Pipeline) scanAll(ctx context.Context, paths []string) []unitResult {
	results := make([]unitResult, len(paths))
	if p.pool == nil {
		for i, path := range paths {
			results[i] = p.scanOne(ctx, path)
			if results[i].err != nil {
				return results[:i+1]
			}
		}
		return results
	}

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		err := p.pool.Go(func() {
			defer wg.Done()
			results[i] = p.scanOne(ctx, path)
		})
		if err != nil {
			wg.Done()
			results[i] = unitResult{err: fmt.Errorf("schedule %s: %w", path, err)}
		}
	}
	wg.Wait()
	return results
}

// scanOne turns a panic in reading or scanning into a parse error for path,
// in both sequential and pooled mode.
func (p *Pipeline) scanOne(ctx context.Context, path string) (out unitResult) {
	defer func() {
		if v := recover(); v != nil {
			out = unitResult{err: fmt.Errorf("%s: %w: panic: %v", path, domain.ErrSourceParse, v)}
		}
	}()

	text, err := p.read(ctx, path)
	if err != nil {
		return unitResult{err: err}
	}
	res, err := p.scanner.Scan(ctx, entities.SourceUnit{Path: path, Text: text})
	return unitResult{res: res, err: err}
}

func (p *Pipeline) read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := p.reader.Read(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, domain.ErrSourceRead, err)
	}
	return text, nil
}

func (p *Pipeline) merge(res entities.ScanResult, report *entities.Report) error {
	for _, d := range res.Diagnostics {
		p.logDiagnostic(d)
		report.Diagnostics = append(report.Diagnostics, d)
	}
	for _, obs := range res.Observations {
		err := p.store.Set(obs)
		switch {
		case errors.Is(err, domain.ErrEmptyKey):
			d := entities.Diagnostic{
				Code:   string(domain.DiagEmptyKey),
				Path:   obs.Path,
				Line:   obs.Line,
				Detail: fmt.Sprintf("%q", obs.Key),
			}
			p.logDiagnostic(d)
			report.Diagnostics = append(report.Diagnostics, d)
		case err != nil:
			return fmt.Errorf("%s:%d: %w", obs.Path, obs.Line, err)
		}
	}
	p.logger.Debug("unit merged", "file", res.Path, "keys", len(res.Observations))
	return nil
}

func (p *Pipeline) logDiagnostic(d entities.Diagnostic) {
	msg := d.Code
	if p.translator != nil {
		msg = p.translator.T(p.locale, domain.DiagnosticCode(d.Code).Code(), map[string]any{
			"Path":   d.Path,
			"Line":   d.Line,
			"Detail": d.Detail,
		})
	}
	p.logger.Warn(msg, "code", d.Code, "path", d.Path, "line", d.Line, "detail", d.Detail)
}

func (p *Pipeline) flushStore(ctx context.Context) ([]entities.Document, error) {
	p.store.Freeze()

	var (
		docs []entities.Document
		err  error
	)
	if p.flush != nil {
		docs, err = p.flush.Flush(ctx, p.store)
	} else {
		docs, err = p.serializer.Serialize(p.store.Get(p.sort))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBundleWrite, err)
	}

	for _, w := range p.writers {
		if err := w.WriteBundles(ctx, docs); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrBundleWrite, err)
		}
	}
	p.logger.Info("resource bundles written", "documents", len(docs), "writers", len(p.writers))
	return docs, nil
}
