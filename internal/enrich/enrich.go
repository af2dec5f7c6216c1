// Package enrich fills missing citation fields from an external metadata
// lookup. Parsed values always win: a lookup result only lands in fields
// that extraction left empty.
package enrich

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/keller/citefmt/internal/reference"
)

// Lookup resolves citation metadata from an external source.
type Lookup interface {
	ByDOI(ctx context.Context, doi string) (*reference.Partial, error)
	ByQuery(ctx context.Context, title, family string) (*reference.Partial, error)
}

const (
	// DefaultParallel bounds concurrent lookups in a batch.
	DefaultParallel = 4

	// DefaultTimeout bounds one record's lookup, including a fallback query.
	DefaultTimeout = 10 * time.Second
)

// Enricher runs lookups for records that need them.
type Enricher struct {
	lookup   Lookup
	parallel int
	timeout  time.Duration
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithParallel sets the maximum number of concurrent lookups.
func WithParallel(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.parallel = n
		}
	}
}

// WithTimeout sets the per-record lookup timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Enricher) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// New creates an Enricher backed by the given lookup.
func New(lk Lookup, opts ...Option) *Enricher {
	e := &Enricher{
		lookup:   lk,
		parallel: DefaultParallel,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Needed reports whether a lookup could improve the record. Complete
// records are left alone. Incomplete records qualify when they carry a
// DOI, or enough text (a title) for a bibliographic query.
func Needed(rec reference.Record) bool {
	if rec.Complete() {
		return false
	}
	if isDOI(rec.Identifier) {
		return true
	}
	return rec.Title != ""
}

func isDOI(id string) bool {
	return strings.HasPrefix(id, "10.")
}

// Merge fills the record's empty fields from a lookup result and tags them
// as enriched. Non-empty parsed fields are never overwritten. The input
// record is not mutated.
func Merge(rec reference.Record, p *reference.Partial) reference.Record {
	out := rec.Clone()
	if p == nil {
		return out
	}

	fill := func(dst *string, v string, f reference.Field) {
		if *dst == "" && v != "" {
			*dst = v
			out.Tag(f, reference.OriginEnriched)
		}
	}
	fill(&out.Year, p.Year, reference.FieldYear)
	fill(&out.Title, p.Title, reference.FieldTitle)
	fill(&out.Container, p.Container, reference.FieldContainer)
	fill(&out.Volume, p.Volume, reference.FieldVolume)
	fill(&out.Issue, p.Issue, reference.FieldIssue)
	fill(&out.Pages, p.Pages, reference.FieldPages)

	if len(out.Authors) == 0 && len(p.Authors) > 0 {
		out.Authors = append([]reference.Author(nil), p.Authors...)
		out.Tag(reference.FieldAuthors, reference.OriginEnriched)
	}
	if out.Identifier == "" && p.DOI != "" {
		out.Identifier = p.DOI
		out.Tag(reference.FieldIdentifier, reference.OriginEnriched)
	}
	return out
}

// Enrich looks up one record. A DOI lookup is preferred; when it fails and
// the record has a title, a bibliographic query is tried. On any failure
// the record is returned unchanged with the error.
func (e *Enricher) Enrich(ctx context.Context, rec reference.Record) (reference.Record, error) {
	if !Needed(rec) {
		return rec, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	p, err := e.fetch(ctx, rec)
	if err != nil {
		return rec, err
	}
	return Merge(rec, p), nil
}

func (e *Enricher) fetch(ctx context.Context, rec reference.Record) (*reference.Partial, error) {
	var firstErr error
	if isDOI(rec.Identifier) {
		p, err := e.lookup.ByDOI(ctx, rec.Identifier)
		if err == nil {
			return p, nil
		}
		firstErr = err
	}
	if rec.Title != "" {
		p, err := e.lookup.ByQuery(ctx, rec.Title, firstFamily(rec))
		if err == nil {
			return p, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func firstFamily(rec reference.Record) string {
	if len(rec.Authors) > 0 {
		return rec.Authors[0].Family
	}
	return ""
}

// flight is one in-progress DOI lookup shared by every record in the batch
// that carries the same DOI.
type flight struct {
	done    chan struct{}
	partial *reference.Partial
	err     error
}

// EnrichBatch enriches records concurrently, bounded by the parallel limit.
// Records sharing a DOI trigger exactly one lookup; the rest wait for its
// result. Output order matches input order and failed lookups leave their
// record unchanged.
func (e *Enricher) EnrichBatch(ctx context.Context, recs []reference.Record) []reference.Record {
	out := make([]reference.Record, len(recs))

	var (
		mu       sync.Mutex
		inflight = make(map[string]*flight)
	)

	var g errgroup.Group
	g.SetLimit(e.parallel)
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			out[i] = e.enrichShared(ctx, rec, &mu, inflight)
			return nil
		})
	}
	g.Wait() // workers never return errors; failures leave records as-is

	return out
}

func (e *Enricher) enrichShared(ctx context.Context, rec reference.Record, mu *sync.Mutex, inflight map[string]*flight) reference.Record {
	if !Needed(rec) {
		return rec
	}

	if !isDOI(rec.Identifier) {
		merged, err := e.Enrich(ctx, rec)
		if err != nil {
			return rec
		}
		return merged
	}

	doi := rec.Identifier
	mu.Lock()
	f, ok := inflight[doi]
	if !ok {
		f = &flight{done: make(chan struct{})}
		inflight[doi] = f
		mu.Unlock()

		fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
		f.partial, f.err = e.lookup.ByDOI(fetchCtx, doi)
		cancel()
		close(f.done)
	} else {
		mu.Unlock()
		select {
		case <-f.done:
		case <-ctx.Done():
			return rec
		}
	}

	if f.err != nil || f.partial == nil {
		return e.queryFallback(ctx, rec)
	}
	return Merge(rec, f.partial)
}

// queryFallback tries a bibliographic query after a failed DOI lookup.
func (e *Enricher) queryFallback(ctx context.Context, rec reference.Record) reference.Record {
	if rec.Title == "" {
		return rec
	}
	qctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	p, err := e.lookup.ByQuery(qctx, rec.Title, firstFamily(rec))
	if err != nil {
		return rec
	}
	return Merge(rec, p)
}
