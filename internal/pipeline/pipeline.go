// Package pipeline wires extraction, enrichment, and rendering into the
// end-to-end citation flow.
package pipeline

import (
	"context"
	"time"

	"github.com/keller/citefmt/internal/enrich"
	"github.com/keller/citefmt/internal/extract"
	"github.com/keller/citefmt/internal/reference"
	"github.com/keller/citefmt/internal/style"
)

// Options control one pipeline run.
type Options struct {
	// Style selects the primary output style. Ignored when AllStyles is set.
	Style style.Style
	// AllStyles skips the single-style selection; every result still
	// carries all renderings either way.
	AllStyles bool
	// Enrich turns on metadata lookups for incomplete records.
	Enrich bool
	// MaxParallel bounds concurrent lookups. Zero means the enricher default.
	MaxParallel int
	// Timeout bounds one record's lookup. Zero means the enricher default.
	Timeout time.Duration
}

// Result is the outcome for one input citation.
type Result struct {
	Original     string            `json:"original"`
	Formatted    string            `json:"formatted,omitempty"`
	FormattedAll style.RenderedSet `json:"formatted_all"`
	Status       reference.Status  `json:"status"`
	Record       reference.Record  `json:"record"`
}

// Batch holds the results of one run, in input order.
type Batch struct {
	Count   int      `json:"count"`
	Results []Result `json:"results"`
}

// Pipeline runs raw text through extraction, optional enrichment, and
// rendering.
type Pipeline struct {
	lookup enrich.Lookup
}

// New creates a Pipeline. The lookup may be nil when enrichment is never
// requested.
func New(lk enrich.Lookup) *Pipeline {
	return &Pipeline{lookup: lk}
}

// Process runs the pipeline over raw citation text. The style is validated
// before any parsing or network work, so an unsupported style fails fast.
func (p *Pipeline) Process(ctx context.Context, raw string, opts Options) (*Batch, error) {
	if !opts.AllStyles {
		st, err := style.Parse(string(opts.Style))
		if err != nil {
			return nil, err
		}
		opts.Style = st
	}

	recs := extract.Extract(raw)

	if opts.Enrich && p.lookup != nil && len(recs) > 0 {
		e := enrich.New(p.lookup,
			enrich.WithParallel(opts.MaxParallel),
			enrich.WithTimeout(opts.Timeout),
		)
		recs = e.EnrichBatch(ctx, recs)
	}

	results := make([]Result, len(recs))
	for i, rec := range recs {
		rec.Status = finalStatus(rec)
		// Every style is rendered so callers can switch styles without
		// re-processing.
		res := Result{
			Original:     rec.Raw,
			FormattedAll: style.RenderAll(rec),
			Status:       rec.Status,
			Record:       rec,
		}
		if !opts.AllStyles {
			res.Formatted = res.FormattedAll[opts.Style]
		}
		results[i] = res
	}

	return &Batch{Count: len(results), Results: results}, nil
}

// finalStatus classifies a record after extraction and enrichment. A record
// that reached the complete threshold with help from a lookup is enriched;
// one that got there on parsing alone is complete; the rest failed.
func finalStatus(rec reference.Record) reference.Status {
	switch {
	case rec.Complete() && rec.HasEnriched():
		return reference.StatusEnriched
	case rec.Complete():
		return reference.StatusComplete
	default:
		return reference.StatusFailed
	}
}
