// Package extract splits free-form citation text into candidates and pulls
// structured fields out of each one with tolerant pattern rules.
package extract

import (
	"regexp"
	"strings"

	"github.com/keller/citefmt/internal/reference"
)

// Candidate is one contiguous span of input believed to describe a single
// reference. Candidates are immutable and discarded after extraction.
type Candidate struct {
	Text  string
	Index int
}

var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

	// Sentence-ending period followed by an author-like "Family, I." token,
	// used to split run-on input that has no line structure.
	boundaryRe = regexp.MustCompile(`\.\s+[A-Z][A-Za-z'’-]+,\s*[A-Z]\.`)
)

// Split divides raw input into citation candidates: on blank lines first,
// then on single newlines, then on sentence boundaries followed by an
// author-like token. Order is preserved.
func Split(raw string) []Candidate {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	parts := blankLineRe.Split(trimmed, -1)
	if len(parts) == 1 && strings.Contains(trimmed, "\n") {
		parts = strings.Split(trimmed, "\n")
	}
	if len(parts) == 1 {
		parts = splitAtBoundaries(parts[0])
	}

	var cands []Candidate
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		cands = append(cands, Candidate{Text: p, Index: len(cands)})
	}
	return cands
}

// splitAtBoundaries cuts a single run-on line before each author-like token
// that follows a sentence-ending period.
func splitAtBoundaries(s string) []string {
	locs := boundaryRe.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return []string{s}
	}
	var parts []string
	start := 0
	for _, loc := range locs {
		// The period stays with the preceding candidate.
		parts = append(parts, s[start:loc[0]+1])
		start = loc[0] + 1
	}
	parts = append(parts, s[start:])
	return parts
}

// Extract splits raw text into candidates and extracts a record from each.
// It is pure: identical input always produces identical output, and every
// candidate yields exactly one record even when nothing could be parsed.
func Extract(raw string) []reference.Record {
	cands := Split(raw)
	recs := make([]reference.Record, len(cands))
	for i, c := range cands {
		recs[i] = FromCandidate(c)
	}
	return recs
}

// FromCandidate runs the rule table over a single candidate.
func FromCandidate(c Candidate) reference.Record {
	rec := reference.Record{Raw: c.Text, Index: c.Index}
	s := &scan{
		text:       c.Text,
		yearStart:  -1,
		yearEnd:    -1,
		authorsEnd: -1,
		titleEnd:   -1,
		volStart:   -1,
	}
	for _, r := range rules {
		r.apply(s, &rec)
	}
	return rec
}

// scan carries the working text and the match positions earlier rules leave
// behind for later ones. The identifier rule strips DOIs/URLs from the text
// so the remaining rules never trip on them.
type scan struct {
	text                 string
	yearStart, yearEnd   int
	authorsEnd, titleEnd int
	volStart             int
}

// rules run most specific first. Each rule is independent and tolerant:
// one rule finding nothing never stops the others.
var rules = []struct {
	name  string
	apply func(*scan, *reference.Record)
}{
	{"identifier", extractIdentifier},
	{"year", extractYear},
	{"authors", extractAuthors},
	{"volume", extractVolume},
	{"title", extractTitle},
	{"container", extractContainer},
}
