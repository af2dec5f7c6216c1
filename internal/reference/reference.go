// Package reference defines the canonical record model for parsed citations.
package reference

// Field names a record tracks provenance for.
type Field string

const (
	FieldAuthors    Field = "authors"
	FieldYear       Field = "year"
	FieldTitle      Field = "title"
	FieldContainer  Field = "container"
	FieldVolume     Field = "volume"
	FieldIssue      Field = "issue"
	FieldPages      Field = "pages"
	FieldIdentifier Field = "identifier"
)

// Origin records where a field value came from.
type Origin string

const (
	// OriginParsed marks a value extracted from the input text.
	OriginParsed Origin = "parsed"
	// OriginEnriched marks a value supplied by a metadata lookup.
	OriginEnriched Origin = "enriched"
)

// Status is the terminal outcome of the pipeline for one record.
type Status string

const (
	// StatusComplete means extraction alone produced authors, year, and title.
	StatusComplete Status = "complete"
	// StatusEnriched means a lookup filled at least one missing field and the
	// record now meets the complete threshold.
	StatusEnriched Status = "enriched"
	// StatusFailed means the record is below the complete threshold.
	StatusFailed Status = "failed"
)

// Record is the structured, style-agnostic representation of one citation.
// Author order is citation order, never alphabetized.
type Record struct {
	// Raw is the candidate text this record was extracted from.
	Raw   string `json:"raw"`
	Index int    `json:"index"`

	Authors   []Author `json:"authors,omitempty"`
	Year      string   `json:"year,omitempty"` // 4-digit, empty if unparseable
	Title     string   `json:"title,omitempty"`
	Container string   `json:"container,omitempty"` // journal or book title
	Volume    string   `json:"volume,omitempty"`
	Issue     string   `json:"issue,omitempty"`
	Pages     string   `json:"pages,omitempty"` // "start–end"

	// Identifier is a normalized DOI (bare, no resolver prefix) or a URL.
	Identifier string `json:"identifier,omitempty"`

	Origins map[Field]Origin `json:"origins,omitempty"`
	Status  Status           `json:"status,omitempty"`
}

// Partial is the reduced field set an enrichment lookup may return.
// Richer upstream responses are cut down to this shape before they reach
// the merge logic.
type Partial struct {
	Year      string   `json:"year,omitempty"`
	Container string   `json:"container,omitempty"`
	Volume    string   `json:"volume,omitempty"`
	Issue     string   `json:"issue,omitempty"`
	Pages     string   `json:"pages,omitempty"`
	Title     string   `json:"title,omitempty"`
	Authors   []Author `json:"authors,omitempty"`
	DOI       string   `json:"doi,omitempty"`
}

// Tag records the origin of a field.
func (r *Record) Tag(f Field, o Origin) {
	if r.Origins == nil {
		r.Origins = make(map[Field]Origin)
	}
	r.Origins[f] = o
}

// Origin returns the recorded origin of a field, defaulting to parsed.
func (r *Record) Origin(f Field) Origin {
	if o, ok := r.Origins[f]; ok {
		return o
	}
	return OriginParsed
}

// HasEnriched reports whether any field was filled by enrichment.
func (r *Record) HasEnriched() bool {
	for _, o := range r.Origins {
		if o == OriginEnriched {
			return true
		}
	}
	return false
}

// Complete reports whether the record meets the complete threshold:
// at least one author, a year, and a title.
func (r *Record) Complete() bool {
	return len(r.Authors) > 0 && r.Year != "" && r.Title != ""
}

// Empty reports whether extraction found neither a title nor an author.
func (r *Record) Empty() bool {
	return len(r.Authors) == 0 && r.Title == ""
}

// Clone returns a deep copy of the record. Enrichment works on clones so
// the caller's record is never mutated.
func (r *Record) Clone() Record {
	out := *r
	if r.Authors != nil {
		out.Authors = make([]Author, len(r.Authors))
		copy(out.Authors, r.Authors)
	}
	if r.Origins != nil {
		out.Origins = make(map[Field]Origin, len(r.Origins))
		for k, v := range r.Origins {
			out.Origins[k] = v
		}
	}
	return out
}
