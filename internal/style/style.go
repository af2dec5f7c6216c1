// Package style renders structured citation records into the supported
// bibliography styles. Containers are wrapped in *asterisks* to mark
// italics in plain text.
package style

import (
	"errors"
	"fmt"
	"strings"

	"github.com/keller/citefmt/internal/reference"
)

// Style names a supported citation style.
type Style string

const (
	APA     Style = "apa"     // APA 7th edition
	MLA     Style = "mla"     // MLA 9th edition
	Chicago Style = "chicago" // Chicago 17th edition, notes and bibliography
	Harvard Style = "harvard"
)

// ErrUnsupportedStyle reports a style name outside the supported set.
var ErrUnsupportedStyle = errors.New("unsupported citation style")

// All returns the supported styles in display order.
func All() []Style {
	return []Style{APA, MLA, Chicago, Harvard}
}

// Parse normalizes a user-supplied style name.
func Parse(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case APA, MLA, Chicago, Harvard:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedStyle, s)
}

// RenderedSet holds one rendering per style.
type RenderedSet map[Style]string

// Render formats a record in the given style. Records with neither an
// author nor a title fall back to their raw input text unchanged.
func Render(rec reference.Record, st Style) (string, error) {
	switch st {
	case APA, MLA, Chicago, Harvard:
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedStyle, st)
	}
	if rec.Empty() {
		return strings.TrimSpace(rec.Raw), nil
	}
	switch st {
	case APA:
		return renderAPA(rec), nil
	case MLA:
		return renderMLA(rec), nil
	case Chicago:
		return renderChicago(rec), nil
	default:
		return renderHarvard(rec), nil
	}
}

// RenderAll formats a record in every supported style.
func RenderAll(rec reference.Record) RenderedSet {
	out := make(RenderedSet, len(All()))
	for _, st := range All() {
		s, _ := Render(rec, st)
		out[st] = s
	}
	return out
}

// renderAPA: Author, A. A. (Year). Title. *Journal*, volume(issue), pages. https://doi.org/...
func renderAPA(rec reference.Record) string {
	var parts []string
	if a := formatAuthors(rec.Authors, rulesFor[APA]); a != "" {
		parts = append(parts, ensurePeriod(a))
	}
	parts = append(parts, "("+orND(rec.Year)+").")
	if rec.Title != "" {
		parts = append(parts, ensurePeriod(rec.Title))
	}
	if rec.Container != "" {
		jp := "*" + rec.Container + "*"
		if rec.Volume != "" {
			jp += ", " + rec.Volume
		}
		if rec.Issue != "" {
			jp += "(" + rec.Issue + ")"
		}
		if rec.Pages != "" {
			jp += ", " + rec.Pages
		}
		parts = append(parts, jp+".")
	}
	if link := identifierLink(rec.Identifier); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, " ")
}

// renderMLA: Author Last, First. "Title." *Journal*, vol. #, no. #, Year, pp. #-#.
func renderMLA(rec reference.Record) string {
	var parts []string
	if a := formatAuthors(rec.Authors, rulesFor[MLA]); a != "" {
		parts = append(parts, ensurePeriod(a))
	}
	if rec.Title != "" {
		parts = append(parts, `"`+rec.Title+`."`)
	}
	if rec.Container != "" {
		jp := "*" + rec.Container + "*"
		if rec.Volume != "" {
			jp += ", vol. " + rec.Volume
		}
		if rec.Issue != "" {
			jp += ", no. " + rec.Issue
		}
		parts = append(parts, jp+",")
	}
	parts = append(parts, orND(rec.Year)+",")
	if rec.Pages != "" {
		parts = append(parts, "pp. "+rec.Pages+".")
	} else {
		fixTrailingComma(parts)
	}
	if link := identifierLink(rec.Identifier); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, " ")
}

// renderChicago: Author Last, First. "Title." *Journal* volume, no. issue (Year): pages.
func renderChicago(rec reference.Record) string {
	var parts []string
	if a := formatAuthors(rec.Authors, rulesFor[Chicago]); a != "" {
		parts = append(parts, ensurePeriod(a))
	}
	if rec.Title != "" {
		parts = append(parts, `"`+rec.Title+`."`)
	}
	if rec.Container != "" {
		jp := "*" + rec.Container + "*"
		if rec.Volume != "" {
			jp += " " + rec.Volume
		}
		if rec.Issue != "" {
			jp += ", no. " + rec.Issue
		}
		parts = append(parts, jp)
	}
	yp := "(" + orND(rec.Year) + ")"
	if rec.Pages != "" {
		yp += ": " + rec.Pages + "."
	} else {
		yp += "."
	}
	parts = append(parts, yp)
	if link := identifierLink(rec.Identifier); link != "" {
		parts = append(parts, link)
	}
	return strings.Join(parts, " ")
}

// renderHarvard: Author, A.A. (Year) 'Title', *Journal*, volume(issue), pp. pages.
func renderHarvard(rec reference.Record) string {
	var parts []string
	if a := formatAuthors(rec.Authors, rulesFor[Harvard]); a != "" {
		parts = append(parts, a)
	}
	parts = append(parts, "("+orND(rec.Year)+")")
	if rec.Title != "" {
		parts = append(parts, "'"+rec.Title+"',")
	}
	if rec.Container != "" {
		jp := "*" + rec.Container + "*"
		if rec.Volume != "" {
			jp += ", " + rec.Volume
		}
		if rec.Issue != "" {
			jp += "(" + rec.Issue + ")"
		}
		parts = append(parts, jp+",")
	}
	if rec.Pages != "" {
		parts = append(parts, "pp. "+rec.Pages+".")
	} else {
		fixTrailingComma(parts)
	}
	if rec.Identifier != "" {
		if isDOI(rec.Identifier) {
			parts = append(parts, "doi: "+rec.Identifier)
		} else {
			parts = append(parts, "Available at: "+rec.Identifier)
		}
	}
	return strings.Join(parts, " ")
}

func orND(year string) string {
	if year == "" {
		return "n.d."
	}
	return year
}

func ensurePeriod(s string) string {
	if strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}

// fixTrailingComma turns a trailing comma on the last part into a period.
func fixTrailingComma(parts []string) {
	if n := len(parts); n > 0 && strings.HasSuffix(parts[n-1], ",") {
		parts[n-1] = ensurePeriod(strings.TrimSuffix(parts[n-1], ","))
	}
}

func isDOI(id string) bool {
	return strings.HasPrefix(id, "10.")
}

// identifierLink renders a DOI as a resolver URL and passes URLs through.
func identifierLink(id string) string {
	if id == "" {
		return ""
	}
	if isDOI(id) {
		return "https://doi.org/" + id
	}
	return id
}
