// Package pdfref pulls the references section out of a PDF so the text can
// be fed through the citation pipeline.
package pdfref

import (
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Headings that open a bibliography. Matched on their own line,
// case-insensitively, with an optional numbering prefix.
var referencesHeadingRe = regexp.MustCompile(`(?im)^\s*(?:\d+\.?\s+)?(references|bibliography|works cited|literature cited)\s*$`)

// Headings that commonly follow a bibliography and end it.
var trailingHeadingRe = regexp.MustCompile(`(?im)^\s*(?:\d+\.?\s+)?(appendix|appendices|supplementary material|acknowledg(e)?ments|about the authors?)\s*$`)

// ExtractText extracts plain text from up to maxPages pages of a PDF.
// Pages that fail to decode are skipped.
func ExtractText(filePath string, maxPages int) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// ExtractReferences extracts the references section of a PDF. When no
// bibliography heading is found it returns the whole text, so downstream
// extraction still gets a chance.
func ExtractReferences(filePath string) (string, error) {
	text, err := ExtractText(filePath, 0)
	if err != nil {
		return "", err
	}
	return ReferencesSection(text), nil
}

// ReferencesSection returns the span of text after the last bibliography
// heading, cut before any trailing back-matter heading. Text without a
// heading is returned unchanged.
func ReferencesSection(text string) string {
	locs := referencesHeadingRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return strings.TrimSpace(text)
	}

	// The last heading wins: earlier ones are usually TOC entries or
	// in-text mentions.
	section := text[locs[len(locs)-1][1]:]

	if loc := trailingHeadingRe.FindStringIndex(section); loc != nil {
		section = section[:loc[0]]
	}
	return strings.TrimSpace(section)
}
