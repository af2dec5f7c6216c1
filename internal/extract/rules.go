package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/keller/citefmt/internal/reference"
)

var (
	// DOI pattern: 10.XXXX/... where XXXX is 4-9 digits.
	doiRe = regexp.MustCompile(`10\.\d{4,9}/[^\s<>"{}|\\^~\[\]` + "`" + `]+`)
	urlRe = regexp.MustCompile(`https?://\S+`)

	doiPrefixReplacer = strings.NewReplacer(
		"https://doi.org/", "",
		"http://doi.org/", "",
		"https://dx.doi.org/", "",
		"http://dx.doi.org/", "",
		"doi:", "",
		"DOI:", "",
	)

	parenYearRe = regexp.MustCompile(`\((19\d{2}|20\d{2})[a-z]?\)`)
	bareYearRe  = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

	// Initials following a comma: the ", J." in "Smith, J.", ", A. B.", ", J.-P.".
	initialsAfterCommaRe = regexp.MustCompile(`,\s*([A-Z]\.(?:\s*-?[A-Z]\.)*)`)
	famGivenRe           = regexp.MustCompile(`^([^,]+),\s*(.+)$`)
	etAlRe               = regexp.MustCompile(`(?i)\bet\s+al\.?`)
	wordAndRe            = regexp.MustCompile(`\s+(?i:and)\s+`)

	// "582(7812), 123-145" and the Chicago variant "582 (2020): 123-145".
	volIssuePagesRe = regexp.MustCompile(`\b(\d{1,4})\s*\((\d{1,4}[A-Za-z]?)\)\s*[,:]?\s*(?:pp?\.\s*)?(\d+\s*[-–—]\s*\d+|\d+)`)
	// "582, 123-145" (volume, page range).
	volPagesRe   = regexp.MustCompile(`\b(\d{1,4})\s*,\s*(?:pp?\.\s*)?(\d+\s*[-–—]\s*\d+)`)
	volWordRe    = regexp.MustCompile(`(?i)\bvol(?:ume)?\.?\s*(\d+)`)
	issueWordRe  = regexp.MustCompile(`(?i)\bno\.?\s*(\d+)`)
	pagesWordRe  = regexp.MustCompile(`(?i)\bpp?\.\s*(\d+\s*[-–—]\s*\d+|\d+)`)
	quoteTitleRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|'([^']{2,})',`)
	italicRe     = regexp.MustCompile(`\*([^*]+)\*|_([^_]+)_`)

	hasLetterRe = regexp.MustCompile(`[A-Za-z]`)
)

// extractIdentifier finds a DOI (preferred) or URL, normalizes it, and
// strips it from the working text.
func extractIdentifier(s *scan, rec *reference.Record) {
	cleaned := doiPrefixReplacer.Replace(s.text)
	if m := doiRe.FindString(cleaned); m != "" {
		rec.Identifier = strings.TrimRight(m, ".,;:)")
	} else if m := urlRe.FindString(s.text); m != "" {
		rec.Identifier = strings.TrimRight(m, ".,;)")
	}
	if rec.Identifier == "" {
		return
	}
	rec.Tag(reference.FieldIdentifier, reference.OriginParsed)

	text := urlRe.ReplaceAllString(s.text, "")
	text = doiRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	for _, suffix := range []string{"doi:", "DOI:", "doi", "Available at:"} {
		text = strings.TrimSpace(strings.TrimSuffix(text, suffix))
	}
	s.text = text
}

// extractYear prefers a parenthesized year, falling back to any bare
// 1900-2099 token.
func extractYear(s *scan, rec *reference.Record) {
	if m := parenYearRe.FindStringSubmatchIndex(s.text); m != nil {
		rec.Year = s.text[m[2]:m[3]]
		s.yearStart, s.yearEnd = m[0], m[1]
	} else if m := bareYearRe.FindStringIndex(s.text); m != nil {
		rec.Year = s.text[m[0]:m[1]]
		s.yearStart, s.yearEnd = m[0], m[1]
	}
	if rec.Year != "" {
		rec.Tag(reference.FieldYear, reference.OriginParsed)
	}
}

// extractAuthors parses the author list from the span before the year
// (or before the first quoted title / sentence period when there is none).
func extractAuthors(s *scan, rec *reference.Record) {
	end := len(s.text)
	if s.yearStart >= 0 && s.yearStart < end {
		end = s.yearStart
	}
	seg := s.text[:end]
	if i := strings.IndexAny(seg, "\"“"); i >= 0 {
		seg = seg[:i]
	}
	if i := sentencePeriodIdx(seg); i >= 0 {
		seg = seg[:i+1]
	}

	authors, consumed := parseAuthors(seg)
	if len(authors) == 0 {
		return
	}
	rec.Authors = authors
	rec.Tag(reference.FieldAuthors, reference.OriginParsed)
	s.authorsEnd = consumed
}

// sentencePeriodIdx returns the index of the first period that ends a
// lowercase word, so periods after initials like "J." are skipped.
func sentencePeriodIdx(seg string) int {
	for i := 1; i < len(seg); i++ {
		if seg[i] == '.' && seg[i-1] >= 'a' && seg[i-1] <= 'z' {
			return i
		}
	}
	return -1
}

// parseAuthors turns an author segment into ordered authors. It returns the
// authors and the index just past the span it consumed.
//
// The primary form is comma/ampersand/"and"-separated surname-initial pairs.
// Surnames are whatever whitespace-delimited tokens sit adjacent to the
// comma, which keeps particles ("van der Berg") intact without assuming a
// token count.
func parseAuthors(seg string) ([]reference.Author, int) {
	trimmed := strings.TrimSpace(seg)
	if trimmed == "" {
		return nil, 0
	}

	if matches := initialsAfterCommaRe.FindAllStringSubmatchIndex(seg, -1); len(matches) > 0 {
		var authors []reference.Author
		prev := 0
		for _, m := range matches {
			family := cleanFamily(seg[prev:m[0]])
			given := strings.TrimSpace(seg[m[2]:m[3]])
			if family != "" {
				authors = append(authors, reference.Author{Family: family, Given: given})
			}
			prev = m[1]
		}
		if len(authors) > 0 {
			return authors, matches[len(matches)-1][1]
		}
	}

	// No surname-initial pairs: spelled-out or organizational names.
	rest := etAlRe.ReplaceAllString(trimmed, "")
	rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "."))
	if rest == "" || !startsUpper(rest) || len(rest) > 120 {
		return nil, 0
	}
	if !strings.ContainsAny(rest, ",&") && !wordAndRe.MatchString(rest) {
		// A single name with no separators: an organizational author.
		return []reference.Author{{Family: rest}}, len(seg)
	}
	var authors []reference.Author
	for _, unit := range splitNameUnits(rest) {
		if a, ok := parseNameUnit(unit); ok {
			authors = append(authors, a)
		}
	}
	return authors, len(seg)
}

// cleanFamily strips list separators and conjunctions from a surname span.
func cleanFamily(s string) string {
	s = strings.TrimSpace(s)
	for {
		prev := s
		s = strings.TrimSpace(strings.TrimLeft(s, ",.&;"))
		lower := strings.ToLower(s)
		if strings.HasPrefix(lower, "and ") {
			s = strings.TrimSpace(s[4:])
		}
		if strings.HasPrefix(lower, "et al") {
			return ""
		}
		if s == prev {
			break
		}
	}
	if s == "" || len(s) > 60 || !hasLetterRe.MatchString(s) {
		return ""
	}
	return s
}

// splitNameUnits splits an author segment on "and", "&", and ";".
func splitNameUnits(s string) []string {
	s = strings.ReplaceAll(s, "&", "\x00")
	s = wordAndRe.ReplaceAllString(s, "\x00")
	s = strings.ReplaceAll(s, ";", "\x00")
	return strings.Split(s, "\x00")
}

// parseNameUnit parses one spelled-out name: "Family, Given" when inverted,
// otherwise "Given Family" with the last token as the family name.
func parseNameUnit(unit string) (reference.Author, bool) {
	unit = strings.TrimSpace(strings.Trim(strings.TrimSpace(unit), ",."))
	if unit == "" || !startsUpper(unit) {
		return reference.Author{}, false
	}
	if m := famGivenRe.FindStringSubmatch(unit); m != nil {
		given := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(m[2]), "."))
		return reference.Author{Family: strings.TrimSpace(m[1]), Given: given}, true
	}
	tokens := strings.Fields(unit)
	if len(tokens) >= 2 && len(tokens) <= 4 && allStartUpper(tokens) {
		return reference.Author{
			Family: tokens[len(tokens)-1],
			Given:  strings.Join(tokens[:len(tokens)-1], " "),
		}, true
	}
	return reference.Author{Family: unit}, true
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

func allStartUpper(tokens []string) bool {
	for _, t := range tokens {
		if !startsUpper(t) {
			return false
		}
	}
	return true
}

// extractVolume finds volume/issue/pages in their compact form
// ("582(7812), 123-145"), the worded form ("vol. 5, no. 2, pp. 10-20"),
// or the volume-pages form ("582, 123-145").
func extractVolume(s *scan, rec *reference.Record) {
	text := s.text
	if m := volIssuePagesRe.FindStringSubmatchIndex(text); m != nil {
		issue := text[m[4]:m[5]]
		if issue == rec.Year {
			// Chicago form "582 (2020): 123-145": the parenthetical is the year.
			issue = ""
		}
		rec.Volume = text[m[2]:m[3]]
		rec.Tag(reference.FieldVolume, reference.OriginParsed)
		if issue != "" {
			rec.Issue = issue
			rec.Tag(reference.FieldIssue, reference.OriginParsed)
		}
		rec.Pages = normalizePages(text[m[6]:m[7]])
		rec.Tag(reference.FieldPages, reference.OriginParsed)
		s.volStart = m[0]
		return
	}

	if m := volWordRe.FindStringSubmatchIndex(text); m != nil {
		rec.Volume = text[m[2]:m[3]]
		rec.Tag(reference.FieldVolume, reference.OriginParsed)
		s.volStart = m[0]
	}
	if m := issueWordRe.FindStringSubmatch(text); m != nil {
		rec.Issue = m[1]
		rec.Tag(reference.FieldIssue, reference.OriginParsed)
	}
	if m := pagesWordRe.FindStringSubmatch(text); m != nil {
		rec.Pages = normalizePages(m[1])
		rec.Tag(reference.FieldPages, reference.OriginParsed)
	}
	if rec.Volume == "" && rec.Pages == "" {
		region := text
		offset := 0
		if s.yearEnd >= 0 {
			region, offset = text[s.yearEnd:], s.yearEnd
		}
		if m := volPagesRe.FindStringSubmatchIndex(region); m != nil {
			rec.Volume = region[m[2]:m[3]]
			rec.Pages = normalizePages(region[m[4]:m[5]])
			rec.Tag(reference.FieldVolume, reference.OriginParsed)
			rec.Tag(reference.FieldPages, reference.OriginParsed)
			s.volStart = offset + m[0]
		}
	}
}

// normalizePages renders a page range as "start–end" with an en dash.
func normalizePages(p string) string {
	p = strings.ReplaceAll(p, " ", "")
	p = strings.ReplaceAll(p, "—", "–")
	p = strings.ReplaceAll(p, "-", "–")
	return p
}

// extractTitle takes a quoted run when present, otherwise the first
// sentence after the year (or after the author list when there is no year).
func extractTitle(s *scan, rec *reference.Record) {
	text := s.text
	if m := quoteTitleRe.FindStringSubmatchIndex(text); m != nil {
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				rec.Title = tidyTitle(text[m[2*g] : m[2*g+1]])
				break
			}
		}
		if rec.Title != "" {
			rec.Tag(reference.FieldTitle, reference.OriginParsed)
			s.titleEnd = m[1]
		}
		return
	}

	start := -1
	if s.yearEnd >= 0 {
		start = s.yearEnd
	} else if s.authorsEnd > 0 {
		start = s.authorsEnd
	}
	if start < 0 || start >= len(text) {
		return
	}
	after := text[start:]
	lead := len(after) - len(strings.TrimLeft(after, ").,:; "))
	body := after[lead:]
	end := sentenceEnd(body)
	title := tidyTitle(body[:end])
	if title == "" {
		return
	}
	rec.Title = title
	rec.Tag(reference.FieldTitle, reference.OriginParsed)
	s.titleEnd = start + lead + end
}

// sentenceEnd returns the index of the first sentence-ending period in s,
// or len(s) if there is none.
func sentenceEnd(s string) int {
	if i := strings.Index(s, ". "); i >= 0 {
		return i
	}
	if strings.HasSuffix(s, ".") {
		return len(s) - 1
	}
	return len(s)
}

func tidyTitle(t string) string {
	t = strings.TrimSpace(t)
	t = strings.Trim(t, "*_")
	return strings.TrimRight(strings.TrimSpace(t), ".,;")
}

// extractContainer takes an italic-marked run, otherwise the span between
// the title and the volume tokens.
func extractContainer(s *scan, rec *reference.Record) {
	text := s.text
	start := 0
	if s.titleEnd >= 0 {
		start = s.titleEnd
	}
	if start > len(text) {
		start = len(text)
	}
	region := text[start:]
	if s.volStart >= start {
		region = text[start:s.volStart]
	}

	if m := italicRe.FindStringSubmatch(region); m != nil {
		c := m[1]
		if c == "" {
			c = m[2]
		}
		c = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(c), ".,"))
		if c != "" {
			rec.Container = c
			rec.Tag(reference.FieldContainer, reference.OriginParsed)
		}
		return
	}

	// Bare run between title and volume, only once a title anchors it.
	if s.titleEnd < 0 {
		return
	}
	c := strings.TrimSpace(strings.Trim(strings.TrimSpace(region), "*_,.:;()"))
	if c == "" || len(c) > 80 || !startsUpper(c) || !hasLetterRe.MatchString(c) {
		return
	}
	rec.Container = c
	rec.Tag(reference.FieldContainer, reference.OriginParsed)
}
