package style

import (
	"strings"

	"github.com/keller/citefmt/internal/reference"
)

// authorRules controls author-list assembly for one style.
type authorRules struct {
	invertAll  bool // every name "Family, Given"; otherwise only the first
	initials   bool // reduce given names to initials
	maxAuthors int  // list at most this many before truncating
	keepHead   int  // names kept when truncating
	keepTail   bool // keep the final name after an ellipsis
	finalSep   string
	etAlSep    string
}

var rulesFor = map[Style]authorRules{
	APA:     {invertAll: true, initials: true, maxAuthors: 20, keepHead: 19, keepTail: true, finalSep: ", & "},
	MLA:     {maxAuthors: 2, keepHead: 1, etAlSep: ", et al.", finalSep: ", and "},
	Chicago: {maxAuthors: 10, keepHead: 7, etAlSep: ", et al.", finalSep: ", and "},
	Harvard: {invertAll: true, initials: true, maxAuthors: 3, keepHead: 1, etAlSep: " et al.", finalSep: " and "},
}

// formatAuthors assembles the author list in citation order.
func formatAuthors(as []reference.Author, r authorRules) string {
	if len(as) == 0 {
		return ""
	}

	if len(as) > r.maxAuthors {
		head := make([]string, 0, r.keepHead)
		for i := 0; i < r.keepHead; i++ {
			head = append(head, formatName(as[i], i == 0 || r.invertAll, r.initials))
		}
		joined := strings.Join(head, ", ")
		if r.keepTail {
			last := formatName(as[len(as)-1], r.invertAll, r.initials)
			return joined + ", . . . " + last
		}
		return joined + r.etAlSep
	}

	names := make([]string, len(as))
	for i, a := range as {
		names[i] = formatName(a, i == 0 || r.invertAll, r.initials)
	}
	if len(names) == 1 {
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + r.finalSep + names[len(names)-1]
}

// formatName renders one author. Names without a given part (organizations)
// render as the family string alone.
func formatName(a reference.Author, inverted, initials bool) string {
	given := a.Given
	if initials {
		given = initialsOf(given)
	}
	if given == "" {
		return a.Family
	}
	if inverted {
		return a.Family + ", " + given
	}
	return given + " " + a.Family
}

// initialsOf reduces given names to dotted initials, keeping hyphenated
// pairs ("Jean-Paul" becomes "J.-P.").
func initialsOf(given string) string {
	var out []string
	for _, field := range strings.Fields(given) {
		var hyph []string
		for _, part := range strings.Split(field, "-") {
			part = strings.TrimSuffix(part, ".")
			if part == "" {
				continue
			}
			r := []rune(part)
			hyph = append(hyph, string(r[0])+".")
		}
		if len(hyph) > 0 {
			out = append(out, strings.Join(hyph, "-"))
		}
	}
	return strings.Join(out, " ")
}
