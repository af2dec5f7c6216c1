package style

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/keller/citefmt/internal/reference"
)

func articleRecord() reference.Record {
	return reference.Record{
		Raw:        "Smith, J. (2020). The impact of climate change. Nature, 582(7812), 123-145.",
		Authors:    []reference.Author{{Family: "Smith", Given: "J."}},
		Year:       "2020",
		Title:      "The impact of climate change",
		Container:  "Nature",
		Volume:     "582",
		Issue:      "7812",
		Pages:      "123–145",
		Identifier: "10.1038/nature12345",
	}
}

func TestRenderStyles(t *testing.T) {
	rec := articleRecord()
	tests := []struct {
		style Style
		want  string
	}{
		{APA, "Smith, J. (2020). The impact of climate change. *Nature*, 582(7812), 123–145. https://doi.org/10.1038/nature12345"},
		{MLA, `Smith, J. "The impact of climate change." *Nature*, vol. 582, no. 7812, 2020, pp. 123–145. https://doi.org/10.1038/nature12345`},
		{Chicago, `Smith, J. "The impact of climate change." *Nature* 582, no. 7812 (2020): 123–145. https://doi.org/10.1038/nature12345`},
		{Harvard, "Smith, J. (2020) 'The impact of climate change', *Nature*, 582(7812), pp. 123–145. doi: 10.1038/nature12345"},
	}
	for _, tt := range tests {
		t.Run(string(tt.style), func(t *testing.T) {
			got, err := Render(rec, tt.style)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render(%s)\n got %q\nwant %q", tt.style, got, tt.want)
			}
		})
	}
}

func TestRenderMissingYear(t *testing.T) {
	rec := reference.Record{
		Authors: []reference.Author{{Family: "Smith", Given: "J."}},
		Title:   "Untimed work",
	}
	got, err := Render(rec, APA)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := "Smith, J. (n.d.). Untimed work."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, err = Render(rec, MLA)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if want := `Smith, J. "Untimed work." n.d.`; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderEmptyRecordFallsBackToRaw(t *testing.T) {
	rec := reference.Record{Raw: "  completely unparseable noise  "}
	for _, st := range All() {
		got, err := Render(rec, st)
		if err != nil {
			t.Fatalf("Render(%s): %v", st, err)
		}
		if got != "completely unparseable noise" {
			t.Errorf("Render(%s) = %q, want raw fallback", st, got)
		}
	}
}

func TestRenderUnsupportedStyle(t *testing.T) {
	if _, err := Render(articleRecord(), Style("bibtex")); !errors.Is(err, ErrUnsupportedStyle) {
		t.Errorf("err = %v, want ErrUnsupportedStyle", err)
	}
}

func TestParse(t *testing.T) {
	for _, in := range []string{"apa", "APA", " Chicago "} {
		if _, err := Parse(in); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := Parse("ieee"); !errors.Is(err, ErrUnsupportedStyle) {
		t.Errorf("Parse(ieee) err = %v, want ErrUnsupportedStyle", err)
	}
}

func TestRenderAll(t *testing.T) {
	set := RenderAll(articleRecord())
	if len(set) != len(All()) {
		t.Fatalf("RenderAll returned %d entries", len(set))
	}
	for _, st := range All() {
		if set[st] == "" {
			t.Errorf("missing rendering for %s", st)
		}
	}
}

func TestFormatAuthorsTruncation(t *testing.T) {
	many := func(n int) []reference.Author {
		as := make([]reference.Author, n)
		for i := range as {
			as[i] = reference.Author{Family: fmt.Sprintf("Fam%d", i+1), Given: "A."}
		}
		return as
	}

	t.Run("mla three authors", func(t *testing.T) {
		got := formatAuthors(many(3), rulesFor[MLA])
		if want := "Fam1, A., et al."; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
	t.Run("mla two authors", func(t *testing.T) {
		got := formatAuthors([]reference.Author{
			{Family: "Smith", Given: "John"},
			{Family: "Doe", Given: "Jane"},
		}, rulesFor[MLA])
		if want := "Smith, John, and Jane Doe"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
	t.Run("harvard four authors", func(t *testing.T) {
		got := formatAuthors(many(4), rulesFor[Harvard])
		if want := "Fam1, A. et al."; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
	t.Run("harvard three authors", func(t *testing.T) {
		got := formatAuthors(many(3), rulesFor[Harvard])
		if want := "Fam1, A., Fam2, A. and Fam3, A."; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
	t.Run("chicago eleven authors", func(t *testing.T) {
		got := formatAuthors(many(11), rulesFor[Chicago])
		if !strings.HasPrefix(got, "Fam1, A., A. Fam2") || !strings.HasSuffix(got, "A. Fam7, et al.") {
			t.Errorf("got %q", got)
		}
	})
	t.Run("apa twenty one authors", func(t *testing.T) {
		got := formatAuthors(many(21), rulesFor[APA])
		if !strings.Contains(got, ", . . . Fam21, A.") {
			t.Errorf("got %q, want ellipsis before final author", got)
		}
		if strings.Contains(got, "Fam20") {
			t.Errorf("got %q, author 20 should be elided", got)
		}
	})
	t.Run("apa two authors", func(t *testing.T) {
		got := formatAuthors(many(2), rulesFor[APA])
		if want := "Fam1, A., & Fam2, A."; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})
}

func TestInitialsOf(t *testing.T) {
	tests := []struct{ in, want string }{
		{"J.", "J."},
		{"John", "J."},
		{"John Quincy", "J. Q."},
		{"A. B.", "A. B."},
		{"Jean-Paul", "J.-P."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := initialsOf(tt.in); got != tt.want {
			t.Errorf("initialsOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
