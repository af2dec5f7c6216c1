package extract

import (
	"reflect"
	"testing"

	"github.com/keller/citefmt/internal/reference"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "empty",
			raw:  "   \n\t  ",
			want: nil,
		},
		{
			name: "blank lines",
			raw:  "First citation.\n\nSecond citation.\n\n\nThird citation.",
			want: []string{"First citation.", "Second citation.", "Third citation."},
		},
		{
			name: "single newlines",
			raw:  "First citation.\nSecond citation.",
			want: []string{"First citation.", "Second citation."},
		},
		{
			name: "run-on line split at author boundary",
			raw:  "Smith, J. (2020). First title. Nature, 1, 2-3. Jones, K. (2019). Second title. Science, 4, 5-6.",
			want: []string{
				"Smith, J. (2020). First title. Nature, 1, 2-3.",
				"Jones, K. (2019). Second title. Science, 4, 5-6.",
			},
		},
		{
			name: "crlf input",
			raw:  "First.\r\n\r\nSecond.",
			want: []string{"First.", "Second."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cands := Split(tt.raw)
			if len(cands) != len(tt.want) {
				t.Fatalf("Split() returned %d candidates, want %d: %v", len(cands), len(tt.want), cands)
			}
			for i, c := range cands {
				if c.Text != tt.want[i] {
					t.Errorf("candidate %d = %q, want %q", i, c.Text, tt.want[i])
				}
				if c.Index != i {
					t.Errorf("candidate %d has Index %d", i, c.Index)
				}
			}
		})
	}
}

func TestFromCandidateAPA(t *testing.T) {
	raw := "Smith, J. (2020). The impact of climate change. Nature, 582(7812), 123-145. https://doi.org/10.1038/nature12345"
	rec := FromCandidate(Candidate{Text: raw})

	if got := rec.Identifier; got != "10.1038/nature12345" {
		t.Errorf("Identifier = %q", got)
	}
	if rec.Year != "2020" {
		t.Errorf("Year = %q", rec.Year)
	}
	wantAuthors := []reference.Author{{Family: "Smith", Given: "J."}}
	if !reflect.DeepEqual(rec.Authors, wantAuthors) {
		t.Errorf("Authors = %+v, want %+v", rec.Authors, wantAuthors)
	}
	if rec.Title != "The impact of climate change" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Container != "Nature" {
		t.Errorf("Container = %q", rec.Container)
	}
	if rec.Volume != "582" || rec.Issue != "7812" || rec.Pages != "123–145" {
		t.Errorf("Volume/Issue/Pages = %q/%q/%q", rec.Volume, rec.Issue, rec.Pages)
	}
	if !rec.Complete() {
		t.Error("record should meet the complete threshold")
	}
	for _, f := range []reference.Field{reference.FieldAuthors, reference.FieldYear, reference.FieldTitle} {
		if rec.Origin(f) != reference.OriginParsed {
			t.Errorf("Origin(%s) = %s, want parsed", f, rec.Origin(f))
		}
	}
}

func TestFromCandidateMLA(t *testing.T) {
	raw := `Smith, John. "The Impact of Climate Change." Nature, vol. 582, no. 7812, 2020, pp. 123-145.`
	rec := FromCandidate(Candidate{Text: raw})

	wantAuthors := []reference.Author{{Family: "Smith", Given: "John"}}
	if !reflect.DeepEqual(rec.Authors, wantAuthors) {
		t.Errorf("Authors = %+v, want %+v", rec.Authors, wantAuthors)
	}
	if rec.Title != "The Impact of Climate Change" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Container != "Nature" {
		t.Errorf("Container = %q", rec.Container)
	}
	if rec.Year != "2020" {
		t.Errorf("Year = %q", rec.Year)
	}
	if rec.Volume != "582" || rec.Issue != "7812" || rec.Pages != "123–145" {
		t.Errorf("Volume/Issue/Pages = %q/%q/%q", rec.Volume, rec.Issue, rec.Pages)
	}
}

func TestFromCandidateChicago(t *testing.T) {
	raw := `Smith, John. "The Impact of Climate Change." Nature 582 (2020): 123-145.`
	rec := FromCandidate(Candidate{Text: raw})

	if rec.Year != "2020" {
		t.Errorf("Year = %q", rec.Year)
	}
	if rec.Volume != "582" {
		t.Errorf("Volume = %q", rec.Volume)
	}
	if rec.Issue != "" {
		t.Errorf("Issue = %q, the parenthesized year is not an issue", rec.Issue)
	}
	if rec.Pages != "123–145" {
		t.Errorf("Pages = %q", rec.Pages)
	}
	if rec.Container != "Nature" {
		t.Errorf("Container = %q", rec.Container)
	}
}

func TestFromCandidateHarvard(t *testing.T) {
	raw := "Smith, J. (2020) 'The impact of climate change', Nature, 582(7812), pp. 123-145."
	rec := FromCandidate(Candidate{Text: raw})

	if rec.Title != "The impact of climate change" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Container != "Nature" {
		t.Errorf("Container = %q", rec.Container)
	}
	if rec.Volume != "582" || rec.Issue != "7812" || rec.Pages != "123–145" {
		t.Errorf("Volume/Issue/Pages = %q/%q/%q", rec.Volume, rec.Issue, rec.Pages)
	}
}

func TestFromCandidateMultipleAuthors(t *testing.T) {
	raw := "Smith, J., Doe, A. B., & Brown, C. (2020). Shared findings. Science, 367, 100-110."
	rec := FromCandidate(Candidate{Text: raw})

	want := []reference.Author{
		{Family: "Smith", Given: "J."},
		{Family: "Doe", Given: "A. B."},
		{Family: "Brown", Given: "C."},
	}
	if !reflect.DeepEqual(rec.Authors, want) {
		t.Errorf("Authors = %+v, want %+v", rec.Authors, want)
	}
	if rec.Volume != "367" || rec.Pages != "100–110" {
		t.Errorf("Volume/Pages = %q/%q", rec.Volume, rec.Pages)
	}
}

func TestFromCandidateParticleSurname(t *testing.T) {
	raw := "van der Berg, M. (2018). Coastal subsidence. Geology, 46, 10-14."
	rec := FromCandidate(Candidate{Text: raw})

	want := []reference.Author{{Family: "van der Berg", Given: "M."}}
	if !reflect.DeepEqual(rec.Authors, want) {
		t.Errorf("Authors = %+v, want %+v", rec.Authors, want)
	}
}

func TestFromCandidateOrganizationalAuthor(t *testing.T) {
	raw := "World Health Organization. (2021). Global health report. Geneva."
	rec := FromCandidate(Candidate{Text: raw})

	want := []reference.Author{{Family: "World Health Organization"}}
	if !reflect.DeepEqual(rec.Authors, want) {
		t.Errorf("Authors = %+v, want %+v", rec.Authors, want)
	}
	if rec.Year != "2021" {
		t.Errorf("Year = %q", rec.Year)
	}
	if rec.Title != "Global health report" {
		t.Errorf("Title = %q", rec.Title)
	}
}

func TestFromCandidateDOIVariants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"https resolver", "Smith, J. (2020). A title. https://doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"dx resolver", "Smith, J. (2020). A title. http://dx.doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"doi prefix", "Smith, J. (2020). A title. doi:10.1000/xyz123", "10.1000/xyz123"},
		{"bare doi", "Smith, J. (2020). A title. 10.1000/xyz123", "10.1000/xyz123"},
		{"trailing period stripped", "Smith, J. (2020). A title. https://doi.org/10.1000/xyz123.", "10.1000/xyz123"},
		{"plain url", "Smith, J. (2020). A title. https://example.org/paper", "https://example.org/paper"},
		{"none", "Smith, J. (2020). A title.", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := FromCandidate(Candidate{Text: tt.raw})
			if rec.Identifier != tt.want {
				t.Errorf("Identifier = %q, want %q", rec.Identifier, tt.want)
			}
		})
	}
}

func TestFromCandidateNoYear(t *testing.T) {
	raw := "Smith, J. The art of noticing. Journal of Attention, 12, 45-60."
	rec := FromCandidate(Candidate{Text: raw})

	if rec.Year != "" {
		t.Errorf("Year = %q, want empty", rec.Year)
	}
	if rec.Title != "The art of noticing" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Complete() {
		t.Error("record without a year must not be complete")
	}
}

func TestFromCandidateGibberish(t *testing.T) {
	rec := FromCandidate(Candidate{Text: "asdf qwerty lorem ipsum dolor"})

	if !rec.Empty() {
		t.Errorf("gibberish produced fields: %+v", rec)
	}
	if rec.Raw != "asdf qwerty lorem ipsum dolor" {
		t.Errorf("Raw = %q", rec.Raw)
	}
}

func TestExtractPreservesOrder(t *testing.T) {
	raw := "Alpha, A. (2001). First. X, 1, 1-2.\n\nBeta, B. (2002). Second. Y, 2, 3-4.\n\nGamma, C. (2003). Third. Z, 3, 5-6."
	recs := Extract(raw)
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, want := range []string{"Alpha", "Beta", "Gamma"} {
		if recs[i].Index != i {
			t.Errorf("record %d has Index %d", i, recs[i].Index)
		}
		if len(recs[i].Authors) == 0 || recs[i].Authors[0].Family != want {
			t.Errorf("record %d authors = %+v, want family %q", i, recs[i].Authors, want)
		}
	}
}

func TestNormalizePages(t *testing.T) {
	tests := []struct{ in, want string }{
		{"123-145", "123–145"},
		{"123 - 145", "123–145"},
		{"123–145", "123–145"},
		{"123—145", "123–145"},
		{"7", "7"},
	}
	for _, tt := range tests {
		if got := normalizePages(tt.in); got != tt.want {
			t.Errorf("normalizePages(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
