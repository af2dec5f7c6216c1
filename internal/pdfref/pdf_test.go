package pdfref

import (
	"strings"
	"testing"
)

func TestReferencesSection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain references heading",
			text: "Introduction text.\n\nReferences\nSmith, J. (2020). A title. Nature, 1, 2-3.",
			want: "Smith, J. (2020). A title. Nature, 1, 2-3.",
		},
		{
			name: "numbered heading",
			text: "Body.\n\n7. References\nSmith, J. (2020). A title.",
			want: "Smith, J. (2020). A title.",
		},
		{
			name: "bibliography heading case insensitive",
			text: "Body.\n\nBIBLIOGRAPHY\nDoe, A. (2019). Another title.",
			want: "Doe, A. (2019). Another title.",
		},
		{
			name: "last heading wins",
			text: "See References below.\n\nReferences\nFirst mention is a TOC entry.\n\nReferences\nSmith, J. (2020). Real entry.",
			want: "Smith, J. (2020). Real entry.",
		},
		{
			name: "cut at appendix",
			text: "Body.\n\nReferences\nSmith, J. (2020). A title.\n\nAppendix\nExtra tables.",
			want: "Smith, J. (2020). A title.",
		},
		{
			name: "cut at acknowledgements",
			text: "Body.\n\nWorks Cited\nSmith, J. (2020). A title.\n\nAcknowledgements\nThanks.",
			want: "Smith, J. (2020). A title.",
		},
		{
			name: "no heading returns whole text",
			text: "  Smith, J. (2020). A title.  ",
			want: "Smith, J. (2020). A title.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReferencesSection(tt.text)
			if got != tt.want {
				t.Errorf("ReferencesSection()\n got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestReferencesSectionIgnoresInlineMentions(t *testing.T) {
	text := "The references in this work are listed at the end.\n\nReferences\nSmith, J. (2020). A title."
	got := ReferencesSection(text)
	if !strings.HasPrefix(got, "Smith, J.") {
		t.Errorf("got %q, inline mention must not match the heading", got)
	}
}
