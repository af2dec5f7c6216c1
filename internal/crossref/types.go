package crossref

import (
	"strconv"
	"strings"

	"github.com/keller/citefmt/internal/reference"
)

// workResponse is the envelope of GET /works/{doi}.
type workResponse struct {
	Status  string  `json:"status"`
	Message message `json:"message"`
}

// queryResponse is the envelope of GET /works?query...
type queryResponse struct {
	Status  string `json:"status"`
	Message struct {
		Items []message `json:"items"`
	} `json:"message"`
}

// message is the subset of a CrossRef work record this tool consumes.
type message struct {
	DOI             string       `json:"DOI"`
	Type            string       `json:"type"`
	Title           []string     `json:"title"`
	ContainerTitle  []string     `json:"container-title"`
	Volume          string       `json:"volume"`
	Issue           string       `json:"issue"`
	Page            string       `json:"page"`
	Author          []wireAuthor `json:"author"`
	PublishedPrint  dateParts    `json:"published-print"`
	PublishedOnline dateParts    `json:"published-online"`
	Issued          dateParts    `json:"issued"`
}

type wireAuthor struct {
	Family string `json:"family"`
	Given  string `json:"given"`
	// Name carries organizational authors that have no family/given split.
	Name string `json:"name"`
}

type dateParts struct {
	DateParts [][]int `json:"date-parts"`
}

func (d dateParts) year() string {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return strconv.Itoa(d.DateParts[0][0])
	}
	return ""
}

// toPartial reduces a work record to the fields the merge step understands.
// Publication year prefers print over online over the issued date.
func (m *message) toPartial() *reference.Partial {
	p := &reference.Partial{
		Volume: m.Volume,
		Issue:  m.Issue,
		DOI:    m.DOI,
	}
	if len(m.Title) > 0 {
		p.Title = strings.TrimSpace(m.Title[0])
	}
	if len(m.ContainerTitle) > 0 {
		p.Container = strings.TrimSpace(m.ContainerTitle[0])
	}
	if m.Page != "" {
		p.Pages = strings.ReplaceAll(m.Page, "-", "–")
	}
	for _, y := range []string{m.PublishedPrint.year(), m.PublishedOnline.year(), m.Issued.year()} {
		if y != "" {
			p.Year = y
			break
		}
	}
	for _, a := range m.Author {
		switch {
		case a.Family != "":
			p.Authors = append(p.Authors, reference.Author{Family: a.Family, Given: a.Given})
		case a.Name != "":
			p.Authors = append(p.Authors, reference.Author{Family: a.Name})
		}
	}
	return p
}
