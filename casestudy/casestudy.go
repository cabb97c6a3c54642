package casestudy

// CaseStudy is one scraped article. Title, Summary and URL are nil when the
// listing entry did not carry them; FullText is empty when no content
// container was found or the entry had no link.
type CaseStudy struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	URL      *string `json:"url"`
	FullText string  `json:"full_text"`
}

// New builds a CaseStudy from optional listing fields and the detail text.
func New(title, summary, url *string, fullText string) CaseStudy {
	return CaseStudy{
		Title:    title,
		Summary:  summary,
		URL:      url,
		FullText: fullText,
	}
}

// Columns are the tabular headings, in order.
var Columns = []string{"Title", "Summary", "URL", "Full Text"}

// Row returns the study as cells in Columns order, nil fields rendered empty.
func (c CaseStudy) Row() []string {
	return []string{
		Deref(c.Title),
		Deref(c.Summary),
		Deref(c.URL),
		c.FullText,
	}
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to s.
func Ptr(s string) *string {
	return &s
}
