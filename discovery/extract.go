package discovery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rawprouk/scrape/scraper"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ListingEntry is one article found on a listing page. A nil field means the
// element carrying it was absent.
type ListingEntry struct {
	Title   *string
	Summary *string
	Link    *string
}

// ExtractListing returns the entries of a listing page in document order.
// Links are made absolute against origin. A page without article elements
// yields an empty, non-nil slice.
func ExtractListing(doc *goquery.Document, config scraper.ListConfig, origin string) []ListingEntry {
	entries := []ListingEntry{}

	doc.Find(config.ArticleSelector).Each(func(_ int, article *goquery.Selection) {
		entry := ListingEntry{}

		heading := article.Find(config.TitleSelector).First()
		if heading.Length() > 0 {
			title := normalizeSpace(heading.Text())
			entry.Title = &title

			if href, ok := heading.Find(config.LinkSelector).First().Attr("href"); ok {
				if link, ok := resolveLink(origin, href); ok {
					entry.Link = &link
				}
			}
		}

		summary := article.Find(config.SummarySelector).First()
		if summary.Length() > 0 {
			text := normalizeSpace(summary.Text())
			entry.Summary = &text
		}

		entries = append(entries, entry)
	})

	return entries
}

// ExtractDetail returns the visible text of the first content container on a
// detail page: every text node trimmed, empty ones dropped, joined by
// newlines. It returns "" when the container is missing.
func ExtractDetail(doc *goquery.Document, config scraper.ArticleConfig) string {
	content := doc.Find(config.ContentSelector).First()
	if content.Length() == 0 {
		return ""
	}

	var parts []string
	for _, node := range content.Nodes {
		collectText(node, &parts)
	}

	return strings.Join(parts, "\n")
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(newlines.Replace(n.Data)); text != "" {
			*parts = append(*parts, text)
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Template:
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// resolveLink keeps the path and query of href and places them under origin,
// so the result always starts with the site origin. Links to another host
// are rejected.
func resolveLink(origin, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if ref.Host != "" && !sameHost(origin, ref.Host) {
		return "", false
	}

	path := ref.EscapedPath()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	link := strings.TrimRight(origin, "/") + path
	if ref.RawQuery != "" {
		link += "?" + ref.RawQuery
	}

	return link, true
}

func sameHost(origin, host string) bool {
	base, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(base.Host, host)
}

// newlines rewrites CR LF and lone CR as LF. The HTML tokenizer already does
// this for raw input but not for character references such as &#13;.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
