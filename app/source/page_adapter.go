package source

import (
	"bytes"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"newsraw/app/store"
)

// PageAdapter produces candidates by scanning anchor elements of an HTML
// listing page. Extraction is deliberately heuristic: anchors whose text is
// long enough to be a headline, with the description taken from the nearest
// list-item container. There is no accuracy guarantee against arbitrary
// markup.
type PageAdapter struct {
	minAnchorText int
}

func NewPageAdapter(minAnchorText int) *PageAdapter {
	return &PageAdapter{minAnchorText: minAnchorText}
}

// Parse extracts up to limit candidates from raw page data, in document
// order. The selector narrows the scanned region; when it matches nothing
// the whole document is scanned instead, which degrades recall but never
// fails.
func (a *PageAdapter) Parse(data []byte, src Descriptor, limit int) ([]store.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	region := doc.Selection
	if src.Selector != "" {
		if matched := doc.Find(src.Selector); matched.Length() > 0 {
			region = matched
		}
	}

	base, err := url.Parse(src.URL)
	if err != nil {
		return nil, err
	}

	candidates := make([]store.Candidate, 0, limit)
	region.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		link := resolveLink(base, href)
		if link == "" {
			return true
		}

		title := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(title) <= a.minAnchorText {
			return true
		}

		candidates = append(candidates, store.Candidate{
			Title:       title,
			Link:        link,
			Description: nearbyDescription(sel),
		})

		return len(candidates) < limit
	})

	return candidates, nil
}

func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}

// nearbyDescription looks for the first paragraph inside the anchor's
// closest list-item ancestor. Missing markup degrades to an empty
// description, never an error.
func nearbyDescription(sel *goquery.Selection) string {
	parent := sel.Closest("div, li, article")
	if parent.Length() == 0 {
		return ""
	}

	paragraph := parent.Find("p").First()
	if paragraph.Length() == 0 {
		return ""
	}

	return strings.Join(strings.Fields(paragraph.Text()), " ")
}
