package source

import (
	"bytes"
	"strings"

	"github.com/mmcdole/gofeed"

	"newsraw/app/store"
)

// FeedAdapter produces candidates from a structured RSS/Atom feed.
type FeedAdapter struct {
	gofeedParser *gofeed.Parser
}

func NewFeedAdapter() *FeedAdapter {
	return &FeedAdapter{
		gofeedParser: gofeed.NewParser(),
	}
}

// Parse extracts up to limit candidates from raw feed data, in feed order.
func (a *FeedAdapter) Parse(data []byte, limit int) ([]store.Candidate, error) {
	feed, err := a.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	candidates := make([]store.Candidate, 0, limit)
	for _, item := range feed.Items {
		if len(candidates) >= limit {
			break
		}
		if item.Link == "" {
			continue
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		candidates = append(candidates, store.Candidate{
			Title:       item.Title,
			Link:        item.Link,
			Description: stripHTML(description),
		})
	}

	return candidates, nil
}

// stripHTML drops markup from feed summaries, which routinely embed
// formatting tags, and collapses the remaining whitespace.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
