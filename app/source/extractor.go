package source

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
)

// Extractor pulls a short description out of an article page for sources
// whose listings carry none.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Excerpt extracts a one-paragraph summary from raw article HTML. The page
// URL helps readability resolve relative references; a nil result is an
// error the caller may downgrade to an empty description.
func (e *Extractor) Excerpt(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid page URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	summary := article.Excerpt
	if summary == "" {
		summary = article.TextContent
	}

	summary = strings.Join(strings.Fields(summary), " ")
	if summary == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	return summary, nil
}
