// Package normalize cleans raw titles scraped from the source sites.
// The sources decorate listing links with trailing metadata (dates, reading
// counters, relative-day markers) and parenthetical annotations that are not
// part of the headline.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// Patterns only ever occur as trailing metadata on the observed sources,
// so everything from the first match onwards is dropped.
var cutPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:19|20)\d{2}[年/.\-]\d{1,2}(?:[月/.\-]\d{1,2}日?)?`),
	regexp.MustCompile(`\d+(?:文字|characters?)`),
	regexp.MustCompile(`\d{1,2}(?:日前?|days?)`),
}

var bracketPattern = regexp.MustCompile(`\([^)]*\)|\[[^\]]*\]|【[^】]*】`)

// CleanTitle returns the headline with source-market noise removed. It is a
// pure, total function: unparseable input yields an empty string, and the
// caller discards candidates whose cleaned title comes back empty or short.
func CleanTitle(raw string) string {
	// Fold full-width digits and punctuation so the patterns below match
	// regardless of which width the source emitted.
	title := width.Fold.String(raw)

	for _, re := range cutPatterns {
		if loc := re.FindStringIndex(title); loc != nil {
			title = title[:loc[0]]
		}
	}

	title = bracketPattern.ReplaceAllString(title, " ")

	return strings.Join(strings.Fields(title), " ")
}
