// Package filter implements the view-time visibility pass over a rendered
// snapshot: source/date/scope predicates combined with a greedy
// near-duplicate grouping on title similarity. It is a pure function of the
// item set and the UI state, so the rendering layer can be swapped without
// touching the algorithm; the shipped pages embed a JavaScript
// transliteration of the same pass.
package filter

import "strings"

// DefaultSimilarityThreshold is the Jaccard similarity above which two
// titles are considered the same story.
const DefaultSimilarityThreshold = 0.6

type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeTitle       Scope = "title"
	ScopeDescription Scope = "description"
)

// Item is the rendered form of an article as the filter sees it. ID is the
// article link.
type Item struct {
	ID          string
	Title       string
	Description string
	Source      string
	Date        string
}

// UIState captures the interactive toggles. The zero value of ActiveDate
// means "all dates". A negative SimilarityThreshold falls back to the
// default; zero is a real threshold and groups any token overlap, matching
// what a rendered page with an embedded zero threshold does.
type UIState struct {
	Query               string
	Scope               Scope
	ActiveSources       map[string]bool
	ActiveDate          string
	GroupingEnabled     bool
	SimilarityThreshold float64
}

// Result reports, for one invocation, which items are visible, which were
// suppressed as near-duplicates (mapped to their representative), and which
// representatives carry at least one suppressed duplicate.
type Result struct {
	Visible      []string
	Suppressed   map[string]string
	HasDuplicate map[string]bool
}

// ComputeVisibility runs the full pass over items in render order
// (newest first). It never mutates items and carries no state between
// calls.
func ComputeVisibility(items []Item, state UIState) Result {
	result := Result{
		Visible:      make([]string, 0, len(items)),
		Suppressed:   make(map[string]string),
		HasDuplicate: make(map[string]bool),
	}

	threshold := state.SimilarityThreshold
	if threshold < 0 {
		threshold = DefaultSimilarityThreshold
	}

	var representatives []Item

	for _, item := range items {
		if !matches(item, state) {
			continue
		}

		if !state.GroupingEnabled {
			result.Visible = append(result.Visible, item.ID)
			continue
		}

		// Greedy single-pass grouping: the first-seen variant of a story
		// stays visible, later near-duplicates are hidden. Order-dependent
		// on purpose.
		suppressed := false
		for _, rep := range representatives {
			if Similarity(item.Title, rep.Title) > threshold {
				result.Suppressed[item.ID] = rep.ID
				result.HasDuplicate[rep.ID] = true
				suppressed = true
				break
			}
		}
		if suppressed {
			continue
		}

		representatives = append(representatives, item)
		result.Visible = append(result.Visible, item.ID)
	}

	return result
}

func matches(item Item, state UIState) bool {
	if state.ActiveSources != nil && !state.ActiveSources[item.Source] {
		return false
	}

	if state.ActiveDate != "" && state.ActiveDate != "all" && item.Date != state.ActiveDate {
		return false
	}

	query := strings.ToLower(state.Query)
	if query == "" {
		return true
	}

	switch state.Scope {
	case ScopeTitle:
		return strings.Contains(strings.ToLower(item.Title), query)
	case ScopeDescription:
		return strings.Contains(strings.ToLower(item.Description), query)
	default:
		return strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query)
	}
}

// Similarity is token-set Jaccard over max cardinality: the intersection
// size divided by the larger token set. Symmetric, 1 for identical titles.
func Similarity(a, b string) float64 {
	tokensA := tokenize(a)
	tokensB := tokenize(b)

	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 1
	}
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	shared := 0
	for token := range tokensA {
		if tokensB[token] {
			shared++
		}
	}

	larger := len(tokensA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}

	return float64(shared) / float64(larger)
}

func tokenize(title string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(title)) {
		tokens[word] = true
	}
	return tokens
}
