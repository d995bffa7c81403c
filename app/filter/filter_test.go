package filter

import "testing"

func testItems() []Item {
	return []Item{
		{ID: "u1", Title: "Tokyo flood warning issued today", Description: "Heavy rain across Kanto", Source: "Mainichi", Date: "2026-08-28"},
		{ID: "u2", Title: "Tokyo flood warning issued now", Description: "Evacuation advisories", Source: "Japan Today", Date: "2026-08-28"},
		{ID: "u3", Title: "Osaka castle reopens after renovation", Description: "Historic site welcomes visitors", Source: "Sora News", Date: "2026-08-27"},
	}
}

func allSources() map[string]bool {
	return map[string]bool{"Mainichi": true, "Japan Today": true, "Sora News": true}
}

func TestSimilarity_Symmetric(t *testing.T) {
	a := "Tokyo flood warning issued today"
	b := "Tokyo flood warning issued now"

	if Similarity(a, b) != Similarity(b, a) {
		t.Errorf("Similarity must be symmetric: %f != %f", Similarity(a, b), Similarity(b, a))
	}
}

func TestSimilarity_IdenticalTitles(t *testing.T) {
	a := "Tokyo flood warning issued today"
	if got := Similarity(a, a); got != 1 {
		t.Errorf("Similarity(a, a) = %f, expected 1", got)
	}
}

func TestSimilarity_TokenOverlap(t *testing.T) {
	// 4 shared tokens out of max(5, 5) = 0.8
	got := Similarity("Tokyo flood warning issued today", "Tokyo flood warning issued now")
	if got != 0.8 {
		t.Errorf("Expected similarity 0.8, got %f", got)
	}
}

func TestSimilarity_CaseInsensitive(t *testing.T) {
	if got := Similarity("Tokyo Flood", "tokyo flood"); got != 1 {
		t.Errorf("Expected case-insensitive similarity 1, got %f", got)
	}
}

func TestSimilarity_EmptyTitles(t *testing.T) {
	if got := Similarity("", ""); got != 1 {
		t.Errorf("Similarity of two empty titles is 1, got %f", got)
	}
	if got := Similarity("Tokyo flood", ""); got != 0 {
		t.Errorf("Similarity against an empty title is 0, got %f", got)
	}
}

func TestComputeVisibility_GroupingSuppressesNearDuplicate(t *testing.T) {
	result := ComputeVisibility(testItems(), UIState{
		Scope:           ScopeAll,
		ActiveSources:   allSources(),
		GroupingEnabled: true,
	})

	if len(result.Visible) != 2 || result.Visible[0] != "u1" || result.Visible[1] != "u3" {
		t.Errorf("Expected visible [u1 u3], got %v", result.Visible)
	}
	if rep, ok := result.Suppressed["u2"]; !ok || rep != "u1" {
		t.Errorf("Expected u2 suppressed with representative u1, got %v", result.Suppressed)
	}
	if !result.HasDuplicate["u1"] {
		t.Errorf("Representative u1 should be annotated as having a duplicate")
	}
	if result.HasDuplicate["u3"] {
		t.Errorf("u3 has no duplicate and must not be annotated")
	}
}

func TestComputeVisibility_GroupingDisabled(t *testing.T) {
	result := ComputeVisibility(testItems(), UIState{
		Scope:         ScopeAll,
		ActiveSources: allSources(),
	})

	if len(result.Visible) != 3 {
		t.Errorf("Expected all 3 items visible without grouping, got %v", result.Visible)
	}
	if len(result.Suppressed) != 0 {
		t.Errorf("Expected no suppressions without grouping, got %v", result.Suppressed)
	}
}

func TestComputeVisibility_SourceToggle(t *testing.T) {
	result := ComputeVisibility(testItems(), UIState{
		Scope:         ScopeAll,
		ActiveSources: map[string]bool{"Sora News": true},
	})

	if len(result.Visible) != 1 || result.Visible[0] != "u3" {
		t.Errorf("Expected only u3 visible, got %v", result.Visible)
	}
}

func TestComputeVisibility_DateFilter(t *testing.T) {
	result := ComputeVisibility(testItems(), UIState{
		Scope:         ScopeAll,
		ActiveSources: allSources(),
		ActiveDate:    "2026-08-27",
	})

	if len(result.Visible) != 1 || result.Visible[0] != "u3" {
		t.Errorf("Expected only u3 visible for 2026-08-27, got %v", result.Visible)
	}
}

func TestComputeVisibility_QueryScopes(t *testing.T) {
	items := testItems()

	// "evacuation" appears only in u2's description.
	result := ComputeVisibility(items, UIState{
		Query:         "EVACUATION",
		Scope:         ScopeTitle,
		ActiveSources: allSources(),
	})
	if len(result.Visible) != 0 {
		t.Errorf("Title scope must not match description text, got %v", result.Visible)
	}

	result = ComputeVisibility(items, UIState{
		Query:         "EVACUATION",
		Scope:         ScopeDescription,
		ActiveSources: allSources(),
	})
	if len(result.Visible) != 1 || result.Visible[0] != "u2" {
		t.Errorf("Description scope should match u2, got %v", result.Visible)
	}

	result = ComputeVisibility(items, UIState{
		Query:         "EVACUATION",
		Scope:         ScopeAll,
		ActiveSources: allSources(),
	})
	if len(result.Visible) != 1 || result.Visible[0] != "u2" {
		t.Errorf("Combined scope should match u2, got %v", result.Visible)
	}
}

func TestComputeVisibility_GroupingIsOrderDependent(t *testing.T) {
	items := testItems()
	reversed := []Item{items[2], items[1], items[0]}

	result := ComputeVisibility(reversed, UIState{
		Scope:           ScopeAll,
		ActiveSources:   allSources(),
		GroupingEnabled: true,
	})

	// With the order flipped, u2 is seen first and becomes the
	// representative instead of u1.
	if len(result.Visible) != 2 || result.Visible[0] != "u3" || result.Visible[1] != "u2" {
		t.Errorf("Expected visible [u3 u2], got %v", result.Visible)
	}
	if rep := result.Suppressed["u1"]; rep != "u2" {
		t.Errorf("Expected u1 suppressed by u2, got %q", rep)
	}
}

func TestComputeVisibility_ThresholdBoundary(t *testing.T) {
	// Similarity exactly at the threshold must not suppress; grouping
	// requires strictly greater.
	items := []Item{
		{ID: "a", Title: "alpha beta gamma delta epsilon", Source: "S", Date: "d"},
		{ID: "b", Title: "alpha beta gamma zeta eta", Source: "S", Date: "d"},
	}

	result := ComputeVisibility(items, UIState{
		Scope:               ScopeAll,
		ActiveSources:       map[string]bool{"S": true},
		GroupingEnabled:     true,
		SimilarityThreshold: 0.6,
	})

	if len(result.Visible) != 2 {
		t.Errorf("Similarity 0.6 equals the threshold and must not suppress, got %v", result.Visible)
	}
}

func TestComputeVisibility_ZeroThresholdGroupsAnyOverlap(t *testing.T) {
	// Zero is a real threshold, not "unset": any shared token groups. The
	// rendered pages embed the configured value verbatim, so the pass here
	// must agree with a page carrying threshold 0.
	items := []Item{
		{ID: "a", Title: "harbour cranes idle", Source: "S", Date: "d"},
		{ID: "b", Title: "harbour reopens fully", Source: "S", Date: "d"},
		{ID: "c", Title: "unrelated market report", Source: "S", Date: "d"},
	}

	result := ComputeVisibility(items, UIState{
		Scope:               ScopeAll,
		ActiveSources:       map[string]bool{"S": true},
		GroupingEnabled:     true,
		SimilarityThreshold: 0,
	})

	if len(result.Visible) != 2 || result.Visible[0] != "a" || result.Visible[1] != "c" {
		t.Errorf("Threshold 0 must group any token overlap, got %v", result.Visible)
	}
	if rep := result.Suppressed["b"]; rep != "a" {
		t.Errorf("Expected b suppressed by a at threshold 0, got %q", rep)
	}
}

func TestComputeVisibility_NegativeThresholdUsesDefault(t *testing.T) {
	result := ComputeVisibility(testItems(), UIState{
		Scope:               ScopeAll,
		ActiveSources:       allSources(),
		GroupingEnabled:     true,
		SimilarityThreshold: -1,
	})

	// 0.8-similar pair groups under the 0.6 default.
	if len(result.Visible) != 2 || result.Visible[0] != "u1" || result.Visible[1] != "u3" {
		t.Errorf("Negative threshold should fall back to the default, got %v", result.Visible)
	}
}

func TestComputeVisibility_DoesNotMutateInput(t *testing.T) {
	items := testItems()
	before := make([]Item, len(items))
	copy(before, items)

	ComputeVisibility(items, UIState{
		Scope:           ScopeAll,
		ActiveSources:   allSources(),
		GroupingEnabled: true,
	})

	for i := range items {
		if items[i] != before[i] {
			t.Errorf("Input item %d mutated: %+v != %+v", i, items[i], before[i])
		}
	}
}
