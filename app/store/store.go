// Package store holds the bounded, durable, link-deduplicated article
// collection. Identity is the article link: sources may report the same
// story under different headlines, and titles are unstable across repeated
// extraction, so the link is the only usable key. The same story published
// at two different URLs stays as two articles; reconciling those is left to
// the view-time filter.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"
)

// SchemaVersion guards the durable state file against silent format drift.
const SchemaVersion = 1

const maxDescriptionLength = 200

// Article is one ingested news item. DiscoveryDate and Seq are frozen at
// first sighting and never change across repeated merges; the content
// fields may be refreshed by a later merge.
type Article struct {
	Link          string `json:"link"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Source        string `json:"source"`
	DiscoveryDate string `json:"discovery_date"`
	Seq           int64  `json:"seq"`
}

// Candidate is an article-like record produced by a source adapter,
// before it has an identity in the store.
type Candidate struct {
	Title       string
	Link        string
	Description string
}

type Store struct {
	path     string
	articles map[string]Article
}

type stateFile struct {
	Version  int                `json:"version"`
	Articles map[string]Article `json:"articles"`
}

// Load reads the durable state file. A missing file yields an empty store,
// not an error; anything else that prevents reading the history is fatal to
// the caller, since losing discovery sequence numbers is unrecoverable.
func Load(path string) (*Store, error) {
	s := &Store{
		path:     path,
		articles: make(map[string]Article),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state stateFile
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.Version > SchemaVersion {
		return nil, fmt.Errorf("state file schema version %d is newer than supported version %d", state.Version, SchemaVersion)
	}

	if state.Articles != nil {
		s.articles = state.Articles
	}

	return s, nil
}

// Save rewrites the entire durable representation. Whole-file overwrite is
// the only durability guarantee.
func (s *Store) Save() error {
	state := stateFile{
		Version:  SchemaVersion,
		Articles: s.articles,
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// Merge ingests one source's candidate batch. The candidate at position i
// gets Seq = runBase - i, so relative order within a source survives across
// runs; runBase is the run's wall clock in milliseconds, which dwarfs any
// per-source batch size, so later runs always sort above earlier ones.
// Re-merging a known link refreshes title, description and source but never
// touches DiscoveryDate or Seq. Returns the number of newly inserted
// articles.
func (s *Store) Merge(sourceName string, candidates []Candidate, date string, runBase int64) int {
	added := 0

	for i, c := range candidates {
		if c.Link == "" || c.Title == "" {
			continue
		}

		description := truncate(c.Description, maxDescriptionLength)

		existing, ok := s.articles[c.Link]
		if ok {
			existing.Title = c.Title
			existing.Description = description
			existing.Source = sourceName
			s.articles[c.Link] = existing
			continue
		}

		s.articles[c.Link] = Article{
			Link:          c.Link,
			Title:         c.Title,
			Description:   description,
			Source:        sourceName,
			DiscoveryDate: date,
			Seq:           runBase - int64(i),
		}
		added++
	}

	return added
}

// Cap evicts the oldest-discovered articles until the store holds at most
// maxSize. Ties on Seq are broken by link so eviction is reproducible.
// Returns the number of evicted articles.
func (s *Store) Cap(maxSize int) int {
	if maxSize < 0 || len(s.articles) <= maxSize {
		return 0
	}

	all := s.all()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Seq != all[j].Seq {
			return all[i].Seq < all[j].Seq
		}
		return all[i].Link < all[j].Link
	})

	evicted := len(all) - maxSize
	for _, a := range all[:evicted] {
		delete(s.articles, a.Link)
	}

	return evicted
}

// SnapshotLive returns the limit most recently discovered articles,
// newest first.
func (s *Store) SnapshotLive(limit int) []Article {
	all := s.all()
	sortNewestFirst(all)

	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}

	return all
}

// SnapshotByDate returns all articles discovered on the given calendar
// date, newest first.
func (s *Store) SnapshotByDate(date string) []Article {
	matched := make([]Article, 0)
	for _, a := range s.articles {
		if a.DiscoveryDate == date {
			matched = append(matched, a)
		}
	}
	sortNewestFirst(matched)

	return matched
}

// Get returns the stored article for a link, if present.
func (s *Store) Get(link string) (Article, bool) {
	a, ok := s.articles[link]
	return a, ok
}

func (s *Store) Len() int {
	return len(s.articles)
}

// Sources returns the distinct source names present in the store, sorted.
func (s *Store) Sources() []string {
	seen := make(map[string]bool)
	for _, a := range s.articles {
		seen[a.Source] = true
	}

	sources := make([]string, 0, len(seen))
	for name := range seen {
		sources = append(sources, name)
	}
	sort.Strings(sources)

	return sources
}

// Dates returns the distinct discovery dates present in the store, newest
// first.
func (s *Store) Dates() []string {
	seen := make(map[string]bool)
	for _, a := range s.articles {
		seen[a.DiscoveryDate] = true
	}

	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	return dates
}

func (s *Store) all() []Article {
	all := make([]Article, 0, len(s.articles))
	for _, a := range s.articles {
		all = append(all, a)
	}
	return all
}

func sortNewestFirst(articles []Article) {
	sort.Slice(articles, func(i, j int) bool {
		if articles[i].Seq != articles[j].Seq {
			return articles[i].Seq > articles[j].Seq
		}
		return articles[i].Link < articles[j].Link
	})
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
