package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"newsraw/app/normalize"
	"newsraw/app/source"
	"newsraw/app/store"
)

var _ TaskInterface = (*FetchSourceTask)(nil)

// FetchSourceTask collects one source's candidate batch: fetch, extract,
// normalize, threshold. A failing task contributes nothing for its source;
// other sources are unaffected.
type FetchSourceTask struct {
	Task
	Source         source.Descriptor
	client         *source.Client
	feedAdapter    *source.FeedAdapter
	pageAdapter    *source.PageAdapter
	extractor      *source.Extractor
	sourceLimit    int
	minTitleLength int

	candidates []store.Candidate
}

func NewFetchSourceTask(src source.Descriptor, client *source.Client,
	feedAdapter *source.FeedAdapter, pageAdapter *source.PageAdapter,
	extractor *source.Extractor, sourceLimit, minTitleLength int) *FetchSourceTask {
	return &FetchSourceTask{
		Task:           NewTask(TaskTypeFetchSource, src.Name),
		Source:         src,
		client:         client,
		feedAdapter:    feedAdapter,
		pageAdapter:    pageAdapter,
		extractor:      extractor,
		sourceLimit:    sourceLimit,
		minTitleLength: minTitleLength,
	}
}

func (t *FetchSourceTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	data, err := t.client.Get(ctx, t.Source.URL)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	var raw []store.Candidate
	switch t.Source.Kind {
	case source.KindFeed:
		raw, err = t.feedAdapter.Parse(data, t.sourceLimit)
	case source.KindPage:
		raw, err = t.pageAdapter.Parse(data, t.Source, t.sourceLimit)
	default:
		return fmt.Errorf("unknown source kind %q", t.Source.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to parse source: %w", err)
	}

	kept := make([]store.Candidate, 0, len(raw))
	for _, c := range raw {
		c.Title = normalize.CleanTitle(c.Title)
		if utf8.RuneCountInString(c.Title) < t.minTitleLength {
			continue
		}

		if c.Description == "" && t.Source.Extract {
			c.Description = t.enrichDescription(ctx, c.Link)
		}

		kept = append(kept, c)
	}

	t.candidates = kept

	slog.Info("Task completed",
		"type", "FetchSource",
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"raw", len(raw),
		"kept", len(kept))

	return nil
}

// Candidates returns the batch collected by a successful Execute, in
// source order.
func (t *FetchSourceTask) Candidates() []store.Candidate {
	return t.candidates
}

// enrichDescription fetches the article page itself and extracts an
// excerpt. Extraction ambiguity is never fatal: any failure degrades to an
// empty description.
func (t *FetchSourceTask) enrichDescription(ctx context.Context, link string) string {
	data, err := t.client.Get(ctx, link)
	if err != nil {
		slog.Debug("Description fetch failed", "source", t.SourceName, "link", link, "error", err)
		return ""
	}

	excerpt, err := t.extractor.Excerpt(data, link)
	if err != nil {
		slog.Debug("Description extraction failed", "source", t.SourceName, "link", link, "error", err)
		return ""
	}

	return excerpt
}
