package tasks

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newsraw/app/source"
	"newsraw/app/store"
)

// Result is one source's contribution to a run. Err is set when the source
// failed after all retries; its candidate batch is then empty.
type Result struct {
	Source     source.Descriptor
	Candidates []store.Candidate
	Err        error
}

// Runner executes one ingestion batch: every source is fetched by a bounded
// worker pool, and results come back indexed by descriptor order so the
// caller can merge them serially. Cross-source fetch order is
// non-deterministic; within a source, candidate order is preserved.
type Runner struct {
	client         *source.Client
	feedAdapter    *source.FeedAdapter
	pageAdapter    *source.PageAdapter
	extractor      *source.Extractor
	workerCount    int
	sourceLimit    int
	minTitleLength int
}

func NewRunner(client *source.Client, workerCount, sourceLimit, minTitleLength, minAnchorText int) *Runner {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Runner{
		client:         client,
		feedAdapter:    source.NewFeedAdapter(),
		pageAdapter:    source.NewPageAdapter(minAnchorText),
		extractor:      source.NewExtractor(),
		workerCount:    workerCount,
		sourceLimit:    sourceLimit,
		minTitleLength: minTitleLength,
	}
}

func (r *Runner) Run(ctx context.Context, sources []source.Descriptor) []Result {
	results := make([]Result, len(sources))

	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < r.workerCount; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = r.runTask(ctx, workerID, sources[idx])
			}
		}(w)
	}

	for i := range sources {
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i] = Result{Source: sources[i], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

func (r *Runner) runTask(ctx context.Context, workerID int, src source.Descriptor) Result {
	task := NewFetchSourceTask(src, r.client, r.feedAdapter, r.pageAdapter,
		r.extractor, r.sourceLimit, r.minTitleLength)
	task.Start()

	for {
		err := task.Execute(ctx)
		if err == nil {
			return Result{Source: src, Candidates: task.Candidates()}
		}

		slog.Error("Worker task execution failed",
			"worker_id", workerID,
			"type", string(task.GetType()),
			"id", task.GetID(),
			"source", task.GetSourceName(),
			"retry_count", task.GetRetryCount(),
			"error", err)

		if !task.CanRetry() || ctx.Err() != nil {
			return Result{Source: src, Err: err}
		}

		task.IncrementRetryCount()
		retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
		if retryDelay > 30*time.Second {
			retryDelay = 30 * time.Second
		}

		slog.Warn("Task retry scheduled",
			"type", string(task.GetType()),
			"source", task.GetSourceName(),
			"retry_count", task.GetRetryCount(),
			"max_retries", task.GetMaxRetries(),
			"delay", retryDelay.String())

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return Result{Source: src, Err: ctx.Err()}
		}
	}
}
