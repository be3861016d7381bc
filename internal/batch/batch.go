// Package batch implements the bounded-concurrency fan-out executor from
// spec §4.6: a fixed worker budget, per-item retry with exponential
// backoff on transient failures, and optional early cancellation.
package batch

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/onirigin/originals-engine/internal/enginerr"
)

// Item is one unit of work. Run is invoked at least once; it is retried up
// to Config.RetryCount additional times when the returned error classifies
// as retryable (see internal/enginerr.Code.Retryable) and the context has
// not been cancelled.
type Item struct {
	ID  string
	Run func(ctx context.Context) error
}

// Config configures a single Execute call.
type Config struct {
	MaxConcurrent   int
	ContinueOnError bool
	RetryCount      int
	RetryDelay      time.Duration // base delay; each retry doubles it
	TimeoutMs       int           // per-item timeout, 0 means no timeout
	Logger          *log.Logger   // per-retry messages and the final summary line; nil discards them
}

func (c Config) withDefaults() Config {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 1
	}
	if c.Logger == nil {
		c.Logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Status classifies how an item's processing ended.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Record is the outcome of one item.
type Record struct {
	ID       string
	Status   Status
	Err      error
	Attempts int
}

// Summary aggregates a full Execute call. BatchID correlates this run's log
// lines and is otherwise opaque to the caller.
type Summary struct {
	BatchID    string
	Records    []Record
	Successful int
	Failed     int
	Cancelled  int
	Duration   time.Duration
}

// Execute runs items with at most Config.MaxConcurrent running concurrently.
// When ContinueOnError is false, the first item failure cancels every
// other in-flight and not-yet-started item; those items are recorded as
// Cancelled rather than Failed.
func Execute(ctx context.Context, items []Item, cfg Config) Summary {
	cfg = cfg.withDefaults()
	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	records := make([]Record, len(items))

	type outcome struct {
		index  int
		record Record
	}
	results := make(chan outcome, len(items))

	for i, item := range items {
		i, item := i, item
		if err := sem.Acquire(runCtx, 1); err != nil {
			results <- outcome{i, Record{ID: item.ID, Status: StatusCancelled, Err: runCtx.Err()}}
			continue
		}
		go func() {
			defer sem.Release(1)
			rec := runItem(runCtx, item, cfg)
			if rec.Status == StatusFailed && !cfg.ContinueOnError {
				cancel()
			}
			results <- outcome{i, rec}
		}()
	}

	for range items {
		o := <-results
		records[o.index] = o.record
	}

	summary := Summary{BatchID: uuid.NewString(), Records: records, Duration: time.Since(start)}
	for _, r := range records {
		switch r.Status {
		case StatusSucceeded:
			summary.Successful++
		case StatusFailed:
			summary.Failed++
		case StatusCancelled:
			summary.Cancelled++
		}
	}
	cfg.Logger.Printf("batch %s: %d succeeded, %d failed, %d cancelled in %s",
		summary.BatchID, summary.Successful, summary.Failed, summary.Cancelled, summary.Duration)
	return summary
}

func runItem(ctx context.Context, item Item, cfg Config) Record {
	if ctx.Err() != nil {
		return Record{ID: item.ID, Status: StatusCancelled, Err: ctx.Err()}
	}

	delay := cfg.RetryDelay
	var lastErr error
	for attempt := 1; ; attempt++ {
		itemCtx := ctx
		var itemCancel context.CancelFunc
		if cfg.TimeoutMs > 0 {
			itemCtx, itemCancel = context.WithTimeout(ctx, time.Duration(cfg.TimeoutMs)*time.Millisecond)
		}
		err := item.Run(itemCtx)
		if itemCancel != nil {
			itemCancel()
		}
		if err == nil {
			return Record{ID: item.ID, Status: StatusSucceeded, Attempts: attempt}
		}
		lastErr = err

		if ctx.Err() != nil {
			return Record{ID: item.ID, Status: StatusCancelled, Err: ctx.Err(), Attempts: attempt}
		}
		if !enginerr.CodeOf(err).Retryable() || attempt > cfg.RetryCount {
			return Record{ID: item.ID, Status: StatusFailed, Err: lastErr, Attempts: attempt}
		}

		cfg.Logger.Printf("item %s: attempt %d failed (%v), retrying after %s", item.ID, attempt, err, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Record{ID: item.ID, Status: StatusCancelled, Err: ctx.Err(), Attempts: attempt}
		}
		if delay <= 0 {
			delay = time.Millisecond
		} else {
			delay *= 2
		}
	}
}
