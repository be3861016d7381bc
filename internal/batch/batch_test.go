package batch

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/onirigin/originals-engine/internal/enginerr"
)

func TestExecute_AllSucceed(t *testing.T) {
	items := make([]Item, 5)
	for i := range items {
		items[i] = Item{ID: string(rune('a' + i)), Run: func(ctx context.Context) error { return nil }}
	}
	summary := Execute(context.Background(), items, Config{MaxConcurrent: 2})
	if summary.Successful != 5 || summary.Failed != 0 || summary.Cancelled != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestExecute_ContinueOnErrorFalse_CancelsRemaining(t *testing.T) {
	var started int32
	items := []Item{
		{ID: "fail", Run: func(ctx context.Context) error {
			return enginerr.New(enginerr.InvalidInput, "boom")
		}},
		{ID: "slow", Run: func(ctx context.Context) error {
			atomic.AddInt32(&started, 1)
			select {
			case <-time.After(200 * time.Millisecond):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}},
	}
	summary := Execute(context.Background(), items, Config{MaxConcurrent: 2, ContinueOnError: false})
	if summary.Failed != 1 {
		t.Errorf("expected 1 failed, got %d (%+v)", summary.Failed, summary.Records)
	}
	total := summary.Successful + summary.Failed + summary.Cancelled
	if total != len(items) {
		t.Errorf("expected total processed %d, got %d", len(items), total)
	}
}

func TestExecute_ContinueOnErrorTrue_RunsAll(t *testing.T) {
	items := []Item{
		{ID: "fail", Run: func(ctx context.Context) error {
			return enginerr.New(enginerr.InvalidInput, "boom")
		}},
		{ID: "ok", Run: func(ctx context.Context) error { return nil }},
	}
	summary := Execute(context.Background(), items, Config{MaxConcurrent: 2, ContinueOnError: true})
	if summary.Successful != 1 || summary.Failed != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestExecute_RetriesTransientFailures(t *testing.T) {
	var calls int32
	items := []Item{
		{ID: "flaky", Run: func(ctx context.Context) error {
			n := atomic.AddInt32(&calls, 1)
			if n < 3 {
				return enginerr.New(enginerr.NetworkError, "transient")
			}
			return nil
		}},
	}
	summary := Execute(context.Background(), items, Config{MaxConcurrent: 1, RetryCount: 3, RetryDelay: time.Millisecond})
	if summary.Successful != 1 {
		t.Fatalf("expected eventual success, got %+v", summary.Records)
	}
	if summary.Records[0].Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", summary.Records[0].Attempts)
	}
}

func TestExecute_NeverRetriesDeterministicFailures(t *testing.T) {
	var calls int32
	items := []Item{
		{ID: "bad-input", Run: func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			return enginerr.New(enginerr.InvalidInput, "never retryable")
		}},
	}
	summary := Execute(context.Background(), items, Config{MaxConcurrent: 1, RetryCount: 5, RetryDelay: time.Millisecond})
	if summary.Failed != 1 {
		t.Fatalf("expected failure, got %+v", summary.Records)
	}
	if calls != 1 {
		t.Errorf("expected exactly 1 attempt for a deterministic failure, got %d", calls)
	}
}

func TestExecute_PerItemTimeout(t *testing.T) {
	items := []Item{
		{ID: "stuck", Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	}
	summary := Execute(context.Background(), items, Config{MaxConcurrent: 1, TimeoutMs: 20})
	if summary.Records[0].Status != StatusCancelled && summary.Records[0].Status != StatusFailed {
		t.Fatalf("expected the timed-out item to end cancelled or failed, got %+v", summary.Records[0])
	}
}

func TestExecute_RespectsMaxConcurrent(t *testing.T) {
	var current, maxSeen int32
	items := make([]Item, 10)
	for i := range items {
		items[i] = Item{ID: string(rune('a' + i)), Run: func(ctx context.Context) error {
			n := atomic.AddInt32(&current, 1)
			for {
				old := atomic.LoadInt32(&maxSeen)
				if n <= old || atomic.CompareAndSwapInt32(&maxSeen, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		}}
	}
	Execute(context.Background(), items, Config{MaxConcurrent: 3})
	if maxSeen > 3 {
		t.Errorf("expected at most 3 concurrent, saw %d", maxSeen)
	}
}
