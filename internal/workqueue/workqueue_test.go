package workqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunPreservesOrder(t *testing.T) {
	got, err := Run(context.Background(), 20, Options{Concurrency: 4}, func(ctx context.Context, i int) (int, error) {
		// later tasks finish first
		time.Sleep(time.Duration(20-i) * time.Millisecond)
		return i * i, nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	for i, v := range got {
		if v != i*i {
			t.Fatalf("slot %d = %d, want %d", i, v, i*i)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	_, err := Run(context.Background(), 12, Options{Concurrency: 3}, func(ctx context.Context, i int) (struct{}, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if peak.Load() > 3 {
		t.Fatalf("expected at most 3 concurrent tasks, saw %d", peak.Load())
	}
}

func TestRunFirstErrorCancels(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32
	got, err := Run(context.Background(), 50, Options{Concurrency: 1}, func(ctx context.Context, i int) (int, error) {
		ran.Add(1)
		if i == 2 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil results on error, got %v", got)
	}
	if ran.Load() >= 50 {
		t.Fatalf("expected remaining tasks to be cancelled, ran %d", ran.Load())
	}
}

func TestRunZeroTasks(t *testing.T) {
	got, err := Run(context.Background(), 0, Options{}, func(ctx context.Context, i int) (int, error) {
		t.Fatal("task should not run")
		return 0, nil
	})
	if err != nil || len(got) != 0 {
		t.Fatalf("unexpected result %v, %v", got, err)
	}
}

func TestRunRateLimited(t *testing.T) {
	start := time.Now()
	_, err := Run(context.Background(), 3, Options{Concurrency: 3, RequestsPerSecond: 20}, func(ctx context.Context, i int) (int, error) {
		return i, nil
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	// burst of one: the third request waits for two refills of 50ms each
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Fatalf("expected throttling, finished in %v", elapsed)
	}
}
