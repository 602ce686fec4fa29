//go:build !integration

package worker_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"betting-insight/internal/infra/worker"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func TestPool(t *testing.T) {
	ctx := context.Background()

	t.Run("should run submitted tasks", func(t *testing.T) {
		pool := worker.NewPool(2, newTestLogger())
		pool.Start(ctx)
		defer pool.Stop()

		var ran int32
		var wg sync.WaitGroup
		wg.Add(4)
		for i := 0; i < 4; i++ {
			if err := pool.Submit(func(ctx context.Context) error {
				atomic.AddInt32(&ran, 1)
				wg.Done()
				return nil
			}); err != nil {
				t.Fatalf("Submit returned an error: %v", err)
			}
		}

		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks")
		}
		if got := atomic.LoadInt32(&ran); got != 4 {
			t.Errorf("ran %d tasks, want 4", got)
		}
	})

	t.Run("should reject tasks when saturated", func(t *testing.T) {
		pool := worker.NewPool(1, newTestLogger())
		// Not started: the buffer fills and Submit must start failing
		// instead of blocking.
		var rejected bool
		for i := 0; i < 10; i++ {
			if err := pool.Submit(func(ctx context.Context) error { return nil }); err != nil {
				if !errors.Is(err, worker.ErrPoolSaturated) {
					t.Fatalf("unexpected error %v", err)
				}
				rejected = true
				break
			}
		}
		if !rejected {
			t.Fatal("a full buffer must reject submissions")
		}
	})

	t.Run("should reject a nil task", func(t *testing.T) {
		pool := worker.NewPool(1, newTestLogger())
		if err := pool.Submit(nil); err == nil {
			t.Fatal("expected an error for a nil task")
		}
	})

	t.Run("should stop cleanly", func(t *testing.T) {
		pool := worker.NewPool(2, newTestLogger())
		pool.Start(ctx)

		stopped := make(chan struct{})
		go func() { pool.Stop(); close(stopped) }()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Fatal("Stop did not return")
		}
	})
}
