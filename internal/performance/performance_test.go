package performance

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// BenchmarkWorkerPool benchmarks the worker pool performance.
func BenchmarkWorkerPool(b *testing.B) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var wg sync.WaitGroup
		wg.Add(1)
		pool.Submit(func() {
			time.Sleep(time.Microsecond)
			wg.Done()
		})
		wg.Wait()
	}
}

// BenchmarkWorkerPoolParallel benchmarks parallel task submission.
func BenchmarkWorkerPoolParallel(b *testing.B) {
	pool := NewWorkerPool(8)
	pool.Start()
	defer pool.Stop()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			done := make(chan struct{})
			pool.Submit(func() {
				close(done)
			})
			<-done
		}
	})
}

// BenchmarkRateLimiter benchmarks the rate limiter.
func BenchmarkRateLimiter(b *testing.B) {
	limiter := NewRateLimiter(10000, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow()
	}
}

// TestWorkerPoolFunctionality tests worker pool basic functionality.
func TestWorkerPoolFunctionality(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()

	var counter int64
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		submitted := pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
			wg.Done()
		})
		if !submitted {
			wg.Done() // Decrement if not submitted
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// Success
	case <-time.After(5 * time.Second):
		t.Fatal("Timeout waiting for tasks to complete")
	}

	pool.Stop()

	if counter < 90 { // Allow some tolerance
		t.Errorf("Expected at least 90 tasks completed, got %d", counter)
	}

	stats := pool.Stats()
	t.Logf("Pool stats: TasksTotal=%d, TasksDone=%d", stats.TasksTotal, stats.TasksDone)
}

// TestWorkerPoolSubmitWhenStopped verifies a stopped pool rejects tasks.
func TestWorkerPoolSubmitWhenStopped(t *testing.T) {
	pool := NewWorkerPool(2)
	if pool.Submit(func() {}) {
		t.Error("Expected Submit to fail before Start")
	}

	pool.Start()
	pool.Stop()
	if pool.Submit(func() {}) {
		t.Error("Expected Submit to fail after Stop")
	}
}

// TestRateLimiterFunctionality tests rate limiter basic functionality.
func TestRateLimiterFunctionality(t *testing.T) {
	limiter := NewRateLimiter(100, 10) // 100 requests/sec, burst of 10

	// Should allow burst
	allowed := 0
	for i := 0; i < 15; i++ {
		if limiter.Allow() {
			allowed++
		}
	}

	if allowed < 10 {
		t.Errorf("Expected at least 10 allowed in burst, got %d", allowed)
	}

	// Wait for refill
	time.Sleep(100 * time.Millisecond)

	if !limiter.Allow() {
		t.Error("Expected to allow after refill")
	}
}
