package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"psx-tracker/internal/logging"
	"psx-tracker/internal/models"
	"psx-tracker/internal/performance"
)

// Result is the outcome of fetching one symbol. Exactly one of Sample or Err
// is set.
type Result struct {
	Symbol string
	Sample *models.PriceSample
	Err    error
}

// Batcher runs concurrent quote fetches over a bounded worker pool, with a
// shared rate limiter toward the sites.
type Batcher struct {
	client  *Client
	pool    *performance.WorkerPool
	limiter *performance.RateLimiter
	logger  zerolog.Logger
}

// NewBatcher creates a batcher with the given concurrency and request rate.
func NewBatcher(client *Client, workers int, requestsPerSec float64, logger zerolog.Logger) *Batcher {
	burst := workers
	if burst < 1 {
		burst = 1
	}
	return &Batcher{
		client:  client,
		pool:    performance.NewWorkerPool(workers),
		limiter: performance.NewRateLimiter(requestsPerSec, burst),
		logger:  logger,
	}
}

// Start starts the underlying worker pool.
func (b *Batcher) Start() {
	b.pool.Start()
}

// Stop stops the underlying worker pool.
func (b *Batcher) Stop() {
	b.pool.Stop()
}

// FetchAll fetches every symbol concurrently and returns one result per
// symbol, in input order. A failed symbol yields an error result; it never
// aborts the others.
func (b *Batcher) FetchAll(ctx context.Context, symbols []string) []Result {
	results := make([]Result, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		i, symbol := i, symbol
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = b.fetchOne(ctx, symbol)
		}
		if !b.pool.Submit(task) {
			// Pool saturated or stopped; run inline so no symbol is dropped.
			task()
		}
	}
	wg.Wait()

	return results
}

func (b *Batcher) fetchOne(ctx context.Context, symbol string) Result {
	if err := b.limiter.Wait(ctx); err != nil {
		return Result{Symbol: symbol, Err: err}
	}

	start := time.Now()
	sample, err := b.client.FetchQuote(ctx, symbol)
	if err != nil {
		logging.LogFetch(b.logger, symbol, 0, "", time.Since(start), err)
		return Result{Symbol: symbol, Err: err}
	}

	logging.LogFetch(b.logger, symbol, sample.Price, sample.Direction, time.Since(start), nil)
	return Result{Symbol: symbol, Sample: sample}
}
