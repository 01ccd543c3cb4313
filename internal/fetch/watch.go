package fetch

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"psx-tracker/internal/logging"
	"psx-tracker/internal/models"
	"psx-tracker/internal/notify"
	"psx-tracker/internal/store"
)

// SweepFunc is called after each completed sweep with its results.
type SweepFunc func(results []Result)

// Watcher repeatedly sweeps the portfolio: fetch all symbols, persist the
// samples, evaluate alerts. The interval is measured between sweep
// completions, so a slow sweep does not pile up the next one.
type Watcher struct {
	batcher  *Batcher
	store    store.DataStore
	notifier *notify.Notifier
	interval time.Duration
	logger   zerolog.Logger
	onSweep  SweepFunc
}

// NewWatcher creates a watcher over the given store and batcher.
func NewWatcher(batcher *Batcher, st store.DataStore, notifier *notify.Notifier, interval time.Duration, logger zerolog.Logger) *Watcher {
	return &Watcher{
		batcher:  batcher,
		store:    st,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
}

// OnSweep registers a callback invoked after each sweep, for printing.
func (w *Watcher) OnSweep(fn SweepFunc) {
	w.onSweep = fn
}

// Run sweeps until the context is cancelled. The first sweep happens
// immediately.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		w.Sweep(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.interval):
		}
	}
}

// Sweep fetches every portfolio symbol once, saves the samples and checks
// alerts. Per-symbol failures are logged and skipped.
func (w *Watcher) Sweep(ctx context.Context) {
	symbols, err := w.store.GetSymbols(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to load portfolio symbols")
		return
	}
	if len(symbols) == 0 {
		w.logger.Info().Msg("Portfolio is empty, nothing to sweep")
		return
	}

	results := w.batcher.FetchAll(ctx, symbols)

	fetched, failed := 0, 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		fetched++
		if err := w.store.SavePrice(ctx, res.Sample); err != nil {
			w.logger.Error().Str("symbol", res.Symbol).Err(err).Msg("Failed to save price")
		}
	}

	w.checkAlerts(ctx, results)

	w.logger.Info().
		Int("fetched", fetched).
		Int("failed", failed).
		Msg("Sweep complete")

	if w.notifier != nil && failed > 0 {
		if err := w.notifier.SendFetchSummary(ctx, fetched, failed); err != nil {
			w.logger.Warn().Err(err).Msg("Failed to send sweep summary")
		}
	}

	if w.onSweep != nil {
		w.onSweep(results)
	}
}

func (w *Watcher) checkAlerts(ctx context.Context, results []Result) {
	alerts, err := w.store.GetAlerts(ctx, true)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to load alerts")
		return
	}
	if len(alerts) == 0 {
		return
	}

	latest := make(map[string]*models.PriceSample, len(results))
	for _, res := range results {
		if res.Sample != nil {
			latest[res.Symbol] = res.Sample
		}
	}

	for _, alert := range alerts {
		sample, ok := latest[alert.Symbol]
		if !ok || !alert.Matches(sample.Price) {
			continue
		}
		logging.LogAlert(w.logger, alert.Symbol, alert.MinPrice, alert.MaxPrice, sample.Price)
		if w.notifier != nil {
			if err := w.notifier.SendAlert(ctx, alert, sample.Price); err != nil {
				w.logger.Warn().Str("symbol", alert.Symbol).Err(err).Msg("Failed to deliver alert")
			}
		}
	}
}
