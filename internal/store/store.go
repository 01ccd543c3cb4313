// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"psx-tracker/internal/models"
)

// DataStore defines the interface for data persistence. Callers own the
// handle lifecycle: open once, pass it down, Close when done.
type DataStore interface {
	// Portfolio symbols
	AddSymbol(ctx context.Context, symbol string) error
	RemoveSymbol(ctx context.Context, symbol string) error
	GetSymbols(ctx context.Context) ([]string, error)

	// Prices. SavePrice always inserts a new sample; history accumulates.
	SavePrice(ctx context.Context, sample *models.PriceSample) error
	GetLatestPrices(ctx context.Context) (map[string]models.PriceSample, error)
	GetPriceHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceSample, error)

	// Trades
	LogTrade(ctx context.Context, trade *models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)

	// Alerts, identified by the (symbol, min, max) triple.
	SaveAlert(ctx context.Context, alert *models.Alert) error
	GetAlerts(ctx context.Context, enabledOnly bool) ([]models.Alert, error)
	SetAlertEnabled(ctx context.Context, symbol string, minPrice, maxPrice float64, enabled bool) error
	DeleteAlert(ctx context.Context, symbol string, minPrice, maxPrice float64) error

	// Profiles, replaced wholesale per symbol.
	SaveProfile(ctx context.Context, profile *models.StockProfile) error
	GetProfile(ctx context.Context, symbol string) (*models.StockProfile, error)

	Close() error
}

// TradeFilter narrows a trade ledger query. Zero values mean no constraint.
type TradeFilter struct {
	Symbol    string
	TradeType models.TradeType
	From      time.Time
	To        time.Time
	Limit     int
}
