// Package models defines the core data types shared across the application.
package models

import "time"

// PriceSample is one observed quote for a symbol. Samples are append-only:
// every fetch inserts a new row, so multiple samples per symbol accumulate
// into a time series keyed by (symbol, fetched_at).
type PriceSample struct {
	Symbol      string
	Price       float64
	ChangeValue *float64 // absolute change; nil when the element was missing
	Percentage  string   // display string, e.g. "1.25%"
	Direction   string   // "+", "-" or ""
	FetchedAt   time.Time
}

// TradeType is the side of a trade.
type TradeType string

const (
	TradeBuy  TradeType = "Buy"
	TradeSell TradeType = "Sell"
)

// Trade is one user-entered ledger entry. Immutable once logged.
type Trade struct {
	ID        int64
	Symbol    string
	TradeType TradeType
	Quantity  float64
	Price     float64
	TradeDate time.Time
	Notes     string
}

// CompanyInfo holds the descriptive fields scraped from a company page.
// Any field may be empty when the page does not carry it.
type CompanyInfo struct {
	Name         string `json:"name"`
	Sector       string `json:"sector"`
	ListingDate  string `json:"listing_date"`
	ListingBoard string `json:"listing_board"`
}

// Payout is one row of the payouts table, keyed by the table's own headers.
type Payout map[string]string

// PeriodRecord is one tidy record: the period label plus one field per
// row label of the source table.
type PeriodRecord map[string]string

// Financials holds the annual and quarterly statement tables in tidy form
// (one record per period).
type Financials struct {
	Annual    []PeriodRecord `json:"annual"`
	Quarterly []PeriodRecord `json:"quarterly"`
}

// StockProfile is the full fundamentals document for a symbol. It is
// replaced wholesale on each refetch, never merged.
type StockProfile struct {
	Symbol      string             `json:"symbol"`
	Company     CompanyInfo        `json:"company"`
	Payouts     []Payout           `json:"payouts"`
	Financials  Financials         `json:"financials"`
	Ratios      []PeriodRecord     `json:"ratios"`
	Performance map[string]float64 `json:"performance,omitempty"` // trailing returns by window, e.g. "1M" -> 3.4
	FetchedAt   time.Time          `json:"fetched_at"`
}
