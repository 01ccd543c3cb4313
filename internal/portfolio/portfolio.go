// Package portfolio computes position and profit figures from the trade
// ledger. All functions are pure: they take trades and prices, never touch
// the store, and are safe to call with any trade ordering.
package portfolio

import (
	"sort"

	"psx-tracker/internal/models"
)

// Position is the per-symbol view of the ledger priced at the latest quote.
type Position struct {
	Symbol        string
	QtyBought     float64
	QtySold       float64
	NetQty        float64 // negative when sells exceed buys
	AvgBuyPrice   float64 // quantity-weighted over Buy trades only
	CurrentPrice  float64
	MarketValue   float64
	Investment    float64
	UnrealizedPL  float64
	PercentUpDown float64 // 0 when there is no investment
	HasPrice      bool
}

// Summary aggregates positions across the portfolio.
type Summary struct {
	Positions     []Position
	Investment    float64
	MarketValue   float64
	UnrealizedPL  float64
	PercentUpDown float64 // 0 when total investment is 0
}

// BuildPosition computes one symbol's position. Trades for other symbols are
// ignored. latest carries the most recent price per symbol; a missing entry
// leaves the market-value figures at zero with HasPrice false.
func BuildPosition(symbol string, trades []models.Trade, latest map[string]models.PriceSample) Position {
	pos := Position{Symbol: symbol}

	var buyCost float64
	for _, t := range trades {
		if t.Symbol != symbol {
			continue
		}
		switch t.TradeType {
		case models.TradeBuy:
			pos.QtyBought += t.Quantity
			buyCost += t.Quantity * t.Price
		case models.TradeSell:
			pos.QtySold += t.Quantity
		}
	}

	pos.NetQty = pos.QtyBought - pos.QtySold
	if pos.QtyBought > 0 {
		pos.AvgBuyPrice = buyCost / pos.QtyBought
	}

	if sample, ok := latest[symbol]; ok {
		pos.CurrentPrice = sample.Price
		pos.HasPrice = true
		pos.MarketValue = pos.NetQty * sample.Price
	}

	pos.Investment = pos.NetQty * pos.AvgBuyPrice
	if pos.HasPrice {
		pos.UnrealizedPL = pos.MarketValue - pos.Investment
	}
	if pos.Investment != 0 {
		pos.PercentUpDown = pos.UnrealizedPL / pos.Investment * 100
	}

	return pos
}

// BuildSummary computes positions for every symbol present in the ledger and
// aggregates them. Symbols are sorted for stable output.
func BuildSummary(trades []models.Trade, latest map[string]models.PriceSample) Summary {
	seen := make(map[string]bool)
	var symbols []string
	for _, t := range trades {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
		}
	}
	sort.Strings(symbols)

	var summary Summary
	for _, sym := range symbols {
		pos := BuildPosition(sym, trades, latest)
		summary.Positions = append(summary.Positions, pos)
		summary.Investment += pos.Investment
		summary.MarketValue += pos.MarketValue
		summary.UnrealizedPL += pos.UnrealizedPL
	}
	if summary.Investment != 0 {
		summary.PercentUpDown = summary.UnrealizedPL / summary.Investment * 100
	}
	return summary
}

// TradePL is one ledger entry priced against the latest quote. This is a
// what-if figure per trade, distinct from the realized FIFO computation.
type TradePL struct {
	Trade        models.Trade
	CurrentPrice float64
	ProfitLoss   float64 // buys: (current-price)*qty; sells: (price-current)*qty
	HasPrice     bool
}

// PerTradePL prices every trade against the latest quote for its symbol.
func PerTradePL(trades []models.Trade, latest map[string]models.PriceSample) []TradePL {
	out := make([]TradePL, 0, len(trades))
	for _, t := range trades {
		pl := TradePL{Trade: t}
		if sample, ok := latest[t.Symbol]; ok {
			pl.CurrentPrice = sample.Price
			pl.HasPrice = true
			switch t.TradeType {
			case models.TradeBuy:
				pl.ProfitLoss = (sample.Price - t.Price) * t.Quantity
			case models.TradeSell:
				pl.ProfitLoss = (t.Price - sample.Price) * t.Quantity
			}
		}
		out = append(out, pl)
	}
	return out
}
