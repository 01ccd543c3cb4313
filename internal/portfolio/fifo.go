package portfolio

import (
	"sort"

	"psx-tracker/internal/models"
)

// Lot is an open buy remainder left after FIFO matching.
type Lot struct {
	Quantity float64
	Price    float64
}

// RealizedResult is the outcome of FIFO matching one symbol's ledger.
type RealizedResult struct {
	Symbol     string
	RealizedPL float64
	MatchedQty float64
	OpenLots   []Lot
}

// RealizedPL matches sells against buys first-in-first-out, in trade date
// order. A sell larger than the open lots consumes what exists and the
// excess is ignored; matching simply stops there.
func RealizedPL(symbol string, trades []models.Trade) RealizedResult {
	ordered := make([]models.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Symbol == symbol {
			ordered = append(ordered, t)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].TradeDate.Before(ordered[j].TradeDate)
	})

	result := RealizedResult{Symbol: symbol}
	var lots []Lot

	for _, t := range ordered {
		switch t.TradeType {
		case models.TradeBuy:
			lots = append(lots, Lot{Quantity: t.Quantity, Price: t.Price})
		case models.TradeSell:
			remaining := t.Quantity
			for remaining > 0 && len(lots) > 0 {
				lot := &lots[0]
				matched := remaining
				if lot.Quantity < matched {
					matched = lot.Quantity
				}
				result.RealizedPL += matched * (t.Price - lot.Price)
				result.MatchedQty += matched
				lot.Quantity -= matched
				remaining -= matched
				if lot.Quantity == 0 {
					lots = lots[1:]
				}
			}
		}
	}

	result.OpenLots = lots
	return result
}

// RealizedAll runs FIFO matching for every symbol in the ledger, sorted by
// symbol for stable output.
func RealizedAll(trades []models.Trade) []RealizedResult {
	seen := make(map[string]bool)
	var symbols []string
	for _, t := range trades {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			symbols = append(symbols, t.Symbol)
		}
	}
	sort.Strings(symbols)

	results := make([]RealizedResult, 0, len(symbols))
	for _, sym := range symbols {
		results = append(results, RealizedPL(sym, trades))
	}
	return results
}
