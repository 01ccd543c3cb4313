package portfolio

import (
	"math"
	"testing"
	"time"

	"psx-tracker/internal/models"
)

func day(n int) time.Time {
	return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildPosition(t *testing.T) {
	trades := []models.Trade{
		{Symbol: "LUCKY", TradeType: models.TradeBuy, Quantity: 100, Price: 10, TradeDate: day(1)},
		{Symbol: "LUCKY", TradeType: models.TradeSell, Quantity: 40, Price: 12, TradeDate: day(2)},
		{Symbol: "ENGRO", TradeType: models.TradeBuy, Quantity: 5, Price: 300, TradeDate: day(1)},
	}
	latest := map[string]models.PriceSample{
		"LUCKY": {Symbol: "LUCKY", Price: 15},
	}

	pos := BuildPosition("LUCKY", trades, latest)

	if pos.QtyBought != 100 || pos.QtySold != 40 || pos.NetQty != 60 {
		t.Errorf("quantities = %v/%v/%v, want 100/40/60", pos.QtyBought, pos.QtySold, pos.NetQty)
	}
	if !approx(pos.AvgBuyPrice, 10) {
		t.Errorf("avg buy = %v, want 10 (sells excluded)", pos.AvgBuyPrice)
	}
	if !approx(pos.MarketValue, 900) {
		t.Errorf("market value = %v, want 900", pos.MarketValue)
	}
	if !approx(pos.Investment, 600) {
		t.Errorf("investment = %v, want 600", pos.Investment)
	}
	if !approx(pos.UnrealizedPL, 300) {
		t.Errorf("unrealized = %v, want 300", pos.UnrealizedPL)
	}
	if !approx(pos.PercentUpDown, 50) {
		t.Errorf("percent = %v, want 50", pos.PercentUpDown)
	}
}

func TestBuildPositionWeightedAverage(t *testing.T) {
	trades := []models.Trade{
		{Symbol: "MCB", TradeType: models.TradeBuy, Quantity: 10, Price: 100, TradeDate: day(1)},
		{Symbol: "MCB", TradeType: models.TradeBuy, Quantity: 30, Price: 200, TradeDate: day(2)},
	}
	pos := BuildPosition("MCB", trades, nil)
	if !approx(pos.AvgBuyPrice, 175) {
		t.Errorf("avg buy = %v, want 175", pos.AvgBuyPrice)
	}
	if pos.HasPrice {
		t.Error("expected no price")
	}
	if pos.UnrealizedPL != 0 || pos.PercentUpDown != 0 {
		t.Errorf("priceless position should carry zero P/L, got %v/%v", pos.UnrealizedPL, pos.PercentUpDown)
	}
}

func TestBuildPositionNetNegative(t *testing.T) {
	trades := []models.Trade{
		{Symbol: "HBL", TradeType: models.TradeSell, Quantity: 30, Price: 120, TradeDate: day(1)},
	}
	pos := BuildPosition("HBL", trades, map[string]models.PriceSample{"HBL": {Price: 100}})

	if pos.NetQty != -30 {
		t.Errorf("net = %v, want -30 (oversell is representable)", pos.NetQty)
	}
	if pos.AvgBuyPrice != 0 {
		t.Errorf("avg buy = %v, want 0 with no buys", pos.AvgBuyPrice)
	}
	if !approx(pos.MarketValue, -3000) {
		t.Errorf("market value = %v, want -3000", pos.MarketValue)
	}
	// Investment is 0 with no buys, so percent falls back to 0
	if pos.PercentUpDown != 0 {
		t.Errorf("percent = %v, want 0", pos.PercentUpDown)
	}
}

func TestBuildSummary(t *testing.T) {
	trades := []models.Trade{
		{Symbol: "LUCKY", TradeType: models.TradeBuy, Quantity: 100, Price: 10, TradeDate: day(1)},
		{Symbol: "ENGRO", TradeType: models.TradeBuy, Quantity: 10, Price: 300, TradeDate: day(1)},
	}
	latest := map[string]models.PriceSample{
		"LUCKY": {Price: 12},
		"ENGRO": {Price: 270},
	}

	sum := BuildSummary(trades, latest)

	if len(sum.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(sum.Positions))
	}
	if sum.Positions[0].Symbol != "ENGRO" {
		t.Errorf("positions not sorted: %v", sum.Positions[0].Symbol)
	}
	if !approx(sum.Investment, 4000) {
		t.Errorf("investment = %v, want 4000", sum.Investment)
	}
	if !approx(sum.MarketValue, 3900) {
		t.Errorf("market value = %v, want 3900", sum.MarketValue)
	}
	if !approx(sum.UnrealizedPL, -100) {
		t.Errorf("unrealized = %v, want -100", sum.UnrealizedPL)
	}
	if !approx(sum.PercentUpDown, -2.5) {
		t.Errorf("percent = %v, want -2.5", sum.PercentUpDown)
	}
}

func TestBuildSummaryZeroInvestment(t *testing.T) {
	sum := BuildSummary(nil, nil)
	if sum.PercentUpDown != 0 {
		t.Errorf("empty portfolio percent = %v, want 0", sum.PercentUpDown)
	}
}

func TestPerTradePL(t *testing.T) {
	trades := []models.Trade{
		{Symbol: "LUCKY", TradeType: models.TradeBuy, Quantity: 10, Price: 100, TradeDate: day(1)},
		{Symbol: "LUCKY", TradeType: models.TradeSell, Quantity: 5, Price: 130, TradeDate: day(2)},
		{Symbol: "NOPRICE", TradeType: models.TradeBuy, Quantity: 1, Price: 50, TradeDate: day(3)},
	}
	latest := map[string]models.PriceSample{"LUCKY": {Price: 120}}

	pls := PerTradePL(trades, latest)
	if len(pls) != 3 {
		t.Fatalf("entries = %d, want 3", len(pls))
	}
	if !approx(pls[0].ProfitLoss, 200) {
		t.Errorf("buy P/L = %v, want (120-100)*10 = 200", pls[0].ProfitLoss)
	}
	if !approx(pls[1].ProfitLoss, 50) {
		t.Errorf("sell P/L = %v, want (130-120)*5 = 50", pls[1].ProfitLoss)
	}
	if pls[2].HasPrice {
		t.Error("expected no price for unfetched symbol")
	}
}
