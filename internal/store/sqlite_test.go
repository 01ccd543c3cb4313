package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"psx-tracker/internal/errors"
	"psx-tracker/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSymbolLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSymbol(ctx, "lucky"); err != nil {
		t.Fatalf("AddSymbol: %v", err)
	}
	if err := store.AddSymbol(ctx, "LUCKY"); err != nil {
		t.Fatalf("AddSymbol duplicate: %v", err)
	}
	if err := store.AddSymbol(ctx, "ENGRO"); err != nil {
		t.Fatalf("AddSymbol: %v", err)
	}

	symbols, err := store.GetSymbols(ctx)
	if err != nil {
		t.Fatalf("GetSymbols: %v", err)
	}
	if len(symbols) != 2 {
		t.Fatalf("symbols = %v, want [LUCKY ENGRO]", symbols)
	}
	if symbols[0] != "LUCKY" || symbols[1] != "ENGRO" {
		t.Errorf("symbols = %v, want normalized insertion order", symbols)
	}

	if err := store.RemoveSymbol(ctx, "LUCKY"); err != nil {
		t.Fatalf("RemoveSymbol: %v", err)
	}
	if err := store.RemoveSymbol(ctx, "LUCKY"); err != errors.ErrSymbolNotFound {
		t.Errorf("RemoveSymbol again = %v, want ErrSymbolNotFound", err)
	}
}

func TestRemoveSymbolCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.AddSymbol(ctx, "LUCKY"); err != nil {
		t.Fatalf("AddSymbol: %v", err)
	}
	if err := store.SavePrice(ctx, &models.PriceSample{Symbol: "LUCKY", Price: 850}); err != nil {
		t.Fatalf("SavePrice: %v", err)
	}
	if err := store.LogTrade(ctx, &models.Trade{
		Symbol: "LUCKY", TradeType: models.TradeBuy, Quantity: 10, Price: 850,
	}); err != nil {
		t.Fatalf("LogTrade: %v", err)
	}

	if err := store.RemoveSymbol(ctx, "LUCKY"); err != nil {
		t.Fatalf("RemoveSymbol: %v", err)
	}

	trades, err := store.GetTrades(ctx, TradeFilter{Symbol: "LUCKY"})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("trades after cascade = %v, want none", trades)
	}

	history, err := store.GetPriceHistory(ctx, "LUCKY", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetPriceHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("prices after cascade = %v, want none", history)
	}
}

func TestSavePriceAppendsHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	change := 2.5
	for i := 0; i < 3; i++ {
		err := store.SavePrice(ctx, &models.PriceSample{
			Symbol:      "ENGRO",
			Price:       300 + float64(i),
			ChangeValue: &change,
			Percentage:  "0.83%",
			Direction:   "+",
			FetchedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SavePrice: %v", err)
		}
	}

	history, err := store.GetPriceHistory(ctx, "ENGRO", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetPriceHistory: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3 (append-only)", len(history))
	}
	if history[0].Price != 300 || history[2].Price != 302 {
		t.Errorf("history order wrong: %v", history)
	}
	if history[0].ChangeValue == nil || *history[0].ChangeValue != 2.5 {
		t.Errorf("change value not round-tripped: %+v", history[0])
	}

	latest, err := store.GetLatestPrices(ctx)
	if err != nil {
		t.Fatalf("GetLatestPrices: %v", err)
	}
	if latest["ENGRO"].Price != 302 {
		t.Errorf("latest price = %v, want 302", latest["ENGRO"].Price)
	}
}

func TestTradeValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		trade models.Trade
	}{
		{"empty symbol", models.Trade{TradeType: models.TradeBuy, Quantity: 1, Price: 10}},
		{"bad type", models.Trade{Symbol: "X", TradeType: "Hold", Quantity: 1, Price: 10}},
		{"zero quantity", models.Trade{Symbol: "X", TradeType: models.TradeBuy, Quantity: 0, Price: 10}},
		{"negative price", models.Trade{Symbol: "X", TradeType: models.TradeBuy, Quantity: 1, Price: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := store.LogTrade(ctx, &tt.trade); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestGetTradesFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	seed := []models.Trade{
		{Symbol: "LUCKY", TradeType: models.TradeBuy, Quantity: 100, Price: 800, TradeDate: base},
		{Symbol: "LUCKY", TradeType: models.TradeSell, Quantity: 40, Price: 850, TradeDate: base.AddDate(0, 1, 0)},
		{Symbol: "ENGRO", TradeType: models.TradeBuy, Quantity: 50, Price: 300, TradeDate: base.AddDate(0, 2, 0)},
	}
	for i := range seed {
		if err := store.LogTrade(ctx, &seed[i]); err != nil {
			t.Fatalf("LogTrade: %v", err)
		}
		if seed[i].ID == 0 {
			t.Error("expected assigned trade id")
		}
	}

	bySymbol, err := store.GetTrades(ctx, TradeFilter{Symbol: "lucky"})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(bySymbol) != 2 {
		t.Errorf("by symbol = %d trades, want 2", len(bySymbol))
	}

	buys, err := store.GetTrades(ctx, TradeFilter{TradeType: models.TradeBuy})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(buys) != 2 {
		t.Errorf("buys = %d, want 2", len(buys))
	}

	windowed, err := store.GetTrades(ctx, TradeFilter{From: base.AddDate(0, 0, 15)})
	if err != nil {
		t.Fatalf("GetTrades: %v", err)
	}
	if len(windowed) != 2 {
		t.Errorf("windowed = %d, want 2", len(windowed))
	}
}

func TestAlertLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alert := &models.Alert{Symbol: "LUCKY", MinPrice: 700, MaxPrice: 900, Enabled: true}
	if err := store.SaveAlert(ctx, alert); err != nil {
		t.Fatalf("SaveAlert: %v", err)
	}
	// Same band again replaces, never duplicates
	if err := store.SaveAlert(ctx, alert); err != nil {
		t.Fatalf("SaveAlert duplicate band: %v", err)
	}

	alerts, err := store.GetAlerts(ctx, false)
	if err != nil {
		t.Fatalf("GetAlerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("alerts = %d, want 1 (band is the identity)", len(alerts))
	}

	if err := store.SetAlertEnabled(ctx, "LUCKY", 700, 900, false); err != nil {
		t.Fatalf("SetAlertEnabled: %v", err)
	}
	enabled, err := store.GetAlerts(ctx, true)
	if err != nil {
		t.Fatalf("GetAlerts enabled: %v", err)
	}
	if len(enabled) != 0 {
		t.Errorf("enabled alerts = %d, want 0", len(enabled))
	}

	if err := store.DeleteAlert(ctx, "LUCKY", 700, 900); err != nil {
		t.Fatalf("DeleteAlert: %v", err)
	}
	if err := store.DeleteAlert(ctx, "LUCKY", 700, 900); err != errors.ErrAlertNotFound {
		t.Errorf("DeleteAlert again = %v, want ErrAlertNotFound", err)
	}
}

func TestSaveAlertRequiresBound(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveAlert(context.Background(), &models.Alert{Symbol: "X"}); err == nil {
		t.Error("expected validation error for unbounded alert")
	}
}

func TestProfileReplacedWholesale(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.StockProfile{
		Symbol:  "LUCKY",
		Company: models.CompanyInfo{Name: "Lucky Cement Limited", Sector: "Cement"},
		Payouts: []models.Payout{{"Date": "2024-10-15", "Amount": "5.00"}},
	}
	if err := store.SaveProfile(ctx, first); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	second := &models.StockProfile{
		Symbol:  "LUCKY",
		Company: models.CompanyInfo{Name: "Lucky Cement Limited", Sector: "Cement"},
		Ratios:  []models.PeriodRecord{{"period": "2024", "P/E": "7.5"}},
	}
	if err := store.SaveProfile(ctx, second); err != nil {
		t.Fatalf("SaveProfile replace: %v", err)
	}

	got, err := store.GetProfile(ctx, "LUCKY")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(got.Payouts) != 0 {
		t.Errorf("payouts survived replacement: %v", got.Payouts)
	}
	if len(got.Ratios) != 1 || got.Ratios[0]["P/E"] != "7.5" {
		t.Errorf("ratios = %v", got.Ratios)
	}

	if _, err := store.GetProfile(ctx, "UNKNOWN"); err != errors.ErrNoData {
		t.Errorf("GetProfile unknown = %v, want ErrNoData", err)
	}
}
