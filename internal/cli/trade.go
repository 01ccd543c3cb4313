package cli

import (
	"time"

	"github.com/spf13/cobra"

	"psx-tracker/internal/errors"
	"psx-tracker/internal/logging"
	"psx-tracker/internal/models"
	"psx-tracker/internal/portfolio"
	"psx-tracker/internal/store"
	"psx-tracker/pkg/utils"
)

func newTradeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Record and inspect trades",
	}

	cmd.AddCommand(newTradeLogCmd(app))
	cmd.AddCommand(newTradeHistoryCmd(app))
	return cmd
}

func newTradeLogCmd(app *App) *cobra.Command {
	var (
		side     string
		quantity float64
		price    float64
		dateStr  string
		notes    string
	)

	cmd := &cobra.Command{
		Use:   "log SYMBOL",
		Short: "Append a trade to the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}

			tradeType := models.TradeType(side)
			if side == "buy" {
				tradeType = models.TradeBuy
			} else if side == "sell" {
				tradeType = models.TradeSell
			}

			tradeDate := time.Now()
			if dateStr != "" {
				parsed, err := time.Parse("2006-01-02", dateStr)
				if err != nil {
					return errors.NewValidationError("date", dateStr, "must be YYYY-MM-DD")
				}
				tradeDate = parsed
			}

			trade := &models.Trade{
				Symbol:    args[0],
				TradeType: tradeType,
				Quantity:  quantity,
				Price:     price,
				TradeDate: tradeDate,
				Notes:     notes,
			}
			if err := app.Store.LogTrade(cmd.Context(), trade); err != nil {
				return err
			}

			// Trades reference symbols; keep the portfolio in sync.
			if err := app.Store.AddSymbol(cmd.Context(), trade.Symbol); err != nil {
				app.Logger.Warn().Err(err).Msg("Failed to add traded symbol to portfolio")
			}

			logging.LogTrade(app.Logger, trade.Symbol, string(trade.TradeType), trade.Quantity, trade.Price)
			app.newOutput(cmd).Success("Logged %s %s x%s @ %s",
				trade.TradeType, trade.Symbol,
				utils.FormatQuantity(trade.Quantity), utils.FormatPKR(trade.Price))
			return nil
		},
	}

	cmd.Flags().StringVar(&side, "type", "buy", "trade side: buy or sell")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "number of shares")
	cmd.Flags().Float64Var(&price, "price", 0, "price per share")
	cmd.Flags().StringVar(&dateStr, "date", "", "trade date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form note")
	cmd.MarkFlagRequired("quantity")
	cmd.MarkFlagRequired("price")

	return cmd
}

func newTradeHistoryCmd(app *App) *cobra.Command {
	var (
		symbol string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the trade ledger with per-trade P/L at current prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx := cmd.Context()

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{Symbol: symbol, Limit: limit})
			if err != nil {
				return err
			}
			latest, err := app.Store.GetLatestPrices(ctx)
			if err != nil {
				return err
			}

			pls := portfolio.PerTradePL(trades, latest)
			output := app.newOutput(cmd)

			if output.IsJSON() {
				return output.JSON(pls)
			}
			if len(pls) == 0 {
				output.Println("No trades logged")
				return nil
			}

			output.Bold("%-12s %-6s %-6s %10s %14s %14s %14s",
				"DATE", "SYMBOL", "SIDE", "QTY", "PRICE", "CURRENT", "P/L")
			for _, pl := range pls {
				t := pl.Trade
				current, profit := "-", "-"
				if pl.HasPrice {
					current = utils.FormatPKR(pl.CurrentPrice)
					profit = output.PnL(utils.FormatPnL(pl.ProfitLoss), pl.ProfitLoss)
				}
				output.Printf("%-12s %-6s %-6s %10s %14s %14s %14s\n",
					output.FormatDate(t.TradeDate), t.Symbol, t.TradeType,
					utils.FormatQuantity(t.Quantity), utils.FormatPKR(t.Price),
					current, profit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most N trades")
	return cmd
}
