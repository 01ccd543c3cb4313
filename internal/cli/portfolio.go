package cli

import (
	"github.com/spf13/cobra"

	"psx-tracker/internal/portfolio"
	"psx-tracker/internal/store"
	"psx-tracker/pkg/utils"
)

func newPortfolioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Show positions priced at the latest quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx := cmd.Context()

			trades, err := app.Store.GetTrades(ctx, store.TradeFilter{})
			if err != nil {
				return err
			}
			latest, err := app.Store.GetLatestPrices(ctx)
			if err != nil {
				return err
			}

			summary := portfolio.BuildSummary(trades, latest)
			output := app.newOutput(cmd)

			if output.IsJSON() {
				return output.JSON(summary)
			}
			if len(summary.Positions) == 0 {
				output.Println("No positions: log a trade first")
				return nil
			}

			output.Bold("%-8s %10s %12s %14s %14s %14s %9s",
				"SYMBOL", "NET QTY", "AVG BUY", "CURRENT", "VALUE", "UNREAL P/L", "%")
			for _, pos := range summary.Positions {
				current := "-"
				if pos.HasPrice {
					current = utils.FormatPKR(pos.CurrentPrice)
				}
				output.Printf("%-8s %10s %12s %14s %14s %14s %9s\n",
					pos.Symbol,
					utils.FormatQuantity(pos.NetQty),
					utils.FormatPKR(pos.AvgBuyPrice),
					current,
					utils.FormatPKR(pos.MarketValue),
					output.PnL(utils.FormatPnL(pos.UnrealizedPL), pos.UnrealizedPL),
					utils.FormatPercent(pos.PercentUpDown))
			}

			output.Println()
			output.Printf("Investment   %s\n", utils.FormatPKR(summary.Investment))
			output.Printf("Market value %s\n", utils.FormatPKR(summary.MarketValue))
			output.Printf("Unrealized   %s (%s)\n",
				output.PnL(utils.FormatPnL(summary.UnrealizedPL), summary.UnrealizedPL),
				utils.FormatPercent(summary.PercentUpDown))
			return nil
		},
	}

	cmd.AddCommand(newGainsCmd(app))
	return cmd
}

func newGainsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "gains",
		Short: "Show realized profit matched first-in-first-out",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}

			trades, err := app.Store.GetTrades(cmd.Context(), store.TradeFilter{})
			if err != nil {
				return err
			}

			results := portfolio.RealizedAll(trades)
			output := app.newOutput(cmd)

			if output.IsJSON() {
				return output.JSON(results)
			}
			if len(results) == 0 {
				output.Println("No trades logged")
				return nil
			}

			var total float64
			output.Bold("%-8s %12s %14s %10s", "SYMBOL", "MATCHED", "REALIZED P/L", "OPEN LOTS")
			for _, res := range results {
				total += res.RealizedPL
				output.Printf("%-8s %12s %14s %10d\n",
					res.Symbol,
					utils.FormatQuantity(res.MatchedQty),
					output.PnL(utils.FormatPnL(res.RealizedPL), res.RealizedPL),
					len(res.OpenLots))
			}
			output.Println()
			output.Printf("Total realized %s\n", output.PnL(utils.FormatPnL(total), total))
			return nil
		},
	}
}
