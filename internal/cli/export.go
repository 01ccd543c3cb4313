package cli

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"psx-tracker/internal/store"
)

func newExportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored data",
	}

	cmd.AddCommand(newExportTradesCmd(app))
	return cmd
}

// exportTrade is the CSV row shape for a ledger entry.
type exportTrade struct {
	Symbol    string  `csv:"symbol"`
	TradeType string  `csv:"trade_type"`
	Quantity  float64 `csv:"quantity"`
	Price     float64 `csv:"price"`
	TradeDate string  `csv:"trade_date"`
	Notes     string  `csv:"notes"`
}

func newExportTradesCmd(app *App) *cobra.Command {
	var (
		outPath string
		symbol  string
	)

	cmd := &cobra.Command{
		Use:   "trades",
		Short: "Export the trade ledger as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}

			trades, err := app.Store.GetTrades(cmd.Context(), store.TradeFilter{Symbol: symbol})
			if err != nil {
				return err
			}

			rows := make([]exportTrade, 0, len(trades))
			for _, t := range trades {
				rows = append(rows, exportTrade{
					Symbol:    t.Symbol,
					TradeType: string(t.TradeType),
					Quantity:  t.Quantity,
					Price:     t.Price,
					TradeDate: t.TradeDate.Format("2006-01-02"),
					Notes:     t.Notes,
				})
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}

			if err := gocsv.Marshal(rows, out); err != nil {
				return err
			}
			if outPath != "" {
				app.newOutput(cmd).Success("Exported %d trades to %s", len(rows), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "output", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&symbol, "symbol", "", "filter by symbol")
	return cmd
}
