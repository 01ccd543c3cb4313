package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"psx-tracker/internal/errors"
	"psx-tracker/internal/fetch"
	"psx-tracker/internal/scrape"
	"psx-tracker/pkg/utils"
)

func newFetchCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "fetch [SYMBOL...]",
		Short: "Fetch current quotes",
		Long: `Fetch current quotes for the given symbols, or for the whole
portfolio with --all. Fetched prices are appended to the local history.

A single-symbol fetch exits non-zero on failure; a batch reports per-symbol
failures and keeps going.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx := cmd.Context()
			output := app.newOutput(cmd)

			symbols := args
			if all || len(symbols) == 0 {
				stored, err := app.Store.GetSymbols(ctx)
				if err != nil {
					return err
				}
				symbols = stored
			}
			if len(symbols) == 0 {
				output.Println("Nothing to fetch: portfolio is empty")
				return nil
			}

			// Single symbol: fetch directly and fail loudly.
			if len(symbols) == 1 {
				sample, err := app.Client.FetchQuote(ctx, symbols[0])
				if err != nil {
					return err
				}
				if err := app.Store.SavePrice(ctx, sample); err != nil {
					return err
				}
				printResults(output, []fetch.Result{{Symbol: sample.Symbol, Sample: sample}})
				return nil
			}

			batcher := app.newBatcher()
			defer batcher.Stop()

			results := batcher.FetchAll(ctx, symbols)
			for _, res := range results {
				if res.Err == nil {
					if err := app.Store.SavePrice(ctx, res.Sample); err != nil {
						return err
					}
				}
			}
			printResults(output, results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "fetch every portfolio symbol")

	cmd.AddCommand(newWatchCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	return cmd
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		fromStr string
		toStr   string
	)

	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show stored price samples for a symbol",
		Long: `Show the accumulated price samples for a symbol, oldest first.
Every fetch appends one sample, so the series grows over time. Bound the
range with --from and --to (YYYY-MM-DD, both inclusive).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := app.newOutput(cmd)

			from, err := parseDateFlag(fromStr)
			if err != nil {
				return err
			}
			to, err := parseDateFlag(toStr)
			if err != nil {
				return err
			}
			if !to.IsZero() {
				// Inclusive end date: cover the whole day.
				to = to.Add(24*time.Hour - time.Nanosecond)
			}

			samples, err := app.Store.GetPriceHistory(cmd.Context(), args[0], from, to)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(samples)
			}
			if len(samples) == 0 {
				output.Printf("No price history for %s\n", strings.ToUpper(args[0]))
				return nil
			}

			output.Bold("%-20s %14s  %s", "FETCHED", "PRICE", "CHANGE")
			for _, s := range samples {
				change := ""
				if s.ChangeValue != nil {
					quote := scrape.Quote{ChangeValue: s.ChangeValue}
					change = output.PnL(
						s.Direction+utils.FormatPKR(quote.DisplayChange())+" ("+s.Percentage+")",
						*s.ChangeValue,
					)
				}
				output.Printf("%-20s %14s  %s\n",
					s.FetchedAt.Format(output.dateFormat+" 15:04:05"),
					utils.FormatPKR(s.Price), change)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromStr, "from", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&toStr, "to", "", "end date, YYYY-MM-DD")
	return cmd
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.NewValidationError("date", s, "must be YYYY-MM-DD")
	}
	return parsed, nil
}

func newWatchCmd(app *App) *cobra.Command {
	var intervalSec int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously sweep the portfolio",
		Long: `Sweep every portfolio symbol, print the results, evaluate price
alerts, then wait for the interval and repeat. The interval is measured from
the end of one sweep to the start of the next. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := app.newOutput(cmd)

			interval := time.Duration(intervalSec) * time.Second
			if intervalSec <= 0 {
				interval = time.Duration(app.Config.Fetch.RefreshInterval) * time.Second
			}

			batcher := app.newBatcher()
			defer batcher.Stop()

			watcher := fetch.NewWatcher(batcher, app.Store, app.Notifier, interval, app.Logger)
			watcher.OnSweep(func(results []fetch.Result) {
				output.Printf("\n%s  market %s\n", time.Now().Format("15:04:05"), marketState())
				printResults(output, results)
			})

			output.Info("Watching portfolio every %s", interval)
			err := watcher.Run(cmd.Context())
			if err != nil && err != cmd.Context().Err() {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&intervalSec, "interval", 0, "seconds between sweeps (default from config)")
	return cmd
}

func marketState() string {
	if utils.IsMarketOpen(time.Now()) {
		return "open"
	}
	return "closed"
}

func printResults(output *Output, results []fetch.Result) {
	if output.IsJSON() {
		type row struct {
			Symbol    string   `json:"symbol"`
			Price     *float64 `json:"price,omitempty"`
			Change    *float64 `json:"change,omitempty"`
			Percent   string   `json:"percent,omitempty"`
			Direction string   `json:"direction,omitempty"`
			Error     string   `json:"error,omitempty"`
		}
		rows := make([]row, 0, len(results))
		for _, res := range results {
			r := row{Symbol: res.Symbol}
			if res.Err != nil {
				r.Error = res.Err.Error()
			} else {
				r.Price = &res.Sample.Price
				r.Change = res.Sample.ChangeValue
				r.Percent = res.Sample.Percentage
				r.Direction = res.Sample.Direction
			}
			rows = append(rows, r)
		}
		output.JSON(rows)
		return
	}

	for _, res := range results {
		if res.Err != nil {
			output.Error("%-10s fetch failed: %v", res.Symbol, res.Err)
			continue
		}
		s := res.Sample
		change := ""
		if s.ChangeValue != nil {
			quote := scrape.Quote{ChangeValue: s.ChangeValue}
			change = output.PnL(
				s.Direction+utils.FormatPKR(quote.DisplayChange())+" ("+s.Percentage+")",
				*s.ChangeValue,
			)
		}
		output.Printf("%-10s %14s  %s\n", s.Symbol, utils.FormatPKR(s.Price), change)
	}
}
