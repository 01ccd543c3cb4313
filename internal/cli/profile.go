package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"psx-tracker/internal/models"
	"psx-tracker/internal/scrape"
	"psx-tracker/pkg/utils"
)

func newProfileCmd(app *App) *cobra.Command {
	var (
		payoutsOnly    bool
		financialsOnly bool
		ratiosOnly     bool
		cached         bool
	)

	cmd := &cobra.Command{
		Use:   "profile SYMBOL",
		Short: "Fetch and show company fundamentals",
		Long: `Fetch the fundamentals document for a symbol: payouts, annual
and quarterly statements, and ratios from the PSX page, plus company details
from Sarmaaya. The document replaces any stored one. With --cached the
stored document is shown without fetching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx := cmd.Context()
			symbol := strings.ToUpper(args[0])
			output := app.newOutput(cmd)

			var profile *models.StockProfile
			var err error
			if cached {
				profile, err = app.Store.GetProfile(ctx, symbol)
			} else {
				profile, err = app.Client.FetchProfile(ctx, symbol)
				if err == nil {
					if saveErr := app.Store.SaveProfile(ctx, profile); saveErr != nil {
						app.Logger.Warn().Err(saveErr).Msg("Failed to persist profile")
					}
				}
			}
			if err != nil {
				return err
			}

			showAll := !payoutsOnly && !financialsOnly && !ratiosOnly
			if output.IsJSON() {
				return output.JSON(profile)
			}

			if profile.Company.Name != "" {
				output.Bold("%s (%s)", profile.Company.Name, profile.Symbol)
				if profile.Company.Sector != "" {
					output.Printf("Sector: %s\n", profile.Company.Sector)
				}
				if profile.Company.ListingDate != "" {
					output.Printf("Listed: %s\n", profile.Company.ListingDate)
				}
			} else {
				output.Bold("%s", profile.Symbol)
			}

			if showAll {
				printPerformance(output, profile.Performance)
			}
			if showAll || payoutsOnly {
				printPayouts(output, profile.Payouts)
			}
			if showAll || financialsOnly {
				printRecords(output, "Annual", profile.Financials.Annual)
				printRecords(output, "Quarterly", profile.Financials.Quarterly)
			}
			if showAll || ratiosOnly {
				printRecords(output, "Ratios", profile.Ratios)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&payoutsOnly, "payouts", false, "show only payouts")
	cmd.Flags().BoolVar(&financialsOnly, "financials", false, "show only financial statements")
	cmd.Flags().BoolVar(&ratiosOnly, "ratios", false, "show only ratios")
	cmd.Flags().BoolVar(&cached, "cached", false, "show the stored document without fetching")
	return cmd
}

// returnWindows is the display order for the trailing-return table.
var returnWindows = []string{"1D", "1W", "1M", "3M", "6M", "YTD", "1Y", "3Y", "5Y"}

func printPerformance(output *Output, perf map[string]float64) {
	if len(perf) == 0 {
		return
	}
	output.Println()
	output.Info("Returns")
	seen := make(map[string]bool, len(perf))
	for _, window := range returnWindows {
		if v, ok := perf[window]; ok {
			output.Printf("  %-4s %s\n", window, utils.FormatPercent(v))
			seen[window] = true
		}
	}
	var rest []string
	for window := range perf {
		if !seen[window] {
			rest = append(rest, window)
		}
	}
	sort.Strings(rest)
	for _, window := range rest {
		output.Printf("  %-4s %s\n", window, utils.FormatPercent(perf[window]))
	}
}

func printPayouts(output *Output, payouts []models.Payout) {
	output.Println()
	output.Info("Payouts")
	if len(payouts) == 0 {
		output.Println("  none")
		return
	}
	for _, p := range payouts {
		var parts []string
		for _, key := range sortedKeys(p) {
			parts = append(parts, key+": "+p[key])
		}
		output.Printf("  %s\n", strings.Join(parts, "  "))
	}
}

func printRecords(output *Output, title string, records []models.PeriodRecord) {
	output.Println()
	output.Info("%s", title)
	if len(records) == 0 {
		output.Println("  none")
		return
	}
	for _, rec := range records {
		output.Printf("  %s\n", rec["period"])
		for _, key := range sortedKeys(rec) {
			if key == "period" {
				continue
			}
			value := rec[key]
			if cleaned := scrape.CleanScalar(value); cleaned == nil {
				value = "-"
			}
			output.Printf("    %-24s %s\n", key, value)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
