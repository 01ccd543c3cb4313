package cli

import (
	"github.com/spf13/cobra"

	"psx-tracker/internal/models"
	"psx-tracker/pkg/utils"
)

func newAlertCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alert",
		Short: "Manage price band alerts",
		Long: `An alert is identified by its band: the (symbol, min, max)
triple. Adding the same band twice replaces the existing alert.`,
	}

	cmd.AddCommand(newAlertAddCmd(app))
	cmd.AddCommand(newAlertListCmd(app))
	cmd.AddCommand(newAlertToggleCmd(app, "enable", true))
	cmd.AddCommand(newAlertToggleCmd(app, "disable", false))
	cmd.AddCommand(newAlertDeleteCmd(app))
	cmd.AddCommand(newAlertCheckCmd(app))
	return cmd
}

func alertBandFlags(cmd *cobra.Command, min, max *float64) {
	cmd.Flags().Float64Var(min, "min", 0, "lower bound; triggers at or below")
	cmd.Flags().Float64Var(max, "max", 0, "upper bound; triggers at or above")
}

func newAlertAddCmd(app *App) *cobra.Command {
	var minPrice, maxPrice float64

	cmd := &cobra.Command{
		Use:   "add SYMBOL",
		Short: "Add an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			alert := &models.Alert{
				Symbol:   args[0],
				MinPrice: minPrice,
				MaxPrice: maxPrice,
				Enabled:  true,
			}
			if err := app.Store.SaveAlert(cmd.Context(), alert); err != nil {
				return err
			}
			app.newOutput(cmd).Success("Alert set: %s", describeBand(*alert))
			return nil
		},
	}
	alertBandFlags(cmd, &minPrice, &maxPrice)
	return cmd
}

func newAlertListCmd(app *App) *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			alerts, err := app.Store.GetAlerts(cmd.Context(), enabledOnly)
			if err != nil {
				return err
			}
			output := app.newOutput(cmd)
			if output.IsJSON() {
				return output.JSON(alerts)
			}
			if len(alerts) == 0 {
				output.Println("No alerts")
				return nil
			}
			for _, a := range alerts {
				state := output.Green("on")
				if !a.Enabled {
					state = output.DimText("off")
				}
				output.Printf("%-4s %s\n", state, describeBand(a))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only enabled alerts")
	return cmd
}

func newAlertToggleCmd(app *App, use string, enabled bool) *cobra.Command {
	var minPrice, maxPrice float64

	short := "Enable an alert"
	if !enabled {
		short = "Disable an alert"
	}
	cmd := &cobra.Command{
		Use:   use + " SYMBOL",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			if err := app.Store.SetAlertEnabled(cmd.Context(), args[0], minPrice, maxPrice, enabled); err != nil {
				return err
			}
			app.newOutput(cmd).Success("Alert %sd", use)
			return nil
		},
	}
	alertBandFlags(cmd, &minPrice, &maxPrice)
	return cmd
}

func newAlertDeleteCmd(app *App) *cobra.Command {
	var minPrice, maxPrice float64

	cmd := &cobra.Command{
		Use:   "delete SYMBOL",
		Short: "Delete an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			if err := app.Store.DeleteAlert(cmd.Context(), args[0], minPrice, maxPrice); err != nil {
				return err
			}
			app.newOutput(cmd).Success("Alert deleted")
			return nil
		},
	}
	alertBandFlags(cmd, &minPrice, &maxPrice)
	return cmd
}

func newAlertCheckCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Evaluate enabled alerts against the stored latest prices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			ctx := cmd.Context()

			alerts, err := app.Store.GetAlerts(ctx, true)
			if err != nil {
				return err
			}
			latest, err := app.Store.GetLatestPrices(ctx)
			if err != nil {
				return err
			}

			output := app.newOutput(cmd)
			triggered := 0
			for _, a := range alerts {
				sample, ok := latest[a.Symbol]
				if !ok || !a.Matches(sample.Price) {
					continue
				}
				triggered++
				output.Warning("TRIGGERED %s at %s", describeBand(a), utils.FormatPKR(sample.Price))
				if err := app.Notifier.SendAlert(ctx, a, sample.Price); err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to deliver alert")
				}
			}
			if triggered == 0 {
				output.Println("No alerts triggered")
			}
			return nil
		},
	}
}

func describeBand(a models.Alert) string {
	switch {
	case a.MinPrice > 0 && a.MaxPrice > 0:
		return a.Symbol + " outside " + utils.FormatPKR(a.MinPrice) + " - " + utils.FormatPKR(a.MaxPrice)
	case a.MinPrice > 0:
		return a.Symbol + " at or below " + utils.FormatPKR(a.MinPrice)
	default:
		return a.Symbol + " at or above " + utils.FormatPKR(a.MaxPrice)
	}
}
