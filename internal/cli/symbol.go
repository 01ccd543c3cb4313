package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newSymbolCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbol",
		Short: "Manage portfolio symbols",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add SYMBOL...",
		Short: "Add symbols to the portfolio",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			output := app.newOutput(cmd)
			for _, sym := range args {
				if err := app.Store.AddSymbol(cmd.Context(), sym); err != nil {
					return err
				}
				output.Success("Added %s", strings.ToUpper(sym))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove SYMBOL",
		Short: "Remove a symbol and its trades and price history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			if err := app.Store.RemoveSymbol(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.newOutput(cmd).Success("Removed %s", strings.ToUpper(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List portfolio symbols",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireStore(); err != nil {
				return err
			}
			symbols, err := app.Store.GetSymbols(cmd.Context())
			if err != nil {
				return err
			}
			output := app.newOutput(cmd)
			if output.IsJSON() {
				return output.JSON(symbols)
			}
			if len(symbols) == 0 {
				output.Println("No symbols in portfolio")
				return nil
			}
			for _, sym := range symbols {
				output.Println(sym)
			}
			return nil
		},
	})

	return cmd
}
