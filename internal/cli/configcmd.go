package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"psx-tracker/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := app.newOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			output.Printf("fetch.workers          %d\n", app.Config.Fetch.Workers)
			output.Printf("fetch.timeout_seconds  %d\n", app.Config.Fetch.TimeoutSeconds)
			output.Printf("fetch.refresh_interval %d\n", app.Config.Fetch.RefreshInterval)
			output.Printf("fetch.requests_per_sec %.1f\n", app.Config.Fetch.RequestsPerSec)
			output.Printf("database.path          %s\n", app.Config.Database.Path)
			output.Printf("logging.level          %s\n", app.Config.Logging.Level)
			output.Printf("notify.terminal        %v\n", app.Config.Notify.Terminal)
			output.Printf("notify.webhook.enabled %v\n", app.Config.Notify.Webhook.Enabled)
			output.Printf("ui.color_enabled       %v\n", app.Config.UI.ColorEnabled)
			output.Printf("ui.date_format         %s\n", app.Config.UI.DateFormat)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			app.newOutput(cmd).Println(filepath.Join(config.DefaultConfigDir(), "config.toml"))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			app.newOutput(cmd).Success("Configuration is valid")
			return nil
		},
	})

	return cmd
}
