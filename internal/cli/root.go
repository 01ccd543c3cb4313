package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"psx-tracker/internal/config"
	"psx-tracker/internal/errors"
	"psx-tracker/internal/fetch"
	"psx-tracker/internal/logging"
	"psx-tracker/internal/notify"
	"psx-tracker/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

var errStoreUnavailable = errors.Wrap(errors.ErrDatabaseError, "store not initialized")

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Client   *fetch.Client
	Notifier *notify.Notifier
}

// Close releases the application's resources. Safe to call when the store
// never came up.
func (app *App) Close() error {
	if app.Store == nil {
		return nil
	}
	return app.Store.Close()
}

// NewRootCmd creates the root command for the CLI. The returned App holds
// the opened store; the caller closes it after the command tree has run.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) (*cobra.Command, *App) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, some features may be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
	}

	app.Client = fetch.NewClient(time.Duration(cfg.Fetch.TimeoutSeconds)*time.Second, logger)
	app.Notifier = notify.NewNotifier(
		notify.NewTerminalChannel(cfg.Notify.Terminal),
		notify.NewWebhookChannel(cfg.Notify.Webhook.URL, cfg.Notify.Webhook.Enabled),
	)

	rootCmd := &cobra.Command{
		Use:   "psx-tracker",
		Short: "Personal portfolio tracker for the Pakistan Stock Exchange",
		Long: `psx-tracker follows a personal PSX portfolio from the command line.

It scrapes quotes and fundamentals from the public company pages, keeps a
local SQLite ledger of trades, and computes position and profit figures.

Use 'psx-tracker help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/psx-tracker)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newSymbolCmd(app))
	rootCmd.AddCommand(newFetchCmd(app))
	rootCmd.AddCommand(newTradeCmd(app))
	rootCmd.AddCommand(newPortfolioCmd(app))
	rootCmd.AddCommand(newAlertCmd(app))
	rootCmd.AddCommand(newProfileCmd(app))
	rootCmd.AddCommand(newExportCmd(app))

	return rootCmd, app
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
				return
			}
			output.Printf("psx-tracker %s\n", Version)
		},
	}
}

// newBatcher builds a started batcher from config; the caller stops it.
func (app *App) newBatcher() *fetch.Batcher {
	b := fetch.NewBatcher(app.Client, app.Config.Fetch.Workers, app.Config.Fetch.RequestsPerSec, app.Logger)
	b.Start()
	return b
}

// requireStore fails commands that need persistence when the store is down.
func (app *App) requireStore() error {
	if app.Store == nil {
		return errStoreUnavailable
	}
	return nil
}
