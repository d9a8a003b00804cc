package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/offerlens/backend/config"
	"github.com/offerlens/backend/internal/app"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	noColor  bool

	// engine is wired once the configuration has loaded.
	engine *app.Engine
)

var rootCmd = &cobra.Command{
	Use:   "offerlens",
	Short: "Find the cheapest reliable Plati offers",
	Long: `offerlens searches the Plati marketplace, resolves every listing's option
tree against the requested plan and duration, and ranks the priced offers by
cost and seller reputation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			cfg.Log.Level = logLevel
		}
		if noColor {
			color.NoColor = true
		}

		engine = app.New(cfg, app.NewLogger(cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
