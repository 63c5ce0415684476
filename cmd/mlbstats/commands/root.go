package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"mlbstats/lib/configutil"
	"mlbstats/lib/statstore"
	"mlbstats/lib/telemetry"
	"mlbstats/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool

	cfg Config
	tel telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "mlbstats",
	Short: "mlbstats scrapes yearly league leaders, loads them into a database and queries them.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		var err error
		cfg, err = configutil.ReadConfigWithDefaults(*configPath, defaultConfig())
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		tel, err = telemetry.SetupFromEnv(cmd.Context(), "mlbstats")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	},
}

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "config.json5", "The config file, a <name>.local.json5 next to it takes precedence.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output.")
}

// openStore opens the configured store, a store that cannot be reached
// ends the command.
func openStore(ctx context.Context) statstore.Store {
	store, err := statstore.Open(ctx, cfg.Store)
	if err != nil {
		serviceutil.Fatal("failed to open store", err)
	}
	return store
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
