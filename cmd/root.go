package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/procolombia/territory-profile/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "territory-profile",
	Short: "Socioeconomic profile of a single territory",
	Long: `territory-profile reads the municipal indicators, the business fabric
and the geocoding table from the analytics warehouse and builds the
profile of one region/territory pair.

The warehouse is selected with warehouse.driver: postgres, sqlite or files
(CSV and xlsx exports in a local directory). Settings come from
config.yaml and from TERRITORY_* environment variables; warehouse
credentials are usually kept in a .env file next to the binary.

Use "profile" for terminal tables, "report" for the xlsx download, "serve"
for the HTTP API and "check" to validate the tables without rendering.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log, cfg.Warehouse.Driver); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		zap.L().Debug("config loaded",
			zap.String("command", cmd.Name()),
			zap.String("default_region", cfg.Dashboard.DefaultRegion),
		)

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
