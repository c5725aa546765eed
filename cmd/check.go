package main

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkTimeout time.Duration

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Open one warehouse connection and print the server version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("load"); err != nil {
			return err
		}
		src, err := newSource(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), checkTimeout)
		defer cancel()

		version, err := src.Version(ctx)
		if err != nil {
			return err
		}
		zap.L().Info("warehouse reachable", zap.String("driver", cfg.Warehouse.Driver), zap.String("version", version))
		color.Green("%s: %s", cfg.Warehouse.Driver, version)
		return nil
	},
}

func init() {
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "connection timeout")
	rootCmd.AddCommand(checkCmd)
}
