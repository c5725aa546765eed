package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/procolombia/territory-profile/internal/report"
)

var (
	reportRegion    string
	reportTerritory string
	reportOut       string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the profile of one territory to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildProfile(cmd, reportRegion, reportTerritory)
		if err != nil {
			return err
		}

		out := reportOut
		if out == "" {
			out = fmt.Sprintf("perfil-%s.xlsx", p.Code)
		}
		if err := report.Save(out, p); err != nil {
			return err
		}

		zap.L().Info("report written", zap.String("path", out), zap.String("code", p.Code))
		color.Green("Report written to %s", out)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRegion, "region", "", "region (departamento); defaults to dashboard.default_region")
	reportCmd.Flags().StringVar(&reportTerritory, "territory", "", "territory (municipio) within the region")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output path (default perfil-<code>.xlsx)")
	rootCmd.AddCommand(reportCmd)
}
