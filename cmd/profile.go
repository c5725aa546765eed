package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/procolombia/territory-profile/internal/metrics"
)

var (
	profileRegion    string
	profileTerritory string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the profile of one territory as terminal tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildProfile(cmd, profileRegion, profileTerritory)
		if err != nil {
			return err
		}
		renderProfile(os.Stdout, p)
		return nil
	},
}

// buildProfile loads the base tables and builds the profile of the pair.
// An empty region falls back to the configured default.
func buildProfile(cmd *cobra.Command, region, name string) (*metrics.Profile, error) {
	data, err := loadContext(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	if region == "" {
		region = data.DefaultRegion()
	}
	if name == "" {
		return nil, fmt.Errorf("--territory is required; %s has %d territories", region, len(data.Territories(region)))
	}

	sel, err := data.Resolve(region, name)
	if err != nil {
		return nil, err
	}
	cat, err := metrics.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return metrics.Build(sel, cat), nil
}

func renderProfile(w io.Writer, p *metrics.Profile) {
	heading := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.FgYellow)

	heading.Fprintf(w, "\n%s\n", p.Title)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Indicador", "Valor"})
	table.Append([]string{"Código", p.Code})
	for _, f := range []metrics.Figure{p.Population, p.ValueAdded} {
		table.Append([]string{f.Label, figureText(f)})
	}
	table.Append([]string{"PDET", figureText(p.PDET)})
	table.Append([]string{"ZOMAC", figureText(p.ZOMAC)})
	table.Render()

	for _, pie := range p.Pies {
		heading.Fprintf(w, "\n%s (%s)\n", chartTitle(pie.Title, pie.ID), pie.Center)
		if pie.NoData {
			faint.Fprintln(w, "Sin datos")
			continue
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Categoría", "%"})
		for _, s := range pie.Slices {
			table.Append([]string{s.Label, metrics.FormatShare(s.Value)})
		}
		table.Render()
	}

	for _, bar := range p.Bars {
		if bar.Section != "" {
			heading.Fprintf(w, "\n%s\n", bar.Section)
		}
		heading.Fprintf(w, "\n%s\n", bar.Title)
		if bar.NoData {
			faint.Fprintln(w, "Sin datos")
			continue
		}
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Categoría", "Empresas", "%"})
		for i := len(bar.Groups) - 1; i >= 0; i-- {
			g := bar.Groups[i]
			table.Append([]string{g.Label, metrics.FormatCount(g.Count), metrics.FormatShare(g.Share)})
		}
		table.SetFooter([]string{"Total", bar.TotalText, ""})
		table.Render()
	}
}

func figureText(f metrics.Figure) string {
	if f.NoData {
		return "Sin datos"
	}
	return f.Text
}

func chartTitle(title, id string) string {
	if title != "" {
		return title
	}
	return id
}

func init() {
	profileCmd.Flags().StringVar(&profileRegion, "region", "", "region (departamento); defaults to dashboard.default_region")
	profileCmd.Flags().StringVar(&profileTerritory, "territory", "", "territory (municipio) within the region")
	rootCmd.AddCommand(profileCmd)
}

