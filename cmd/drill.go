package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/present"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
)

var (
	drlSel   selection
	drlGroup string
	drlTop   int
)

var drillCmd = &cobra.Command{
	Use:   "drill [file|glob]...",
	Short: "Break a hazard group down into categories and substances",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := drlSel.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		printWarnings(cmd.ErrOrStderr(), l.Stats.Warnings)
		out := cmd.OutOrStdout()
		if drlGroup == "" {
			fmt.Fprintln(out, "Hazard groups:")
			for _, g := range stats.ValueCounts(l.Records, dataset.FieldGroupHaz, 0) {
				fmt.Fprintf(out, "- %s (%d)\n", g.Key[0], g.Count)
			}
			return nil
		}
		present.Drill(out, stats.DrillDown(l.Records, drlGroup, drlTop))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(drillCmd)
	drlSel.register(drillCmd)
	drillCmd.Flags().StringVar(&drlGroup, "group", "", "hazard group to drill into (lists groups when omitted)")
	drillCmd.Flags().IntVar(&drlTop, "top", 10, "substances per hazard category")
}
