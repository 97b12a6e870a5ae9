package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/present"
	"github.com/KaramelBytes/rasff-lens/internal/present/chart"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

var (
	anaSel  selection
	anaRow  string
	anaCol  string
	anaTop  int
	anaJSON bool
	anaHeat string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|glob]...",
	Short: "Chi-square tests of independence between notification fields",
	Long: `Without --row/--col, runs product category x hazard category and notifying
country x hazard group. Yates' correction applies to 2x2 tables; significance
is judged at alpha 0.05.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (anaRow == "") != (anaCol == "") {
			return fmt.Errorf("--row and --col go together")
		}
		l, err := anaSel.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		printWarnings(cmd.ErrOrStderr(), l.Stats.Warnings)
		var analyses []stats.Analysis
		if anaRow == "" {
			analyses = stats.DefaultAnalyses(l.Records)
		} else {
			rf, err := dataset.ParseField(anaRow)
			if err != nil {
				return err
			}
			cf, err := dataset.ParseField(anaCol)
			if err != nil {
				return err
			}
			ct := stats.NewCrosstab(l.Records, rf, cf)
			a := stats.Analysis{Title: fmt.Sprintf("%s vs %s", rf, cf), Crosstab: ct}
			if res, err := stats.ChiSquare(ct, anaTop); err != nil {
				a.Err = err.Error()
			} else {
				a.Result = res
			}
			analyses = []stats.Analysis{a}
		}
		if anaHeat != "" {
			for _, a := range analyses {
				if a.Crosstab == nil {
					continue
				}
				path := filepath.Join(anaHeat, fmt.Sprintf("heatmap-%s-%s.svg", a.Crosstab.RowField, a.Crosstab.ColField))
				if err := utils.SafeWriteFile(path, chart.Heatmap(a.Title, a.Crosstab)); err != nil {
					return fmt.Errorf("write heatmap: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "heatmap saved: %s\n", path)
			}
		}
		if anaJSON {
			b, err := utils.PrettyJSON(analyses)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		for _, a := range analyses {
			present.Analysis(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	anaSel.register(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaRow, "row", "", "row field of a custom crosstab (e.g. origin_country)")
	analyzeCmd.Flags().StringVar(&anaCol, "col", "", "column field of a custom crosstab (e.g. grouphaz)")
	analyzeCmd.Flags().IntVar(&anaTop, "top", 10, "strongest cells to list")
	analyzeCmd.Flags().BoolVar(&anaJSON, "json", false, "print the analyses as JSON")
	analyzeCmd.Flags().StringVar(&anaHeat, "heatmap-dir", "", "also write one heatmap SVG per analysis into this directory")
}
