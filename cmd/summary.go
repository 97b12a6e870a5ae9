package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/present"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

var (
	sumSel      selection
	sumGroupBy  []string
	sumTop      int
	sumFormat   string
	sumOutput   string
	sumAnalyses bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file|glob]...",
	Short: "Summarize notifications: key figures, top categories and group counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := sumSel.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		opt := stats.ReportOptions{TopN: sumTop, Analyses: sumAnalyses}
		for _, name := range sumGroupBy {
			f, err := dataset.ParseField(name)
			if err != nil {
				return err
			}
			opt.GroupBy = append(opt.GroupBy, f)
		}
		rep := stats.BuildReport(l.Name, l.Records, opt)
		rep.Warnings = l.Stats.Warnings

		var text string
		switch strings.ToLower(sumFormat) {
		case "markdown", "md":
			text = rep.Markdown()
		case "json":
			b, err := utils.PrettyJSON(rep)
			if err != nil {
				return err
			}
			text = string(b) + "\n"
		case "text", "":
			if sumOutput != "" {
				return fmt.Errorf("--output needs --format markdown or json")
			}
			renderReport(cmd, l, rep)
			return nil
		default:
			return fmt.Errorf("unsupported --format: %s (use text, markdown or json)", sumFormat)
		}
		if sumOutput != "" {
			if err := utils.SafeWriteFile(sumOutput, []byte(text)); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote summary to %s\n", sumOutput)
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func renderReport(cmd *cobra.Command, l *loaded, rep *stats.Report) {
	out := cmd.OutOrStdout()
	present.KeyStats(out, rep.Key)
	if !rep.From.IsZero() {
		fmt.Fprintf(out, "Period: %s to %s\n", rep.From.Format("2006-01-02"), rep.To.Format("2006-01-02"))
	}
	present.Counts(out, "Notifying countries", []string{"notifying country"}, rep.NotifyingCountry)
	present.Counts(out, "Origin countries", []string{"origin country"}, rep.OriginCountry)
	products := make([]stats.GroupCount, len(rep.TopProducts))
	for i, g := range rep.TopProducts {
		products[i] = stats.GroupCount{Key: []string{l.Tax.ProductLabel(g.Key[0])}, Count: g.Count}
	}
	present.Counts(out, "Top product categories", []string{"product category"}, products)
	present.Counts(out, "Top hazard categories", []string{"hazard category"}, rep.TopHazards)
	present.Counts(out, "Hazard groups", []string{"hazard group"}, rep.HazardGroups)
	if len(rep.Groups) > 0 {
		present.Counts(out, "Groups by "+strings.Join(rep.GroupBy, ", "), rep.GroupBy, rep.Groups)
	}
	d := rep.GroupDistribution
	fmt.Fprintf(out, "Group sizes (%s): %d groups, mean %.2f, median %.1f, max %.0f\n",
		strings.Join(rep.GroupBy, " x "), d.Count, d.Mean, d.Q50, d.Max)
	for _, a := range rep.Analyses {
		present.Analysis(out, a)
	}
	printWarnings(cmd.ErrOrStderr(), rep.Warnings)
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	sumSel.register(summaryCmd)
	summaryCmd.Flags().StringSliceVar(&sumGroupBy, "group-by", nil, "columns to group by (default notifying_country,hazcat)")
	summaryCmd.Flags().IntVar(&sumTop, "top", 10, "rows per ranking")
	summaryCmd.Flags().StringVar(&sumFormat, "format", "text", "output format: text | markdown | json")
	summaryCmd.Flags().StringVarP(&sumOutput, "output", "o", "", "write the markdown or json summary to this file")
	summaryCmd.Flags().BoolVar(&sumAnalyses, "chi2", false, "include the default chi-square analyses")
}
