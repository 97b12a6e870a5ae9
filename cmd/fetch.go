package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/fetch"
	"github.com/KaramelBytes/rasff-lens/internal/normalize"
)

var (
	fetYear     int
	fetFromWeek int
	fetToWeek   int
	fetBase     string
	fetOutput   string
	fetURL      string
	fetTemplate string
	fetNoEnrich bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download RASFF exports",
}

var fetchWeeksCmd = &cobra.Command{
	Use:   "weeks",
	Short: "Download weekly Excel exports and append them to a dataset",
	Long: `Downloads the weekly exports of one year, from --from-week up to the week
before the current one (or --to-week). A week that cannot be downloaded or
decoded is reported and skipped. The new rows are enriched and appended to
--base when given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if fetOutput == "" {
			return fmt.Errorf("--output is required")
		}
		template := c.WeeklyURLTemplate
		if fetTemplate != "" {
			template = fetTemplate
		}
		year := fetYear
		if year == 0 {
			year, _ = time.Now().ISOWeek()
		}
		var weeks []fetch.Week
		if fetToWeek > 0 {
			weeks = fetch.WeekRange(year, fetFromWeek, fetToWeek)
		} else {
			weeks = fetch.WeeksUntil(time.Now(), year, fetFromWeek)
		}
		if len(weeks) == 0 {
			return fmt.Errorf("no weeks to fetch for %d from week %d", year, fetFromWeek)
		}

		out := cmd.OutOrStdout()
		res := fetch.New(template, c.DownloadTimeout()).FetchWeeks(cmd.Context(), weeks)
		for _, we := range res.Failed {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %v\n", we)
		}
		fmt.Fprintf(out, "Fetched %d of %d weeks (%d rows, run %s)\n", len(res.Loaded), len(weeks), res.Table.Len(), res.RunID)

		t := res.Table
		if !fetNoEnrich {
			tx, err := loadTaxonomy()
			if err != nil {
				return err
			}
			normalize.EnrichTable(t, tx)
		}
		if fetBase != "" {
			base, err := dataset.ReadFile(fetBase, dataset.Options{})
			if err != nil {
				return fmt.Errorf("load base dataset: %w", err)
			}
			before := base.Len()
			base.Append(t)
			t = base
			fmt.Fprintf(out, "Appended %d rows to %d existing rows\n", t.Len()-before, before)
		}
		if err := writeTable(fetOutput, t); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote %d rows to %s\n", t.Len(), fetOutput)
		return nil
	},
}

var fetchMainCmd = &cobra.Command{
	Use:   "main",
	Short: "Download the unified RASFF dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		if fetOutput == "" {
			return fmt.Errorf("--output is required")
		}
		url := c.DataURL
		if fetURL != "" {
			url = fetURL
		}
		t, err := fetch.New(c.WeeklyURLTemplate, c.DownloadTimeout()).FetchMain(cmd.Context(), url)
		if err != nil {
			return err
		}
		if err := writeTable(fetOutput, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d rows to %s\n", t.Len(), fetOutput)
		return nil
	},
}

// writeTable picks the writer from the file extension.
func writeTable(path string, t *dataset.Table) error {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return dataset.WriteXLSX(path, t)
	}
	return dataset.WriteCSV(path, t)
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.AddCommand(fetchWeeksCmd)
	fetchCmd.AddCommand(fetchMainCmd)
	fetchCmd.PersistentFlags().StringVarP(&fetOutput, "output", "o", "", "output file (.csv or .xlsx)")
	fetchWeeksCmd.Flags().IntVar(&fetYear, "year", 0, "ISO year of the weekly exports (default current ISO year)")
	fetchWeeksCmd.Flags().IntVar(&fetFromWeek, "from-week", 1, "first ISO week to download")
	fetchWeeksCmd.Flags().IntVar(&fetToWeek, "to-week", 0, "last ISO week to download (default: week before the current one)")
	fetchWeeksCmd.Flags().StringVar(&fetBase, "base", "", "existing dataset to append the new weeks to")
	fetchWeeksCmd.Flags().StringVar(&fetTemplate, "url-template", "", "weekly URL template with {yy}, {yyyy} and {week} (overrides config)")
	fetchWeeksCmd.Flags().BoolVar(&fetNoEnrich, "no-enrich", false, "do not add the derived category columns")
	fetchMainCmd.Flags().StringVar(&fetURL, "url", "", "dataset URL (overrides config)")
}
