package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/normalize"
	"github.com/KaramelBytes/rasff-lens/internal/taxonomy"
)

var (
	enrOutput    string
	enrFormat    string
	enrSQLite    string
	enrTable     string
	enrDelimiter string
	enrSheetName string
	enrSheetIdx  int
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <file|glob>...",
	Short: "Add PRODCAT, GROUPPROD, HAZCAT and GROUPHAZ columns to notification files",
	Long: `Enrich reads one or more notification files, maps their "Product Category"
and "Hazard Category" columns onto the taxonomy and writes the rows back with
four derived columns. All original columns and rows are kept as they are.
Several inputs are concatenated into one output.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sel := selection{delimiter: enrDelimiter, sheetName: enrSheetName, sheetIndex: enrSheetIdx}
		opt, err := sel.readOptions()
		if err != nil {
			return err
		}
		tx, err := loadTaxonomy()
		if err != nil {
			return err
		}
		t, _, err := readTables(cmd.Context(), args, false, opt)
		if err != nil {
			return err
		}
		if len(t.Header) == 0 {
			printWarnings(cmd.ErrOrStderr(), t.Warnings)
			return fmt.Errorf("no input could be loaded")
		}
		normalize.EnrichTable(t, tx)

		out := cmd.OutOrStdout()
		format := strings.ToLower(enrFormat)
		path := enrOutput
		if path == "" {
			if len(args) != 1 || strings.ContainsAny(args[0], "*?[{") {
				return fmt.Errorf("--output is required with several inputs")
			}
			base := strings.TrimSuffix(args[0], filepath.Ext(args[0]))
			path = base + "_enriched." + format
		}
		switch format {
		case "csv":
			err = dataset.WriteCSV(path, t)
		case "xlsx":
			err = dataset.WriteXLSX(path, t)
		default:
			return fmt.Errorf("unsupported --format: %s (use csv or xlsx)", enrFormat)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote %d rows to %s\n", t.Len(), path)

		if enrSQLite != "" {
			name := enrTable
			if name == "" {
				name = "notifications"
			}
			if err := dataset.WriteSQLite(cmd.Context(), enrSQLite, name, t); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Exported table %q to %s\n", name, enrSQLite)
		}
		unknownP, unknownH := countUnknown(t)
		fmt.Fprintf(out, "Unmapped product categories: %d, unmapped hazard categories: %d\n", unknownP, unknownH)
		printWarnings(cmd.ErrOrStderr(), t.Warnings)
		return nil
	},
}

func countUnknown(t *dataset.Table) (int, int) {
	var p, h int
	for _, v := range t.Column(dataset.ColProdCat) {
		if v == taxonomy.Unknown {
			p++
		}
	}
	for _, v := range t.Column(dataset.ColHazCat) {
		if v == taxonomy.Unknown {
			h++
		}
	}
	return p, h
}

func init() {
	rootCmd.AddCommand(enrichCmd)
	enrichCmd.Flags().StringVarP(&enrOutput, "output", "o", "", "output path (default <input>_enriched.<format>)")
	enrichCmd.Flags().StringVar(&enrFormat, "format", "csv", "output format: csv | xlsx")
	enrichCmd.Flags().StringVar(&enrSQLite, "sqlite", "", "also export the enriched rows to this SQLite file")
	enrichCmd.Flags().StringVar(&enrTable, "table", "notifications", "SQLite table name")
	enrichCmd.Flags().StringVar(&enrDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	enrichCmd.Flags().StringVar(&enrSheetName, "sheet-name", "", "Excel: sheet name to read")
	enrichCmd.Flags().IntVar(&enrSheetIdx, "sheet-index", 1, "Excel: 1-based sheet index (used if --sheet-name not provided)")
}
