package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/rasff-lens/internal/present"
	"github.com/KaramelBytes/rasff-lens/internal/taxonomy"
	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

var (
	taxKind   string
	taxOutput string
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Inspect, export or try the category tables",
}

var taxonomyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the product or hazard mapping table",
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := loadTaxonomy()
		if err != nil {
			return err
		}
		var m taxonomy.Mapping
		switch strings.ToLower(taxKind) {
		case "product", "products":
			m = tx.Products
		case "hazard", "hazards":
			m = tx.Hazards
		default:
			return fmt.Errorf("invalid --kind: %s (use product or hazard)", taxKind)
		}
		rows := make([][]string, 0, len(m))
		for _, e := range m {
			rows = append(rows, []string{e.Key, e.Category, e.Group})
		}
		fmt.Fprintln(cmd.OutOrStdout(), present.Table([]string{"key", "category", "group"}, rows))
		fmt.Fprintf(cmd.OutOrStdout(), "%d keys, %d categories, %d groups\n", len(m), len(m.Categories()), len(m.Groups()))
		return nil
	},
}

var taxonomyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the effective tables as an override YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := loadTaxonomy()
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(tx.Export())
		if err != nil {
			return err
		}
		if taxOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), string(b))
			return nil
		}
		if err := utils.SafeWriteFile(taxOutput, b); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote taxonomy to %s\n", taxOutput)
		return nil
	},
}

var taxonomyMapCmd = &cobra.Command{
	Use:   "map <text>",
	Short: "Show how a free-text category or hazard name is mapped",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := loadTaxonomy()
		if err != nil {
			return err
		}
		text := strings.Join(args, " ")
		out := cmd.OutOrStdout()
		pc, pg := tx.MapProduct(text)
		hc, hg := tx.MapHazard(text)
		corrected := tx.CorrectHazard(text)
		fmt.Fprintf(out, "product:   %s (%s)\n", tx.ProductLabel(pc), pg)
		fmt.Fprintf(out, "hazard:    %s (%s)\n", hc, hg)
		fmt.Fprintf(out, "corrected: %s\n", corrected)
		fmt.Fprintf(out, "resolved:  %s\n", tx.ResolveHazardCategory(corrected))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
	taxonomyCmd.AddCommand(taxonomyShowCmd, taxonomyExportCmd, taxonomyMapCmd)
	taxonomyShowCmd.Flags().StringVar(&taxKind, "kind", "product", "table to show: product | hazard")
	taxonomyExportCmd.Flags().StringVarP(&taxOutput, "output", "o", "", "output YAML file (stdout if omitted)")
}
