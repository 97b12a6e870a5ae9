package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/dataset"
	"github.com/KaramelBytes/rasff-lens/internal/fetch"
	"github.com/KaramelBytes/rasff-lens/internal/normalize"
	"github.com/KaramelBytes/rasff-lens/internal/stats"
	"github.com/KaramelBytes/rasff-lens/internal/taxonomy"
	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

// selection holds the input and filter flags shared by the read commands.
type selection struct {
	remote     bool
	sheetName  string
	sheetIndex int
	delimiter  string
	noCorrect  bool

	from, to           string
	productGroups      []string
	productCategories  []string
	hazardGroups       []string
	hazardCategories   []string
	notifyingCountries []string
	originCountries    []string
}

func (s *selection) register(c *cobra.Command) {
	f := c.Flags()
	f.BoolVar(&s.remote, "remote", false, "download the unified dataset instead of reading files")
	f.StringVar(&s.sheetName, "sheet-name", "", "Excel: sheet name to read")
	f.IntVar(&s.sheetIndex, "sheet-index", 1, "Excel: 1-based sheet index (used if --sheet-name not provided)")
	f.StringVar(&s.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (sniffed if omitted)")
	f.BoolVar(&s.noCorrect, "no-correct", false, "skip fuzzy correction of hazard names")
	f.StringVar(&s.from, "from", "", "keep notifications on or after this date")
	f.StringVar(&s.to, "to", "", "keep notifications on or before this date")
	f.StringSliceVar(&s.productGroups, "product-group", nil, "filter by product group (repeatable)")
	f.StringSliceVar(&s.productCategories, "product-category", nil, "filter by product category (repeatable)")
	f.StringSliceVar(&s.hazardGroups, "hazard-group", nil, "filter by hazard group (repeatable)")
	f.StringSliceVar(&s.hazardCategories, "hazard-category", nil, "filter by hazard category (repeatable)")
	f.StringSliceVar(&s.notifyingCountries, "notifying-country", nil, "filter by notifying country (repeatable)")
	f.StringSliceVar(&s.originCountries, "origin-country", nil, "filter by origin country (repeatable)")
}

func (s *selection) readOptions() (dataset.Options, error) {
	opt := dataset.Options{SheetName: s.sheetName, SheetIndex: s.sheetIndex}
	switch s.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case ";":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", s.delimiter)
	}
	return opt, nil
}

func (s *selection) filter() (stats.Filter, error) {
	f := stats.Filter{
		ProductGroups:      s.productGroups,
		ProductCategories:  s.productCategories,
		HazardGroups:       s.hazardGroups,
		HazardCategories:   s.hazardCategories,
		NotifyingCountries: s.notifyingCountries,
		OriginCountries:    s.originCountries,
	}
	if s.from != "" {
		d, ok := dataset.ParseDate(s.from)
		if !ok {
			return f, fmt.Errorf("invalid --from date %q", s.from)
		}
		f.From = d
	}
	if s.to != "" {
		d, ok := dataset.ParseDate(s.to)
		if !ok {
			return f, fmt.Errorf("invalid --to date %q", s.to)
		}
		f.To = d
	}
	return f, nil
}

// loaded is a normalized, filtered selection.
type loaded struct {
	Name    string
	Tax     *taxonomy.Taxonomy
	All     []dataset.Record
	Records []dataset.Record
	Stats   normalize.Stats
}

// readTables reads every input (globs allowed) and concatenates them. A file
// that fails to load is reported in the table warnings and skipped; when
// nothing loads the table is empty.
func readTables(ctx context.Context, args []string, remote bool, opt dataset.Options) (*dataset.Table, string, error) {
	if remote {
		c, err := currentConfig()
		if err != nil {
			return nil, "", err
		}
		t, err := fetch.New(c.WeeklyURLTemplate, c.DownloadTimeout()).FetchMain(ctx, c.DataURL)
		if err != nil {
			return nil, "", err
		}
		return t, c.DataURL, nil
	}
	if len(args) == 0 {
		return nil, "", fmt.Errorf("no input files (pass paths or globs, or --remote)")
	}
	paths, err := utils.ExpandInputs(args)
	if err != nil {
		return nil, "", err
	}
	all := dataset.NewTable("", nil, nil)
	var failed []string
	var names []string
	for _, p := range paths {
		t, err := dataset.ReadFile(p, opt)
		if err != nil {
			log.Warn().Err(err).Str("file", p).Msg("skipping input")
			failed = append(failed, fmt.Sprintf("load %s: %v", p, err))
			continue
		}
		log.Debug().Str("file", p).Int("rows", t.Len()).Msg("loaded")
		if len(names) == 0 {
			all.Name = t.Name
		}
		all.Append(t)
		names = append(names, p)
	}
	all.Warnings = append(failed, all.Warnings...)
	return all, strings.Join(names, ", "), nil
}

// load reads, normalizes and filters the selection.
func (s *selection) load(ctx context.Context, args []string) (*loaded, error) {
	opt, err := s.readOptions()
	if err != nil {
		return nil, err
	}
	f, err := s.filter()
	if err != nil {
		return nil, err
	}
	tx, err := loadTaxonomy()
	if err != nil {
		return nil, err
	}
	t, name, err := readTables(ctx, args, s.remote, opt)
	if err != nil {
		return nil, err
	}
	nopt := normalize.DefaultOptions()
	nopt.CorrectHazards = !s.noCorrect
	recs, st := normalize.Records(t, tx, nopt)
	st.Warnings = append(append([]string(nil), t.Warnings...), st.Warnings...)
	return &loaded{Name: name, Tax: tx, All: recs, Records: f.Apply(recs), Stats: st}, nil
}

func printWarnings(w io.Writer, warnings []string) {
	for _, m := range warnings {
		fmt.Fprintf(w, "⚠ Warning: %s\n", m)
	}
}
