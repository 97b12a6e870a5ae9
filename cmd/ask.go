package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/ai"
	cfgpkg "github.com/KaramelBytes/rasff-lens/internal/config"
	"github.com/KaramelBytes/rasff-lens/internal/present"
	"github.com/KaramelBytes/rasff-lens/internal/query"
)

var (
	askSel      selection
	askQuestion string
	askModel    string
	askChartDir string
)

var askCmd = &cobra.Command{
	Use:   "ask [file|glob]...",
	Short: "Ask natural-language questions about the notifications",
	Long: `Sends each question with a compact schema of the selection to the configured
LLM, which replies with a query plan. The plan runs locally and the answer is
printed as a table, a chart (saved as SVG) or text. Without -q an interactive
prompt reads questions until "exit" or end of input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		eng, err := newEngine(c, askModel)
		if err != nil {
			return err
		}
		l, err := askSel.load(cmd.Context(), args)
		if err != nil {
			return err
		}
		printWarnings(cmd.ErrOrStderr(), l.Stats.Warnings)
		p := &present.Presenter{W: cmd.OutOrStdout(), ChartDir: askChartDir}
		if askQuestion != "" {
			res, err := askOnce(cmd.Context(), c, eng, l, askQuestion)
			if err != nil {
				return err
			}
			return p.Render(res)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d notifications loaded. Type a question, or \"exit\" to quit.\n", len(l.Records))
		sc := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !sc.Scan() {
				fmt.Fprintln(out)
				return sc.Err()
			}
			q := strings.TrimSpace(sc.Text())
			switch strings.ToLower(q) {
			case "":
				continue
			case "exit", "quit":
				return nil
			}
			res, err := askOnce(cmd.Context(), c, eng, l, q)
			if query.IsConfigError(err) {
				return err
			}
			if err != nil {
				p.Error(err)
				continue
			}
			if err := p.Render(res); err != nil {
				p.Error(err)
			}
		}
	},
}

// newEngine builds the query engine for the configured provider.
func newEngine(c *cfgpkg.Global, model string) (*query.Engine, error) {
	rt, err := ai.MustRuntime(c.Provider, runtimeConfig(c))
	if err != nil {
		return nil, &query.ConfigError{Msg: err.Error()}
	}
	if model == "" {
		model = c.Model
	}
	return query.New(rt, query.Options{
		APIKey:      c.APIKey,
		Model:       model,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
}

func askOnce(ctx context.Context, c *cfgpkg.Global, eng *query.Engine, l *loaded, q string) (query.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.QueryTimeout())
	defer cancel()
	res, err := eng.Ask(ctx, l.Records, q)
	if err != nil {
		log.Debug().Err(err).Str("question", q).Msg("question failed")
		return nil, err
	}
	return res, nil
}

func init() {
	rootCmd.AddCommand(askCmd)
	askSel.register(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "ask one question and exit")
	askCmd.Flags().StringVar(&askModel, "model", "", "model override (defaults to config model)")
	askCmd.Flags().StringVar(&askChartDir, "chart-dir", ".", "directory for generated chart SVGs")
}
