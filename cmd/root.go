package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/rasff-lens/internal/ai"
	cfgpkg "github.com/KaramelBytes/rasff-lens/internal/config"
	"github.com/KaramelBytes/rasff-lens/internal/logging"
	"github.com/KaramelBytes/rasff-lens/internal/taxonomy"
)

var (
	cfgFile      string
	debug        bool
	logJSON      bool
	taxonomyFile string
	language     string
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "rasff",
	Short: "RASFF Lens: normalize and explore RASFF food safety notifications",
	Long: `RASFF Lens loads RASFF notification exports (CSV, XLSX, XLS), maps free-text
product and hazard categories onto a fixed taxonomy, and summarizes the result
as tables, charts, chi-square tests, a web dashboard and natural-language
questions answered through an LLM.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.rasff/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&taxonomyFile, "taxonomy", "", "YAML file overriding the built-in category tables")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "display language for labels: en | fr (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "LLM HTTP timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	logging.Setup(debug, logJSON)
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
	if f.Changed("taxonomy") {
		cfg.TaxonomyFile = taxonomyFile
	}
	if f.Changed("lang") {
		cfg.Language = strings.ToLower(strings.TrimSpace(language))
	}
}

// config returns the loaded configuration, loading it on first use when
// initialization failed.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func loadTaxonomy() (*taxonomy.Taxonomy, error) {
	c, err := currentConfig()
	if err != nil {
		return nil, err
	}
	tx, err := taxonomy.Load(c.TaxonomyFile)
	if err != nil {
		return nil, err
	}
	tx.Lang = c.Language
	return tx, nil
}

func runtimeConfig(c *cfgpkg.Global) ai.RuntimeConfig {
	return ai.RuntimeConfig{
		HTTPTimeout: c.HTTPTimeout(),
		RetryMax:    c.RetryMaxAttempts,
		BaseDelay:   time.Duration(c.RetryBaseDelayMs) * time.Millisecond,
		MaxDelay:    time.Duration(c.RetryMaxDelayMs) * time.Millisecond,
		APIKey:      c.APIKey,
		BaseURL:     c.BaseURL,
	}
}
