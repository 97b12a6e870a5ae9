package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/rasff-lens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set RASFF Lens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "api_key: %s\n", mask(cfg.APIKey))
		fmt.Fprintf(out, "provider: %s\n", cfg.Provider)
		fmt.Fprintf(out, "model: %s\n", cfg.Model)
		if cfg.BaseURL != "" {
			fmt.Fprintf(out, "base_url: %s\n", cfg.BaseURL)
		}
		fmt.Fprintf(out, "max_tokens: %d\n", cfg.MaxTokens)
		fmt.Fprintf(out, "temperature: %.3f\n", cfg.Temperature)
		fmt.Fprintf(out, "data_url: %s\n", cfg.DataURL)
		fmt.Fprintf(out, "weekly_url_template: %s\n", cfg.WeeklyURLTemplate)
		if cfg.TaxonomyFile != "" {
			fmt.Fprintf(out, "taxonomy_file: %s\n", cfg.TaxonomyFile)
		}
		fmt.Fprintf(out, "language: %s\n", cfg.Language)
		fmt.Fprintf(out, "listen_address: %s\n", cfg.ListenAddress)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "download_timeout_sec: %d\n", cfg.DownloadTimeoutSec)
		fmt.Fprintf(out, "query_timeout_sec: %d\n", cfg.QueryTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		ints := map[string]*int{
			"max_tokens":           &c.MaxTokens,
			"http_timeout_sec":     &c.HTTPTimeoutSec,
			"download_timeout_sec": &c.DownloadTimeoutSec,
			"query_timeout_sec":    &c.QueryTimeoutSec,
			"retry_max_attempts":   &c.RetryMaxAttempts,
			"retry_base_delay_ms":  &c.RetryBaseDelayMs,
			"retry_max_delay_ms":   &c.RetryMaxDelayMs,
		}
		switch key {
		case "api_key":
			c.APIKey = val
		case "model":
			c.Model = val
		case "provider":
			p := strings.ToLower(val)
			switch p {
			case "openrouter", "openai":
				c.Provider = p
			default:
				return fmt.Errorf("invalid provider: %s (use openrouter or openai)", val)
			}
		case "base_url":
			c.BaseURL = val
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for temperature: %w", err)
			}
			c.Temperature = f
		case "data_url":
			c.DataURL = val
		case "weekly_url_template":
			if !strings.Contains(val, "{week}") {
				return fmt.Errorf("weekly_url_template needs a {week} placeholder")
			}
			c.WeeklyURLTemplate = val
		case "taxonomy_file":
			c.TaxonomyFile = val
		case "language":
			l := strings.ToLower(val)
			if l != "en" && l != "fr" {
				return fmt.Errorf("invalid language: %s (use en or fr)", val)
			}
			c.Language = l
		case "listen_address":
			c.ListenAddress = val
		default:
			p, ok := ints[key]
			if !ok {
				return fmt.Errorf("unknown key: %s", key)
			}
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for %s: %v", key, val)
			}
			*p = i
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 6 {
		return "******"
	}
	return s[:3] + "****" + s[len(s)-3:]
}
