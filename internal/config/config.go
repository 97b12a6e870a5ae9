package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	APIKey      string  `mapstructure:"api_key" yaml:"api_key"`
	Model       string  `mapstructure:"model" yaml:"model"`
	Provider    string  `mapstructure:"provider" yaml:"provider"`
	BaseURL     string  `mapstructure:"base_url" yaml:"base_url,omitempty"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`

	// Data sources
	DataURL           string `mapstructure:"data_url" yaml:"data_url"`
	WeeklyURLTemplate string `mapstructure:"weekly_url_template" yaml:"weekly_url_template"`
	TaxonomyFile      string `mapstructure:"taxonomy_file" yaml:"taxonomy_file,omitempty"`
	Language          string `mapstructure:"language" yaml:"language"`

	// Dashboard
	ListenAddress string `mapstructure:"listen_address" yaml:"listen_address"`

	// HTTP/Retry configuration
	HTTPTimeoutSec     int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	DownloadTimeoutSec int `mapstructure:"download_timeout_sec" yaml:"download_timeout_sec"`
	QueryTimeoutSec    int `mapstructure:"query_timeout_sec" yaml:"query_timeout_sec"`
	RetryMaxAttempts   int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs   int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs    int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// Defaults for the data sources; the fetch package carries the same values.
const (
	DefaultDataURL        = "https://raw.githubusercontent.com/M00N69/RASFFPORTAL/main/unified_rasff_data_with_grouping.csv"
	DefaultWeeklyTemplate = "https://www.sirene-diffusion.fr/regia/000-rasff/{yy}/rasff-{yyyy}-{week}.xls"
)

// Dir returns ~/.rasff.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".rasff"), nil
}

// Save writes c to cfgFile, or to ~/.rasff/config.yaml when cfgFile is empty.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env (RASFF_*) > config file > defaults. The API key also falls
// back to OPENROUTER_API_KEY.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("RASFF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_key", "")
	v.SetDefault("model", "openai/gpt-4o-mini")
	v.SetDefault("provider", "openrouter")
	v.SetDefault("base_url", "")
	v.SetDefault("max_tokens", 1024)
	v.SetDefault("temperature", 0.0)
	v.SetDefault("data_url", DefaultDataURL)
	v.SetDefault("weekly_url_template", DefaultWeeklyTemplate)
	v.SetDefault("taxonomy_file", "")
	v.SetDefault("language", "en")
	v.SetDefault("listen_address", "127.0.0.1:8080")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("download_timeout_sec", 30)
	v.SetDefault("query_timeout_sec", 120)
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.APIKey == "" {
		c.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if c.Language != "fr" {
		c.Language = "en"
	}
	return &c, nil
}

// HTTPTimeout is the LLM request timeout.
func (c *Global) HTTPTimeout() time.Duration { return seconds(c.HTTPTimeoutSec, 60) }

// DownloadTimeout bounds each dataset download.
func (c *Global) DownloadTimeout() time.Duration { return seconds(c.DownloadTimeoutSec, 30) }

// QueryTimeout bounds one natural-language question end to end.
func (c *Global) QueryTimeout() time.Duration { return seconds(c.QueryTimeoutSec, 120) }

func seconds(n, def int) time.Duration {
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}
