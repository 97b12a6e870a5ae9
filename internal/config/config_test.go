package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RASFF_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "or-key")

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Model != "openai/gpt-4o-mini" || c.Provider != "openrouter" {
		t.Fatalf("model/provider = %s/%s", c.Model, c.Provider)
	}
	if c.DownloadTimeout() != 30*time.Second || c.HTTPTimeout() != 60*time.Second || c.QueryTimeout() != 120*time.Second {
		t.Fatalf("timeouts = %v %v %v", c.DownloadTimeout(), c.HTTPTimeout(), c.QueryTimeout())
	}
	if c.WeeklyURLTemplate != DefaultWeeklyTemplate || c.Language != "en" {
		t.Fatalf("data defaults = %q %q", c.WeeklyURLTemplate, c.Language)
	}
	if c.APIKey != "or-key" {
		t.Fatalf("api key fallback = %q", c.APIKey)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("api_key: from-file\nmodel: file-model\nlanguage: FR\ndownload_timeout_sec: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RASFF_MODEL", "env-model")
	t.Setenv("RASFF_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "unused")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Model != "env-model" {
		t.Fatalf("env should win, got %q", c.Model)
	}
	if c.APIKey != "from-file" || c.Language != "fr" || c.DownloadTimeout() != 5*time.Second {
		t.Fatalf("file values = %+v", c)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RASFF_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	c.APIKey = "saved-key"
	c.ListenAddress = "0.0.0.0:9000"
	if err := Save(c, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	dir, _ := Dir()
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	again, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if again.APIKey != "saved-key" || again.ListenAddress != "0.0.0.0:9000" {
		t.Fatalf("reloaded = %+v", again)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}
