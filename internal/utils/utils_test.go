package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/rasff-lens/internal/utils"
)

func TestCountTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"short", "abc", 1},
		{"words", "hello world!", 3},
		{"long", strings.Repeat("a", 4000), 1000},
	}
	for _, c := range cases {
		if got := utils.CountTokens(c.in); got != c.want {
			t.Errorf("%s: got %d want %d", c.name, got, c.want)
		}
	}
}

func TestTruncateToTokenLimit(t *testing.T) {
	text := strings.Repeat("abcd ", 1000)
	trunc := utils.TruncateToTokenLimit(text, 300)
	if n := utils.CountTokens(trunc); n != 300 {
		t.Fatalf("tokens=%d, want 300", n)
	}
	if utils.TruncateToTokenLimit("short", 10) != "short" {
		t.Fatalf("short text should be untouched")
	}
	if utils.TruncateToTokenLimit("x", 0) != "" {
		t.Fatalf("zero limit should be empty")
	}
}

func TestSafeWriteFileCreatesParents(t *testing.T) {
	p := filepath.Join(t.TempDir(), "a", "b", "out.json")
	b, err := utils.PrettyJSON(map[string]int{"n": 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := utils.SafeWriteFile(p, b); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	got, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{\n  \"n\": 1\n}" {
		t.Fatalf("content = %q", got)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"2023/w01.csv", "2024/w02.csv", "2024/deep/w03.csv", "2024/notes.txt"} {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	plain := filepath.Join(dir, "2023", "w01.csv")
	got, err := utils.ExpandInputs([]string{plain, filepath.Join(dir, "**", "*.csv")})
	if err != nil {
		t.Fatalf("ExpandInputs: %v", err)
	}
	if len(got) != 3 || got[0] != plain {
		t.Fatalf("got %v", got)
	}
	for _, g := range got {
		if !strings.HasSuffix(g, ".csv") {
			t.Fatalf("unexpected match %s", g)
		}
	}
	if _, err := utils.ExpandInputs([]string{filepath.Join(dir, "*.xls")}); err == nil {
		t.Fatalf("expected error for empty glob")
	}
}
