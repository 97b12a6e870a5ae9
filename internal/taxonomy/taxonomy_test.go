package taxonomy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMapCategory_AbsentIsUnknown(t *testing.T) {
	tx := Default()
	for _, in := range []string{"", "   ", "nan", "None", "null"} {
		for _, m := range []Mapping{tx.Products, tx.Hazards} {
			c, g := MapCategory(in, m)
			if c != Unknown || g != Unknown {
				t.Fatalf("MapCategory(%q) = (%q,%q), want Unknown pair", in, c, g)
			}
		}
	}
}

func TestMapCategory_SubstringCaseInsensitive(t *testing.T) {
	tx := Default()
	c, g := tx.MapProduct("Fresh Fruits and Vegetables Mix")
	if c != "Fruits and Vegetables" || g != "Fruits and Vegetables" {
		t.Fatalf("got (%q,%q)", c, g)
	}
	c, g = tx.MapHazard("PESTICIDE RESIDUES")
	if c != "Pesticide Residues" || g != "Pesticide Hazard" {
		t.Fatalf("got (%q,%q)", c, g)
	}
	c, g = tx.MapProduct("spaceship parts")
	if c != Unknown || g != Unknown {
		t.Fatalf("unmatched text should be Unknown, got (%q,%q)", c, g)
	}
}

func TestDefaultTablesSize(t *testing.T) {
	tx := Default()
	if len(tx.Products) != 37 || len(tx.Hazards) != 30 {
		t.Fatalf("tables = %d products, %d hazards; want 37 and 30", len(tx.Products), len(tx.Hazards))
	}
	tests := []struct{ in, cat, group string }{
		{"natural mineral waters", "Natural Mineral Waters", "Beverages"},
		{"soups, broths, sauces and condiments", "Soups, Broths, Sauces", "Prepared Foods"},
		{"wine", "Wine", "Beverages"},
	}
	for _, tt := range tests {
		if c, g := tx.MapProduct(tt.in); c != tt.cat || g != tt.group {
			t.Fatalf("MapProduct(%q) = (%q,%q), want (%q,%q)", tt.in, c, g, tt.cat, tt.group)
		}
	}
}

func TestMapCategory_TableOrderBreaksTies(t *testing.T) {
	m := NewMapping([]Entry{
		{Key: "oil", Category: "Oil", Group: "G1"},
		{Key: "Olive Oil", Category: "Olive Oil", Group: "G2"},
	})
	if m[1].Key != "olive oil" {
		t.Fatalf("keys should be lowercased, got %q", m[1].Key)
	}
	if c, _ := MapCategory("extra virgin olive oil", m); c != "Oil" {
		t.Fatalf("earliest key should win, got %q", c)
	}

	tx := Default()
	if c, _ := tx.MapHazard("GMO / novel food"); c != "GMO / Novel Food" {
		t.Fatalf("got %q", c)
	}
	if c, _ := tx.MapHazard("unauthorised novel food"); c != "Novel Food" {
		t.Fatalf("got %q", c)
	}
}

func TestCorrectHazard(t *testing.T) {
	tx := Default()
	tests := []struct {
		name  string
		in    string
		vocab []string
		want  string
	}{
		{"exact entry", "salmonella", tx.HazardVocabulary, "salmonella"},
		{"typo", "salmonela", tx.HazardVocabulary, "salmonella"},
		{"trailing word uses window distance", "salmonella abc", tx.HazardVocabulary, "salmonella"},
		{"case insensitive", "SALMONELLA", tx.HazardVocabulary, "salmonella"},
		{"word window", "mycotoxin contamination", tx.HazardVocabulary, "mycotoxins"},
		{"distance four", "abcdwxyz", []string{"abcdefgh"}, "abcdwxyz"},
		{"distance three", "abcdexyz", []string{"abcdefgh"}, "abcdefgh"},
		{"first minimum wins", "abcx", []string{"abcy", "abcz"}, "abcy"},
		{"short window needs similarity", "salmonella in meat", []string{"lead"}, "salmonella in meat"},
		{"whole string rule", "meat", []string{"lead"}, "lead"},
		{"empty", "", tx.HazardVocabulary, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CorrectHazard(tt.in, tt.vocab, DefaultMaxDistance); got != tt.want {
				t.Fatalf("CorrectHazard(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMycotoxinScenario(t *testing.T) {
	tx := Default()
	corrected := tx.CorrectHazard("mycotoxin contamination")
	if corrected != "mycotoxins" {
		t.Fatalf("corrected = %q", corrected)
	}
	if got := tx.ResolveHazardCategory(corrected); got != "Mycotoxins" {
		t.Fatalf("category = %q", got)
	}
	if got := tx.Hazards.GroupOf("Mycotoxins"); got != "Biological Hazard" {
		t.Fatalf("group = %q", got)
	}
}

func TestResolveHazardCategory_Fallback(t *testing.T) {
	tx := Default()
	if got := tx.ResolveHazardCategory("aflatoxin B1 in pistachios"); got != "Mycotoxins" {
		t.Fatalf("got %q", got)
	}
	if got := tx.ResolveHazardCategory("something odd"); got != OtherEN {
		t.Fatalf("got %q", got)
	}
	tx.Lang = "fr"
	if got := tx.ResolveHazardCategory("something odd"); got != OtherFR {
		t.Fatalf("got %q", got)
	}
	if got := tx.ProductLabel("Wine"); got != "Vin" {
		t.Fatalf("french label = %q", got)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taxonomy.yaml")
	body := `products:
  - key: Honey
    category: Honey
    group: Sweet
hazard_vocabulary: [histamine]
max_distance: 1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	tx, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tx.Products) != 1 || tx.Products[0].Key != "honey" {
		t.Fatalf("products not overridden: %+v", tx.Products)
	}
	if len(tx.Hazards) != len(Default().Hazards) {
		t.Fatalf("hazards should keep defaults")
	}
	if got := tx.CorrectHazard("histamin"); got != "histamine" {
		t.Fatalf("got %q", got)
	}
	if got := tx.CorrectHazard("histmin"); got != "histmin" {
		t.Fatalf("distance 2 should exceed max_distance 1, got %q", got)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
