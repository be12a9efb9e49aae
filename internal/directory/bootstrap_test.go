package directory

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseTerritorySeedsRegionForms(t *testing.T) {
	data := []byte(`
territories:
  - name: List
    regions: [ny, "NJ ", ny]
  - name: JSON
    regions: '["CA","or"]'
    country: ca
  - name: CSV
    regions: "tx, ok,,la"
    rep:
      name: Pat Doe
      email: Pat.Doe@Example.com
`)
	seeds, err := parseTerritorySeeds(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(seeds) != 3 {
		t.Fatalf("expected 3 seeds, got %d", len(seeds))
	}

	tests := []struct {
		idx     int
		regions []string
		country string
	}{
		{0, []string{"NY", "NJ"}, "US"},
		{1, []string{"CA", "OR"}, "CA"},
		{2, []string{"TX", "OK", "LA"}, "US"},
	}
	for _, tt := range tests {
		got := seeds[tt.idx]
		if !reflect.DeepEqual(got.Regions, tt.regions) || got.Country != tt.country {
			t.Fatalf("seed %s: got regions=%v country=%s", got.Name, got.Regions, got.Country)
		}
	}
	if seeds[2].RepEmail != "pat.doe@example.com" || seeds[2].RepName != "Pat Doe" {
		t.Fatalf("unexpected rep %+v", seeds[2])
	}
}

func TestParseTerritorySeedsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing name", "territories:\n  - regions: [NY]\n"},
		{"rep without name", "territories:\n  - name: East\n    rep:\n      email: a@b.com\n"},
		{"bad json regions", "territories:\n  - name: East\n    regions: '[\"NY\"'\n"},
		{"not yaml", "territories: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseTerritorySeeds([]byte(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadTerritorySeedsEmbeddedDefaults(t *testing.T) {
	seeds, err := LoadTerritorySeeds("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(seeds) != 4 {
		t.Fatalf("expected 4 default territories, got %d", len(seeds))
	}
	for _, s := range seeds {
		if len(s.Regions) == 0 || s.RepEmail == "" {
			t.Fatalf("default territory %s is incomplete: %+v", s.Name, s)
		}
	}
}

func TestLoadTerritorySeedsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "territories.yaml")
	if err := os.WriteFile(path, []byte("territories:\n  - name: Pacific\n    regions: [WA]\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	seeds, err := LoadTerritorySeeds(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(seeds) != 1 || seeds[0].Name != "Pacific" || seeds[0].RepEmail != "" {
		t.Fatalf("unexpected seeds %+v", seeds)
	}

	if _, err := LoadTerritorySeeds(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
