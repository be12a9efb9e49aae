package directory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed territories.yaml
var defaultTerritoriesYAML []byte

type territoryFile struct {
	Territories []territoryEntry `yaml:"territories"`
}

type territoryEntry struct {
	Name    string     `yaml:"name"`
	Country string     `yaml:"country"`
	Regions regionList `yaml:"regions"`
	Rep     struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
	} `yaml:"rep"`
}

// regionList accepts a YAML sequence, a JSON array string or a comma
// separated string.
type regionList []string

func (r *regionList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var codes []string
		if err := node.Decode(&codes); err != nil {
			return err
		}
		*r = normalizeRegions(codes)
		return nil
	case yaml.ScalarNode:
		codes, err := parseRegionString(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = normalizeRegions(codes)
		return nil
	default:
		return fmt.Errorf("line %d: regions must be a list or a string", node.Line)
	}
}

func parseRegionString(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "[") {
		var codes []string
		if err := json.Unmarshal([]byte(raw), &codes); err != nil {
			return nil, fmt.Errorf("regions: %w", err)
		}
		return codes, nil
	}
	return strings.Split(raw, ","), nil
}

// normalizeRegions upper-cases and trims codes, dropping blanks and repeats
// while keeping order.
func normalizeRegions(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// LoadTerritorySeeds reads seeds from path, or the embedded defaults when
// path is empty.
func LoadTerritorySeeds(path string) ([]TerritorySeed, error) {
	data := defaultTerritoriesYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read territories file: %w", err)
		}
		data = b
	}
	return parseTerritorySeeds(data)
}

func parseTerritorySeeds(data []byte) ([]TerritorySeed, error) {
	var file territoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse territories: %w", err)
	}

	seeds := make([]TerritorySeed, 0, len(file.Territories))
	for i, t := range file.Territories {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("territory %d: name is required", i+1)
		}
		country := strings.ToUpper(strings.TrimSpace(t.Country))
		if country == "" {
			country = "US"
		}
		regions := []string(t.Regions)
		if regions == nil {
			regions = []string{}
		}
		seed := TerritorySeed{
			Name:     name,
			Regions:  regions,
			Country:  country,
			RepName:  strings.TrimSpace(t.Rep.Name),
			RepEmail: strings.ToLower(strings.TrimSpace(t.Rep.Email)),
		}
		if seed.RepEmail != "" && seed.RepName == "" {
			return nil, fmt.Errorf("territory %q: rep name is required with an email", name)
		}
		seeds = append(seeds, seed)
	}
	return seeds, nil
}
