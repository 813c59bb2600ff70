package rank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedRank is one entry of the YAML rank table used to bootstrap a
// company's hierarchy (configs/ranks.yaml).
type SeedRank struct {
	Name    string   `yaml:"name"`
	Level   int      `yaml:"level"`
	Aliases []string `yaml:"aliases"`
}

type seedFile struct {
	Ranks []SeedRank `yaml:"ranks"`
}

func ParseSeed(data []byte) ([]SeedRank, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rank seed: %w", err)
	}

	seen := make(map[int]string, len(f.Ranks))
	for _, r := range f.Ranks {
		if r.Name == "" {
			return nil, fmt.Errorf("rank seed: entry with empty name")
		}
		if prev, dup := seen[r.Level]; dup {
			return nil, fmt.Errorf("rank seed: level %d used by both %q and %q", r.Level, prev, r.Name)
		}
		seen[r.Level] = r.Name
	}
	return f.Ranks, nil
}

func LoadSeedFile(path string) ([]SeedRank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rank seed: %w", err)
	}
	return ParseSeed(data)
}
