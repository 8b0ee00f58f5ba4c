package rules

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SeedRule is one rule definition in a YAML seed file.
type SeedRule struct {
	AccountID    int    `yaml:"account_id"` // 0 or omitted = global
	Pattern      string `yaml:"pattern"`
	Regex        bool   `yaml:"regex"`
	Replacement  string `yaml:"replacement"`
	Category     string `yaml:"category"` // category name, resolved at load
	MemoTemplate string `yaml:"memo_template"`
}

// seedFile is the top-level YAML document shape.
type seedFile struct {
	Rules []SeedRule `yaml:"rules"`
}

// LoadSeedFile reads a YAML rule seed file.
func LoadSeedFile(path string) ([]SeedRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var doc seedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	return doc.Rules, nil
}

// ImportSeed adds every seed rule through the normal Add path, so ids are
// assigned and category names resolve exactly as interactive adds do.
// Returns the number of rules added.
func (s *Service) ImportSeed(ctx context.Context, seeds []SeedRule) (int, error) {
	added := 0
	for i, seed := range seeds {
		_, err := s.Add(ctx, AddParams{
			AccountID:    seed.AccountID,
			Pattern:      seed.Pattern,
			IsRegex:      seed.Regex,
			Replacement:  seed.Replacement,
			CategoryName: seed.Category,
			MemoTemplate: seed.MemoTemplate,
		})
		if err != nil {
			return added, fmt.Errorf("seed rule %d: %w", i+1, err)
		}
		added++
	}
	return added, nil
}
