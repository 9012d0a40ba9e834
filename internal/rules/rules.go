// Package rules maps organization profile aspects (geography,
// industry, products, suppliers) to the regulatory categories and
// risks they attract. The rule tables are an immutable RuleSet value
// constructed once and passed explicitly; there is no package-level
// mutable state.
package rules

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Rule lists the categories and risks triggered by one profile value.
type Rule struct {
	Categories []string `yaml:"categories" json:"categories"`
	Risks      []string `yaml:"risks" json:"risks"`
}

// RuleSet maps profile aspect → value → rule.
type RuleSet map[string]map[string]Rule

// Profile is an organization profile: aspect → list of values.
type Profile map[string][]string

// Analysis is the result of analyzing a profile.
type Analysis struct {
	Categories []string `json:"categories"`
	Risks      []string `json:"risks"`
}

// DefaultRuleSet returns the built-in rule tables.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		"geography": {
			"USA":  {Categories: []string{"OSHA", "EPA"}, Risks: []string{"labor", "environment"}},
			"EU":   {Categories: []string{"GDPR", "REACH"}, Risks: []string{"privacy", "chemical"}},
			"Asia": {Categories: []string{"APAC Trade"}, Risks: []string{"import/export"}},
		},
		"industry": {
			"finance":       {Categories: []string{"SOX"}, Risks: []string{"fraud"}},
			"manufacturing": {Categories: []string{"ISO9001"}, Risks: []string{"quality"}},
		},
		"products": {
			"electronics": {Categories: []string{"WEEE"}, Risks: []string{"e-waste"}},
			"food":        {Categories: []string{"FDA"}, Risks: []string{"contamination"}},
		},
		"suppliers": {
			"chemical": {Categories: []string{"Hazmat"}, Risks: []string{"hazardous materials"}},
			"software": {Categories: []string{"Licensing"}, Risks: []string{"intellectual property"}},
		},
	}
}

// Load reads a RuleSet from a YAML file, replacing the built-in tables.
func Load(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ruleset: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("parse ruleset: %w", err)
	}
	return rs, nil
}

// Analyze returns the regulatory categories and risks for a profile,
// each sorted and deduplicated. Profile values with no matching rule
// are ignored.
func (rs RuleSet) Analyze(profile Profile) Analysis {
	categories := make(map[string]struct{})
	risks := make(map[string]struct{})

	for aspect, values := range profile {
		table, ok := rs[aspect]
		if !ok {
			continue
		}
		for _, value := range values {
			rule, ok := table[value]
			if !ok {
				continue
			}
			for _, c := range rule.Categories {
				categories[c] = struct{}{}
			}
			for _, r := range rule.Risks {
				risks[r] = struct{}{}
			}
		}
	}

	return Analysis{
		Categories: sortedKeys(categories),
		Risks:      sortedKeys(risks),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
