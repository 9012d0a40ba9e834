package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tsereda/declarant/internal/rules"
)

// rulesRulesPath is separate from the serve flag so the two commands
// don't fight over one variable.
var rulesRulesPath string

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules <profile.json>",
	Short: "Look up regulatory categories and risks for an organization profile",
	Long: `Rules loads an organization profile from JSON (aspect → list of
values, e.g. {"geography": ["USA"], "industry": ["finance"]}) and
prints the regulatory categories and risks it attracts.

Example:
  declarant rules profile.json
  declarant rules profile.json --rules custom-rules.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().StringVar(&rulesRulesPath, "rules", "", "optional YAML ruleset overriding the built-in tables")
}

func runRules(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}

	var profile rules.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}

	ruleset := rules.DefaultRuleSet()
	if rulesRulesPath != "" {
		ruleset, err = rules.Load(rulesRulesPath)
		if err != nil {
			return fmt.Errorf("load ruleset: %w", err)
		}
	}

	analysis := ruleset.Analyze(profile)

	fmt.Println("Regulatory categories needed:")
	for _, cat := range analysis.Categories {
		fmt.Printf(" - %s\n", cat)
	}

	fmt.Println()
	fmt.Println("Potential regulatory risks:")
	for _, risk := range analysis.Risks {
		fmt.Printf(" - %s\n", risk)
	}

	return nil
}
