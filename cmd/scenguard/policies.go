package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/scenguard/internal/config"
	"github.com/ShayCichocki/scenguard/pkg/models"
)

var policiesPolicyFile string

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List the registered resource policies",
	Long: `List every resource the validator knows about, with its declared
scenario, criticality, and owning team.

The built-in inventory can be extended or overridden with --policy-file.`,
	RunE: runPolicies,
}

func init() {
	policiesCmd.Flags().StringVar(&policiesPolicyFile, "policy-file", "", "Merge policies from a YAML file over the built-in inventory")
}

func runPolicies(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("policy-file") {
		cfg.Policy.File = policiesPolicyFile
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	policies := registry.All()

	fmt.Printf("%-16s %-12s %-12s %s\n", "RESOURCE", "SCENARIO", "CRITICALITY", "OWNER")
	for _, p := range policies {
		// criticalityLabel pads before coloring so ANSI codes do not
		// break the column alignment.
		fmt.Printf("%-16s %-12s %s %s\n", p.Name, p.Scenario, criticalityLabel(p.Criticality), p.Owner)
	}

	fmt.Printf("\n%d resource(s), %d scenario rule(s)\n", len(policies), len(registry.Rules()))
	return nil
}

// criticalityLabel colors the criticality tier for terminal output.
func criticalityLabel(c models.Criticality) string {
	switch c {
	case models.CriticalityCritical:
		return color.RedString("%-12s", string(c))
	case models.CriticalityMedium:
		return color.YellowString("%-12s", string(c))
	case models.CriticalityLow:
		return color.GreenString("%-12s", string(c))
	default:
		return fmt.Sprintf("%-12s", string(c))
	}
}
