package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	initForce        bool
	initWithPolicies bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a corpus directory for scenguard",
	Long: `Initialize a directory for use with scenguard.

This command creates a .scenguard.yaml project configuration with the
defaults written out as comments, ready to uncomment and adjust.

The directory argument is optional and defaults to the current directory.

Examples:
  scenguard init                   # Initialize current directory
  scenguard init ./corpus          # Initialize specific directory
  scenguard init --force           # Overwrite an existing configuration
  scenguard init --with-policies   # Also create a policies.yaml example`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing configuration files")
	initCmd.Flags().BoolVar(&initWithPolicies, "with-policies", false, "Create a policies.yaml example file")
}

func runInit(cmd *cobra.Command, args []string) error {
	targetDir := "."
	if len(args) > 0 {
		targetDir = args[0]
	}

	absPath, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("resolving absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", absPath, err)
	}

	fmt.Printf("Initializing scenguard in %s...\n\n", absPath)

	configPath := filepath.Join(absPath, ".scenguard.yaml")
	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Println("Directory already initialized. Use --force to reinitialize.")
		return nil
	}

	if err := writeProjectConfig(configPath); err != nil {
		return fmt.Errorf("creating project config: %w", err)
	}
	printStatus("✓", "Created .scenguard.yaml", color.FgGreen)

	if initWithPolicies {
		policiesPath := filepath.Join(absPath, "policies.yaml")
		if _, err := os.Stat(policiesPath); err == nil && !initForce {
			printStatus("⚠", "policies.yaml already exists, skipping", color.FgYellow)
		} else {
			if err := writePoliciesExample(policiesPath); err != nil {
				return fmt.Errorf("creating policies example: %w", err)
			}
			printStatus("✓", "Created policies.yaml example", color.FgGreen)
		}
	}

	fmt.Printf("\n%s scenguard initialization complete!\n\n", color.GreenString("✓"))
	fmt.Println("Next steps:")
	fmt.Println("  1. Review the configuration:")
	fmt.Println("     cat .scenguard.yaml")
	fmt.Println()
	fmt.Println("  2. Validate the corpus:")
	fmt.Println("     scenguard validate")
	fmt.Println()
	fmt.Println("  3. Learn more:")
	fmt.Println("     scenguard --help")

	return nil
}

// writeProjectConfig writes the .scenguard.yaml template.
func writeProjectConfig(configPath string) error {
	template := `# Scenguard Project Configuration
# This file overrides defaults from ~/.config/scenguard/config.yaml

# corpus:
#   root: .
#   max_file_size: 8388608

# scan:
#   matcher: substring
#   locations:
#     - category: infrastructure
#       patterns: ["infrastructure/**/*.tf", "helm/**/*.yaml"]

# run:
#   workers: 4

# policy:
#   file: policies.yaml

# report:
#   out: validation_results.json
#   db: ""
#   verbose: false

# log:
#   level: info
#   format: console

# watch:
#   debounce: 2s
`

	return os.WriteFile(configPath, []byte(template), 0644)
}

// writePoliciesExample writes a policies.yaml showing the file format.
func writePoliciesExample(policiesPath string) error {
	template := `# Scenguard policy overrides.
# Entries here are merged over the built-in inventory: a policy with an
# existing resource name replaces it, a rules entry replaces the rule for
# that scenario.

policies:
  - name: orders
    scenario: LOGIC_HEAVY
    criticality: CRITICAL
    owner: commerce-team@company.com
    description: Order processing database

# rules:
#   CONFIG_ONLY:
#     allowed: [infrastructure, monitoring, documentation]
#     forbidden: [configuration, service_layer, business_logic, analytics]
#     required: []
#     allow_empty: true
`

	return os.WriteFile(policiesPath, []byte(template), 0644)
}

// printStatus prints a colored status symbol followed by a message.
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
