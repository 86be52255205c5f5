// Command validate checks the game configuration JSON files in a directory.
// It checks:
//   - JSON structure, rejecting unknown fields
//   - The engine's own rules (arena size, pursuer scaling, level bonus, messages)
//   - Crowding: a level whose pursuers fill more than a quarter of the arena is
//     reported as a warning
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/robots-game/game/engine"
)

// crowdedRatio is the pursuer share of the arena above which a level is flagged
const crowdedRatio = 0.25

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, strings.TrimPrefix(err.Error(), "config validation: "))
		return result
	}

	result.Warnings = crowdingWarnings(&config)

	cells := config.Width * config.Height
	result.Errors = append(result.Errors,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Arena: %dx%d (%d cells)", config.Width, config.Height, cells),
		fmt.Sprintf("✓ Pursuers: %d per level, max %d reached at level %d",
			config.PursuersPerLevel, config.MaxPursuers, saturationLevel(&config)),
		fmt.Sprintf("✓ Level bonus: %d × level", config.LevelBonus),
	)
	return result
}

// saturationLevel is the first level that starts with MaxPursuers pursuers
func saturationLevel(config *engine.GameConfig) int {
	return (config.MaxPursuers + config.PursuersPerLevel - 1) / config.PursuersPerLevel
}

// crowdingWarnings flags the first level whose pursuers crowd the arena
func crowdingWarnings(config *engine.GameConfig) []string {
	cells := float64(config.Width * config.Height)
	for level := 1; level <= saturationLevel(config); level++ {
		n := engine.PursuerCountForLevel(config, level)
		if share := float64(n) / cells; share > crowdedRatio {
			return []string{fmt.Sprintf("Level %d starts with %d pursuers on %d cells (%.0f%%)",
				level, n, int(cells), share*100)}
		}
	}
	return nil
}

// validateDir validates every *.json file in dir and writes a report to out.
// It reports whether all files were valid.
func validateDir(dir string, out io.Writer) (bool, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return false, fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return false, fmt.Errorf("no config files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Fprintf(out, "\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Fprintln(out, "✅ VALID")
			for _, info := range result.Errors {
				fmt.Fprintln(out, "  "+info)
			}
			for _, warn := range result.Warnings {
				fmt.Fprintln(out, "  ⚠️  "+warn)
			}
		} else {
			fmt.Fprintln(out, "❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Fprintln(out, "  ❌ "+err)
			}
		}
	}

	fmt.Fprintf(out, "\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Fprintln(out, "✅ All configurations are valid!")
	} else {
		fmt.Fprintln(out, "❌ Some configurations have errors")
	}
	return allValid, nil
}

// main validates the configs directory, exiting with non-zero status if any
// file is invalid
func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "Validate game configuration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "../configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			ok, err := validateDir(cmd.String("config-dir"), cmd.Writer)
			if err != nil {
				return err
			}
			if !ok {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
