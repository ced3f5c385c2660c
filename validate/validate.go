// Command validate checks the board configuration files in a configs
// directory. For each JSON or YAML file it checks:
//   - the document parses and passes engine.ValidateBoardConfig
//   - the board can be dealt and solved (fixed layouts once, decks over several seeds)
//   - fixed layouts have an answer that is not a membrane
//
// It exits with a non-zero status if any file is invalid.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/amino-trail/game/deal"
	"github.com/wricardo/amino-trail/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Errors holds the problems found; Info holds a summary of a valid file.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Info   []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Info = append(r.Info, fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration file, then
// deals it with seeds 1..seeds to make sure every deal is solvable.
func validateConfig(filePath string, seeds int) ValidationResult {
	result := ValidationResult{
		File:  filepath.Base(filePath),
		Valid: true,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	config, err := engine.DecodeBoardConfig(data, filepath.Ext(filePath))
	if err != nil {
		result.fail("Invalid document: %v", err)
		return result
	}

	if err := engine.ValidateBoardConfig(config); err != nil {
		result.fail("%v", err)
		return result
	}

	if !config.Shuffled() {
		seeds = 1
	}

	for seed := 1; seed <= seeds; seed++ {
		d, err := deal.New(config, uint64(seed))
		if err != nil {
			result.fail("Deal with seed %d failed: %v", seed, err)
			return result
		}
		answer := d.Board.CardAt(d.Solution.AnswerIndex)
		if answer.Kind == engine.Membrane || answer.Kind == engine.Laboratory {
			result.fail("Seed %d answers on a %s card at %d", seed, answer.Kind, d.Solution.AnswerIndex)
			return result
		}
		if seeds == 1 {
			result.info("Answer: card %d (%s, %s)", d.Solution.AnswerIndex, answer.Token(), d.Solution.Outcome)
		}
	}

	result.info("Name: %s", config.Name)
	if config.Shuffled() {
		result.info("Deck: %d cards plus laboratory, labs %s", deckSize(config.Deck), strings.Join(config.Labs, ", "))
		result.info("Deals: %d seeds solvable", seeds)
	} else {
		result.info("Layout: %d cards, %s", len(config.Layout), config.Direction)
	}
	return result
}

func deckSize(deck map[string]int) int {
	total := 0
	for _, count := range deck {
		total += count
	}
	return total
}

// configFiles lists the JSON and YAML files in dir, sorted by name
func configFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

var errInvalidConfigs = errors.New("some configurations have errors")

// run validates every config in dir and prints a concise report
func run(dir string, seeds int) error {
	files, err := configFiles(dir)
	if err != nil {
		return fmt.Errorf("error finding config files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no config files found in %s", dir)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file, seeds)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Info {
				fmt.Println("  ✓ " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				fmt.Println("  ❌ " + err)
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if !allValid {
		return errInvalidConfigs
	}
	fmt.Println("✅ All configurations are valid!")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "validate",
		Usage: "Validate board configuration files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "../configs",
				Usage:   "Directory containing board configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "seeds",
				Value: 50,
				Usage: "Number of seeds to deal for shuffled decks",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(cmd.String("dir"), int(cmd.Int("seeds")))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println("❌ " + err.Error())
		os.Exit(1)
	}
}
