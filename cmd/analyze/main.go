// Command analyze prints quick, human-readable heuristics about the board
// configurations in a configs directory. It summarizes card counts, the
// traversal of fixed layouts and, for shuffled decks, how the dealt rounds
// end over a sample of seeds.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/amino-trail/game/deal"
	"github.com/wricardo/amino-trail/game/engine"
)

// Analysis is the report for one config file
type Analysis struct {
	File      string                  `yaml:"file"`
	Name      string                  `yaml:"name"`
	Shuffled  bool                    `yaml:"shuffled"`
	Cards     int                     `yaml:"cards"`
	Kinds     map[engine.CardKind]int `yaml:"kinds"`
	Direction engine.Direction        `yaml:"direction,omitempty"`
	Answer    *AnswerStats            `yaml:"answer,omitempty"`
	Deals     *DealStats              `yaml:"deals,omitempty"`
	Error     string                  `yaml:"error,omitempty"`
}

// AnswerStats describes the solution of a fixed layout
type AnswerStats struct {
	Index   int            `yaml:"index"`
	Card    string         `yaml:"card"`
	Outcome engine.Outcome `yaml:"outcome"`
	Path    []int          `yaml:"path"`
	Skipped []int          `yaml:"skipped,omitempty"`
}

// DealStats aggregates deals of a shuffled deck over seeds 1..Samples
type DealStats struct {
	Samples      int                    `yaml:"samples"`
	Failed       int                    `yaml:"failed"`
	Outcomes     map[engine.Outcome]int `yaml:"outcomes"`
	AvgPath      float64                `yaml:"avg_path"`
	MaxPath      int                    `yaml:"max_path"`
	AvgAttempts  float64                `yaml:"avg_attempts"`
	MaxAttempts  int                    `yaml:"max_attempts"`
	FirstMatches int                    `yaml:"first_matches"` // answer is the first molecule after the lab
}

func analyzeConfig(path string, samples int) Analysis {
	analysis := Analysis{File: filepath.Base(path)}

	config, err := engine.LoadBoardConfig(path)
	if err != nil {
		analysis.Error = err.Error()
		return analysis
	}

	analysis.Name = config.Name
	analysis.Shuffled = config.Shuffled()
	analysis.Direction = config.Direction

	if !config.Shuffled() {
		d, err := deal.New(config, 0)
		if err != nil {
			analysis.Error = err.Error()
			return analysis
		}
		analysis.Cards = d.Board.Len()
		analysis.Kinds = kindCounts(d.Board.Cards())
		analysis.Answer = &AnswerStats{
			Index:   d.Solution.AnswerIndex,
			Card:    d.Board.CardAt(d.Solution.AnswerIndex).Token(),
			Outcome: d.Solution.Outcome,
			Path:    d.Solution.Path,
			Skipped: skipped(d.Board, d.Solution),
		}
		return analysis
	}

	stats := &DealStats{Samples: samples, Outcomes: make(map[engine.Outcome]int)}
	solved := 0
	for seed := 1; seed <= samples; seed++ {
		d, err := deal.New(config, uint64(seed))
		if err != nil {
			stats.Failed++
			continue
		}
		if analysis.Kinds == nil {
			analysis.Cards = d.Board.Len()
			analysis.Kinds = kindCounts(d.Board.Cards())
		}

		solved++
		stats.Outcomes[d.Solution.Outcome]++
		pathLen := len(d.Solution.Path)
		stats.AvgPath += float64(pathLen)
		if pathLen > stats.MaxPath {
			stats.MaxPath = pathLen
		}
		stats.AvgAttempts += float64(d.Attempts)
		if d.Attempts > stats.MaxAttempts {
			stats.MaxAttempts = d.Attempts
		}
		if pathLen == 1 && d.Solution.Outcome == engine.Resolved {
			stats.FirstMatches++
		}
	}
	if solved > 0 {
		stats.AvgPath /= float64(solved)
		stats.AvgAttempts /= float64(solved)
	}
	analysis.Deals = stats
	return analysis
}

func kindCounts(cards []engine.Card) map[engine.CardKind]int {
	counts := make(map[engine.CardKind]int)
	for _, card := range cards {
		counts[card.Kind]++
	}
	return counts
}

// skipped lists the positions that lie before the answer in traversal
// order but were never visited, i.e. jumped over by membranes
func skipped(board *engine.Board, solution *engine.Solution) []int {
	visited := make(map[int]bool, len(solution.Path))
	for _, index := range solution.Path {
		visited[index] = true
	}

	var out []int
	index := board.StartIndex()
	for i := 0; i < board.Len(); i++ {
		index = board.Next(index, board.Direction())
		if index == solution.AnswerIndex {
			break
		}
		if !visited[index] {
			out = append(out, index)
		}
	}
	return out
}

func printAnalysis(w io.Writer, a Analysis) {
	fmt.Fprintf(w, "\n=== Analyzing %s ===\n", a.File)
	if a.Error != "" {
		fmt.Fprintf(w, "⚠️  Error: %s\n", a.Error)
		return
	}

	fmt.Fprintf(w, "Name: %s\n", a.Name)
	fmt.Fprintf(w, "Cards: %d (%s)\n", a.Cards, formatKinds(a.Kinds))

	if a.Answer != nil {
		fmt.Fprintf(w, "Direction: %s\n", a.Direction)
		fmt.Fprintf(w, "Answer: card %d (%s, %s)\n", a.Answer.Index, a.Answer.Card, a.Answer.Outcome)
		fmt.Fprintf(w, "Path: %s\n", formatInts(a.Answer.Path))
		if len(a.Answer.Skipped) > 0 {
			fmt.Fprintf(w, "Skipped by membranes: %s\n", formatInts(a.Answer.Skipped))
		}
		return
	}

	s := a.Deals
	fmt.Fprintf(w, "Deals: %d sampled, %d failed\n", s.Samples, s.Failed)
	fmt.Fprintf(w, "Outcomes: resolved %d, destroyed %d\n", s.Outcomes[engine.Resolved], s.Outcomes[engine.Destroyed])
	fmt.Fprintf(w, "Path length: avg %.1f, max %d\n", s.AvgPath, s.MaxPath)
	fmt.Fprintf(w, "Shuffles per deal: avg %.1f, max %d\n", s.AvgAttempts, s.MaxAttempts)
	if s.Failed > 0 {
		fmt.Fprintf(w, "⚠️  WARNING: %d seeds produced no solvable deal\n", s.Failed)
	}
	if s.Samples > 0 && s.FirstMatches*2 > s.Samples {
		fmt.Fprintf(w, "⚠️  WARNING: more than half the rounds end on the first card\n")
	}
}

func formatKinds(kinds map[engine.CardKind]int) string {
	names := make([]string, 0, len(kinds))
	for kind := range kinds {
		names = append(names, string(kind))
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %d", name, kinds[engine.CardKind(name)])
	}
	return strings.Join(parts, ", ")
}

func formatInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " -> ")
}

func run(w io.Writer, dir string, samples int, format string) error {
	var files []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	analyses := make([]Analysis, 0, len(files))
	for _, file := range files {
		analyses = append(analyses, analyzeConfig(file, samples))
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(analyses)
	}

	for _, a := range analyses {
		printAnalysis(w, a)
	}
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Summarize board configurations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Value:   "configs",
				Usage:   "Directory containing board configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.IntFlag{
				Name:  "samples",
				Value: 200,
				Usage: "Seeds to deal for each shuffled deck",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "text",
				Usage: "Output format: text or yaml",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return run(os.Stdout, cmd.String("dir"), int(cmd.Int("samples")), cmd.String("format"))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
