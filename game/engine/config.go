package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// BoardConfig is a board definition loaded from JSON or YAML.
//
// A config either fixes the ring with Layout, or describes a Deck that the
// dealer shuffles into a new ring every round. With a deck, Labs lists the
// laboratory colours the dice can choose from, and an empty Direction or
// Initial is rolled per round.
type BoardConfig struct {
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description" yaml:"description"`
	Direction   Direction      `json:"direction,omitempty" yaml:"direction,omitempty"`
	Initial     string         `json:"initial,omitempty" yaml:"initial,omitempty"`
	Layout      []string       `json:"layout,omitempty" yaml:"layout,omitempty"`
	Deck        map[string]int `json:"deck,omitempty" yaml:"deck,omitempty"`
	Labs        []string       `json:"labs,omitempty" yaml:"labs,omitempty"`
	Messages    Messages       `json:"messages" yaml:"messages"`
}

// Messages are the texts shown to the player
type Messages struct {
	Welcome   string `json:"welcome" yaml:"welcome"`
	Correct   string `json:"correct" yaml:"correct"`     // %d is replaced by the attempt count
	Incorrect string `json:"incorrect" yaml:"incorrect"` // shown before a retry
	Destroyed string `json:"destroyed" yaml:"destroyed"` // shown when the answer is a destroying reaction
}

// DefaultMessages fills messages a config leaves empty
var DefaultMessages = Messages{
	Welcome:   "Follow the molecule from the laboratory and find the card it ends on!",
	Correct:   "Correct! Found in %d attempt(s).",
	Incorrect: "Not this one. Try again!",
	Destroyed: "The molecule did not survive the fourth identical reaction.",
}

// Shuffled reports whether the config is dealt from a deck
func (c *BoardConfig) Shuffled() bool {
	return len(c.Deck) > 0
}

// InitialForm returns the configured starting molecule, or DefaultForm when unset
func (c *BoardConfig) InitialForm() (MoleculeForm, error) {
	if c.Initial == "" {
		return DefaultForm, nil
	}
	return ParseForm(c.Initial)
}

// WithDefaults returns a copy with empty messages filled in
func (c *BoardConfig) WithDefaults() *BoardConfig {
	out := *c
	if out.Messages.Welcome == "" {
		out.Messages.Welcome = DefaultMessages.Welcome
	}
	if out.Messages.Correct == "" {
		out.Messages.Correct = DefaultMessages.Correct
	}
	if out.Messages.Incorrect == "" {
		out.Messages.Incorrect = DefaultMessages.Incorrect
	}
	if out.Messages.Destroyed == "" {
		out.Messages.Destroyed = DefaultMessages.Destroyed
	}
	return &out
}

// Build creates the board of a fixed-layout config. The start index is the laboratory position.
func (c *BoardConfig) Build() (*Board, error) {
	if c.Shuffled() {
		return nil, fmt.Errorf("config %q is dealt from a deck and has no fixed layout", c.Name)
	}

	cards, err := ParseLayout(c.Layout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructuralBoard, err)
	}

	initial, err := c.InitialForm()
	if err != nil {
		return nil, fmt.Errorf("%w: initial molecule: %v", ErrStructuralBoard, err)
	}

	return NewBoard(cards, labIndex(cards), c.Direction, initial)
}

// ValidateBoardConfig validates a board configuration for correctness and playability
func ValidateBoardConfig(config *BoardConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.Messages.Correct != "" && !strings.Contains(config.Messages.Correct, "%d") {
		return fmt.Errorf("config validation: messages.correct must contain %%d for the attempt count")
	}

	if config.Initial != "" {
		if _, err := ParseForm(config.Initial); err != nil {
			return fmt.Errorf("config validation: initial: %v", err)
		}
	}
	if config.Direction != "" && !config.Direction.Valid() {
		return fmt.Errorf("config validation: direction must be %q or %q, got %q",
			Clockwise, CounterClockwise, config.Direction)
	}

	switch {
	case len(config.Layout) > 0 && config.Shuffled():
		return fmt.Errorf("config validation: layout and deck are mutually exclusive")
	case len(config.Layout) > 0:
		return validateLayout(config)
	case config.Shuffled():
		return validateDeck(config)
	}
	return fmt.Errorf("config validation: either layout or deck is required")
}

func validateLayout(config *BoardConfig) error {
	if config.Direction == "" {
		return fmt.Errorf("config validation: direction is required for a fixed layout")
	}
	if len(config.Labs) > 0 {
		return fmt.Errorf("config validation: labs only apply to a deck")
	}

	board, err := config.Build()
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// A fixed layout must be winnable
	if _, err := Solve(board); err != nil {
		return fmt.Errorf("config validation: layout is not solvable: %w", err)
	}
	return nil
}

func validateDeck(config *BoardConfig) error {
	if len(config.Labs) == 0 {
		return fmt.Errorf("config validation: a deck needs at least one laboratory colour in labs")
	}
	for _, color := range config.Labs {
		if strings.TrimSpace(color) == "" {
			return fmt.Errorf("config validation: laboratory colours must not be empty")
		}
	}

	total := 1 // the laboratory
	molecules := 0
	pairs := make(map[string]int)
	reactions := make(map[ReactionKind]int)

	for token, count := range config.Deck {
		card, err := ParseCard(token)
		if err != nil {
			return fmt.Errorf("config validation: deck: %v", err)
		}
		if count <= 0 {
			return fmt.Errorf("config validation: deck count for %q must be positive, got %d", token, count)
		}
		switch card.Kind {
		case Laboratory:
			return fmt.Errorf("config validation: deck must not contain laboratories, use labs instead")
		case Membrane:
			pairs[card.PairID] += count
		case Molecule:
			molecules += count
		case Reaction:
			reactions[card.Reaction] += count
		}
		total += count
	}

	for pairID, count := range pairs {
		if count != 2 {
			return fmt.Errorf("config validation: membrane pair %q must appear exactly twice, got %d", pairID, count)
		}
	}
	if molecules == 0 && !anyAtLeast(reactions, DestroyAfter) {
		return fmt.Errorf("config validation: deck has no molecule card and no reaction that can destroy the molecule")
	}
	if total < MinBoardSize || total > MaxBoardSize {
		return fmt.Errorf("config validation: deck deals %d cards, must be between %d and %d",
			total, MinBoardSize, MaxBoardSize)
	}
	return nil
}

// DecodeBoardConfig parses a config document. ext selects the format (".yaml", ".yml" or JSON).
func DecodeBoardConfig(data []byte, ext string) (*BoardConfig, error) {
	var config BoardConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	return &config, nil
}

// EncodeBoardConfig is the inverse of DecodeBoardConfig
func EncodeBoardConfig(config *BoardConfig, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	}
	return json.MarshalIndent(config, "", "  ")
}

// LoadBoardConfig loads and validates a board configuration file
func LoadBoardConfig(filename string) (*BoardConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file '%s' not found", filename)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", filename, err)
	}

	config, err := DecodeBoardConfig(data, filepath.Ext(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", filename, err)
	}

	if err := ValidateBoardConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", filename, err)
	}

	return config, nil
}

func labIndex(cards []Card) int {
	for i, card := range cards {
		if card.Kind == Laboratory {
			return i
		}
	}
	return -1
}
