package engine

import (
	"fmt"
	"strings"
)

// CardKind represents the four kinds of cards on the board
type CardKind string

const (
	Laboratory CardKind = "laboratory"
	Molecule   CardKind = "molecule"
	Membrane   CardKind = "membrane"
	Reaction   CardKind = "reaction"
)

// Species is the amino acid carried by a molecule
type Species string

const (
	Glycine Species = "glycine"
	Serine  Species = "serine"
)

// Protection is the protecting group active on a molecule. At most one is active.
type Protection string

const (
	Neutral      Protection = "neutral"
	BocProtected Protection = "boc"
	BnProtected  Protection = "bn"
)

// ReactionKind identifies the transformation applied by a reaction card
type ReactionKind string

const (
	BocToggle       ReactionKind = "boc_toggle"
	BnToggle        ReactionKind = "bn_toggle"
	EnzymeIsomerize ReactionKind = "enzyme_isomerize"
)

// Direction is the traversal direction around the ring
type Direction string

const (
	Clockwise        Direction = "clockwise"
	CounterClockwise Direction = "counterclockwise"
)

const (
	// DestroyAfter is the hit count of a single reaction kind that destroys the molecule
	DestroyAfter = 4

	MinBoardSize = 2
	MaxBoardSize = 128
)

// ReactionKinds lists every reaction kind in a stable order
var ReactionKinds = []ReactionKind{BocToggle, BnToggle, EnzymeIsomerize}

// Valid reports whether s is a known species
func (s Species) Valid() bool {
	return s == Glycine || s == Serine
}

// Other returns the isomer of s
func (s Species) Other() Species {
	if s == Glycine {
		return Serine
	}
	return Glycine
}

// Valid reports whether p is a known protection state
func (p Protection) Valid() bool {
	switch p {
	case Neutral, BocProtected, BnProtected:
		return true
	}
	return false
}

// Valid reports whether k is a known reaction kind
func (k ReactionKind) Valid() bool {
	switch k {
	case BocToggle, BnToggle, EnzymeIsomerize:
		return true
	}
	return false
}

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == Clockwise || d == CounterClockwise
}

// Reverse returns the opposite direction
func (d Direction) Reverse() Direction {
	if d == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

// ParseDirection accepts the canonical names plus the arrow colours printed on the dice
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clockwise", "cw", "white":
		return Clockwise, nil
	case "counterclockwise", "ccw", "black":
		return CounterClockwise, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// UnmarshalText lets configs use any spelling ParseDirection accepts
func (d *Direction) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*d = ""
		return nil
	}
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MoleculeForm is the renderable identity of a molecule: species plus protection
type MoleculeForm struct {
	Species    Species    `json:"species" yaml:"species"`
	Protection Protection `json:"protection" yaml:"protection"`
}

// DefaultForm is the molecule a laboratory produces when nothing else is configured
var DefaultForm = MoleculeForm{Species: Glycine, Protection: Neutral}

// Valid reports whether both parts of the form are known values
func (f MoleculeForm) Valid() bool {
	return f.Species.Valid() && f.Protection.Valid()
}

func (f MoleculeForm) String() string {
	if f.Protection == Neutral {
		return string(f.Species)
	}
	return fmt.Sprintf("%s+%s", f.Species, f.Protection)
}

// Card is a single card on the ring. Kind selects which payload fields are meaningful.
type Card struct {
	Kind       CardKind     `json:"kind"`
	Color      string       `json:"color,omitempty"`      // Laboratory
	Species    Species      `json:"species,omitempty"`    // Molecule
	Protection Protection   `json:"protection,omitempty"` // Molecule
	PairID     string       `json:"pair_id,omitempty"`    // Membrane
	Reaction   ReactionKind `json:"reaction,omitempty"`   // Reaction
}

// Outcome is the phase of a traversal. Scanning is the only non-terminal phase.
type Outcome string

const (
	Scanning       Outcome = "scanning"
	Resolved       Outcome = "resolved"
	Destroyed      Outcome = "destroyed"
	MalformedBoard Outcome = "malformed_board"
)

// StepAction describes what happened when the traversal visited a card
type StepAction string

const (
	ActionEnterMembrane StepAction = "enter_membrane"
	ActionLandMembrane  StepAction = "land_membrane"
	ActionReact         StepAction = "react"
	ActionDestroy       StepAction = "destroy"
	ActionDecoy         StepAction = "decoy"
	ActionMatch         StepAction = "match"
)

// Step is one visited position of a traversal, in order
type Step struct {
	Index  int          `json:"index"`
	Card   Card         `json:"card"`
	Action StepAction   `json:"action"`
	Form   MoleculeForm `json:"form"` // molecule form after the visit
}

// Solution is the result of solving one board
type Solution struct {
	AnswerIndex int           `json:"answer_index"`
	Outcome     Outcome       `json:"outcome"`
	Final       MoleculeState `json:"final_state"`
	Path        []int         `json:"path"`
	Steps       []Step        `json:"steps"`
}
