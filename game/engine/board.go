package engine

import (
	"encoding/json"
	"fmt"
)

// Board is an immutable ring of cards. Position N-1 is followed by position 0.
type Board struct {
	cards     []Card
	start     int
	direction Direction
	initial   MoleculeForm
	jumps     []int // paired membrane index, -1 for other cards
}

// NewBoard validates the layout and builds the membrane jump table.
// initial is the molecule form the laboratory produces for this round.
func NewBoard(cards []Card, startIndex int, direction Direction, initial MoleculeForm) (*Board, error) {
	n := len(cards)
	if n < MinBoardSize || n > MaxBoardSize {
		return nil, fmt.Errorf("%w: board must have between %d and %d cards, got %d",
			ErrStructuralBoard, MinBoardSize, MaxBoardSize, n)
	}
	if !direction.Valid() {
		return nil, fmt.Errorf("%w: unknown direction %q", ErrStructuralBoard, direction)
	}
	if !initial.Valid() {
		return nil, fmt.Errorf("%w: invalid initial molecule %+v", ErrStructuralBoard, initial)
	}

	labIndex := -1
	molecules := 0
	reactions := make(map[ReactionKind]int)
	membranes := make(map[string][]int)

	for i, card := range cards {
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("%w: position %d: %v", ErrStructuralBoard, i, err)
		}
		switch card.Kind {
		case Laboratory:
			if labIndex != -1 {
				return nil, fmt.Errorf("%w: duplicate laboratory at positions %d and %d",
					ErrStructuralBoard, labIndex, i)
			}
			labIndex = i
		case Molecule:
			molecules++
		case Reaction:
			reactions[card.Reaction]++
		case Membrane:
			membranes[card.PairID] = append(membranes[card.PairID], i)
		}
	}

	if labIndex == -1 {
		return nil, fmt.Errorf("%w: board has no laboratory", ErrStructuralBoard)
	}
	if startIndex != labIndex {
		return nil, fmt.Errorf("%w: start index %d does not reference the laboratory at %d",
			ErrStructuralBoard, startIndex, labIndex)
	}

	jumps := make([]int, n)
	for i := range jumps {
		jumps[i] = -1
	}
	for pairID, positions := range membranes {
		if len(positions) != 2 {
			return nil, fmt.Errorf("%w: membrane pair %q must appear exactly twice, got %d",
				ErrStructuralBoard, pairID, len(positions))
		}
		jumps[positions[0]] = positions[1]
		jumps[positions[1]] = positions[0]
	}

	if molecules == 0 && !anyAtLeast(reactions, DestroyAfter) {
		return nil, fmt.Errorf("%w: board has no molecule card and no reaction that can destroy the molecule",
			ErrStructuralBoard)
	}

	return &Board{
		cards:     append([]Card(nil), cards...),
		start:     startIndex,
		direction: direction,
		initial:   initial,
		jumps:     jumps,
	}, nil
}

// Len returns the number of cards on the ring
func (b *Board) Len() int {
	return len(b.cards)
}

// Next returns the adjacent position in the given direction, wrapping around
func (b *Board) Next(index int, direction Direction) int {
	n := len(b.cards)
	if direction == CounterClockwise {
		return ((index-1)%n + n) % n
	}
	return (index + 1) % n
}

// CardAt returns the card at index. Indexes wrap around the ring.
func (b *Board) CardAt(index int) Card {
	n := len(b.cards)
	return b.cards[((index%n)+n)%n]
}

// PairedMembrane returns the position of the membrane paired with the one at index
func (b *Board) PairedMembrane(index int) (int, error) {
	if index < 0 || index >= len(b.cards) {
		return -1, fmt.Errorf("%w: position %d out of range", ErrStructuralBoard, index)
	}
	if b.cards[index].Kind != Membrane {
		return -1, fmt.Errorf("%w: position %d is a %s card, not a membrane",
			ErrStructuralBoard, index, b.cards[index].Kind)
	}
	pair := b.jumps[index]
	if pair < 0 {
		return -1, fmt.Errorf("%w: membrane at %d has no registered pair", ErrStructuralBoard, index)
	}
	return pair, nil
}

// StartIndex returns the laboratory position
func (b *Board) StartIndex() int {
	return b.start
}

// Direction returns the traversal direction
func (b *Board) Direction() Direction {
	return b.direction
}

// Initial returns the molecule form produced by the laboratory
func (b *Board) Initial() MoleculeForm {
	return b.initial
}

// LabColor returns the colour of the laboratory card
func (b *Board) LabColor() string {
	return b.cards[b.start].Color
}

// Cards returns a copy of the ring
func (b *Board) Cards() []Card {
	return append([]Card(nil), b.cards...)
}

// Layout returns the ring in layout notation
func (b *Board) Layout() []string {
	return FormatLayout(b.cards)
}

// Count returns how many cards of the given kind are on the board
func (b *Board) Count(kind CardKind) int {
	count := 0
	for _, card := range b.cards {
		if card.Kind == kind {
			count++
		}
	}
	return count
}

type boardJSON struct {
	Cards      []Card       `json:"cards"`
	Layout     []string     `json:"layout"`
	StartIndex int          `json:"start_index"`
	Direction  Direction    `json:"direction"`
	Initial    MoleculeForm `json:"initial"`
}

// MarshalJSON exposes the board to renderers
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{
		Cards:      b.cards,
		Layout:     b.Layout(),
		StartIndex: b.start,
		Direction:  b.direction,
		Initial:    b.initial,
	})
}

func anyAtLeast(counts map[ReactionKind]int, n int) bool {
	for _, c := range counts {
		if c >= n {
			return true
		}
	}
	return false
}
