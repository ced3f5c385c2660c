package engine

import "fmt"

// Solve walks the board from the laboratory and returns the answer card.
//
// The traversal advances one position at a time in the board direction. A
// membrane teleports to its paired membrane and the walk continues from there;
// neither membrane can be the answer. A reaction transforms the molecule and
// ends the walk when it destroys it. The first molecule card matching the
// carried molecule is the answer; other molecule cards are decoys.
//
// Reaching the laboratory again, or visiting more cards than the board holds,
// fails with ErrMalformedBoard. Solve does not modify the board and may be
// called concurrently on the same board.
func Solve(board *Board) (*Solution, error) {
	if board == nil {
		return nil, fmt.Errorf("%w: nil board", ErrMalformedBoard)
	}

	t := &traversal{
		board:   board,
		state:   NewMoleculeState(board.Initial()),
		phase:   Scanning,
		current: board.StartIndex(),
		answer:  -1,
	}

	for t.phase == Scanning {
		if err := t.advance(); err != nil {
			return nil, err
		}
	}

	return &Solution{
		AnswerIndex: t.answer,
		Outcome:     t.phase,
		Final:       t.state,
		Path:        t.path,
		Steps:       t.steps,
	}, nil
}

// traversal holds the mutable state of a single Solve call
type traversal struct {
	board   *Board
	state   MoleculeState
	phase   Outcome
	current int
	answer  int
	path    []int
	steps   []Step
}

// advance moves to the next card and evaluates it
func (t *traversal) advance() error {
	t.current = t.board.Next(t.current, t.board.Direction())
	card := t.board.CardAt(t.current)
	if card.Kind == Laboratory {
		t.phase = MalformedBoard
		return fmt.Errorf("%w: traversal returned to the laboratory after %d visits without an answer",
			ErrMalformedBoard, len(t.path))
	}
	if err := t.visit(t.current); err != nil {
		return err
	}

	switch card.Kind {
	case Membrane:
		t.record(card, ActionEnterMembrane)
		pair, err := t.board.PairedMembrane(t.current)
		if err != nil {
			return err
		}
		t.current = pair
		if err := t.visit(t.current); err != nil {
			return err
		}
		t.record(t.board.CardAt(t.current), ActionLandMembrane)

	case Reaction:
		next, destroyed, err := Apply(t.state, card.Reaction)
		if err != nil {
			return fmt.Errorf("reaction at %d: %w", t.current, err)
		}
		t.state = next
		if destroyed {
			t.phase = Destroyed
			t.answer = t.current
			t.record(card, ActionDestroy)
			return nil
		}
		t.record(card, ActionReact)

	case Molecule:
		if card.Matches(t.state.Form()) {
			t.phase = Resolved
			t.answer = t.current
			t.record(card, ActionMatch)
			return nil
		}
		t.record(card, ActionDecoy)
	}

	return nil
}

// visit appends index to the path and enforces the one-circuit bound
func (t *traversal) visit(index int) error {
	if len(t.path) >= t.board.Len() {
		t.phase = MalformedBoard
		return fmt.Errorf("%w: no answer within %d visits", ErrMalformedBoard, t.board.Len())
	}
	t.path = append(t.path, index)
	return nil
}

func (t *traversal) record(card Card, action StepAction) {
	t.steps = append(t.steps, Step{
		Index:  t.current,
		Card:   card,
		Action: action,
		Form:   t.state.Form(),
	})
}
