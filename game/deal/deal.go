package deal

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/wricardo/amino-trail/game/engine"
)

// MaxAttempts bounds how many shuffles or throws are tried before giving up
const MaxAttempts = 200

var ErrNoSolvableDeal = errors.New("no solvable deal")

// Forms are the faces of the molecule dice
var Forms = []engine.MoleculeForm{
	{Species: engine.Glycine, Protection: engine.Neutral},
	{Species: engine.Glycine, Protection: engine.BocProtected},
	{Species: engine.Glycine, Protection: engine.BnProtected},
	{Species: engine.Serine, Protection: engine.Neutral},
	{Species: engine.Serine, Protection: engine.BocProtected},
	{Species: engine.Serine, Protection: engine.BnProtected},
}

// Throw is one roll of the dice: which laboratory starts, the arrow
// direction and the molecule the laboratory produces.
type Throw struct {
	Lab       string              `json:"lab"`
	Direction engine.Direction    `json:"direction"`
	Initial   engine.MoleculeForm `json:"initial"`
}

// Deal is a solvable board plus how it was produced
type Deal struct {
	Board    *engine.Board
	Solution *engine.Solution
	Throw    Throw
	Seed     uint64
	Attempts int
}

// NewSeed returns a random seed for Deal
func NewSeed() uint64 {
	return rand.Uint64()
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// New deals a board from config. The same config and seed always produce
// the same deal.
//
// A fixed layout is built as is. A deck is expanded into cards, the thrown
// laboratory is placed first and the rest is shuffled behind it. Deals that
// fail to solve are discarded and dealt again.
func New(config *engine.BoardConfig, seed uint64) (*Deal, error) {
	if config == nil {
		return nil, fmt.Errorf("deal: nil config")
	}
	if !config.Shuffled() {
		return fixed(config, seed)
	}

	deck, err := expandDeck(config.Deck)
	if err != nil {
		return nil, err
	}

	rng := newRand(seed)
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		throw, err := roll(rng, config, config.Labs)
		if err != nil {
			return nil, err
		}

		cards := make([]engine.Card, 0, len(deck)+1)
		cards = append(cards, engine.NewLaboratory(throw.Lab))
		cards = append(cards, deck...)
		rest := cards[1:]
		rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

		d, err := solve(cards, throw, seed, attempt)
		if err != nil {
			if errors.Is(err, engine.ErrStructuralBoard) {
				return nil, err
			}
			lastErr = err
			continue
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %d shuffles of %q failed, last error: %v",
		ErrNoSolvableDeal, MaxAttempts, config.Name, lastErr)
}

// Rethrow keeps the ring of a previous deal and throws the dice again for
// direction and starting molecule. The laboratory stays where it is.
func Rethrow(config *engine.BoardConfig, board *engine.Board, seed uint64) (*Deal, error) {
	if config == nil || board == nil {
		return nil, fmt.Errorf("deal: nil config or board")
	}

	cards := board.Cards()
	rng := newRand(seed)
	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		throw, err := roll(rng, config, []string{board.LabColor()})
		if err != nil {
			return nil, err
		}
		d, err := solve(cards, throw, seed, attempt)
		if err != nil {
			lastErr = err
			continue
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %d throws on the current ring failed, last error: %v",
		ErrNoSolvableDeal, MaxAttempts, lastErr)
}

func fixed(config *engine.BoardConfig, seed uint64) (*Deal, error) {
	board, err := config.Build()
	if err != nil {
		return nil, err
	}
	solution, err := engine.Solve(board)
	if err != nil {
		return nil, err
	}
	return &Deal{
		Board:    board,
		Solution: solution,
		Throw:    Throw{Lab: board.LabColor(), Direction: board.Direction(), Initial: board.Initial()},
		Seed:     seed,
		Attempts: 1,
	}, nil
}

func solve(cards []engine.Card, throw Throw, seed uint64, attempt int) (*Deal, error) {
	start := -1
	for i, card := range cards {
		if card.Kind == engine.Laboratory {
			start = i
			break
		}
	}
	board, err := engine.NewBoard(cards, start, throw.Direction, throw.Initial)
	if err != nil {
		return nil, err
	}
	solution, err := engine.Solve(board)
	if err != nil {
		return nil, err
	}
	return &Deal{Board: board, Solution: solution, Throw: throw, Seed: seed, Attempts: attempt}, nil
}

// roll throws the dice. Values fixed by the config are not rolled.
func roll(rng *rand.Rand, config *engine.BoardConfig, labs []string) (Throw, error) {
	if len(labs) == 0 {
		return Throw{}, fmt.Errorf("deal: no laboratory colours to throw")
	}

	throw := Throw{
		Lab:       labs[rng.IntN(len(labs))],
		Direction: config.Direction,
	}
	if throw.Direction == "" {
		throw.Direction = engine.Clockwise
		if rng.IntN(2) == 1 {
			throw.Direction = engine.CounterClockwise
		}
	}

	if config.Initial != "" {
		form, err := engine.ParseForm(config.Initial)
		if err != nil {
			return Throw{}, err
		}
		throw.Initial = form
	} else {
		throw.Initial = Forms[rng.IntN(len(Forms))]
	}
	return throw, nil
}

// expandDeck turns card counts into cards. Tokens are sorted so the order
// before shuffling does not depend on map iteration.
func expandDeck(deck map[string]int) ([]engine.Card, error) {
	tokens := make([]string, 0, len(deck))
	for token := range deck {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	var cards []engine.Card
	for _, token := range tokens {
		card, err := engine.ParseCard(token)
		if err != nil {
			return nil, fmt.Errorf("%w: deck: %v", engine.ErrStructuralBoard, err)
		}
		if card.Kind == engine.Laboratory {
			return nil, fmt.Errorf("%w: deck must not contain laboratories", engine.ErrStructuralBoard)
		}
		for i := 0; i < deck[token]; i++ {
			cards = append(cards, card)
		}
	}
	return cards, nil
}
