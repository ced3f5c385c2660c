package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/amino-trail/game/deal"
	"github.com/wricardo/amino-trail/game/engine"
)

var (
	ErrRoundSolved    = errors.New("round already solved")
	ErrRoundNotSolved = errors.New("round not solved yet")
	ErrInvalidGuess   = errors.New("invalid guess")
)

// Round is one dealt board being played in a session. Access is serialized
// by the service.
type Round struct {
	ID        string
	Number    int
	Deal      *deal.Deal
	Attempts  int
	Solved    bool
	Guesses   []Guess // kept in memory only
	StartedAt time.Time
	SolvedAt  time.Time
}

// Guess is a single clicked card
type Guess struct {
	Index   int       `json:"index"`
	Correct bool      `json:"correct"`
	At      time.Time `json:"at"`
}

// NewRound deals the first round of a session
func NewRound(config *engine.BoardConfig, seed uint64) (*Round, error) {
	d, err := deal.New(config, seed)
	if err != nil {
		return nil, err
	}
	return newRound(d, 1), nil
}

// NextRound deals the round after prev. A deck config keeps its ring and
// only throws the dice again unless reshuffle is set.
func NextRound(config *engine.BoardConfig, prev *Round, reshuffle bool, seed uint64) (*Round, error) {
	if prev == nil {
		return NewRound(config, seed)
	}

	if config.Shuffled() && !reshuffle {
		d, err := deal.Rethrow(config, prev.Deal.Board, seed)
		if err == nil {
			return newRound(d, prev.Number+1), nil
		}
		// the ring admits no other solvable throw, deal a fresh one
	}

	d, err := deal.New(config, seed)
	if err != nil {
		return nil, err
	}
	return newRound(d, prev.Number+1), nil
}

// RestoreRound rebuilds a persisted round from its board
func RestoreRound(id string, number int, board *engine.Board, seed uint64) (*Round, error) {
	solution, err := engine.Solve(board)
	if err != nil {
		return nil, fmt.Errorf("persisted board no longer solves: %w", err)
	}
	return &Round{
		ID:     id,
		Number: number,
		Deal: &deal.Deal{
			Board:    board,
			Solution: solution,
			Throw:    deal.Throw{Lab: board.LabColor(), Direction: board.Direction(), Initial: board.Initial()},
			Seed:     seed,
			Attempts: 1,
		},
		StartedAt: time.Now(),
	}, nil
}

func newRound(d *deal.Deal, number int) *Round {
	return &Round{
		ID:        uuid.NewString(),
		Number:    number,
		Deal:      d,
		StartedAt: time.Now(),
	}
}

// Board returns the ring of the round
func (r *Round) Board() *engine.Board {
	return r.Deal.Board
}

// Solution returns the traversal that produced the answer
func (r *Round) Solution() *engine.Solution {
	return r.Deal.Solution
}

// Guess records a click on the card at index. The answer is an exact
// position match.
func (r *Round) Guess(index int) (bool, error) {
	if r.Solved {
		return false, ErrRoundSolved
	}
	if index < 0 || index >= r.Board().Len() {
		return false, fmt.Errorf("%w: index %d outside the ring of %d cards", ErrInvalidGuess, index, r.Board().Len())
	}

	now := time.Now()
	correct := index == r.Solution().AnswerIndex
	r.Attempts++
	r.Guesses = append(r.Guesses, Guess{Index: index, Correct: correct, At: now})
	if correct {
		r.Solved = true
		r.SolvedAt = now
	}
	return correct, nil
}

// View renders the round for a player
func (r *Round) View(config *engine.BoardConfig) *RoundView {
	view := &RoundView{
		ID:        r.ID,
		Number:    r.Number,
		Board:     r.Board(),
		Throw:     r.Deal.Throw,
		Attempts:  r.Attempts,
		Solved:    r.Solved,
		Message:   r.Message(config),
		StartedAt: r.StartedAt,
	}
	if r.Solved {
		answer := r.Solution().AnswerIndex
		view.AnswerIndex = &answer
		view.Outcome = r.Solution().Outcome
	}
	return view
}

// Message returns the player-facing text for the current round state
func (r *Round) Message(config *engine.BoardConfig) string {
	messages := config.WithDefaults().Messages
	switch {
	case r.Solved && r.Solution().Outcome == engine.Destroyed:
		return fmt.Sprintf(messages.Correct, r.Attempts) + " " + messages.Destroyed
	case r.Solved:
		return fmt.Sprintf(messages.Correct, r.Attempts)
	case r.Attempts > 0:
		return messages.Incorrect
	}
	return messages.Welcome
}

// Replay returns the full traversal. Only solved rounds can be replayed.
func (r *Round) Replay() (*ReplayResult, error) {
	if !r.Solved {
		return nil, ErrRoundNotSolved
	}
	solution := r.Solution()
	return &ReplayResult{
		RoundID:     r.ID,
		AnswerIndex: solution.AnswerIndex,
		Outcome:     solution.Outcome,
		Path:        solution.Path,
		Steps:       solution.Steps,
		Final:       solution.Final,
	}, nil
}
