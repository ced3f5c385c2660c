package service

import (
	"time"

	"github.com/wricardo/amino-trail/game/deal"
	"github.com/wricardo/amino-trail/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	RoundsPlayed   int                 `json:"rounds_played"`
	RoundsSolved   int                 `json:"rounds_solved"`
	Round          *RoundView          `json:"round"`
	GameConfig     *engine.BoardConfig `json:"game_config"`
}

// RoundView is what a player sees of the current round. The answer stays
// hidden until the round is solved.
type RoundView struct {
	ID        string        `json:"id"`
	Number    int           `json:"number"`
	Board     *engine.Board `json:"board"`
	Throw     deal.Throw    `json:"throw"`
	Attempts  int           `json:"attempts"`
	Solved    bool          `json:"solved"`
	Message   string        `json:"message"`
	StartedAt time.Time     `json:"started_at"`

	// Revealed once solved
	AnswerIndex *int           `json:"answer_index,omitempty"`
	Outcome     engine.Outcome `json:"outcome,omitempty"`
}

// GuessResult contains the result of clicking a card
type GuessResult struct {
	Correct  bool        `json:"correct"`
	Index    int         `json:"index"`
	Card     engine.Card `json:"card"`
	Attempts int         `json:"attempts"`
	Message  string      `json:"message"`
	Round    *RoundView  `json:"round"`
	Path     []int       `json:"path,omitempty"` // traversal to animate after a correct guess
	Events   []GameEvent `json:"events,omitempty"`
}

// ReplayResult is the full traversal of a solved round
type ReplayResult struct {
	RoundID     string               `json:"round_id"`
	AnswerIndex int                  `json:"answer_index"`
	Outcome     engine.Outcome       `json:"outcome"`
	Path        []int                `json:"path"`
	Steps       []engine.Step        `json:"steps"`
	Final       engine.MoleculeState `json:"final_state"`
}

// SolveResult is the answer for a submitted board
type SolveResult struct {
	Board    *engine.Board    `json:"board"`
	Throw    deal.Throw       `json:"throw"`
	Seed     uint64           `json:"seed,omitempty"`
	Solution *engine.Solution `json:"solution"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string    `json:"type"` // "new_round", "guess", "solved", "destroyed"
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Index     *int      `json:"index,omitempty"`
}

// ConfigInfo provides information about a board configuration
type ConfigInfo struct {
	Filename    string           `json:"filename"`
	ConfigID    string           `json:"config_id"` // The identifier to use for session creation
	Name        string           `json:"name"`      // Display name
	Description string           `json:"description"`
	Shuffled    bool             `json:"shuffled"`
	CardCount   int              `json:"card_count"`
	Direction   engine.Direction `json:"direction,omitempty"`
}
