package session

import (
	"time"

	"github.com/wricardo/amino-trail/game/engine"
	"github.com/wricardo/amino-trail/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData represents the JSON structure for persisted sessions.
// Only the current round is kept; guess history is not persisted.
type PersistedSessionData struct {
	ID             string          `json:"id"`
	ConfigName     string          `json:"config_name"`
	CreatedAt      time.Time       `json:"created_at"`
	LastAccessedAt time.Time       `json:"last_accessed_at"`
	RoundsPlayed   int             `json:"rounds_played"`
	RoundsSolved   int             `json:"rounds_solved"`
	Round          *PersistedRound `json:"round"`
}

// PersistedRound is the snapshot needed to rebuild the current round
type PersistedRound struct {
	ID        string              `json:"id"`
	Number    int                 `json:"number"`
	Seed      uint64              `json:"seed"`
	Layout    []string            `json:"layout"`
	Direction engine.Direction    `json:"direction"`
	Initial   engine.MoleculeForm `json:"initial"`
	Attempts  int                 `json:"attempts"`
	Solved    bool                `json:"solved"`
	StartedAt time.Time           `json:"started_at"`
	SolvedAt  time.Time           `json:"solved_at,omitempty"`
}
