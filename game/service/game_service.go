package service

import (
	"context"
	"time"

	"github.com/wricardo/amino-trail/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rounds
	GetRound(ctx context.Context, sessionID string) (*RoundView, error)
	NewRound(ctx context.Context, sessionID string, reshuffle bool) (*RoundView, error)
	Guess(ctx context.Context, sessionID string, index int) (*GuessResult, error)
	Replay(ctx context.Context, sessionID string) (*ReplayResult, error)

	// Stateless solving
	Solve(ctx context.Context, config *engine.BoardConfig, seed uint64) (*SolveResult, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id, configID string, config *engine.BoardConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles board configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.BoardConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.BoardConfig
	DefaultID() string
	SaveConfig(name string, config *engine.BoardConfig) error
}

// Session represents an active game session
type Session struct {
	ID             string
	ConfigID       string
	Config         *engine.BoardConfig
	Round          *Round
	RoundsPlayed   int
	RoundsSolved   int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
