package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wricardo/amino-trail/game/deal"
	"github.com/wricardo/amino-trail/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	logger   *zap.Logger
	newSeed  func() uint64
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, logger *zap.Logger) GameService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   logger.Named("service"),
		newSeed:  deal.NewSeed,
	}
}

// CreateSession creates a new game session and deals its first round
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	configID := configName
	if configName != "" {
		var err error
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				return nil, s.configNotFound(configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.configs.DefaultID()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session", sess.ID),
		zap.String("config", configID),
		zap.String("round", sess.Round.ID))

	return s.sessionInfo(sess), nil
}

// configNotFound lists the available configs in the error
func (s *gameServiceImpl) configNotFound(configName string) error {
	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr == nil && len(availableConfigs) > 0 {
		var configIDs []string
		for _, cfg := range availableConfigs {
			configIDs = append(configIDs, cfg.ConfigID)
		}
		return fmt.Errorf("%w: config '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
	}
	return fmt.Errorf("%w: config '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.logger.Info("session deleted", zap.String("session", sessionID))
	return nil
}

// GetRound returns the current round of a session
func (s *gameServiceImpl) GetRound(ctx context.Context, sessionID string) (*RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Round.View(sess.Config), nil
}

// NewRound deals the next round. An unsolved round can be abandoned.
func (s *gameServiceImpl) NewRound(ctx context.Context, sessionID string, reshuffle bool) (*RoundView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	previous := sess.Round
	round, err := NextRound(sess.Config, previous, reshuffle, s.newSeed())
	if err != nil {
		return nil, fmt.Errorf("failed to deal round: %w", err)
	}
	sess.Round = round
	sess.RoundsPlayed++

	s.save(sess.ID)

	fields := []zap.Field{
		zap.String("session", sess.ID),
		zap.String("round", round.ID),
		zap.Int("number", round.Number),
		zap.Bool("reshuffle", reshuffle),
		zap.Int("deal_attempts", round.Deal.Attempts),
	}
	if previous != nil && !previous.Solved {
		fields = append(fields, zap.String("abandoned", previous.ID))
	}
	s.logger.Info("round dealt", fields...)

	return round.View(sess.Config), nil
}

// Guess checks a clicked card against the answer of the current round
func (s *gameServiceImpl) Guess(ctx context.Context, sessionID string, index int) (*GuessResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	round := sess.Round
	correct, err := round.Guess(index)
	if err != nil {
		return nil, err
	}
	if correct {
		sess.RoundsSolved++
	}
	s.save(sess.ID)

	now := time.Now()
	result := &GuessResult{
		Correct:  correct,
		Index:    index,
		Card:     round.Board().CardAt(index),
		Attempts: round.Attempts,
		Message:  round.Message(sess.Config),
		Round:    round.View(sess.Config),
		Events: []GameEvent{{
			Type:      "guess",
			Message:   fmt.Sprintf("Card %d (%s) clicked", index, round.Board().CardAt(index)),
			Timestamp: now,
			Index:     &index,
		}},
	}

	if correct {
		result.Path = round.Solution().Path
		eventType := "solved"
		if round.Solution().Outcome == engine.Destroyed {
			eventType = "destroyed"
		}
		result.Events = append(result.Events, GameEvent{
			Type:      eventType,
			Message:   result.Message,
			Timestamp: now,
			Index:     &index,
		})
	}

	s.logger.Debug("guess",
		zap.String("session", sess.ID),
		zap.String("round", round.ID),
		zap.Int("index", index),
		zap.Bool("correct", correct),
		zap.Int("attempts", round.Attempts))

	return result, nil
}

// Replay returns the traversal of a solved round
func (s *gameServiceImpl) Replay(ctx context.Context, sessionID string) (*ReplayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Round.Replay()
}

// Solve deals and solves a submitted config without creating a session
func (s *gameServiceImpl) Solve(ctx context.Context, config *engine.BoardConfig, seed uint64) (*SolveResult, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrInvalidConfig)
	}
	if config.Shuffled() && seed == 0 {
		seed = s.newSeed()
	}

	d, err := deal.New(config, seed)
	if err != nil {
		return nil, err
	}

	result := &SolveResult{
		Board:    d.Board,
		Throw:    d.Throw,
		Solution: d.Solution,
	}
	if config.Shuffled() {
		result.Seed = seed
	}
	return result, nil
}

// ListConfigs returns all available configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a configuration
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	if err := s.configs.SaveConfig(configName, config); err != nil {
		return err
	}
	s.logger.Info("config saved", zap.String("config", configName))
	return nil
}

// getSession touches the session's last access time. Callers hold s.mu for writing.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		s.logger.Warn("failed to update last access", zap.String("session", sessionID), zap.Error(err))
	}
	return sess, nil
}

func (s *gameServiceImpl) save(sessionID string) {
	if err := s.sessions.Save(sessionID); err != nil {
		s.logger.Warn("failed to persist session", zap.String("session", sessionID), zap.Error(err))
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		RoundsPlayed:   sess.RoundsPlayed,
		RoundsSolved:   sess.RoundsSolved,
		Round:          sess.Round.View(sess.Config),
		GameConfig:     sess.Config,
	}
}
