package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/amino-trail/game/engine"
	"github.com/wricardo/amino-trail/game/service"
)

// FilePersistence implements SessionPersistence using file system storage
type FilePersistence struct {
	sessionsDir   string
	configManager service.ConfigManager
}

// NewFilePersistence creates a new file-based session persistence layer
func NewFilePersistence(sessionsDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	// Create sessions directory if it doesn't exist
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir:   sessionsDir,
		configManager: configManager,
	}, nil
}

// Save persists a session to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data := PersistedSessionData{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		RoundsPlayed:   session.RoundsPlayed,
		RoundsSolved:   session.RoundsSolved,
	}

	if round := session.Round; round != nil {
		board := round.Board()
		data.Round = &PersistedRound{
			ID:        round.ID,
			Number:    round.Number,
			Seed:      round.Deal.Seed,
			Layout:    board.Layout(),
			Direction: board.Direction(),
			Initial:   board.Initial(),
			Attempts:  round.Attempts,
			Solved:    round.Solved,
			StartedAt: round.StartedAt,
			SolvedAt:  round.SolvedAt,
		}
	}

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	filePath := fp.getFilePath(session.ID)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Load retrieves a session from a JSON file
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrSessionNotFound
	}

	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	boardConfig, err := fp.configManager.LoadConfig(data.ConfigName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config '%s': %w", data.ConfigName, err)
	}

	var round *service.Round
	if data.Round != nil {
		round, err = restoreRound(data.Round)
		if err != nil {
			return nil, fmt.Errorf("failed to restore round: %w", err)
		}
	} else {
		// Sessions always have a round; deal one if the snapshot had none
		round, err = service.NewRound(boardConfig, newSeed())
		if err != nil {
			return nil, fmt.Errorf("failed to deal round: %w", err)
		}
	}

	session := &service.Session{
		ID:             data.ID,
		ConfigID:       data.ConfigName,
		Config:         boardConfig,
		Round:          round,
		RoundsPlayed:   data.RoundsPlayed,
		RoundsSolved:   data.RoundsSolved,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}

	return session, nil
}

func restoreRound(p *PersistedRound) (*service.Round, error) {
	cards, err := engine.ParseLayout(p.Layout)
	if err != nil {
		return nil, err
	}

	start := -1
	for i, card := range cards {
		if card.Kind == engine.Laboratory {
			start = i
			break
		}
	}

	board, err := engine.NewBoard(cards, start, p.Direction, p.Initial)
	if err != nil {
		return nil, err
	}

	round, err := service.RestoreRound(p.ID, p.Number, board, p.Seed)
	if err != nil {
		return nil, err
	}
	round.Attempts = p.Attempts
	round.Solved = p.Solved
	round.StartedAt = p.StartedAt
	round.SolvedAt = p.SolvedAt
	return round, nil
}

// Delete removes a session file
func (fp *FilePersistence) Delete(id string) error {
	if !fp.Exists(id) {
		return ErrSessionNotFound
	}

	if err := os.Remove(fp.getFilePath(id)); err != nil {
		return fmt.Errorf("failed to remove session file: %w", err)
	}

	return nil
}

// ListAll returns all persisted session IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			sessionIDs = append(sessionIDs, strings.TrimSuffix(name, ".json"))
		}
	}

	return sessionIDs, nil
}

// Exists checks if a session file exists
func (fp *FilePersistence) Exists(id string) bool {
	_, err := os.Stat(fp.getFilePath(id))
	return err == nil
}

// getFilePath returns the full file path for a session ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", filepath.Base(strings.ToLower(id))))
}
