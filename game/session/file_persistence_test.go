package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/wricardo/amino-trail/game/config"
)

func newTestPersistence(t *testing.T) (*FilePersistence, *config.Manager, string) {
	t.Helper()
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	dir := t.TempDir()
	persistence, err := NewFilePersistence(dir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}
	return persistence, configManager, dir
}

func TestFilePersistence(t *testing.T) {
	persistence, configManager, dir := newTestPersistence(t)
	manager := NewManager(zap.NewNop())

	boardConfig, err := configManager.LoadConfig("classic")
	if err != nil {
		t.Fatalf("Failed to load classic config: %v", err)
	}
	session, err := manager.Create("test1", "classic", boardConfig)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// One wrong click, then the right one
	if _, err := session.Round.Guess(1); err != nil {
		t.Fatalf("Guess failed: %v", err)
	}
	if _, err := session.Round.Guess(session.Round.Solution().AnswerIndex); err != nil {
		t.Fatalf("Guess failed: %v", err)
	}
	session.RoundsSolved = 1

	t.Run("save and load session", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("test1") {
			t.Fatal("Session file should exist after save")
		}

		loaded, err := persistence.Load("test1")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}

		if loaded.ID != session.ID || loaded.ConfigID != "classic" {
			t.Errorf("Unexpected identity: %s / %s", loaded.ID, loaded.ConfigID)
		}
		if loaded.Round.ID != session.Round.ID {
			t.Errorf("Expected round %s, got %s", session.Round.ID, loaded.Round.ID)
		}
		if loaded.Round.Attempts != 2 || !loaded.Round.Solved {
			t.Errorf("Expected solved round with 2 attempts, got %d solved=%v", loaded.Round.Attempts, loaded.Round.Solved)
		}
		if loaded.Round.Solution().AnswerIndex != session.Round.Solution().AnswerIndex {
			t.Error("Restored round must solve to the same answer")
		}
		if len(loaded.Round.Guesses) != 0 {
			t.Error("Guess history is not persisted")
		}
		if loaded.RoundsSolved != 1 || loaded.RoundsPlayed != 1 {
			t.Errorf("Unexpected counters: played=%d solved=%d", loaded.RoundsPlayed, loaded.RoundsSolved)
		}
	})

	t.Run("file structure", func(t *testing.T) {
		raw, err := os.ReadFile(filepath.Join(dir, "test1.json"))
		if err != nil {
			t.Fatalf("Failed to read session file: %v", err)
		}

		var data PersistedSessionData
		if err := json.Unmarshal(raw, &data); err != nil {
			t.Fatalf("Session file is not valid JSON: %v", err)
		}
		if data.Round == nil || len(data.Round.Layout) != 12 {
			t.Fatalf("Expected the 12 card ring in the snapshot, got %+v", data.Round)
		}
		if data.Round.Layout[0] != "lab:red" {
			t.Errorf("Expected laboratory first, got %s", data.Round.Layout[0])
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("Failed to list sessions: %v", err)
		}
		if len(ids) != 1 || ids[0] != "test1" {
			t.Errorf("Expected [test1], got %v", ids)
		}

		if err := persistence.Delete("test1"); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}
		if persistence.Exists("test1") {
			t.Error("Session file should be gone")
		}
		if err := persistence.Delete("test1"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
		if _, err := persistence.Load("test1"); !errors.Is(err, ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("nil session", func(t *testing.T) {
		if err := persistence.Save(nil); err == nil {
			t.Error("Expected error for nil session")
		}
	})
}

func TestFilePersistence_DeckRoundSurvivesRestart(t *testing.T) {
	persistence, configManager, _ := newTestPersistence(t)

	boardConfig, err := configManager.LoadConfig("table")
	if err != nil {
		t.Fatalf("Failed to load table config: %v", err)
	}

	manager := NewManagerWithPersistence(persistence, zap.NewNop())
	session, err := manager.Create("deck1", "table", boardConfig)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	loaded, err := persistence.Load("deck1")
	if err != nil {
		t.Fatalf("Failed to load: %v", err)
	}

	want := session.Round.Board().Layout()
	got := loaded.Round.Board().Layout()
	if len(want) != len(got) {
		t.Fatalf("Ring size changed: %d vs %d", len(want), len(got))
	}
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("Ring differs at %d: %s vs %s", i, want[i], got[i])
		}
	}
	if loaded.Round.Deal.Throw != session.Round.Deal.Throw {
		t.Errorf("Throw changed: %+v vs %+v", session.Round.Deal.Throw, loaded.Round.Deal.Throw)
	}
}
