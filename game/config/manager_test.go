package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/amino-trail/game/engine"
)

func createValidConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		Direction:   engine.Clockwise,
		Layout:      []string{"lab:red", "rxn:boc", "gly+boc", "gly"},
		Messages: engine.Messages{
			Welcome: "Welcome!",
			Correct: "Found in %d!",
		},
	}
}

func createDeckConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "Deck",
		Description: "Shuffled deck",
		Labs:        []string{"red", "blue"},
		Deck:        map[string]int{"gly": 2, "ser": 1, "rxn:enzyme": 1, "mem:a": 2},
	}
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.BoardConfig) {
	t.Helper()
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".json"
		name += ext
	}

	data, err := engine.EncodeBoardConfig(config, ext)
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("classic becomes default", func(t *testing.T) {
		dir := t.TempDir()
		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)
		writeConfigFile(t, dir, "another", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected default 'Classic', got '%s'", manager.GetDefault().Name)
		}
		if manager.DefaultID() != "classic" {
			t.Errorf("Expected default id 'classic', got '%s'", manager.DefaultID())
		}
	})

	t.Run("first config when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "beta.yaml", createDeckConfig())
		writeConfigFile(t, dir, "alpha", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.DefaultID() != "alpha" {
			t.Errorf("Expected default id 'alpha', got '%s'", manager.DefaultID())
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to minimal config", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed even without config files, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if err := engine.ValidateBoardConfig(defaultConfig); err != nil {
			t.Errorf("Minimal config must be valid: %v", err)
		}
		if manager.DefaultID() != "default" {
			t.Errorf("Expected default id 'default', got '%s'", manager.DefaultID())
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	deck := createDeckConfig()
	writeConfigFile(t, dir, "deck.yml", deck)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load yaml config", func(t *testing.T) {
		config, err := manager.LoadConfig("deck")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if !config.Shuffled() || config.Deck["gly"] != 2 {
			t.Errorf("Unexpected deck: %+v", config.Deck)
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := manager.LoadConfig("classic.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Test Config" {
			t.Errorf("Expected config name 'Test Config', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("deck")
		config2, err := manager.LoadConfig("deck.yml")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": ""}`), 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed YAML", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.yaml"), []byte("name: [oops"), 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err := manager.LoadConfig("malformed")
		if err == nil {
			t.Error("Expected error for malformed YAML")
		}
	})
}

func TestManager_LoadConfigOutsideDir(t *testing.T) {
	outer := t.TempDir()
	dir := filepath.Join(outer, "configs")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	writeConfigFile(t, dir, "classic", createValidConfig())
	writeConfigFile(t, outer, "outside", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	for _, name := range []string{"../outside", "../outside.json", `..\outside`, "..", "."} {
		t.Run(name, func(t *testing.T) {
			config, err := manager.LoadConfig(name)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
			if config != nil {
				t.Error("Config outside the directory must not be loaded")
			}
		})
	}
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	writeConfigFile(t, dir, "deck.yaml", createDeckConfig())
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configs, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d", len(configs))
	}

	classic, deck := configs[0], configs[1]
	if classic.ConfigID != "classic" || classic.Shuffled || classic.CardCount != 4 {
		t.Errorf("Unexpected classic info: %+v", classic)
	}
	if classic.Direction != engine.Clockwise {
		t.Errorf("Expected clockwise, got %q", classic.Direction)
	}
	if deck.ConfigID != "deck" || !deck.Shuffled || deck.CardCount != 7 {
		t.Errorf("Unexpected deck info: %+v", deck)
	}
	if deck.Filename != "deck.yaml" {
		t.Errorf("Expected filename deck.yaml, got %s", deck.Filename)
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("json", func(t *testing.T) {
		if err := manager.SaveConfig("saved", createValidConfig()); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Errorf("Expected saved.json on disk: %v", err)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		if err := manager.SaveConfig("deck.yaml", createDeckConfig()); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}

		// A fresh manager reads it back from disk
		fresh, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		config, err := fresh.LoadConfig("deck")
		if err != nil {
			t.Fatalf("Failed to load saved yaml: %v", err)
		}
		if config.Name != "Deck" || len(config.Labs) != 2 {
			t.Errorf("Unexpected config after reload: %+v", config)
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		err := manager.SaveConfig("bad", &engine.BoardConfig{Name: "bad"})
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("path traversal", func(t *testing.T) {
		err := manager.SaveConfig("../escape", createValidConfig())
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_SetDefaultAndRefresh(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())
	writeConfigFile(t, dir, "deck", createDeckConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("deck"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if manager.DefaultID() != "deck" {
		t.Errorf("Expected default id 'deck', got '%s'", manager.DefaultID())
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}

	// Edit on disk, then refresh
	changed := createValidConfig()
	changed.Name = "Changed"
	writeConfigFile(t, dir, "classic", changed)

	if err := manager.RefreshCache(); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}
	if manager.GetDefault().Name != "Changed" {
		t.Errorf("Expected refreshed default 'Changed', got '%s'", manager.GetDefault().Name)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = "Config" + string(rune('0'+i))
		writeConfigFile(t, dir, "config"+string(rune('0'+i)), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			configName := "config" + string(rune('0'+((id%5)+1)))
			if _, err := manager.LoadConfig(configName); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
}
