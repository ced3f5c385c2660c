package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/wricardo/amino-trail/api"
	"github.com/wricardo/amino-trail/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Amino Trail Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func testOptions(t *testing.T) options {
	return options{
		Host:          "localhost",
		Port:          8080,
		ConfigDir:     "configs",
		SessionsDir:   t.TempDir(),
		SessionMaxAge: time.Hour,
	}
}

func TestInitializeServices(t *testing.T) {
	gameService, sessions, err := initializeServices(testOptions(t), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil || sessions == nil {
		t.Fatal("Expected game service and session manager to be initialized")
	}

	configs, err := gameService.ListConfigs(context.Background())
	if err != nil {
		t.Fatalf("ListConfigs failed: %v", err)
	}
	if len(configs) == 0 {
		t.Error("Expected sample configs to be listed")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	opts := testOptions(t)
	opts.ConfigDir = "/non/existent/path"

	if _, _, err := initializeServices(opts, zap.NewNop()); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestInitializeServices_RestoresSessions(t *testing.T) {
	opts := testOptions(t)

	gameService, sessions, err := initializeServices(opts, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	info, err := gameService.CreateSession(context.Background(), "protect")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if err := sessions.SaveAllSessions(); err != nil {
		t.Fatalf("SaveAllSessions failed: %v", err)
	}

	restarted, _, err := initializeServices(opts, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to reinitialize services: %v", err)
	}
	if _, err := restarted.GetSession(context.Background(), info.ID); err != nil {
		t.Errorf("Expected session %s to survive a restart: %v", info.ID, err)
	}
}

func TestFlagDefaults(t *testing.T) {
	var got options
	app := newApp()
	for _, sub := range app.Commands {
		sub.Action = func(ctx context.Context, cmd *cli.Command) error {
			got = optionsFrom(cmd)
			return nil
		}
	}

	if err := app.Run(context.Background(), []string{"amino-trail"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.Port <= 0 || got.Port > 65535 {
		t.Errorf("Invalid default port: %d", got.Port)
	}
	if got.Host == "" {
		t.Error("Host should have a default value")
	}
	if got.ConfigDir == "" {
		t.Error("Config directory should have a default value")
	}
	if got.SessionMaxAge != 24*time.Hour {
		t.Errorf("Expected default session max age 24h, got %v", got.SessionMaxAge)
	}
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9191")
	t.Setenv("CONFIG_DIR", "boards")

	var got options
	var ran string
	app := newApp()
	for _, sub := range app.Commands {
		sub.Action = func(ctx context.Context, cmd *cli.Command) error {
			got = optionsFrom(cmd)
			ran = cmd.Name
			return nil
		}
	}

	if err := app.Run(context.Background(), []string{"amino-trail", "mcp", "--debug"}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if ran != "stdio-mcp" {
		t.Errorf("Expected alias mcp to run stdio-mcp, ran %q", ran)
	}
	if got.Port != 9191 {
		t.Errorf("Expected port from PORT, got %d", got.Port)
	}
	if got.ConfigDir != "boards" {
		t.Errorf("Expected config dir from CONFIG_DIR, got %s", got.ConfigDir)
	}
	if !got.Debug {
		t.Error("Expected --debug to be set")
	}
}

func TestMCPEndpoint(t *testing.T) {
	gameService, _, err := initializeServices(testOptions(t), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	apiServer := httptest.NewServer(api.NewServer(gameService, nil, zap.NewNop()))
	defer apiServer.Close()

	mux := newMux(api.NewServer(gameService, nil, zap.NewNop()), mcp.NewClient(apiServer.URL))

	t.Run("rejects GET", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", "/mcp", nil))
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", rr.Code)
		}
	})

	t.Run("lists tools", func(t *testing.T) {
		body := []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("POST", "/mcp", bytes.NewReader(body)))
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}

		var response struct {
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}

		names := make(map[string]bool)
		for _, tool := range response.Result.Tools {
			names[tool.Name] = true
		}
		for _, want := range []string{"create_session", "guess", "solve_board"} {
			if !names[want] {
				t.Errorf("Expected tool %s in %v", want, names)
			}
		}
	})

	t.Run("serves API", func(t *testing.T) {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))
		if rr.Code != http.StatusOK {
			t.Errorf("Expected 200 from /healthz, got %d", rr.Code)
		}
	})
}

func TestExternalAPIAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if !externalAPIAvailable(server.URL) {
		t.Error("Expected API to be available")
	}
	if externalAPIAvailable("http://127.0.0.1:1") {
		t.Error("Expected unreachable API to be unavailable")
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(true)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Error("Expected debug level to be enabled")
	}

	logger, err = newLogger(false)
	if err != nil {
		t.Fatalf("newLogger failed: %v", err)
	}
	if logger.Core().Enabled(zap.DebugLevel) {
		t.Error("Expected debug level to be disabled")
	}
}
