package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/wricardo/amino-trail/api"
	"github.com/wricardo/amino-trail/game/config"
	"github.com/wricardo/amino-trail/game/service"
	"github.com/wricardo/amino-trail/game/session"
)

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

// newGameServer serves the real REST API backed by the sample configs
func newGameServer(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	svc := service.NewGameService(session.NewManager(zap.NewNop()), configs, zap.NewNop())
	server := httptest.NewServer(api.NewServer(svc, nil, zap.NewNop()))
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "test-session"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "test-session" {
		t.Errorf("Expected id test-session, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Internal Server Error"))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	err := client.apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil {
		t.Fatal("Expected error for HTTP 500 response")
	}
	if !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}
}

func TestClient_apiCall_ErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
	}))
	defer server.Close()

	err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("Expected API error message, got %v", err)
	}
}

func TestClient_createSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["config_id"] != "table" {
			t.Errorf("Expected config_id table, got %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"test-session-123","config_name":"table","round":{"id":"r1","number":1,
			"board":{"layout":["lab:red","gly"],"start_index":0},
			"throw":{"lab":"red","direction":"clockwise","initial":{"species":"glycine","protection":"neutral"}}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"config_id": "table",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"test-session-123", "Round 1", "lab:red  <- start", "Laboratory: red"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_missingArguments(t *testing.T) {
	client := NewClient("http://localhost:8080")
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
	}{
		{"get_round", client.handleGetRound, map[string]interface{}{}},
		{"guess without index", client.handleGuess, map[string]interface{}{"session_id": "ab12"}},
		{"describe_card without index", client.handleDescribeCard, map[string]interface{}{"session_id": "ab12"}},
		{"solve_board without input", client.handleSolveBoard, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, callTool(tt.name, tt.args))
			if err != nil {
				t.Fatalf("Handler returned error: %v", err)
			}
			if !result.IsError {
				t.Error("Expected an error result")
			}
		})
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", nil))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Amino Trail - Complete Instructions",
		"GAME OBJECTIVE:",
		"CARDS",
		"mem:<pair>",
		"RULES:",
		"fourth hit",
		"Membrane cards are never the answer",
	}
	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

func TestFormatPath(t *testing.T) {
	if got := formatPath([]int{1, 3, 4}); got != "1 -> 3 -> 4" {
		t.Errorf("Unexpected path format: %s", got)
	}
}

func TestClient_PlayThrough(t *testing.T) {
	server := newGameServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callTool("create_session", map[string]interface{}{"config_id": "membrane"}))
	if err != nil || result.IsError {
		t.Fatalf("create_session failed: %v %s", err, resultText(t, result))
	}
	text := resultText(t, result)
	sessionID := strings.Fields(strings.TrimPrefix(text, "Session created: "))[0]

	result, _ = client.handleDescribeCard(ctx, callTool("describe_card", map[string]interface{}{
		"session_id": sessionID,
		"index":      float64(1),
	}))
	if text := resultText(t, result); !strings.Contains(text, "Paired membrane: card 3") {
		t.Errorf("Expected membrane pairing, got: %s", text)
	}

	result, _ = client.handleDescribeCard(ctx, callTool("describe_card", map[string]interface{}{
		"session_id": sessionID,
		"index":      float64(9),
	}))
	if !result.IsError {
		t.Error("Expected out of range error")
	}

	result, _ = client.handleReplay(ctx, callTool("replay", map[string]interface{}{"session_id": sessionID}))
	if !result.IsError {
		t.Error("Replay before solving should fail")
	}

	result, _ = client.handleGuess(ctx, callTool("guess", map[string]interface{}{
		"session_id": sessionID,
		"index":      float64(2),
	}))
	if text := resultText(t, result); !strings.HasPrefix(text, "WRONG") {
		t.Errorf("Card 2 is skipped by the membrane, got: %s", text)
	}

	result, _ = client.handleGuess(ctx, callTool("guess", map[string]interface{}{
		"session_id": sessionID,
		"index":      float64(4),
		"intent":     "jump from 1 to 3, then gly at 4 matches",
	}))
	text = resultText(t, result)
	if !strings.HasPrefix(text, "CORRECT") || !strings.Contains(text, "1 -> 3 -> 4") {
		t.Errorf("Expected correct guess with path, got: %s", text)
	}

	result, _ = client.handleReplay(ctx, callTool("replay", map[string]interface{}{"session_id": sessionID}))
	if text := resultText(t, result); !strings.Contains(text, "Answer: card 4 (resolved)") {
		t.Errorf("Unexpected replay: %s", text)
	}

	result, _ = client.handleNewRound(ctx, callTool("new_round", map[string]interface{}{"session_id": sessionID}))
	if text := resultText(t, result); !strings.Contains(text, "Round 2") {
		t.Errorf("Expected round 2, got: %s", text)
	}

	result, _ = client.handleListSessions(ctx, callTool("list_sessions", nil))
	if text := resultText(t, result); !strings.Contains(text, sessionID) || !strings.Contains(text, "solved 1/2") {
		t.Errorf("Unexpected session list: %s", text)
	}

	result, _ = client.handleListConfigs(ctx, callTool("list_configs", nil))
	if text := resultText(t, result); !strings.Contains(text, "table: Table") || !strings.Contains(text, "shuffled deck") {
		t.Errorf("Unexpected config list: %s", text)
	}
}

func TestClient_SolveBoard(t *testing.T) {
	server := newGameServer(t)
	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleSolveBoard(ctx, callTool("solve_board", map[string]interface{}{
		"layout": []interface{}{"lab:red", "rxn:boc", "gly+boc", "gly"},
	}))
	if err != nil {
		t.Fatalf("solve_board failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "Answer: card 2 (resolved)") {
		t.Errorf("Unexpected solution: %s", text)
	}

	result, _ = client.handleSolveBoard(ctx, callTool("solve_board", map[string]interface{}{
		"config_id": "table",
		"seed":      float64(11),
	}))
	if text := resultText(t, result); result.IsError || !strings.Contains(text, "Seed: 11") {
		t.Errorf("Expected seeded deck solution, got: %s", text)
	}

	result, _ = client.handleSolveBoard(ctx, callTool("solve_board", map[string]interface{}{
		"layout": []interface{}{"lab:red", "ser", "gly+bn"},
	}))
	if !result.IsError {
		t.Error("Expected malformed board error")
	}
}
