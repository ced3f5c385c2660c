package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/amino-trail/game/engine"
	"github.com/wricardo/amino-trail/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Amino Trail",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Amino Trail - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
A ring of cards starts at a laboratory. Follow the molecule from the laboratory
around the ring and click the card where it ends up.

AVAILABLE TOOLS:
- create_session: Create a new game session
- list_sessions: List all active sessions
- get_round: Show the current round (ring, dice throw, attempts)
- guess: Click a card by its index
- new_round: Deal the next round
- replay: Show the traversal of a solved round
- solve_board: Solve a layout without playing it
- list_configs: List available board configurations
- game_instructions: Full rules
- describe_card: Explain a single card of the current round`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the board config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_round",
		Description: "Get the current round of a session: the ring of cards, the dice throw and attempts so far",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "guess",
		Description: "Click the card where you think the molecule ends up",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "0-based position of the card on the ring",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of how you traced the molecule (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleGuess)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "new_round",
		Description: "Deal the next round. Deck configs keep the ring and throw the dice again unless reshuffle is set",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"reshuffle": map[string]interface{}{
					"type":        "boolean",
					"description": "Shuffle a new ring instead of re-throwing the dice",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleNewRound)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "replay",
		Description: "Show the step-by-step traversal of a solved round",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReplay)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_board",
		Description: "Solve a board without a session, either a saved config or an explicit layout",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Saved config to solve",
				},
				"layout": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Card tokens, e.g. [\"lab:red\", \"rxn:boc\", \"gly+boc\", \"gly\"]",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"clockwise", "counterclockwise"},
					"description": "Direction of travel for an explicit layout",
				},
				"initial": map[string]interface{}{
					"type":        "string",
					"description": "Starting molecule for an explicit layout, e.g. gly or ser+boc",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for deck configs, to reproduce a deal",
				},
			},
		},
	}, c.handleSolveBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the complete rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_card",
		Description: "Explain what a card of the current round does to the molecule",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"index": map[string]interface{}{
					"type":        "integer",
					"description": "0-based position of the card on the ring",
				},
			},
			Required: []string{"session_id", "index"},
		},
	}, c.handleDescribeCard)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Argument helpers. JSON numbers arrive as float64.

func stringArg(args map[string]interface{}, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]interface{}, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

func requireSession(args map[string]interface{}) (string, *mcp.CallToolResult) {
	id := stringArg(args, "session_id")
	if id == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return url.PathEscape(id), nil
}

// round is the client-side view of service.RoundView. The board is decoded
// from its JSON form since engine.Board only marshals.
type round struct {
	service.RoundView
	Board struct {
		Cards      []engine.Card       `json:"cards"`
		Layout     []string            `json:"layout"`
		StartIndex int                 `json:"start_index"`
		Direction  engine.Direction    `json:"direction"`
		Initial    engine.MoleculeForm `json:"initial"`
	} `json:"board"`
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	}

	var session struct {
		ID         string `json:"id"`
		ConfigName string `json:"config_name"`
		Round      *round `json:"round"`
	}
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Session created: %s (config: %s)\n\n", session.ID, session.ConfigName)
	if session.Round != nil {
		b.WriteString(formatRound(session.Round))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int `json:"count"`
		Sessions []struct {
			ID             string    `json:"id"`
			ConfigName     string    `json:"config_name"`
			RoundsPlayed   int       `json:"rounds_played"`
			RoundsSolved   int       `json:"rounds_solved"`
			LastAccessedAt time.Time `json:"last_accessed_at"`
		} `json:"sessions"`
	}
	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active sessions: %d\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&b, "- %s: config=%s solved %d/%d rounds, last access %s\n",
			s.ID, s.ConfigName, s.RoundsSolved, s.RoundsPlayed, s.LastAccessedAt.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var r round
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/round", sessionID), nil, &r); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRound(&r)), nil
}

func (c *Client) handleGuess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	// intent is only for the caller's own reasoning
	_ = stringArg(args, "intent")

	var result struct {
		Correct  bool        `json:"correct"`
		Index    int         `json:"index"`
		Card     engine.Card `json:"card"`
		Attempts int         `json:"attempts"`
		Message  string      `json:"message"`
		Path     []int       `json:"path"`
		Round    *round      `json:"round"`
	}
	body := map[string]interface{}{"index": index}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/guess", sessionID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	verdict := "WRONG"
	if result.Correct {
		verdict = "CORRECT"
	}
	fmt.Fprintf(&b, "%s: card %d (%s), attempt %d\n%s\n", verdict, result.Index, result.Card, result.Attempts, result.Message)
	if result.Correct && len(result.Path) > 0 {
		fmt.Fprintf(&b, "Path: %s\n", formatPath(result.Path))
		b.WriteString("Use new_round to keep playing or replay for the full traversal.\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleNewRound(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	reshuffle, _ := args["reshuffle"].(bool)

	var r round
	body := map[string]interface{}{"reshuffle": reshuffle}
	if err := c.apiCall(ctx, "POST", fmt.Sprintf("/api/sessions/%s/round", sessionID), body, &r); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatRound(&r)), nil
}

func (c *Client) handleReplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(request.GetArguments())
	if errResult != nil {
		return errResult, nil
	}

	var replay service.ReplayResult
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/replay", sessionID), nil, &replay); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSteps(replay.AnswerIndex, replay.Outcome, replay.Steps)), nil
}

func (c *Client) handleSolveBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]interface{}{}
	if seed, ok := intArg(args, "seed"); ok && seed > 0 {
		body["seed"] = seed
	}

	if raw, ok := args["layout"].([]interface{}); ok && len(raw) > 0 {
		layout := make([]string, 0, len(raw))
		for _, token := range raw {
			s, _ := token.(string)
			layout = append(layout, s)
		}
		direction := stringArg(args, "direction")
		if direction == "" {
			direction = string(engine.Clockwise)
		}
		body["config"] = map[string]interface{}{
			"name":      "adhoc",
			"layout":    layout,
			"direction": direction,
			"initial":   stringArg(args, "initial"),
		}
	} else if configID := stringArg(args, "config_id"); configID != "" {
		body["config_id"] = configID
	} else {
		return mcp.NewToolResultError("config_id or layout is required"), nil
	}

	var result struct {
		Board struct {
			Layout []string `json:"layout"`
		} `json:"board"`
		Seed     uint64          `json:"seed"`
		Solution engine.Solution `json:"solution"`
	}
	if err := c.apiCall(ctx, "POST", "/api/solve", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString(formatLayout(result.Board.Layout, -1))
	if result.Seed != 0 {
		fmt.Fprintf(&b, "Seed: %d\n", result.Seed)
	}
	b.WriteString(formatSteps(result.Solution.AnswerIndex, result.Solution.Outcome, result.Solution.Steps))
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available configurations:\n")
	for _, cfg := range configs {
		kind := "fixed ring"
		if cfg.Shuffled {
			kind = "shuffled deck"
		}
		fmt.Fprintf(&b, "- %s: %s (%d cards, %s) %s\n", cfg.ConfigID, cfg.Name, cfg.CardCount, kind, cfg.Description)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Amino Trail - Complete Instructions

GAME OBJECTIVE:
Cards lie in a ring. One card is the laboratory, where a molecule is made.
Trace the molecule from the laboratory in the direction of travel and click
the card where it stops.

CARDS (tokens as shown by get_round):
- lab:<colour>  Laboratory. The walk starts here. Reaching it again means the board is broken.
- gly, ser      Amino acid molecules, optionally protected: gly+boc, ser+bn.
- mem:<pair>    Membrane. Jump to the other membrane of the same pair and continue
                from there. Cards between the two are skipped.
- rxn:boc       Adds a Boc group to the molecule, or removes it if already present.
- rxn:bn        Adds a Bn group, or removes it if already present.
- rxn:enzyme    Turns glycine into serine and serine into glycine.

RULES:
1. Start with the molecule shown in the dice throw (species plus protection).
2. Step to the next card in the direction of travel.
3. A molecule card that matches the carried molecule exactly is the answer.
   Any other molecule card is a decoy; walk past it.
4. A reaction changes the carried molecule. A molecule cannot carry Boc and
   Bn at once; such a board is broken.
5. The fourth hit of the same reaction kind destroys the molecule. That
   reaction card is the answer.
6. Membrane cards are never the answer.

STRATEGY:
- Write the carried molecule down after every reaction.
- Count each reaction kind separately; only identical reactions add up.
- When you meet a membrane, find its partner before moving on.
- Use describe_card when a token is unclear.

Good luck tracing the molecule!`
	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	index, ok := intArg(args, "index")
	if !ok {
		return mcp.NewToolResultError("index is required"), nil
	}

	var r round
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/sessions/%s/round", sessionID), nil, &r); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cards := r.Board.Cards
	if index < 0 || index >= len(cards) {
		return mcp.NewToolResultError(fmt.Sprintf("Index %d is out of range. The ring has %d cards (0-%d)",
			index, len(cards), len(cards)-1)), nil
	}

	card := cards[index]
	var b strings.Builder
	fmt.Fprintf(&b, "Card %d: %s\n", index, card.Token())
	b.WriteString(describeCard(card))
	if card.Kind == engine.Membrane {
		for i, other := range cards {
			if i != index && other.Kind == engine.Membrane && other.PairID == card.PairID {
				fmt.Fprintf(&b, "Paired membrane: card %d\n", i)
			}
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func describeCard(card engine.Card) string {
	switch card.Kind {
	case engine.Laboratory:
		return fmt.Sprintf("The %s laboratory. The walk starts here and must not come back.\n", card.Color)
	case engine.Molecule:
		return fmt.Sprintf("A %s molecule. It is the answer only if the carried molecule is exactly %s.\n",
			card.Token(), card.Token())
	case engine.Membrane:
		return "A membrane. The molecule jumps to the paired membrane. Never the answer.\n"
	case engine.Reaction:
		switch card.Reaction {
		case engine.BocToggle:
			return "Boc reaction. Adds Boc protection, or removes it when present. Fails if Bn is present.\n"
		case engine.BnToggle:
			return "Bn reaction. Adds Bn protection, or removes it when present. Fails if Boc is present.\n"
		case engine.EnzymeIsomerize:
			return "Enzyme. Swaps glycine and serine, keeping protection.\n"
		}
	}
	return "Unknown card.\n"
}

func formatRound(r *round) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Round %d (%s)\n", r.Number, r.ID)
	fmt.Fprintf(&b, "Laboratory: %s, direction: %s, molecule: %s\n", r.Throw.Lab, r.Throw.Direction, r.Throw.Initial)
	b.WriteString(formatLayout(r.Board.Layout, r.Board.StartIndex))
	fmt.Fprintf(&b, "Attempts: %d", r.Attempts)
	if r.Solved {
		b.WriteString(" (solved")
		if r.AnswerIndex != nil {
			fmt.Fprintf(&b, ", answer %d", *r.AnswerIndex)
		}
		b.WriteString(")")
	}
	b.WriteString("\n")
	if r.Message != "" {
		b.WriteString(r.Message + "\n")
	}
	return b.String()
}

func formatLayout(layout []string, start int) string {
	var b strings.Builder
	b.WriteString("Ring:\n")
	for i, token := range layout {
		marker := ""
		if i == start {
			marker = "  <- start"
		}
		fmt.Fprintf(&b, "  %2d  %s%s\n", i, token, marker)
	}
	return b.String()
}

func formatPath(path []int) string {
	parts := make([]string, len(path))
	for i, index := range path {
		parts[i] = fmt.Sprint(index)
	}
	return strings.Join(parts, " -> ")
}

func formatSteps(answer int, outcome engine.Outcome, steps []engine.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Answer: card %d (%s)\n", answer, outcome)
	for _, step := range steps {
		fmt.Fprintf(&b, "  %2d  %-12s %-15s carrying %s\n", step.Index, step.Card.Token(), step.Action, step.Form)
	}
	return b.String()
}
