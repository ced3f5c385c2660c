// Package mcp exposes the game to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request against the
// REST API, so agents and browsers share the same sessions. Results are
// rendered as plain text.
//
// Tools:
//   - create_session, list_sessions
//   - get_round, guess, new_round, replay
//   - solve_board: solve a saved config or an explicit layout
//   - list_configs
//   - game_instructions, describe_card
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
