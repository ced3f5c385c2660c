// Package service provides the business logic layer for Amino Trail.
//
// The service package implements:
//   - Multi-session game management
//   - Dealing rounds from board configurations
//   - Checking guesses against the solved answer
//   - Replaying the traversal of a solved round
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages board configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the engine. The engine is pure: each Round owns a dealt board and its
// precomputed solution, and the service serializes guesses against it.
//
// Usage:
//
//	sessionMgr := session.NewManager(logger)
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr, logger)
//
//	// Create a new session
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		return err
//	}
//
//	// Click a card
//	result, err := gameService.Guess(ctx, info.ID, 4)
//
// Rounds:
//
// A guess is correct only when it names the exact position the traversal
// ends on. The answer and the traversal path stay hidden until then; after a
// correct guess the path is returned for animation and Replay returns every
// step. NewRound keeps a shuffled ring and throws the dice again, or deals a
// fresh ring when asked to reshuffle.
package service
