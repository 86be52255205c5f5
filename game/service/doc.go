// Package service provides the business logic layer for the Robots game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration management and loading
//   - Turn processing with single and bulk commands
//   - Final score recording
//   - Move history tracking
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// ScoreStore persists final scores and answers high score queries.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP and the
// terminal) and the game engine. Each session owns its engine, and turns on one
// session are serialized by the session lock.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	store, _ := scores.Open(ctx, "data/scores.txt")
//	gameService := service.NewGameService(sessionMgr, configMgr, store)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Act(ctx, info.ID, "up-left")
//
// A turn that ends the game by capture or quit records the final score in the
// store. A store failure does not fail the turn; it is reported in the result's
// HighScore.Error.
package service
