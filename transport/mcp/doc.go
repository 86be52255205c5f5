// Package mcp exposes the Robots game to AI agents over the Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against the
// REST API of a running game server, so agents and browsers share sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - game_state: board, score, threat level and safe moves
//   - act: play one command (up, down-left, stay, random, freeze, quit, ...)
//   - bulk_act: play a sequence, stopping at the first rejected move or game end
//   - next_level, restart: level transitions
//   - move_history: paginated turn history
//   - list_configs, high_scores: arenas and stored scores
//   - game_instructions, describe_cell: rules and cell inspection
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := client.ServeStdio(); err != nil {
//		log.Fatal(err)
//	}
package mcp
