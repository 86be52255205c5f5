// Package api provides the HTTP REST API for the Robots game.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=accessed|created|score&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Sessions grouped for a multi-board view
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/render - Framed board as plain text
//   - POST /api/sessions/{id}/act - Play one command ({"command": "up-left"})
//   - POST /api/sessions/{id}/bulk-act - Play commands in order ({"commands": ["up", "stay"]})
//   - POST /api/sessions/{id}/next-level - Start the next level after clearing one
//   - POST /api/sessions/{id}/restart - Start over at level 1
//   - GET /api/sessions/{id}/history - Paged move history (?page=&limit=&order=)
//
// Configuration and scores:
//   - GET /api/configs - List level configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get a configuration
//   - GET /api/scores - Stored high scores
//   - GET /api/health - Liveness
//
// State changes are pushed to WebSocket subscribers of /ws?session={id}.
//
// Errors are returned as JSON with an HTTP status code:
//
//	{"error": "session not found"}
//
// A missing session is 404, an empty bulk command list is 400 and a next-level
// request before the level is cleared is 409.
package api
