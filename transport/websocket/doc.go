// Package websocket pushes game state to browsers watching a session.
//
// A central Hub owns every connection. Each client has a read goroutine that
// only keeps the connection alive and a write goroutine that drains its send
// queue. Clients join a session with the ?session=ID query parameter and only
// receive messages for that session.
//
// Outgoing messages are JSON:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}}
//	{"session_id": "ab12", "event": "caught", "data": ...}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	hub.BroadcastToSession(id, state)
//
// A client whose queue is full is dropped rather than blocking the hub.
package websocket
