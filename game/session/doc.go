// Package session provides session management for the Robots game.
//
// Manager keeps every session in memory, keyed by a case-insensitive ID.
// Generated IDs are 4 hex characters drawn from crypto/rand. Each session
// owns its own engine and a lock; the service layer holds that lock for a
// whole turn so concurrent requests against one session are serialized while
// different sessions proceed in parallel.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sessionID)
//	sessions := manager.List()
//
// Sessions are not persisted; a restart starts from an empty manager.
// CleanupExpiredSessions drops sessions idle for longer than a given age.
package session
