// Package scores persists the high-score record of finished games.
//
// A Store keeps an ordered list of scores. Record appends a score only when it
// beats every stored score and reports whether it did. Three backends exist:
//
//   - FileStore: newline-separated non-negative integers in a plain file
//   - PostgresStore: a high_scores table through lib/pq
//   - MemoryStore: process-local, for tests and throwaway servers
//
// Reads are forgiving: a missing or unreadable file reads as no scores and
// malformed lines are skipped. Write failures are always returned.
package scores
