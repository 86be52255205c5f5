package scores

import (
	"context"
	"errors"
	"strings"
)

var ErrNegativeScore = errors.New("score cannot be negative")

// Store defines the interface for high-score persistence
type Store interface {
	// Scores returns every stored score in insertion order
	Scores(ctx context.Context) ([]int, error)

	// Highest returns the best stored score, 0 when none exist
	Highest(ctx context.Context) (int, error)

	// Record appends score when it exceeds the stored maximum and reports
	// whether it was a new high score
	Record(ctx context.Context, score int) (bool, error)

	// Close releases the backend
	Close() error
}

// Open picks a backend from dsn: postgres:// and postgresql:// URLs open a
// PostgresStore, "memory" a MemoryStore, anything else is a file path.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn)
	case dsn == "memory":
		return NewMemoryStore(), nil
	}
	return NewFileStore(dsn)
}

func maxScore(scores []int) int {
	best := 0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	return best
}
