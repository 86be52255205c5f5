package scores

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const schema = `
CREATE TABLE IF NOT EXISTS high_scores (
	id SERIAL PRIMARY KEY,
	score INTEGER NOT NULL CHECK (score >= 0),
	recorded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`

// PostgresStore keeps scores in a PostgreSQL table
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to connectionString and creates the table if needed
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (ps *PostgresStore) Scores(ctx context.Context) ([]int, error) {
	rows, err := ps.db.QueryContext(ctx, `SELECT score FROM high_scores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var s int
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

func (ps *PostgresStore) Highest(ctx context.Context) (int, error) {
	var best int
	err := ps.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(score), 0) FROM high_scores`).Scan(&best)
	if err != nil {
		return 0, fmt.Errorf("failed to load highest score: %w", err)
	}
	return best, nil
}

// Record compares and inserts inside one transaction under a table lock
func (ps *PostgresStore) Record(ctx context.Context, score int) (bool, error) {
	if score < 0 {
		return false, ErrNegativeScore
	}

	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE high_scores IN EXCLUSIVE MODE`); err != nil {
		return false, fmt.Errorf("failed to lock scores: %w", err)
	}

	var best int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(score), 0) FROM high_scores`).Scan(&best); err != nil {
		return false, fmt.Errorf("failed to load highest score: %w", err)
	}
	if score <= best {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO high_scores (score) VALUES ($1)`, score); err != nil {
		return false, fmt.Errorf("failed to save score: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to save score: %w", err)
	}
	return true, nil
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
