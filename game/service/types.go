package service

import (
	"time"

	"github.com/wricardo/robots-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActResult contains the result of a single command
type ActResult struct {
	Success   bool              `json:"success"`
	Turn      engine.TurnResult `json:"turn"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`

	// Set on the turn that ended the game
	HighScore *HighScoreUpdate `json:"high_score,omitempty"`
}

// BulkActResult contains the result of a command sequence
type BulkActResult struct {
	// Summary
	ActionsExecuted  int               `json:"actions_executed"`
	RequestedActions int               `json:"requested_actions"`
	Success          bool              `json:"success"`
	GameState        *engine.GameState `json:"game_state"`
	Events           []GameEvent       `json:"events"`
	StoppedReason    string            `json:"stopped_reason,omitempty"`    // Human-readable reason
	StopReasonCode   string            `json:"stop_reason_code,omitempty"`  // rejected|unknown_command|caught|level_cleared|quit|not_playing
	StoppedOnAction  int               `json:"stopped_on_action,omitempty"` // 1-based index of the action that caused the stop
	Truncated        bool              `json:"truncated,omitempty"`
	Limit            int               `json:"limit,omitempty"`

	// Start/end snapshot
	StartPos   engine.Position `json:"start_pos"`
	EndPos     engine.Position `json:"end_pos"`
	StartScore int             `json:"start_score"`
	EndScore   int             `json:"end_score"`
	ScoreDelta int             `json:"score_delta"`

	// Per-turn trace (only for this call)
	Turns []engine.TurnResult `json:"turns,omitempty"`

	// Final status aids
	GameOver     bool             `json:"game_over"`
	LevelCleared bool             `json:"level_cleared"`
	Message      string           `json:"message,omitempty"`
	SafeMoves    []string         `json:"safe_moves,omitempty"`
	Threat       string           `json:"threat,omitempty"`
	HighScore    *HighScoreUpdate `json:"high_score,omitempty"`
}

// HighScoreUpdate reports what happened when a final score was recorded
type HighScoreUpdate struct {
	Score        int    `json:"score"`
	NewHighScore bool   `json:"new_high_score"`
	Error        string `json:"error,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "merge", "rejected", "unknown", "freeze", "caught", "level_cleared", "quit", "restart", "next_level", "high_score"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename         string `json:"filename"`
	ConfigID         string `json:"config_id"` // The identifier to use for session creation
	Name             string `json:"name"`      // Display name
	Description      string `json:"description"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	PursuersPerLevel int    `json:"pursuers_per_level"`
	MaxPursuers      int    `json:"max_pursuers"`
}

// HighScores is the stored score record
type HighScores struct {
	Highest int   `json:"highest"`
	Scores  []int `json:"scores"`
}
