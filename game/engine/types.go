package engine

import "fmt"

// EntityKind represents what occupies a single field cell
type EntityKind int

const (
	Empty EntityKind = iota
	Player
	Pursuer
	Wreckage
)

const (
	// Validation constants
	MinFieldSize        = 5
	MaxFieldSize        = 200
	DefaultPursuers     = 5
	DefaultMaxPursuers  = 40
	DefaultLevelBonus   = 10
	MaxBulkActions      = 50
	WebSocketBufferSize = 256
)

// String returns the lowercase name of the kind
func (k EntityKind) String() string {
	switch k {
	case Player:
		return "player"
	case Pursuer:
		return "pursuer"
	case Wreckage:
		return "wreckage"
	default:
		return "empty"
	}
}

// Glyph returns the character used to draw the kind
func (k EntityKind) Glyph() rune {
	switch k {
	case Player:
		return '@'
	case Pursuer:
		return '+'
	case Wreckage:
		return '*'
	default:
		return ' '
	}
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns a string representation of the position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns the position offset by (dx, dy)
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Outcome is the result of a single pursuer advance
type Outcome struct {
	Caught     bool `json:"caught"`
	ScoreDelta int  `json:"score_delta"`
}

// PlayerSafe reports a survived tick together with the points earned in it
func PlayerSafe(delta int) Outcome {
	return Outcome{ScoreDelta: delta}
}

// PlayerCaught reports a lost tick. Points earned in the tick are discarded.
func PlayerCaught() Outcome {
	return Outcome{Caught: true}
}

// FieldSnapshot is a read-only copy of the field handed to renderers
type FieldSnapshot struct {
	Origin   Position   `json:"origin"`
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Player   Position   `json:"player"`
	Pursuers []Position `json:"pursuers"`
	Wreckage []Position `json:"wreckage"`
	Rows     []string   `json:"rows"`
}

// Status represents the lifecycle of a game
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
	StatusQuit    Status = "quit"
)

// Messages holds the user-facing text of a configuration
type Messages struct {
	Welcome     string `json:"welcome"`
	Win         string `json:"win"`
	Lose        string `json:"lose"`
	InvalidMove string `json:"invalid_move"`
	Unknown     string `json:"unknown"`
	Frozen      string `json:"frozen"`
	Unfrozen    string `json:"unfrozen"`
	Quit        string `json:"quit"`
	Status      string `json:"status"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	PursuersPerLevel int      `json:"pursuers_per_level"`
	MaxPursuers      int      `json:"max_pursuers"`
	LevelBonus       int      `json:"level_bonus"`
	Messages         Messages `json:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Field        FieldSnapshot      `json:"field"`
	Level        int                `json:"level"`
	Score        int                `json:"score"`
	Status       Status             `json:"status"`
	Frozen       bool               `json:"frozen"`
	PursuersLeft int                `json:"pursuers_left"`
	Message      string             `json:"message"`
	ConfigName   string             `json:"config_name"`
	GameOver     bool               `json:"game_over"`
	LevelCleared bool               `json:"level_cleared"`
	MoveHistory  []MoveHistoryEntry `json:"move_history"`
	TotalMoves   int                `json:"total_moves"`

	// Computed helper views (not required for core game logic)
	SafeMoves    []string `json:"safe_moves,omitempty"`
	Threat       string   `json:"threat,omitempty"`
	LocalView3x3 []string `json:"local_view_3x3,omitempty"`
}

// MoveHistoryEntry represents a single turn in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Level        int      `json:"level"`
	ScoreDelta   int      `json:"score_delta"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}

// TurnKind describes what a single Play call did
type TurnKind string

const (
	// TurnSkipped is an unrecognized input; the field was not touched
	TurnSkipped TurnKind = "skipped"
	// TurnRejected is a move onto a pursuer or wreckage; retry with another target
	TurnRejected TurnKind = "rejected"
	// TurnAdvanced means the player moved (or stayed) and the pursuers advanced
	TurnAdvanced TurnKind = "advanced"
	// TurnQuit ends the game at the player's request
	TurnQuit TurnKind = "quit"
	// TurnIgnored is any input received after the level or game ended
	TurnIgnored TurnKind = "ignored"
)

// TurnResult reports the effect of one Play call
type TurnResult struct {
	Kind      TurnKind  `json:"kind"`
	Action    string    `json:"action"`
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Attempted *Position `json:"attempted,omitempty"` // target of a rejected move
	Outcome   Outcome   `json:"outcome"`
	Bonus     int       `json:"bonus,omitempty"`
	Level     int       `json:"level"`
	Score     int       `json:"score"`
	Status    Status    `json:"status"`
	Message   string    `json:"message"`
}
