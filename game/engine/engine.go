package engine

import (
	"errors"
	"fmt"
)

var ErrLevelNotCleared = errors.New("level not cleared")

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	Restart() (*GameState, error)
	NextLevel() (*GameState, error)
	IsGameOver() bool
	IsLevelCleared() bool
	GetScore() int
	GetLevel() int
	GetStatus() Status
	GetPlayerPosition() Position

	// Turn operations
	Play(sym Symbol) TurnResult
	CanMove(sym Symbol) bool
	GetPossibleMoves() []string

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Field
	GetField() *Field
	GetPursuersLeft() int
}

// GameEngine implements the Engine interface. It holds the driver state of a
// game: level, score and status live here, never on the Field.
type GameEngine struct {
	config *GameConfig
	rng    Rand

	field   *Field
	level   int
	score   int
	status  Status
	frozen  bool
	message string

	history    []MoveHistoryEntry
	totalMoves int
}

// NewEngine creates a new game engine at level 1 with the provided configuration
func NewEngine(config *GameConfig, rng Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRandFromTime()
	}

	e := &GameEngine{
		config:  config,
		rng:     rng,
		history: []MoveHistoryEntry{},
	}
	if err := e.startLevel(1); err != nil {
		return nil, err
	}
	e.message = config.Messages.Welcome
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in configuration
func NewEngineWithDefaults(rng Rand) *GameEngine {
	e, err := NewEngine(DefaultGameConfig(), rng)
	if err != nil {
		// The built-in configuration always validates
		panic(fmt.Sprintf("default config rejected: %v", err))
	}
	return e
}

// startLevel discards the current field and builds a fresh one for level
func (e *GameEngine) startLevel(level int) error {
	count := PursuerCountForLevel(e.config, level)
	field, err := NewField(Position{}, e.config.Width, e.config.Height, count, e.rng)
	if err != nil {
		return fmt.Errorf("failed to build level %d: %w", level, err)
	}
	e.field = field
	e.level = level
	e.status = StatusPlaying
	e.frozen = false
	return nil
}

// GetState returns a JSON-ready view of the current game
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Field:        e.field.Snapshot(),
		Level:        e.level,
		Score:        e.score,
		Status:       e.status,
		Frozen:       e.frozen,
		PursuersLeft: e.field.PursuerCount(),
		Message:      e.message,
		ConfigName:   e.config.Name,
		GameOver:     e.IsGameOver(),
		LevelCleared: e.IsLevelCleared(),
		MoveHistory:  e.history,
		TotalMoves:   e.totalMoves,
		SafeMoves:    SafeMoves(e.field),
		Threat:       AnalyzeThreat(e.field),
	}
}

// Restart starts over from level 1 with zero score. History is kept.
func (e *GameEngine) Restart() (*GameState, error) {
	if err := e.startLevel(1); err != nil {
		return nil, err
	}
	e.score = 0
	e.message = e.config.Messages.Welcome
	return e.GetState(), nil
}

// NextLevel builds the field of the following level after a cleared one
func (e *GameEngine) NextLevel() (*GameState, error) {
	if e.status != StatusWon {
		return nil, fmt.Errorf("%w: status is %s", ErrLevelNotCleared, e.status)
	}
	if err := e.startLevel(e.level + 1); err != nil {
		return nil, err
	}
	e.message = e.statusLine()
	return e.GetState(), nil
}

// LoadLayout replaces the current level's field with a scripted layout
// (see NewFieldFromLayout) and resumes play on it. It is a test and debugging
// hook for setting up exact positions: no game operation calls it, and the
// level, score and history are left as they are.
func (e *GameEngine) LoadLayout(layout []string) error {
	field, err := NewFieldFromLayout(layout)
	if err != nil {
		return err
	}
	e.field = field
	e.status = StatusPlaying
	e.frozen = false
	return nil
}

// IsGameOver returns whether the game ended by loss or quit
func (e *GameEngine) IsGameOver() bool {
	return e.status == StatusLost || e.status == StatusQuit
}

// IsLevelCleared returns whether every pursuer of the level was eliminated
func (e *GameEngine) IsLevelCleared() bool {
	return e.status == StatusWon
}

// GetScore returns the accumulated score
func (e *GameEngine) GetScore() int {
	return e.score
}

// GetLevel returns the current level, starting at 1
func (e *GameEngine) GetLevel() int {
	return e.level
}

// GetStatus returns the game status
func (e *GameEngine) GetStatus() Status {
	return e.status
}

// IsFrozen reports whether pursuers are held in place
func (e *GameEngine) IsFrozen() bool {
	return e.frozen
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.field.PlayerPosition()
}

// CanMove checks whether a step symbol would be accepted by the field
func (e *GameEngine) CanMove(sym Symbol) bool {
	if e.status != StatusPlaying || !IsStep(sym) {
		return false
	}
	in := Classify(sym, e.field.Width(), e.field.Height(), nil)
	target := in.Target(e.field.PlayerPosition(), e.field.Width(), e.field.Height())
	k := e.field.KindAt(target)
	return k == Empty || k == Player
}

// GetPossibleMoves returns all step symbols the player can take
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, sym := range Symbols {
		if e.CanMove(sym) {
			possible = append(possible, sym.String())
		}
	}
	return possible
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// GetField returns the field of the current level
func (e *GameEngine) GetField() *Field {
	return e.field
}

// GetPursuersLeft returns the number of active pursuers
func (e *GameEngine) GetPursuersLeft() int {
	return e.field.PursuerCount()
}

// BulkPlay plays symbols in sequence until the level or the game ends
func (e *GameEngine) BulkPlay(syms []Symbol) []TurnResult {
	results := make([]TurnResult, 0, len(syms))

	for _, sym := range syms {
		if e.status != StatusPlaying {
			break
		}
		results = append(results, e.Play(sym))
	}

	return results
}

func (e *GameEngine) statusLine() string {
	if e.config.Messages.Status == "" {
		return fmt.Sprintf("level: %d, score: %d", e.level, e.score)
	}
	return fmt.Sprintf(e.config.Messages.Status, e.level, e.score)
}
