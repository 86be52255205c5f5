package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wricardo/robots-game/game/engine"
	"github.com/wricardo/robots-game/logger"
)

var ErrEmptyCommands = errors.New("no commands provided")

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	scores   ScoreStore
}

// NewGameService creates a new game service instance. scores may be nil, in
// which case final scores are not recorded.
func NewGameService(sessions SessionManager, configs ConfigManager, scores ScoreStore) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		scores:   scores,
	}
}

// getConfigID returns the config_id for a given display name
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := strings.TrimSuffix(configName, ".json")
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}
	session.Lock()
	session.ConfigID = configID
	session.Unlock()

	logger.WithSession(session.ID).WithField("config", configID).Info("Session created")
	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(sessionID)
}

// Act plays one command for a session
func (s *gameServiceImpl) Act(ctx context.Context, sessionID, command string) (*ActResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Lock()
	defer sess.Unlock()

	turn := sess.Engine.Play(engine.ParseSymbol(command))
	result := &ActResult{
		Success: turn.Kind == engine.TurnAdvanced || turn.Kind == engine.TurnQuit,
		Turn:    turn,
		Message: turn.Message,
		Events:  turnEvents(turn),
	}
	if turn.Kind == engine.TurnSkipped {
		result.Message = fmt.Sprintf("%s: %q", turn.Message, command)
	}

	result.HighScore = s.recordFinalScore(ctx, sess, turn)
	if result.HighScore != nil && result.HighScore.NewHighScore {
		result.Events = append(result.Events, highScoreEvent(result.HighScore.Score))
	}

	result.GameState = enrichState(sess.Engine)
	return result, nil
}

// BulkAct plays commands in order until one is rejected or the level or game ends
func (s *gameServiceImpl) BulkAct(ctx context.Context, sessionID string, commands []string) (*BulkActResult, error) {
	if len(commands) == 0 {
		return nil, ErrEmptyCommands
	}

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Lock()
	defer sess.Unlock()

	startPos := sess.Engine.GetPlayerPosition()
	startScore := sess.Engine.GetScore()

	result := &BulkActResult{
		RequestedActions: len(commands),
		Events:           make([]GameEvent, 0),
		Success:          true,
		StartPos:         startPos,
		StartScore:       startScore,
	}

	// Limit actions to prevent abuse
	if len(commands) > engine.MaxBulkActions {
		result.Truncated = true
		result.Limit = engine.MaxBulkActions
		commands = commands[:engine.MaxBulkActions]
	}

	for i, command := range commands {
		if status := sess.Engine.GetStatus(); status != engine.StatusPlaying {
			result.StoppedReason = fmt.Sprintf("game is %s", status)
			result.StopReasonCode = "not_playing"
			result.StoppedOnAction = i + 1
			break
		}

		turn := sess.Engine.Play(engine.ParseSymbol(command))
		result.Turns = append(result.Turns, turn)
		result.Events = append(result.Events, turnEvents(turn)...)

		if code, reason := stopReason(turn, command); code != "" {
			result.StopReasonCode = code
			result.StoppedReason = fmt.Sprintf("action %d: %s", i+1, reason)
			result.StoppedOnAction = i + 1
			if turn.Kind == engine.TurnRejected || turn.Kind == engine.TurnSkipped {
				result.Success = false
				break
			}
			result.ActionsExecuted++
			result.HighScore = s.recordFinalScore(ctx, sess, turn)
			if result.HighScore != nil && result.HighScore.NewHighScore {
				result.Events = append(result.Events, highScoreEvent(result.HighScore.Score))
			}
			break
		}
		result.ActionsExecuted++
	}

	endState := enrichState(sess.Engine)
	result.GameState = endState
	result.EndPos = endState.Field.Player
	result.EndScore = endState.Score
	result.ScoreDelta = endState.Score - startScore
	result.GameOver = endState.GameOver
	result.LevelCleared = endState.LevelCleared
	result.Message = endState.Message
	result.SafeMoves = endState.SafeMoves
	result.Threat = riskCode(endState.Threat)

	return result, nil
}

// NextLevel starts the following level of a session whose level is cleared
func (s *gameServiceImpl) NextLevel(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Lock()
	defer sess.Unlock()

	if _, err := sess.Engine.NextLevel(); err != nil {
		return nil, err
	}
	logger.WithSession(sess.ID).WithField("level", sess.Engine.GetLevel()).Info("Level started")
	return enrichState(sess.Engine), nil
}

// Restart resets a session to level 1 with zero score
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Lock()
	defer sess.Unlock()

	if _, err := sess.Engine.Restart(); err != nil {
		return nil, err
	}
	return enrichState(sess.Engine), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Lock()
	defer sess.Unlock()
	return enrichState(sess.Engine), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	sess.Lock()
	history := append([]engine.MoveHistoryEntry(nil), sess.Engine.GetMoveHistory()...)
	sess.Unlock()

	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// HighScores returns the stored score record
func (s *gameServiceImpl) HighScores(ctx context.Context) (*HighScores, error) {
	if s.scores == nil {
		return &HighScores{Scores: []int{}}, nil
	}

	scores, err := s.scores.Scores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load scores: %w", err)
	}
	highest, err := s.scores.Highest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load highest score: %w", err)
	}
	if scores == nil {
		scores = []int{}
	}
	return &HighScores{Highest: highest, Scores: scores}, nil
}

// recordFinalScore stores the score of a game that ended on this turn. Store
// failures are logged and reported back instead of failing the turn.
func (s *gameServiceImpl) recordFinalScore(ctx context.Context, sess *Session, turn engine.TurnResult) *HighScoreUpdate {
	if s.scores == nil || turn.Kind == engine.TurnIgnored {
		return nil
	}
	if turn.Status != engine.StatusLost && turn.Status != engine.StatusQuit {
		return nil
	}

	update := &HighScoreUpdate{Score: turn.Score}
	newHigh, err := s.scores.Record(ctx, turn.Score)
	if err != nil {
		logger.WithSession(sess.ID).WithError(err).WithField("score", turn.Score).Error("Failed to record final score")
		update.Error = err.Error()
		return update
	}
	update.NewHighScore = newHigh

	logger.WithSession(sess.ID).WithFields(map[string]any{
		"score":    turn.Score,
		"level":    turn.Level,
		"new_high": newHigh,
		"status":   string(turn.Status),
	}).Info("Game over")
	return update
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	sess.Lock()
	state := enrichState(sess.Engine)
	configID := sess.ConfigID
	lastAccessed := sess.LastAccessedAt
	sess.Unlock()

	if configID == "" {
		configID = s.getConfigID(sess.Config.Name)
	}

	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: lastAccessed,
		GameState:      state,
		GameConfig:     sess.Config,
	}
}

// stopReason returns a machine code and description when turn ends a bulk run
func stopReason(turn engine.TurnResult, command string) (string, string) {
	switch turn.Kind {
	case engine.TurnSkipped:
		return "unknown_command", fmt.Sprintf("unknown command %q", command)
	case engine.TurnRejected:
		return "rejected", fmt.Sprintf("%s blocked at %s", turn.Action, turn.Attempted)
	case engine.TurnQuit:
		return "quit", "game ended by quit"
	}
	switch turn.Status {
	case engine.StatusLost:
		return "caught", "player caught"
	case engine.StatusWon:
		return "level_cleared", fmt.Sprintf("level %d cleared", turn.Level)
	}
	return "", ""
}

// turnEvents describes a turn as a list of events
func turnEvents(turn engine.TurnResult) []GameEvent {
	now := time.Now()
	events := []GameEvent{}

	switch turn.Kind {
	case engine.TurnSkipped:
		return append(events, GameEvent{Type: "unknown", Message: turn.Message, Timestamp: now, Position: turn.From})
	case engine.TurnIgnored:
		return events
	case engine.TurnQuit:
		return append(events, GameEvent{Type: "quit", Message: turn.Message, Timestamp: now, Position: turn.From})
	case engine.TurnRejected:
		msg := fmt.Sprintf("Can't move %s", turn.Action)
		if turn.Attempted != nil {
			msg = fmt.Sprintf("Can't move %s to %s", turn.Action, turn.Attempted)
		}
		return append(events, GameEvent{Type: "rejected", Message: msg, Timestamp: now, Position: turn.From})
	}

	if turn.Action == engine.SymbolFreeze.String() {
		events = append(events, GameEvent{Type: "freeze", Message: turn.Message, Timestamp: now, Position: turn.To})
	} else {
		events = append(events, GameEvent{
			Type:      "move",
			Message:   fmt.Sprintf("Moved %s to %s", turn.Action, turn.To),
			Timestamp: now,
			Position:  turn.To,
		})
	}

	if turn.Outcome.Caught {
		return append(events, GameEvent{Type: "caught", Message: turn.Message, Timestamp: now, Position: turn.To})
	}
	if turn.Outcome.ScoreDelta > 0 {
		events = append(events, GameEvent{
			Type:      "merge",
			Message:   fmt.Sprintf("%d pursuers destroyed", turn.Outcome.ScoreDelta),
			Timestamp: now,
			Position:  turn.To,
		})
	}
	if turn.Status == engine.StatusWon {
		events = append(events, GameEvent{
			Type:      "level_cleared",
			Message:   fmt.Sprintf("%s (+%d bonus)", turn.Message, turn.Bonus),
			Timestamp: now,
			Position:  turn.To,
		})
	}
	return events
}

func highScoreEvent(score int) GameEvent {
	return GameEvent{
		Type:      "high_score",
		Message:   fmt.Sprintf("New high score: %d", score),
		Timestamp: time.Now(),
	}
}

// enrichState adds decision aids to the engine state
func enrichState(e *engine.GameEngine) *engine.GameState {
	state := e.GetState()
	state.LocalView3x3 = buildLocal3x3(state)
	return state
}

// buildLocal3x3 renders the cells around the player; '#' marks off-field cells
func buildLocal3x3(state *engine.GameState) []string {
	if state == nil {
		return nil
	}
	px, py := state.Field.Player.X, state.Field.Player.Y
	lines := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			x, y := px+dx, py+dy
			if y < 0 || y >= len(state.Field.Rows) || x < 0 || x >= state.Field.Width {
				row.WriteByte('#')
				continue
			}
			ch := state.Field.Rows[y][x]
			if ch == ' ' {
				ch = '.'
			}
			row.WriteByte(ch)
		}
		lines = append(lines, row.String())
	}
	return lines
}

func riskCode(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "critical"):
		return "CRITICAL"
	case strings.Contains(t, "danger"):
		return "DANGER"
	case strings.Contains(t, "caution"):
		return "CAUTION"
	case strings.Contains(t, "clear"):
		return "CLEAR"
	case strings.Contains(t, "safe"):
		return "SAFE"
	default:
		return "UNKNOWN"
	}
}
