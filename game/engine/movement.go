package engine

import (
	"fmt"
	"time"
)

// Play runs one turn for sym: classify, move the player, advance the pursuers,
// then settle score and status. Unrecognized input never touches the field, and
// a rejected move does not advance the pursuers.
func (e *GameEngine) Play(sym Symbol) TurnResult {
	from := e.field.PlayerPosition()
	result := TurnResult{
		Action: sym.String(),
		From:   from,
		To:     from,
	}

	if e.status != StatusPlaying {
		result.Kind = TurnIgnored
		return e.finish(result, fmt.Sprintf("Game is %s", e.status))
	}

	in := Classify(sym, e.field.Width(), e.field.Height(), e.rng)

	switch in.Kind {
	case IntentUnrecognized:
		result.Kind = TurnSkipped
		return e.finish(result, e.config.Messages.Unknown)

	case IntentQuit:
		e.status = StatusQuit
		result.Kind = TurnQuit
		e.AddMoveToHistory(result.Action, from, from, 0, true)
		return e.finish(result, e.config.Messages.Quit)

	case IntentFreeze:
		e.frozen = !e.frozen
		msg := e.config.Messages.Unfrozen
		if e.frozen {
			msg = e.config.Messages.Frozen
		}
		return e.advance(result, msg)
	}

	target := in.Target(from, e.field.Width(), e.field.Height())
	result.To = target
	if !e.field.MovePlayer(target) {
		result.Kind = TurnRejected
		result.To = from
		result.Attempted = &target
		e.AddMoveToHistory(result.Action, from, target, 0, false)
		msg := e.config.Messages.InvalidMove
		if msg == "" {
			msg = fmt.Sprintf("Can't move %s: %s at %s", result.Action, e.field.KindAt(target), target)
		}
		return e.finish(result, msg)
	}

	return e.advance(result, "")
}

// advance runs the pursuer tick after the player has moved
func (e *GameEngine) advance(result TurnResult, msg string) TurnResult {
	result.Kind = TurnAdvanced
	result.Outcome = e.field.AdvancePursuers(e.frozen)

	switch {
	case result.Outcome.Caught:
		e.status = StatusLost
		msg = e.config.Messages.Lose

	default:
		e.score += result.Outcome.ScoreDelta
		if e.field.Cleared() {
			result.Bonus = e.level * e.config.LevelBonus
			e.score += result.Bonus
			e.status = StatusWon
			msg = fmt.Sprintf(e.config.Messages.Win, e.level)
		} else if msg == "" {
			msg = e.statusLine()
		}
	}

	e.AddMoveToHistory(result.Action, result.From, result.To, result.Outcome.ScoreDelta, true)
	return e.finish(result, msg)
}

func (e *GameEngine) finish(result TurnResult, msg string) TurnResult {
	if msg != "" {
		e.message = msg
	}
	result.Level = e.level
	result.Score = e.score
	result.Status = e.status
	result.Message = e.message
	return result
}

// AddMoveToHistory adds a turn to the game's move history
func (e *GameEngine) AddMoveToHistory(action string, fromPos, toPos Position, delta int, success bool) {
	entry := MoveHistoryEntry{
		Action:       action,
		FromPosition: fromPos,
		ToPosition:   toPos,
		Level:        e.level,
		ScoreDelta:   delta,
		Timestamp:    time.Now().Unix(),
		Success:      success,
		MoveNumber:   e.totalMoves + 1,
	}
	e.history = append(e.history, entry)
	e.totalMoves++
}
