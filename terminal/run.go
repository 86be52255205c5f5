package terminal

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/wricardo/robots-game/game/engine"
	"github.com/wricardo/robots-game/game/scores"
	"github.com/wricardo/robots-game/logger"
)

// Options tunes the interactive loop
type Options struct {
	// Sounder plays event cues. Nil means silent.
	Sounder Sounder
	// Origin overrides FieldOrigin when non-zero
	Origin engine.Position
}

// Result summarizes a finished game
type Result struct {
	Level        int
	Score        int
	Status       engine.Status
	NewHighScore bool
	// RecordErr is set when the final score could not be stored
	RecordErr error
}

type runner struct {
	screen  tcell.Screen
	game    *engine.GameEngine
	store   scores.Store
	sounder Sounder
	origin  engine.Position
	events  chan tcell.Event
	log     *logrus.Entry
}

// Run plays game on screen until the player quits or is caught, moving on
// to the next level each time one is cleared. The final score is recorded in
// store when it is non-nil. Cancelling ctx stops the loop with ctx.Err().
func Run(ctx context.Context, screen tcell.Screen, game *engine.GameEngine, store scores.Store, opts Options) (*Result, error) {
	r := &runner{
		screen:  screen,
		game:    game,
		store:   store,
		sounder: opts.Sounder,
		origin:  opts.Origin,
		events:  make(chan tcell.Event, 16),
		log:     logger.Log.WithField("component", "terminal"),
	}
	if r.sounder == nil {
		r.sounder = Silent()
	}
	if r.origin == (engine.Position{}) {
		r.origin = FieldOrigin
	}

	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(r.events, quit)

	r.redraw("")
	for {
		sym, err := r.nextSymbol(ctx)
		if err != nil {
			return r.result(nil), err
		}
		if sym == engine.SymbolUnknown {
			continue
		}

		turn := game.Play(sym)
		r.log.WithFields(logrus.Fields{
			"action": turn.Action,
			"kind":   turn.Kind,
			"level":  turn.Level,
			"score":  turn.Score,
		}).Debug("Turn played")
		if turn.Outcome.ScoreDelta > 0 {
			r.sounder.Crash()
		}

		switch turn.Status {
		case engine.StatusWon:
			r.sounder.LevelCleared()
			r.redraw(turn.Message)
			if err := r.waitKey(ctx); err != nil {
				return r.result(nil), err
			}
			if _, err := game.NextLevel(); err != nil {
				return r.result(nil), fmt.Errorf("failed to start level %d: %w", turn.Level+1, err)
			}
			r.redraw("")

		case engine.StatusLost:
			r.sounder.Caught()
			res := r.result(r.record(ctx))
			r.redraw(turn.Message)
			DrawScore(r.screen, scoreLine(res))
			r.screen.Show()
			return res, r.waitQuit(ctx)

		case engine.StatusQuit:
			return r.result(r.record(ctx)), nil

		default:
			r.redraw(resultText(turn))
		}
	}
}

// resultText is the line shown after a turn that did not end the level
func resultText(turn engine.TurnResult) string {
	if turn.Kind == engine.TurnAdvanced && turn.Action != engine.SymbolFreeze.String() {
		return ""
	}
	return turn.Message
}

func scoreLine(res *Result) string {
	switch {
	case res.RecordErr != nil:
		return fmt.Sprintf("score %d not saved: %v", res.Score, res.RecordErr)
	case res.NewHighScore:
		return fmt.Sprintf("new high score: %d", res.Score)
	}
	return fmt.Sprintf("final score: %d", res.Score)
}

type recordOutcome struct {
	newHigh bool
	err     error
}

func (r *runner) record(ctx context.Context) *recordOutcome {
	if r.store == nil {
		return &recordOutcome{}
	}
	score := r.game.GetScore()
	newHigh, err := r.store.Record(ctx, score)
	if err != nil {
		r.log.WithError(err).WithField("score", score).Error("Failed to record high score")
		return &recordOutcome{err: err}
	}
	if newHigh {
		r.log.WithField("score", score).Info("New high score")
	}
	return &recordOutcome{newHigh: newHigh}
}

func (r *runner) result(rec *recordOutcome) *Result {
	res := &Result{
		Level:  r.game.GetLevel(),
		Score:  r.game.GetScore(),
		Status: r.game.GetStatus(),
	}
	if rec != nil {
		res.NewHighScore = rec.newHigh
		res.RecordErr = rec.err
	}
	return res
}

func (r *runner) redraw(result string) {
	state := r.game.GetState()
	r.screen.Clear()
	DrawTitle(r.screen)
	DrawResult(r.screen, result)
	DrawStatus(r.screen, state.Level, state.Score, state.Frozen)
	DrawField(r.screen, r.origin, state.Field)
	r.screen.Show()
}

// nextKey blocks until a key press, handling resizes on the way
func (r *runner) nextKey(ctx context.Context) (*tcell.EventKey, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-r.events:
			if !ok {
				return nil, fmt.Errorf("terminal event stream closed")
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				return ev, nil
			case *tcell.EventResize:
				r.screen.Sync()
			}
		}
	}
}

func (r *runner) nextSymbol(ctx context.Context) (engine.Symbol, error) {
	key, err := r.nextKey(ctx)
	if err != nil {
		return engine.SymbolUnknown, err
	}
	return KeySymbol(key), nil
}

// waitKey blocks until any key is pressed
func (r *runner) waitKey(ctx context.Context) error {
	_, err := r.nextKey(ctx)
	return err
}

// waitQuit blocks until a quit key is pressed
func (r *runner) waitQuit(ctx context.Context) error {
	for {
		sym, err := r.nextSymbol(ctx)
		if err != nil {
			return err
		}
		if sym == engine.SymbolQuit {
			return nil
		}
	}
}
