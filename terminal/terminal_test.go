package terminal

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/robots-game/game/engine"
	"github.com/wricardo/robots-game/game/scores"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.Screen, y int) string {
	w, _ := screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := screen.GetContent(x, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func smallConfig() *engine.GameConfig {
	cfg := engine.DefaultGameConfig()
	cfg.Width = 10
	cfg.Height = 8
	cfg.PursuersPerLevel = 2
	cfg.MaxPursuers = 6
	return cfg
}

func newGame(t *testing.T, layout ...string) *engine.GameEngine {
	t.Helper()
	game, err := engine.NewEngine(smallConfig(), engine.NewRand(7))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	if err := game.LoadLayout(layout); err != nil {
		t.Fatalf("Failed to load layout: %v", err)
	}
	return game
}

type failingStore struct {
	scores.Store
}

func (failingStore) Record(ctx context.Context, score int) (bool, error) {
	return false, errors.New("disk full")
}

type countingSounder struct {
	crashes, cleared, caught int
}

func (c *countingSounder) Crash()        { c.crashes++ }
func (c *countingSounder) LevelCleared() { c.cleared++ }
func (c *countingSounder) Caught()       { c.caught++ }
func (c *countingSounder) Close()        {}

func TestKeySymbol(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
		want engine.Symbol
	}{
		{"u", tcell.KeyRune, 'u', engine.SymbolUpLeft},
		{"i", tcell.KeyRune, 'i', engine.SymbolUp},
		{"o", tcell.KeyRune, 'o', engine.SymbolUpRight},
		{"j", tcell.KeyRune, 'j', engine.SymbolLeft},
		{"k", tcell.KeyRune, 'k', engine.SymbolRandom},
		{"l", tcell.KeyRune, 'l', engine.SymbolRight},
		{"m", tcell.KeyRune, 'm', engine.SymbolDownLeft},
		{"comma", tcell.KeyRune, ',', engine.SymbolDown},
		{"period", tcell.KeyRune, '.', engine.SymbolDownRight},
		{"space", tcell.KeyRune, ' ', engine.SymbolStay},
		{"f", tcell.KeyRune, 'f', engine.SymbolFreeze},
		{"q", tcell.KeyRune, 'q', engine.SymbolQuit},
		{"unmapped rune", tcell.KeyRune, 'z', engine.SymbolUnknown},
		{"arrow up", tcell.KeyUp, 0, engine.SymbolUp},
		{"arrow down", tcell.KeyDown, 0, engine.SymbolDown},
		{"arrow left", tcell.KeyLeft, 0, engine.SymbolLeft},
		{"arrow right", tcell.KeyRight, 0, engine.SymbolRight},
		{"escape", tcell.KeyEscape, 0, engine.SymbolQuit},
		{"ctrl-c", tcell.KeyCtrlC, 0, engine.SymbolQuit},
		{"function key", tcell.KeyF1, 0, engine.SymbolUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tcell.NewEventKey(tt.key, tt.r, tcell.ModNone)
			if got := KeySymbol(ev); got != tt.want {
				t.Errorf("KeySymbol() = %s, want %s", got, tt.want)
			}
		})
	}

	if KeySymbol(nil) != engine.SymbolUnknown {
		t.Error("Expected nil event to map to unknown")
	}
}

func TestDrawField(t *testing.T) {
	screen := newScreen(t)
	snapshot := engine.FieldSnapshot{
		Width:  5,
		Height: 2,
		Rows:   []string{"+  * ", "  @  "},
	}

	DrawField(screen, engine.Position{X: 2, Y: 3}, snapshot)

	want := map[int]string{
		2: "  -----",
		3: "  +  *",
		4: "    @",
		5: "  -----",
	}
	for y, line := range want {
		if got := rowText(screen, y); got != line {
			t.Errorf("row %d = %q, want %q", y, got, line)
		}
	}
}

func TestDrawStatusAndResult(t *testing.T) {
	screen := newScreen(t)

	DrawTitle(screen)
	DrawStatus(screen, 3, 42, false)
	DrawResult(screen, "you win")

	if got := rowText(screen, TitleRow); got != "***Robots***" {
		t.Errorf("title = %q", got)
	}
	if got := rowText(screen, StatusRow); got != "level: 3, score: 42" {
		t.Errorf("status = %q", got)
	}
	if got := rowText(screen, ResultRow); got != "you win" {
		t.Errorf("result = %q", got)
	}

	DrawStatus(screen, 1, 0, true)
	if got := rowText(screen, StatusRow); got != "level: 1, score: 0 [frozen]" {
		t.Errorf("frozen status = %q", got)
	}

	DrawResult(screen, "")
	if got := rowText(screen, ResultRow); got != "" {
		t.Errorf("Expected cleared result row, got %q", got)
	}
}

func TestFitConfig(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
		wantErr      bool
	}{
		{"roomy terminal keeps size", 200, 60, 60, 20, false},
		{"standard terminal shrinks height", 80, 24, 60, 18, false},
		{"narrow terminal shrinks both", 40, 15, 32, 9, false},
		{"tiny terminal", 10, 8, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := FitConfig(engine.DefaultGameConfig(), tt.w, tt.h)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FitConfig failed: %v", err)
			}
			if cfg.Width != tt.wantW || cfg.Height != tt.wantH {
				t.Errorf("Got %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestFitConfig_CapsPursuers(t *testing.T) {
	cfg := engine.DefaultGameConfig()
	cfg.MaxPursuers = 40
	fitted, err := FitConfig(cfg, 13, 11)
	if err != nil {
		t.Fatalf("FitConfig failed: %v", err)
	}
	if fitted.MaxPursuers != 24 {
		t.Errorf("Expected max pursuers capped at 24, got %d", fitted.MaxPursuers)
	}
	if cfg.MaxPursuers != 40 {
		t.Error("FitConfig must not modify its input")
	}
}

func TestRun_Quit(t *testing.T) {
	screen := newScreen(t)
	game := newGame(t, "@....", ".....", "....+")
	store := scores.NewMemoryStore()

	screen.InjectKey(tcell.KeyRune, 'z', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	res, err := Run(context.Background(), screen, game, store, Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Status != engine.StatusQuit || res.Score != 0 {
		t.Errorf("Unexpected result %+v", res)
	}
	if res.NewHighScore {
		t.Error("A zero score is never a new high score")
	}
	if game.GetState().TotalMoves != 1 {
		t.Errorf("Expected only the quit in history, got %d moves", game.GetState().TotalMoves)
	}
}

func TestRun_ClearLevelThenQuit(t *testing.T) {
	screen := newScreen(t)
	game := newGame(t,
		"..+..",
		"....@",
		"..+..",
	)
	store := scores.NewMemoryStore()
	sounder := &countingSounder{}

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	res, err := Run(context.Background(), screen, game, store, Options{Sounder: sounder})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// two merged pursuers plus the level 1 bonus
	if res.Score != 12 || res.Level != 2 || res.Status != engine.StatusQuit {
		t.Errorf("Unexpected result %+v", res)
	}
	if !res.NewHighScore {
		t.Error("Expected first recorded score to be a new high score")
	}
	if sounder.crashes != 1 || sounder.cleared != 1 || sounder.caught != 0 {
		t.Errorf("Unexpected sound cues %+v", sounder)
	}
	if best, _ := store.Highest(context.Background()); best != 12 {
		t.Errorf("Expected stored high score 12, got %d", best)
	}
}

func TestRun_CaughtShowsRecordError(t *testing.T) {
	screen := newScreen(t)
	game := newGame(t, "@+...")
	sounder := &countingSounder{}

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	res, err := Run(context.Background(), screen, game, failingStore{}, Options{Sounder: sounder})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Status != engine.StatusLost {
		t.Fatalf("Expected lost game, got %s", res.Status)
	}
	if res.RecordErr == nil {
		t.Error("Expected record error in result")
	}
	if sounder.caught != 1 {
		t.Errorf("Expected caught cue, got %+v", sounder)
	}
	if got := rowText(screen, ResultRow); got != "you lose" {
		t.Errorf("result row = %q", got)
	}
	if got := rowText(screen, ScoreRow); !strings.Contains(got, "not saved: disk full") {
		t.Errorf("score row = %q", got)
	}
}

func TestRun_ContextCancel(t *testing.T) {
	screen := newScreen(t)
	game := newGame(t, "@....", ".....", "....+")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	res, err := Run(ctx, screen, game, nil, Options{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline error, got %v", err)
	}
	if res.Status != engine.StatusPlaying {
		t.Errorf("Expected game still playing, got %s", res.Status)
	}
}

func TestRun_RejectedMoveShowsMessage(t *testing.T) {
	screen := newScreen(t)
	game := newGame(t, "@*...", ".....", "....+")

	screen.InjectKey(tcell.KeyRune, 'l', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	Run(ctx, screen, game, nil, Options{})

	if got := rowText(screen, ResultRow); got != "Can't move there!" {
		t.Errorf("result row = %q", got)
	}
	if game.GetPlayerPosition() != (engine.Position{}) {
		t.Errorf("Player should not have moved, at %s", game.GetPlayerPosition())
	}
}

func TestScoreLine(t *testing.T) {
	tests := []struct {
		res  Result
		want string
	}{
		{Result{Score: 5}, "final score: 5"},
		{Result{Score: 9, NewHighScore: true}, "new high score: 9"},
		{Result{Score: 3, RecordErr: errors.New("boom")}, "score 3 not saved: boom"},
	}
	for _, tt := range tests {
		if got := scoreLine(&tt.res); got != tt.want {
			t.Errorf("scoreLine(%+v) = %q, want %q", tt.res, got, tt.want)
		}
	}
}

func TestSilent(t *testing.T) {
	s := Silent()
	s.Crash()
	s.LevelCleared()
	s.Caught()
	s.Close()
}
