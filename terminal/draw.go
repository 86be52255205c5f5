package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/robots-game/game/engine"
)

// Screen rows of the fixed text lines
const (
	TitleRow  = 0
	ResultRow = 1
	ScoreRow  = 2
	StatusRow = 3
)

// FieldOrigin is where the top-left arena cell is drawn. The frame sits one
// row above and one row below the arena.
var FieldOrigin = engine.Position{X: 5, Y: 5}

// Margins the arena leaves free around it
const (
	marginX = 8
	marginY = 6
)

var (
	playerStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	pursuerStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	wreckageStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	frameStyle    = tcell.StyleDefault
	textStyle     = tcell.StyleDefault
)

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}

// clearLine blanks row y from column 0 to the screen width
func clearLine(screen tcell.Screen, y int) {
	w, _ := screen.Size()
	for x := 0; x < w; x++ {
		screen.SetContent(x, y, ' ', nil, textStyle)
	}
}

// DrawTitle writes the game title on the first row
func DrawTitle(screen tcell.Screen) {
	drawText(screen, 0, TitleRow, "***Robots***", textStyle)
}

// DrawField draws the arena at origin with a '-' frame above and below it
func DrawField(screen tcell.Screen, origin engine.Position, s engine.FieldSnapshot) {
	for x := 0; x < s.Width; x++ {
		screen.SetContent(origin.X+x, origin.Y-1, '-', nil, frameStyle)
		screen.SetContent(origin.X+x, origin.Y+s.Height, '-', nil, frameStyle)
	}

	for y, row := range s.Rows {
		for x, r := range []rune(row) {
			style := textStyle
			switch r {
			case engine.Player.Glyph():
				style = playerStyle
			case engine.Pursuer.Glyph():
				style = pursuerStyle
			case engine.Wreckage.Glyph():
				style = wreckageStyle
			}
			screen.SetContent(origin.X+x, origin.Y+y, r, nil, style)
		}
	}
}

// DrawStatus writes the level and score line
func DrawStatus(screen tcell.Screen, level, score int, frozen bool) {
	clearLine(screen, StatusRow)
	line := fmt.Sprintf("level: %d, score: %d", level, score)
	if frozen {
		line += " [frozen]"
	}
	drawText(screen, 0, StatusRow, line, textStyle)
}

// DrawResult writes the outcome line. An empty text clears it.
func DrawResult(screen tcell.Screen, text string) {
	clearLine(screen, ResultRow)
	drawText(screen, 0, ResultRow, text, textStyle)
}

// DrawScore writes the high-score line shown after a game ends
func DrawScore(screen tcell.Screen, text string) {
	clearLine(screen, ScoreRow)
	drawText(screen, 0, ScoreRow, text, textStyle)
}

// FitConfig returns a copy of cfg whose arena fits a screen of w x h cells.
// The arena only shrinks; it never grows past the configured size.
func FitConfig(cfg *engine.GameConfig, w, h int) (*engine.GameConfig, error) {
	fitted := *cfg
	if maxW := w - marginX; maxW < fitted.Width {
		fitted.Width = maxW
	}
	if maxH := h - marginY; maxH < fitted.Height {
		fitted.Height = maxH
	}
	if fitted.Width < engine.MinFieldSize || fitted.Height < engine.MinFieldSize {
		return nil, fmt.Errorf("terminal %dx%d is too small for the arena", w, h)
	}
	if free := fitted.Width*fitted.Height - 1; fitted.MaxPursuers > free {
		fitted.MaxPursuers = free
	}
	if err := engine.ValidateGameConfig(&fitted); err != nil {
		return nil, fmt.Errorf("arena does not fit the terminal: %w", err)
	}
	return &fitted, nil
}
