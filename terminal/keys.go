package terminal

import (
	"github.com/gdamore/tcell/v2"
	"github.com/wricardo/robots-game/game/engine"
)

// runeSymbols is the classic keyboard layout: the 3x3 block around 'k'
// points in the eight directions and 'k' itself jumps to a random cell.
var runeSymbols = map[rune]engine.Symbol{
	'u': engine.SymbolUpLeft,
	'i': engine.SymbolUp,
	'o': engine.SymbolUpRight,
	'j': engine.SymbolLeft,
	'k': engine.SymbolRandom,
	'l': engine.SymbolRight,
	'm': engine.SymbolDownLeft,
	',': engine.SymbolDown,
	'.': engine.SymbolDownRight,
	' ': engine.SymbolStay,
	'f': engine.SymbolFreeze,
	'q': engine.SymbolQuit,
}

var keySymbols = map[tcell.Key]engine.Symbol{
	tcell.KeyUp:     engine.SymbolUp,
	tcell.KeyDown:   engine.SymbolDown,
	tcell.KeyLeft:   engine.SymbolLeft,
	tcell.KeyRight:  engine.SymbolRight,
	tcell.KeyEscape: engine.SymbolQuit,
	tcell.KeyCtrlC:  engine.SymbolQuit,
}

// KeySymbol maps a key press to a game symbol. Keys outside the layout map
// to SymbolUnknown.
func KeySymbol(ev *tcell.EventKey) engine.Symbol {
	if ev == nil {
		return engine.SymbolUnknown
	}
	if ev.Key() == tcell.KeyRune {
		if sym, ok := runeSymbols[ev.Rune()]; ok {
			return sym
		}
		return engine.SymbolUnknown
	}
	if sym, ok := keySymbols[ev.Key()]; ok {
		return sym
	}
	return engine.SymbolUnknown
}
