package engine

import "strings"

// Symbol is an abstract player input, independent of any key encoding
type Symbol int

const (
	SymbolUnknown Symbol = iota
	SymbolUp
	SymbolDown
	SymbolLeft
	SymbolRight
	SymbolUpLeft
	SymbolUpRight
	SymbolDownLeft
	SymbolDownRight
	SymbolStay
	SymbolRandom
	SymbolFreeze
	SymbolQuit
)

var symbolNames = map[Symbol]string{
	SymbolUp:        "up",
	SymbolDown:      "down",
	SymbolLeft:      "left",
	SymbolRight:     "right",
	SymbolUpLeft:    "up-left",
	SymbolUpRight:   "up-right",
	SymbolDownLeft:  "down-left",
	SymbolDownRight: "down-right",
	SymbolStay:      "stay",
	SymbolRandom:    "random",
	SymbolFreeze:    "freeze",
	SymbolQuit:      "quit",
}

var symbolAliases = map[string]Symbol{
	"n":        SymbolUp,
	"s":        SymbolDown,
	"w":        SymbolLeft,
	"e":        SymbolRight,
	"nw":       SymbolUpLeft,
	"ne":       SymbolUpRight,
	"sw":       SymbolDownLeft,
	"se":       SymbolDownRight,
	"wait":     SymbolStay,
	"teleport": SymbolRandom,
	"hold":     SymbolFreeze,
	"exit":     SymbolQuit,
}

// Symbols lists every recognized symbol in display order
var Symbols = []Symbol{
	SymbolUp, SymbolDown, SymbolLeft, SymbolRight,
	SymbolUpLeft, SymbolUpRight, SymbolDownLeft, SymbolDownRight,
	SymbolStay, SymbolRandom, SymbolFreeze, SymbolQuit,
}

// String returns the canonical name of the symbol
func (s Symbol) String() string {
	if name, ok := symbolNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseSymbol maps a command name to a Symbol. Unknown names map to SymbolUnknown.
func ParseSymbol(name string) Symbol {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	for sym, n := range symbolNames {
		if n == name {
			return sym
		}
	}
	if sym, ok := symbolAliases[name]; ok {
		return sym
	}
	return SymbolUnknown
}

// IntentKind classifies what a symbol asks the driver to do
type IntentKind int

const (
	IntentUnrecognized IntentKind = iota
	IntentStep
	IntentJump
	IntentFreeze
	IntentQuit
)

// Intent is the classified effect of one input symbol
type Intent struct {
	Kind IntentKind
	DX   int
	DY   int
	Jump Position
}

var stepDeltas = map[Symbol][2]int{
	SymbolUp:        {0, -1},
	SymbolDown:      {0, 1},
	SymbolLeft:      {-1, 0},
	SymbolRight:     {1, 0},
	SymbolUpLeft:    {-1, -1},
	SymbolUpRight:   {1, -1},
	SymbolDownLeft:  {-1, 1},
	SymbolDownRight: {1, 1},
	SymbolStay:      {0, 0},
}

// IsStep reports whether sym is one of the eight directions or stay
func IsStep(sym Symbol) bool {
	_, ok := stepDeltas[sym]
	return ok
}

// Classify maps sym to an intent. Only SymbolRandom consumes randomness: it
// draws a uniform cell of the width x height field, occupied or not.
func Classify(sym Symbol, width, height int, rng Rand) Intent {
	if d, ok := stepDeltas[sym]; ok {
		return Intent{Kind: IntentStep, DX: d[0], DY: d[1]}
	}
	switch sym {
	case SymbolRandom:
		return Intent{
			Kind: IntentJump,
			Jump: Position{X: rng.IntN(width), Y: rng.IntN(height)},
		}
	case SymbolFreeze:
		return Intent{Kind: IntentFreeze}
	case SymbolQuit:
		return Intent{Kind: IntentQuit}
	}
	return Intent{Kind: IntentUnrecognized}
}

// Target returns the cell the intent asks the player to move to. Steps are
// clamped at the field edge; non-movement intents return from unchanged.
func (in Intent) Target(from Position, width, height int) Position {
	switch in.Kind {
	case IntentStep:
		return Position{
			X: clampInt(from.X+in.DX, 0, width-1),
			Y: clampInt(from.Y+in.DY, 0, height-1),
		}
	case IntentJump:
		return in.Jump
	}
	return from
}

// Moves reports whether the intent results in a MovePlayer call
func (in Intent) Moves() bool {
	return in.Kind == IntentStep || in.Kind == IntentJump
}
