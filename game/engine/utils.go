package engine

import (
	"fmt"
	"strings"
)

// sign returns -1, 0 or 1
func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

// ChebyshevDistance is the number of pursuer steps needed to cover the gap
func ChebyshevDistance(from, to Position) int {
	dx, dy := abs(from.X-to.X), abs(from.Y-to.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// NearestPursuer finds the pursuer with the fewest steps to the player
func NearestPursuer(f *Field) (Position, int, bool) {
	best := -1
	var nearest Position
	for _, p := range f.pursuers {
		d := ChebyshevDistance(p, f.player)
		if best == -1 || d < best {
			best = d
			nearest = p
		}
	}
	return nearest, best, best != -1
}

// SafeMoves returns the step symbols whose target is a legal move and is not
// reachable by any pursuer on the next tick. Wreckage-adjacent cells are fine.
func SafeMoves(f *Field) []string {
	var safe []string
	for _, sym := range Symbols {
		if !IsStep(sym) {
			continue
		}
		in := Classify(sym, f.width, f.height, nil)
		target := in.Target(f.player, f.width, f.height)
		if target != f.player.Add(in.DX, in.DY) {
			continue // clamped at the edge
		}
		k := f.KindAt(target)
		if k != Empty && k != Player {
			continue
		}
		threatened := false
		for _, p := range f.pursuers {
			if ChebyshevDistance(p, target) <= 1 {
				threatened = true
				break
			}
		}
		if !threatened {
			safe = append(safe, sym.String())
		}
	}
	return safe
}

// AnalyzeThreat describes how close the nearest pursuer is
func AnalyzeThreat(f *Field) string {
	_, d, ok := NearestPursuer(f)
	if !ok {
		return "CLEAR: No pursuers left"
	}
	switch {
	case d <= 1:
		return "CRITICAL: Pursuer adjacent!"
	case d == 2:
		return "DANGER: Pursuer two steps away"
	case d <= 4:
		return "CAUTION: Pursuers closing in"
	}
	return fmt.Sprintf("SAFE: Nearest pursuer %d steps away", d)
}

// NewFieldFromLayout builds a field from rows of '@' (player), '+' (pursuer),
// '*' (wreckage) and ' ' or '.' (empty). Exactly one player is required.
func NewFieldFromLayout(layout []string) (*Field, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, ErrInvalidDimensions
	}
	height, width := len(layout), len(layout[0])

	f := &Field{
		width:    width,
		height:   height,
		wreckSet: make(map[Position]struct{}),
	}
	players := 0
	for y, row := range layout {
		if len(row) != width {
			return nil, fmt.Errorf("layout row %d has %d cells, expected %d", y, len(row), width)
		}
		for x, c := range row {
			p := Position{X: x, Y: y}
			switch c {
			case '@':
				f.player = p
				players++
			case '+':
				f.pursuers = append(f.pursuers, p)
			case '*':
				f.addWreckage(p)
			case ' ', '.':
			default:
				return nil, fmt.Errorf("invalid layout character %q at %s", c, p)
			}
		}
	}
	if players != 1 {
		return nil, fmt.Errorf("layout must contain exactly one player, got %d", players)
	}

	f.occupancy = make([][]EntityKind, height)
	for y := range f.occupancy {
		f.occupancy[y] = make([]EntityKind, width)
	}
	f.rebuildOccupancy()
	return f, nil
}

// FormatRows renders snapshot rows inside a '-' frame as in the terminal view
func FormatRows(s FieldSnapshot) string {
	var b strings.Builder
	frame := strings.Repeat("-", s.Width)
	b.WriteString(frame)
	b.WriteByte('\n')
	for _, row := range s.Rows {
		b.WriteString(row)
		b.WriteByte('\n')
	}
	b.WriteString(frame)
	b.WriteByte('\n')
	return b.String()
}
