package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDimensions = errors.New("field dimensions must be positive")
	ErrNegativePursuers  = errors.New("pursuer count cannot be negative")
	ErrTooManyPursuers   = errors.New("pursuer count exceeds free cells")
)

// Field owns the grid, the player, the pursuers and the wreckage of one level.
// The occupancy grid is a cache rebuilt from the position collections and is
// never exposed while a mutation is in progress.
type Field struct {
	origin   Position
	width    int
	height   int
	player   Position
	pursuers []Position

	// wreckage keeps insertion order for stable snapshots; wreckSet answers membership
	wreckage []Position
	wreckSet map[Position]struct{}

	occupancy [][]EntityKind
}

// NewField places the player at the center and draws pursuerCount distinct
// cells for the pursuers from every other cell.
func NewField(origin Position, width, height, pursuerCount int, rng Rand) (*Field, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, width, height)
	}
	if pursuerCount < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativePursuers, pursuerCount)
	}
	free := width*height - 1
	if pursuerCount > free {
		return nil, fmt.Errorf("%w: %d pursuers requested, %d free cells on a %dx%d field",
			ErrTooManyPursuers, pursuerCount, free, width, height)
	}

	f := &Field{
		origin:   origin,
		width:    width,
		height:   height,
		player:   Position{X: width / 2, Y: height / 2},
		pursuers: make([]Position, 0, pursuerCount),
		wreckSet: make(map[Position]struct{}),
	}

	// Every cell except the player's, drawn without replacement
	candidates := make([]Position, 0, free)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := Position{X: x, Y: y}
			if p != f.player {
				candidates = append(candidates, p)
			}
		}
	}
	for i := 0; i < pursuerCount; i++ {
		idx := rng.IntN(len(candidates))
		f.pursuers = append(f.pursuers, candidates[idx])
		last := len(candidates) - 1
		candidates[idx] = candidates[last]
		candidates = candidates[:last]
	}

	f.occupancy = make([][]EntityKind, height)
	for y := range f.occupancy {
		f.occupancy[y] = make([]EntityKind, width)
	}
	f.rebuildOccupancy()

	return f, nil
}

// Width returns the field width
func (f *Field) Width() int { return f.width }

// Height returns the field height
func (f *Field) Height() int { return f.height }

// Origin returns the render offset the field was built with
func (f *Field) Origin() Position { return f.origin }

// PlayerPosition returns the player's cell
func (f *Field) PlayerPosition() Position { return f.player }

// PursuerCount returns the number of active pursuers
func (f *Field) PursuerCount() int { return len(f.pursuers) }

// Cleared reports whether every pursuer has been eliminated
func (f *Field) Cleared() bool { return len(f.pursuers) == 0 }

// Pursuers returns a copy of the active pursuer positions in order
func (f *Field) Pursuers() []Position {
	return append([]Position(nil), f.pursuers...)
}

// Wreckage returns a copy of the wreckage positions in creation order
func (f *Field) Wreckage() []Position {
	return append([]Position(nil), f.wreckage...)
}

// InBounds reports whether p lies on the field
func (f *Field) InBounds(p Position) bool {
	return p.X >= 0 && p.X < f.width && p.Y >= 0 && p.Y < f.height
}

// KindAt returns the occupant of p. Out-of-bounds cells read as Empty.
func (f *Field) KindAt(p Position) EntityKind {
	if !f.InBounds(p) {
		return Empty
	}
	return f.occupancy[p.Y][p.X]
}

// IsWreckage reports whether p holds wreckage
func (f *Field) IsWreckage(p Position) bool {
	_, ok := f.wreckSet[p]
	return ok
}

// Occupancy returns a copy of the occupancy grid indexed [y][x]
func (f *Field) Occupancy() [][]EntityKind {
	grid := make([][]EntityKind, f.height)
	for y := range grid {
		grid[y] = append([]EntityKind(nil), f.occupancy[y]...)
	}
	return grid
}

// MovePlayer moves the player to target if the cell is empty or already the
// player's. Out-of-bounds and occupied targets are rejected without mutation.
func (f *Field) MovePlayer(target Position) bool {
	if !f.InBounds(target) {
		return false
	}
	switch f.occupancy[target.Y][target.X] {
	case Empty, Player:
	default:
		return false
	}

	f.occupancy[f.player.Y][f.player.X] = Empty
	f.occupancy[target.Y][target.X] = Player
	f.player = target
	return true
}

// AdvancePursuers runs one tick: every pursuer steps toward the player unless
// freeze is set, colliding pursuers turn into wreckage, pursuers on wreckage are
// destroyed, and the player's safety is checked. Each destroyed pursuer is worth
// one point; the points are dropped when the player is caught.
func (f *Field) AdvancePursuers(freeze bool) Outcome {
	if !freeze {
		target := f.player
		for i, p := range f.pursuers {
			next := p.Add(sign(target.X-p.X), sign(target.Y-p.Y))
			f.pursuers[i] = f.clamp(next)
		}
	}

	delta := f.mergePursuers()
	delta += f.crushOnWreckage()

	caught := f.IsWreckage(f.player)
	if !caught {
		for _, p := range f.pursuers {
			if p == f.player {
				caught = true
				break
			}
		}
	}

	f.rebuildOccupancy()

	if caught {
		return PlayerCaught()
	}
	return PlayerSafe(delta)
}

// mergePursuers turns every cell shared by two or more pursuers into wreckage
// and removes those pursuers. Marks first, filters second.
func (f *Field) mergePursuers() int {
	counts := make(map[Position]int, len(f.pursuers))
	for _, p := range f.pursuers {
		counts[p]++
	}

	removed := 0
	survivors := f.pursuers[:0]
	for _, p := range f.pursuers {
		if counts[p] >= 2 {
			f.addWreckage(p)
			removed++
			continue
		}
		survivors = append(survivors, p)
	}
	f.pursuers = survivors
	return removed
}

// crushOnWreckage removes pursuers standing on wreckage, old or new
func (f *Field) crushOnWreckage() int {
	removed := 0
	survivors := f.pursuers[:0]
	for _, p := range f.pursuers {
		if f.IsWreckage(p) {
			removed++
			continue
		}
		survivors = append(survivors, p)
	}
	f.pursuers = survivors
	return removed
}

func (f *Field) addWreckage(p Position) {
	if _, ok := f.wreckSet[p]; ok {
		return
	}
	f.wreckSet[p] = struct{}{}
	f.wreckage = append(f.wreckage, p)
}

// rebuildOccupancy clears the grid and stamps player, pursuers, then wreckage
func (f *Field) rebuildOccupancy() {
	for y := range f.occupancy {
		row := f.occupancy[y]
		for x := range row {
			row[x] = Empty
		}
	}
	f.occupancy[f.player.Y][f.player.X] = Player
	for _, p := range f.pursuers {
		f.occupancy[p.Y][p.X] = Pursuer
	}
	for _, p := range f.wreckage {
		f.occupancy[p.Y][p.X] = Wreckage
	}
}

// clamp pulls p back onto the field. A pursuer stepping toward an in-bounds
// player never leaves the field, so this only guards corrupted positions.
func (f *Field) clamp(p Position) Position {
	return Position{X: clampInt(p.X, 0, f.width-1), Y: clampInt(p.Y, 0, f.height-1)}
}

// Snapshot returns a read-only copy of the field for rendering
func (f *Field) Snapshot() FieldSnapshot {
	rows := make([]string, f.height)
	buf := make([]rune, f.width)
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			buf[x] = f.occupancy[y][x].Glyph()
		}
		rows[y] = string(buf)
	}

	return FieldSnapshot{
		Origin:   f.origin,
		Width:    f.width,
		Height:   f.height,
		Player:   f.player,
		Pursuers: f.Pursuers(),
		Wreckage: f.Wreckage(),
		Rows:     rows,
	}
}
