package engine

import "testing"

// seqRand replays fixed values, each reduced modulo n
type seqRand struct {
	values []int
	calls  int
}

func (r *seqRand) IntN(n int) int {
	v := r.values[r.calls%len(r.values)]
	r.calls++
	return v % n
}

func TestClassify_Steps(t *testing.T) {
	tests := []struct {
		sym    Symbol
		dx, dy int
	}{
		{SymbolUp, 0, -1},
		{SymbolDown, 0, 1},
		{SymbolLeft, -1, 0},
		{SymbolRight, 1, 0},
		{SymbolUpLeft, -1, -1},
		{SymbolUpRight, 1, -1},
		{SymbolDownLeft, -1, 1},
		{SymbolDownRight, 1, 1},
		{SymbolStay, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.sym.String(), func(t *testing.T) {
			rng := &seqRand{values: []int{0}}
			in := Classify(tt.sym, 10, 10, rng)
			if in.Kind != IntentStep {
				t.Fatalf("Expected IntentStep, got %v", in.Kind)
			}
			if in.DX != tt.dx || in.DY != tt.dy {
				t.Errorf("Expected delta (%d,%d), got (%d,%d)", tt.dx, tt.dy, in.DX, in.DY)
			}
			if rng.calls != 0 {
				t.Errorf("Step classification consumed %d random values", rng.calls)
			}
			if !in.Moves() {
				t.Error("Step intent should move the player")
			}
		})
	}
}

func TestClassify_RandomJump(t *testing.T) {
	rng := &seqRand{values: []int{13, 4}}
	in := Classify(SymbolRandom, 10, 6, rng)

	if in.Kind != IntentJump {
		t.Fatalf("Expected IntentJump, got %v", in.Kind)
	}
	if in.Jump != (Position{X: 3, Y: 4}) {
		t.Errorf("Expected jump to (3,4), got %s", in.Jump)
	}
	if rng.calls != 2 {
		t.Errorf("Expected 2 random draws, got %d", rng.calls)
	}
	if got := in.Target(Position{X: 0, Y: 0}, 10, 6); got != in.Jump {
		t.Errorf("Expected jump target %s, got %s", in.Jump, got)
	}
}

func TestClassify_RandomJumpInBounds(t *testing.T) {
	rng := NewRand(99)
	for i := 0; i < 500; i++ {
		in := Classify(SymbolRandom, 7, 3, rng)
		if in.Jump.X < 0 || in.Jump.X >= 7 || in.Jump.Y < 0 || in.Jump.Y >= 3 {
			t.Fatalf("Jump target %s outside 7x3 field", in.Jump)
		}
	}
}

func TestClassify_NonMovement(t *testing.T) {
	tests := []struct {
		sym  Symbol
		want IntentKind
	}{
		{SymbolFreeze, IntentFreeze},
		{SymbolQuit, IntentQuit},
		{SymbolUnknown, IntentUnrecognized},
		{Symbol(99), IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.sym.String(), func(t *testing.T) {
			rng := &seqRand{values: []int{0}}
			in := Classify(tt.sym, 10, 10, rng)
			if in.Kind != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, in.Kind)
			}
			if in.Moves() {
				t.Error("Non-movement intent should not move the player")
			}
			if rng.calls != 0 {
				t.Errorf("Classification consumed %d random values", rng.calls)
			}
			from := Position{X: 4, Y: 4}
			if got := in.Target(from, 10, 10); got != from {
				t.Errorf("Expected target %s, got %s", from, got)
			}
		})
	}
}

func TestIntentTarget_ClampsAtEdge(t *testing.T) {
	tests := []struct {
		name string
		sym  Symbol
		from Position
		want Position
	}{
		{"up at top", SymbolUp, Position{X: 3, Y: 0}, Position{X: 3, Y: 0}},
		{"left at left edge", SymbolLeft, Position{X: 0, Y: 2}, Position{X: 0, Y: 2}},
		{"down-right at corner", SymbolDownRight, Position{X: 4, Y: 4}, Position{X: 4, Y: 4}},
		{"up-left along top", SymbolUpLeft, Position{X: 2, Y: 0}, Position{X: 1, Y: 0}},
		{"interior", SymbolDownLeft, Position{X: 2, Y: 2}, Position{X: 1, Y: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Classify(tt.sym, 5, 5, nil)
			if got := in.Target(tt.from, 5, 5); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input string
		want  Symbol
	}{
		{"up", SymbolUp},
		{"UP", SymbolUp},
		{"  down ", SymbolDown},
		{"up_left", SymbolUpLeft},
		{"down-right", SymbolDownRight},
		{"ne", SymbolUpRight},
		{"sw", SymbolDownLeft},
		{"wait", SymbolStay},
		{"teleport", SymbolRandom},
		{"random", SymbolRandom},
		{"hold", SymbolFreeze},
		{"exit", SymbolQuit},
		{"quit", SymbolQuit},
		{"jump around", SymbolUnknown},
		{"", SymbolUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseSymbol(tt.input); got != tt.want {
				t.Errorf("ParseSymbol(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSymbolString_RoundTrip(t *testing.T) {
	for _, sym := range Symbols {
		if got := ParseSymbol(sym.String()); got != sym {
			t.Errorf("ParseSymbol(%q) = %v, want %v", sym.String(), got, sym)
		}
	}
	if SymbolUnknown.String() != "unknown" {
		t.Errorf("Expected unknown, got %s", SymbolUnknown.String())
	}
}
