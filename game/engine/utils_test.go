package engine

import (
	"reflect"
	"strings"
	"testing"
)

func TestDistances(t *testing.T) {
	a, b := Position{X: 1, Y: 2}, Position{X: 4, Y: 8}
	if got := ManhattanDistance(a, b); got != 9 {
		t.Errorf("ManhattanDistance = %d, want 9", got)
	}
	if got := ChebyshevDistance(a, b); got != 6 {
		t.Errorf("ChebyshevDistance = %d, want 6", got)
	}
	if got := ChebyshevDistance(b, a); got != 6 {
		t.Errorf("ChebyshevDistance is not symmetric: %d", got)
	}
}

func TestNearestPursuer(t *testing.T) {
	f := mustLayout(t,
		"+.....",
		"......",
		"....@.",
		"...+..",
	)

	p, d, ok := NearestPursuer(f)
	if !ok {
		t.Fatal("Expected a pursuer")
	}
	if p != (Position{X: 3, Y: 3}) || d != 1 {
		t.Errorf("Expected (3,3) at 1, got %s at %d", p, d)
	}

	empty := mustLayout(t, "..@..")
	if _, _, ok := NearestPursuer(empty); ok {
		t.Error("Expected no pursuer on an empty field")
	}
}

func TestAnalyzeThreat(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		prefix string
	}{
		{"clear", []string{"..@.."}, "CLEAR"},
		{"adjacent", []string{"..@+."}, "CRITICAL"},
		{"two away", []string{"..@.+"}, "DANGER"},
		{"four away", []string{"@...+"}, "CAUTION"},
		{"far", []string{"@.......+"}, "SAFE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustLayout(t, tt.layout...)
			if got := AnalyzeThreat(f); !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("Expected %s, got %q", tt.prefix, got)
			}
		})
	}
}

func TestSafeMoves(t *testing.T) {
	f := mustLayout(t,
		".....",
		".....",
		"..@..",
		".....",
		"....+",
	)

	got := SafeMoves(f)
	want := []string{"up", "down", "left", "right", "up-left", "up-right", "down-left", "stay"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	corner := mustLayout(t,
		"@....",
		".....",
	)
	for _, m := range SafeMoves(corner) {
		if m == "up" || m == "left" || m == "up-left" {
			t.Errorf("Clamped move %q reported as safe", m)
		}
	}
}

func TestNewFieldFromLayout_Errors(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
	}{
		{"empty", nil},
		{"no player", []string{"..+.."}},
		{"two players", []string{"@...@"}},
		{"ragged", []string{"@..", ".."}},
		{"bad char", []string{"@.x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewFieldFromLayout(tt.layout); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestFormatRows(t *testing.T) {
	f := mustLayout(t,
		"+..",
		".@*",
	)

	want := "---\n+  \n @*\n---\n"
	if got := FormatRows(f.Snapshot()); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
