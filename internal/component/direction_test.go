package component

import (
	"math"
	"testing"
)

func TestDirectionOfAllSignCombinations(t *testing.T) {
	tests := []struct {
		di, dj float64
		want   Direction
	}{
		{0, 0, DirNone},
		{0, -1, DirN},
		{1, -1, DirNE},
		{1, 0, DirE},
		{1, 1, DirSE},
		{0, 1, DirS},
		{-1, 1, DirSW},
		{-1, 0, DirW},
		{-1, -1, DirNW},
	}
	seen := make(map[Direction]bool)
	for _, tt := range tests {
		got := DirectionOf(tt.di, tt.dj)
		if got != tt.want {
			t.Errorf("DirectionOf(%v,%v) = %v, want %v", tt.di, tt.dj, got, tt.want)
		}
		if seen[got] {
			t.Errorf("direction %v produced by two sign combinations", got)
		}
		seen[got] = true
		// Magnitude never matters, only the sign.
		if again := DirectionOf(tt.di*0.001, tt.dj*250); again != got {
			t.Errorf("scaled (%v,%v) = %v, want %v", tt.di, tt.dj, again, got)
		}
	}
	if len(seen) != 9 {
		t.Fatalf("expected 9 distinct outcomes, got %d", len(seen))
	}
}

func TestDirectionOfNoAngularThreshold(t *testing.T) {
	// Nearly cardinal but with a tiny off-axis component is still diagonal.
	if got := DirectionOf(1, 1e-9); got != DirSE {
		t.Errorf("DirectionOf(1,1e-9) = %v, want se", got)
	}
	if got := DirectionOf(math.Copysign(0, -1), 2); got != DirS {
		t.Errorf("negative zero i should be treated as zero, got %v", got)
	}
}

func TestKindNames(t *testing.T) {
	if KindCount != len(kindNames) {
		t.Fatalf("KindCount %d, names %d", KindCount, len(kindNames))
	}
	if KindPathTarget.String() != "path_target" {
		t.Errorf("KindPathTarget = %q", KindPathTarget.String())
	}
	var v Value = PathTarget{I: 1}
	if v.Kind() != KindPathTarget {
		t.Errorf("PathTarget.Kind() = %v", v.Kind())
	}
}
