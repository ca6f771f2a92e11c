package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{name: "inside", value: 0.5, min: 0, max: 1, expected: 0.5},
		{name: "below", value: -1, min: 0, max: 1, expected: 0},
		{name: "above", value: 2, min: 0, max: 1, expected: 1},
		{name: "swapped", value: 2, min: 1, max: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.value, tt.min, tt.max)
			if got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestClampInt(t *testing.T) {
	if got := ClampInt(20, 0, 15); got != 15 {
		t.Fatalf("ClampInt(20) = %d, want 15", got)
	}
	if got := ClampInt(-3, 0, 15); got != 0 {
		t.Fatalf("ClampInt(-3) = %d, want 0", got)
	}
	if got := ClampInt(7, 15, 0); got != 7 {
		t.Fatalf("ClampInt swapped = %d, want 7", got)
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-12) {
		t.Fatal("expected values to be nearly equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-3) {
		t.Fatal("expected values to differ")
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(0.25) {
		t.Fatal("0.25 should be finite")
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if IsFinite(v) {
			t.Fatalf("%v reported finite", v)
		}
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-310); got != 0 {
		t.Fatalf("FlushDenormals(1e-310) = %v, want 0", got)
	}
	if got := FlushDenormals(-0.5); got != -0.5 {
		t.Fatalf("FlushDenormals(-0.5) = %v, want -0.5", got)
	}
}

func TestDBConversions(t *testing.T) {
	linear := DBToLinear(-6)
	db := LinearToDB(linear)
	if !NearlyEqual(db, -6, 1e-10) {
		t.Fatalf("LinearToDB(DBToLinear(-6)) = %v, want -6", db)
	}
	if DBToLinear(0) != 1 {
		t.Fatalf("DBToLinear(0) = %v, want 1", DBToLinear(0))
	}
	if !math.IsInf(LinearToDB(0), -1) {
		t.Fatal("expected -Inf for zero")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Fatal("expected NaN for negative amplitude")
	}
}

func TestPanEqualPowerEndpoints(t *testing.T) {
	tests := []struct {
		position    float64
		left, right float64
	}{
		{position: -1, left: 1, right: 0},
		{position: 0, left: math.Sqrt2 / 2, right: math.Sqrt2 / 2},
		{position: 1, left: 0, right: 1},
	}

	for _, tt := range tests {
		l, r := PanEqualPower(tt.position)
		if math.Abs(l-tt.left) > 1e-12 || math.Abs(r-tt.right) > 1e-12 {
			t.Fatalf("PanEqualPower(%v) = (%v, %v), want (%v, %v)", tt.position, l, r, tt.left, tt.right)
		}
	}
}

func TestPanEqualPowerConstantPower(t *testing.T) {
	for i := -100; i <= 100; i++ {
		pos := float64(i) / 100
		l, r := PanEqualPower(pos)
		if p := l*l + r*r; math.Abs(p-1) > 1e-12 {
			t.Fatalf("position %v: power = %v, want 1", pos, p)
		}
	}
}

func TestPanEqualPowerClampsPosition(t *testing.T) {
	l, r := PanEqualPower(3)
	if math.Abs(l) > 1e-12 || math.Abs(r-1) > 1e-12 {
		t.Fatalf("PanEqualPower(3) = (%v, %v), want hard right", l, r)
	}
}
