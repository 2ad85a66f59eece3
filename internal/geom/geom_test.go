package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{TwoPi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
		{-1e-18, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}

	for _, tt := range tests {
		got := NormalizeAngle(tt.in)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("NormalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= TwoPi {
			t.Errorf("NormalizeAngle(%v) = %v, outside [0, 2π)", tt.in, got)
		}
	}
}

func TestAngleDiff(t *testing.T) {
	tests := []struct {
		from, to, want float64
	}{
		{0, 0, 0},
		{0, math.Pi / 2, math.Pi / 2},
		{math.Pi / 2, 0, -math.Pi / 2},
		{0.1, TwoPi - 0.1, -0.2}, // wraps across zero
		{TwoPi - 0.1, 0.1, 0.2},  // wraps the other way
		{0, math.Pi, math.Pi},    // exactly opposite is +π
		{math.Pi, 0, math.Pi},    // and never -π
		{0, -3 * math.Pi / 2, math.Pi / 2},
	}

	for _, tt := range tests {
		got := AngleDiff(tt.from, tt.to)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("AngleDiff(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
		if got <= -math.Pi || got > math.Pi {
			t.Errorf("AngleDiff(%v, %v) = %v, outside (-π, π]", tt.from, tt.to, got)
		}
	}
}

func TestBearing(t *testing.T) {
	origin := Vec2{10, 10}
	tests := []struct {
		to   Vec2
		want float64
	}{
		{Vec2{20, 10}, 0},
		{Vec2{10, 20}, math.Pi / 2},
		{Vec2{0, 10}, math.Pi},
		{Vec2{10, 0}, -math.Pi / 2},
		{origin, 0}, // zero-length vector
	}

	for _, tt := range tests {
		if got := Bearing(origin, tt.to); math.Abs(got-tt.want) > eps {
			t.Errorf("Bearing(%v, %v) = %v, want %v", origin, tt.to, got, tt.want)
		}
	}
}

func TestInCone(t *testing.T) {
	origin := Vec2{0, 0}
	half := math.Pi / 6 // 60 degree cone

	tests := []struct {
		name   string
		facing float64
		point  Vec2
		want   bool
	}{
		{"dead ahead", 0, Vec2{50, 0}, true},
		{"inside the edge", 0, Vec2{math.Cos(half - 1e-6), math.Sin(half - 1e-6)}.Scale(50), true},
		{"just outside", 0, Vec2{math.Cos(half + 0.01), math.Sin(half + 0.01)}.Scale(50), false},
		{"behind", 0, Vec2{-50, 0}, false},
		{"across the wrap", TwoPi - 0.2, Vec2{50, 5}, true},
		{"coincident facing zero", 0, origin, true},
		{"coincident facing away from zero", math.Pi, origin, false},
	}

	for _, tt := range tests {
		if got := InCone(origin, tt.facing, tt.point, half); got != tt.want {
			t.Errorf("%s: InCone() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestVec2(t *testing.T) {
	a := Vec2{3, 4}
	if a.Len() != 5 {
		t.Errorf("Len() = %v, want 5", a.Len())
	}
	if d := a.Dist(Vec2{0, 0}); d != 5 {
		t.Errorf("Dist() = %v, want 5", d)
	}
	if v := FromAngle(math.Pi / 2); math.Abs(v.X) > eps || math.Abs(v.Y-1) > eps {
		t.Errorf("FromAngle(π/2) = %v, want (0,1)", v)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-1, 0, 10) != 0 || Clamp(11, 0, 10) != 10 || Clamp(5, 0, 10) != 5 {
		t.Error("Clamp() returned a value outside the range")
	}
}
