package chalkfield

import (
	"math"
	"testing"
)

var bezierCases = [][4]Vec2{
	{{0, 0}, {30, -40}, {70, -40}, {100, 0}},
	{{-50, 20}, {0, 0}, {0, 0}, {80, -120}},
	{{12.5, 7.25}, {12.5, 7.25}, {12.5, 7.25}, {12.5, 7.25}},
	{{0, 0}, {0, 0}, {100, 100}, {100, 100}},
}

func TestBezierPoint_Endpoints_Exact(t *testing.T) {
	for i, c := range bezierCases {
		if got := BezierPoint(c[0], c[1], c[2], c[3], 0); got != c[0] {
			t.Errorf("case %d: point at t=0 = %v, want %v", i, got, c[0])
		}
		if got := BezierPoint(c[0], c[1], c[2], c[3], 1); got != c[3] {
			t.Errorf("case %d: point at t=1 = %v, want %v", i, got, c[3])
		}
	}
}

func TestBezierPoint_StraightChord_StaysOnChord(t *testing.T) {
	p0 := Vec2{0, 0}
	p3 := Vec2{100, 100}
	p1 := LerpVec(p0, p3, 0.35)
	p2 := LerpVec(p0, p3, 0.70)
	for _, tt := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		p := BezierPoint(p0, p1, p2, p3, tt)
		if math.Abs(p.X-p.Y) > 1e-9 {
			t.Errorf("t=%v: point %v not on y=x", tt, p)
		}
	}
}

func TestBezierTangent_StraightChord_ParallelToChord(t *testing.T) {
	p0 := Vec2{0, 0}
	p3 := Vec2{60, 30}
	p1 := LerpVec(p0, p3, 0.35)
	p2 := LerpVec(p0, p3, 0.70)
	chord := Normalize(p3.Sub(p0))
	for _, tt := range []float64{0, 0.3, 0.5, 0.8, 1} {
		dir := Normalize(BezierTangent(p0, p1, p2, p3, tt))
		if math.Abs(dir.Cross(chord)) > 1e-9 {
			t.Errorf("t=%v: tangent %v not parallel to chord %v", tt, dir, chord)
		}
	}
}

func TestNormalize_UnitLength(t *testing.T) {
	for _, v := range []Vec2{{3, 4}, {-2, 7}, {0.001, 0}, {-5, -5}} {
		n := Normalize(v)
		if math.Abs(n.Length()-1) > 1e-12 {
			t.Errorf("Normalize(%v).Length() = %v, want 1", v, n.Length())
		}
	}
}

func TestNormalize_ZeroVector_DefaultAxis(t *testing.T) {
	n := Normalize(Vec2{})
	if n != (Vec2{X: 1, Y: 0}) {
		t.Errorf("Normalize(zero) = %v, want unit X axis", n)
	}
	if math.IsNaN(n.X) || math.IsNaN(n.Y) {
		t.Error("Normalize(zero) produced NaN")
	}
}

func TestEaseOutCubic_Endpoints(t *testing.T) {
	if got := EaseOutCubic(0); math.Abs(got) > 1e-5 {
		t.Errorf("EaseOutCubic(0) = %v, want 0", got)
	}
	if got := EaseOutCubic(1); math.Abs(got-1) > 1e-5 {
		t.Errorf("EaseOutCubic(1) = %v, want 1", got)
	}
}

func TestEaseOutCubic_MonotonicAndMatchesClosedForm(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 100; i++ {
		tt := float64(i) / 100
		got := EaseOutCubic(tt)
		if got < prev {
			t.Fatalf("EaseOutCubic not monotonic at t=%v: %v < %v", tt, got, prev)
		}
		want := 1 - math.Pow(1-tt, 3)
		if math.Abs(got-want) > 1e-4 {
			t.Errorf("EaseOutCubic(%v) = %v, want %v", tt, got, want)
		}
		prev = got
	}
}

func TestLerp_Basics(t *testing.T) {
	if got := Lerp(10, 20, 0.5); got != 15 {
		t.Errorf("Lerp(10,20,0.5) = %v, want 15", got)
	}
	if got := LerpVec(Vec2{0, 0}, Vec2{10, -10}, 0.25); got != (Vec2{2.5, -2.5}) {
		t.Errorf("LerpVec = %v, want {2.5 -2.5}", got)
	}
}

func TestCross_SideSign(t *testing.T) {
	up := Vec2{0, -1} // screen up
	if c := (Vec2{1, 0}).Cross(up); c >= 0 {
		t.Errorf("cross(right, up) = %v, want negative (Y-down coords)", c)
	}
}

func TestClamp_Limits(t *testing.T) {
	if clamp(-1, 0, 1) != 0 || clamp(2, 0, 1) != 1 || clamp(0.5, 0, 1) != 0.5 {
		t.Error("clamp limits wrong")
	}
}

func BenchmarkBezierPoint(b *testing.B) {
	c := bezierCases[0]
	for i := 0; i < b.N; i++ {
		_ = BezierPoint(c[0], c[1], c[2], c[3], float64(i%100)/100)
	}
}
