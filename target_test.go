package remesh

import (
	"errors"
	"math"
	"testing"

	"github.com/cg-tub/remesh/halfedge"
	"gonum.org/v1/gonum/spatial/r3"
)

func newTestSphere(radius float64, subdiv int) Surface {
	return halfedge.Icosphere(radius, subdiv)
}

func TestCurvatureTarget(t *testing.T) {
	const min, max = 0.1, 1.0
	for _, test := range []struct {
		name      string
		curvature float64
		err       float64
		want      float64
	}{
		{name: "flat", curvature: 0, err: 0.01, want: max},
		{name: "nearly flat", curvature: 1e-13, err: 0.01, want: max},
		{name: "extreme curvature", curvature: 1e9, err: 0.01, want: min},
		{name: "gentle clamps to max", curvature: 0.01, err: 0.01, want: max},
		{name: "sharp clamps to min", curvature: 1e4, err: 0.01, want: min},
	} {
		if got := curvatureTarget(test.curvature, test.err, min, max); got != test.want {
			t.Errorf("%s: got %g, want %g", test.name, got, test.want)
		}
	}
	// In between the clamps the formula itself applies.
	const curvature, maxErr = 10.0, 0.05
	want := math.Sqrt(6*maxErr/curvature - 3*maxErr*maxErr)
	if got := curvatureTarget(curvature, maxErr, min, max); math.Abs(got-want) > 1e-12 {
		t.Errorf("analytic: got %g, want %g", got, want)
	}
	if got := curvatureTarget(curvature, maxErr, min, max); got < min || got > max {
		t.Errorf("analytic: %g outside [%g, %g]", got, min, max)
	}
}

func TestDistanceTarget(t *testing.T) {
	const min, radius, curv = 0.1, 10.0, 1.0
	if got := distanceTarget(0, radius, min, curv); got != min {
		t.Errorf("at anchor: got %g, want %g", got, min)
	}
	if got := distanceTarget(radius, radius, min, curv); got != curv {
		t.Errorf("at radius: got %g, want %g", got, curv)
	}
	if got := distanceTarget(radius*100, radius, min, curv); got != curv {
		t.Errorf("far away: got %g, want %g", got, curv)
	}
	// Strictly monotonic inside the falloff.
	prev := min
	for d := 1.0; d < radius; d++ {
		got := distanceTarget(d, radius, min, curv)
		if got <= prev || got >= curv {
			t.Fatalf("dist %g: %g not strictly between %g and %g", d, got, prev, curv)
		}
		prev = got
	}
	// A zero radius disables the bias.
	if got := distanceTarget(1, 0, min, curv); got != curv {
		t.Errorf("zero radius: got %g, want %g", got, curv)
	}
}

func TestGammaSentinel(t *testing.T) {
	for _, gamma := range []float64{-1, 0, 1.95, 2.5, 100} {
		p := Params{MinLength: 1, MaxLength: 2, GammaLeft: gamma, GammaRight: gamma}.WithDefaults()
		if p.GammaLeft != DefaultGamma || p.GammaRight != DefaultGamma {
			t.Errorf("gamma %g: got %g/%g, want default %g", gamma, p.GammaLeft, p.GammaRight, DefaultGamma)
		}
	}
	p := Params{MinLength: 1, MaxLength: 2, GammaLeft: 0.3, GammaRight: 1.9}.WithDefaults()
	if p.GammaLeft != 0.3 || p.GammaRight != 1.9 {
		t.Errorf("in-range gammas changed: %g/%g", p.GammaLeft, p.GammaRight)
	}
}

func TestParamsDefaults(t *testing.T) {
	p := Params{MinLength: 0.5, MaxLength: 2}.WithDefaults()
	if p.ApproxError != p.MinLength {
		t.Errorf("ApproxError default %g, want MinLength %g", p.ApproxError, p.MinLength)
	}
	if p.Iterations != DefaultIterations {
		t.Errorf("Iterations default %d, want %d", p.Iterations, DefaultIterations)
	}
	if p.FalloffRadius != defaultFalloffFactor*p.MaxLength {
		t.Errorf("FalloffRadius default %g, want %g", p.FalloffRadius, defaultFalloffFactor*p.MaxLength)
	}
	if p.SmoothingPasses != defaultSmoothingPasses {
		t.Errorf("SmoothingPasses default %d, want %d", p.SmoothingPasses, defaultSmoothingPasses)
	}
}

func TestParamsValidate(t *testing.T) {
	for _, test := range []struct {
		name string
		p    Params
	}{
		{name: "zero min", p: Params{MaxLength: 1}},
		{name: "negative min", p: Params{MinLength: -1, MaxLength: 1}},
		{name: "zero max", p: Params{MinLength: 1}},
		{name: "min above max", p: Params{MinLength: 2, MaxLength: 1}},
		{name: "negative error", p: Params{MinLength: 1, MaxLength: 2, ApproxError: -0.1}},
		{name: "negative iterations", p: Params{MinLength: 1, MaxLength: 2, Iterations: -1}},
		{name: "bad side", p: Params{MinLength: 1, MaxLength: 2, Side: Side(7)}},
		{name: "negative feature angle", p: Params{MinLength: 1, MaxLength: 2, FeatureAngle: -10}},
	} {
		err := test.p.WithDefaults().validate()
		if err == nil {
			t.Errorf("%s: expected validation error", test.name)
			continue
		}
		if !errors.Is(err, ErrBadParams) {
			t.Errorf("%s: error %v not tagged ErrBadParams", test.name, err)
		}
	}
	good := Params{MinLength: 0.5, MaxLength: 2}.WithDefaults()
	if err := good.validate(); err != nil {
		t.Errorf("valid params rejected: %v", err)
	}
}

func TestParseSide(t *testing.T) {
	if s, err := ParseSide("left"); err != nil || s != SideLeft {
		t.Errorf("left: got %v, %v", s, err)
	}
	if s, err := ParseSide("right"); err != nil || s != SideRight {
		t.Errorf("right: got %v, %v", s, err)
	}
	if _, err := ParseSide("up"); err == nil {
		t.Error("expected error for unknown side")
	}
	if SideLeft.String() != "left" || SideRight.String() != "right" {
		t.Error("Side.String mismatch")
	}
}

func TestEstimateAnchorSides(t *testing.T) {
	s := newTestSphere(1, 2)
	left := estimateAnchor(s, SideLeft, 0.15, 0.15)
	right := estimateAnchor(s, SideRight, 0.15, 0.15)
	if left.Y <= 0 || right.Y >= 0 {
		t.Errorf("left %v must lie at positive Y, right %v at negative Y", left, right)
	}
	if math.Abs(left.Y+right.Y) > 1e-9 {
		t.Errorf("symmetric mesh: anchors %v and %v not mirrored", left, right)
	}
}

func TestHighResAnchorExplicitWins(t *testing.T) {
	s := newTestSphere(1, 1)
	want := r3.Vec{X: 0.2, Y: 0.9, Z: -0.1}
	p := Params{Side: SideLeft, ChannelLeft: want, GammaLeft: 0.15, GammaRight: 0.15}
	if got := highResAnchor(s, p); got != want {
		t.Errorf("got %v, want explicit %v", got, want)
	}
	p = Params{Side: SideRight, ChannelLeft: want, GammaLeft: 0.15, GammaRight: 0.15}
	if got := highResAnchor(s, p); got == want {
		t.Error("right side must not use the left channel position")
	}
}
