package remesh

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// DefaultIterations is the number of passes used when Params.Iterations
	// is left zero.
	DefaultIterations = 10
	// DefaultGamma scales the mesh extent when estimating an ear channel
	// position. Gamma values outside (0, gammaSentinel] select it.
	DefaultGamma  = 0.15
	gammaSentinel = 1.9

	defaultSmoothingPasses = 2
	defaultFalloffFactor   = 5 // falloff radius per unit MaxLength
)

// ErrBadParams tags configuration errors reported before any mesh
// mutation.
var ErrBadParams = errors.New("remesh: invalid grading parameters")

// Side selects the ear whose surroundings are graded at high resolution.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// ParseSide converts the CLI side selector to a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "left":
		return SideLeft, nil
	case "right":
		return SideRight, nil
	}
	return 0, fmt.Errorf("%w: unrecognized side %q", ErrBadParams, s)
}

// Params are the grading parameters of one adaptive remeshing call. All
// fields are read-only for the duration of the call. Lengths share the
// unit of the mesh coordinates.
type Params struct {
	// MinLength and MaxLength bound the target edge length.
	MinLength float64
	MaxLength float64
	// ApproxError is the maximum geometric deviation admitted when
	// deriving the target length from curvature. Zero defaults to
	// MinLength.
	ApproxError float64
	// Iterations is the number of remeshing passes. Zero defaults to
	// DefaultIterations.
	Iterations int
	// Side is the high-resolution side.
	Side Side
	// ChannelLeft and ChannelRight are the ear channel entrance
	// positions. A zero vector means unknown; the position is then
	// estimated from the mesh extent using the gamma factors.
	ChannelLeft  r3.Vec
	ChannelRight r3.Vec
	// GammaLeft and GammaRight scale the estimate of the respective ear
	// channel position. Values outside (0, 1.9] select DefaultGamma.
	GammaLeft  float64
	GammaRight float64
	// FeatureAngle is a dihedral angle threshold in degrees above which
	// interior edges are preserved as sharp features. Zero disables
	// feature detection; boundaries are always preserved.
	FeatureAngle float64
	// FalloffRadius is the distance from the anchor at which the
	// curvature-limited target takes over from the minimum length. Zero
	// derives the radius from MaxLength.
	FalloffRadius float64
	// SmoothingPasses is the number of neighbor-averaging passes applied
	// to the target length field. Zero defaults to two.
	SmoothingPasses int
}

// WithDefaults returns a copy of p with zero values and sentinel gammas
// resolved. Adaptive applies it before validation.
func (p Params) WithDefaults() Params {
	if p.ApproxError == 0 {
		p.ApproxError = p.MinLength
	}
	if p.Iterations == 0 {
		p.Iterations = DefaultIterations
	}
	if p.GammaLeft <= 0 || p.GammaLeft > gammaSentinel {
		p.GammaLeft = DefaultGamma
	}
	if p.GammaRight <= 0 || p.GammaRight > gammaSentinel {
		p.GammaRight = DefaultGamma
	}
	if p.FalloffRadius == 0 {
		p.FalloffRadius = defaultFalloffFactor * p.MaxLength
	}
	if p.SmoothingPasses == 0 {
		p.SmoothingPasses = defaultSmoothingPasses
	}
	return p
}

func (p Params) validate() error {
	if p.MinLength <= 0 {
		return fmt.Errorf("%w: min edge length %g must be positive", ErrBadParams, p.MinLength)
	}
	if p.MaxLength <= 0 {
		return fmt.Errorf("%w: max edge length %g must be positive", ErrBadParams, p.MaxLength)
	}
	if p.MinLength > p.MaxLength {
		return fmt.Errorf("%w: min edge length %g exceeds max %g", ErrBadParams, p.MinLength, p.MaxLength)
	}
	if p.ApproxError < 0 {
		return fmt.Errorf("%w: approximation error %g must not be negative", ErrBadParams, p.ApproxError)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("%w: iteration count %d must not be negative", ErrBadParams, p.Iterations)
	}
	if p.Side != SideLeft && p.Side != SideRight {
		return fmt.Errorf("%w: unrecognized side selector %d", ErrBadParams, int(p.Side))
	}
	if p.FalloffRadius < 0 || p.FeatureAngle < 0 || p.SmoothingPasses < 0 {
		return fmt.Errorf("%w: negative tunable", ErrBadParams)
	}
	return nil
}
