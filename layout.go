package randpart

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// Layout names one of the six generative samplers a particle's birth
// position is drawn from.
type Layout int

const (
	RandomCartesianNaive Layout = iota
	RandomCartesianDiscard
	RandomSphericalNaive
	RandomSphericalLatitude
	RandomCartesianCube
	DemoDualColorSlice
)

func (l Layout) String() string {
	switch l {
	case RandomCartesianNaive:
		return "RANDOM_CARTESIAN_NAIVE"
	case RandomCartesianDiscard:
		return "RANDOM_CARTESIAN_DISCARD"
	case RandomSphericalNaive:
		return "RANDOM_SPHERICAL_NAIVE"
	case RandomSphericalLatitude:
		return "RANDOM_SPHERICAL_LATITUDE"
	case RandomCartesianCube:
		return "RANDOM_CARTESIAN_CUBE"
	case DemoDualColorSlice:
		return "DEMO_DUAL_COLOR_SLICE"
	default:
		return "UNKNOWN_LAYOUT"
	}
}

// IsDualColorDemo reports whether this layout short-circuits the density
// aggregator (see density.go).
func (l Layout) IsDualColorDemo() bool { return l == DemoDualColorSlice }

func uniform11(rng *rand.Rand) float32 { return rng.Float32()*2 - 1 }

// Sample draws a candidate birth position under the named layout. rng is
// owned by the caller (the lifecycle stepper runs single-threaded, so one
// *rand.Rand is shared without locking).
func Sample(l Layout, rng *rand.Rand) mgl32.Vec3 {
	switch l {
	case RandomCartesianNaive:
		v := mgl32.Vec3{uniform11(rng), uniform11(rng), uniform11(rng)}
		return normalizeOrFallback(v)

	case RandomCartesianDiscard:
		for {
			v := mgl32.Vec3{uniform11(rng), uniform11(rng), uniform11(rng)}
			if v.LenSqr() <= 1 {
				return normalizeOrFallback(v)
			}
		}

	case RandomSphericalNaive:
		theta := float64(rng.Float32()) * 2 * math.Pi
		phi := float64(rng.Float32()) * math.Pi
		sinPhi, cosPhi := math.Sincos(phi)
		sinTheta, cosTheta := math.Sincos(theta)
		v := mgl32.Vec3{
			float32(cosTheta * sinPhi),
			float32(sinTheta * sinPhi),
			float32(cosPhi),
		}
		return normalizeOrFallback(v)

	case RandomSphericalLatitude:
		e0, e1 := rng.Float64(), rng.Float64()
		z := 1 - 2*e0
		r := math.Sqrt(math.Max(0, 1-z*z))
		theta := 2 * math.Pi * e1
		sinTheta, cosTheta := math.Sincos(theta)
		v := mgl32.Vec3{
			float32(r * cosTheta),
			float32(r * sinTheta),
			float32(z),
		}
		return normalizeOrFallback(v)

	case RandomCartesianCube:
		return mgl32.Vec3{uniform11(rng), uniform11(rng), uniform11(rng)}

	case DemoDualColorSlice:
		return mgl32.Vec3{uniform11(rng), uniform11(rng), 0}

	default:
		return mgl32.Vec3{0, 0, 0}
	}
}

// normalizeOrFallback projects v onto the unit sphere. The degenerate
// zero-vector case (astronomically unlikely with a float RNG) falls back
// to a fixed pole rather than dividing by zero.
func normalizeOrFallback(v mgl32.Vec3) mgl32.Vec3 {
	if v.LenSqr() == 0 {
		return mgl32.Vec3{0, 0, 1}
	}
	return v.Normalize()
}
