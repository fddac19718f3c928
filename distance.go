// distance.go - distance-attenuation models (§4.4 step 2)

package alengine

import "math"

// DistanceModel selects the curve the mixer uses to turn a listener-source
// distance into a gain multiplier.
type DistanceModel int

const (
	DistanceNone DistanceModel = iota
	DistanceInverse
	DistanceInverseClamped
	DistanceLinear
	DistanceLinearClamped
	DistanceExponent
	DistanceExponentClamped
)

// DistanceGain computes the distance-model gain for a source at the given
// distance, matching the canonical OpenAL formulas. refDist/maxDist/rolloff
// come from the source; clamped variants clamp distance to [refDist,
// maxDist] before applying the curve.
func DistanceGain(model DistanceModel, distance, refDist, maxDist, rolloff float32) float32 {
	switch model {
	case DistanceNone:
		return 1
	case DistanceInverse, DistanceInverseClamped:
		d := distance
		if model == DistanceInverseClamped {
			d = clampf(d, refDist, maxOr(maxDist, refDist))
		}
		denom := refDist + rolloff*(d-refDist)
		if denom <= 0 {
			return 1
		}
		return refDist / denom
	case DistanceLinear, DistanceLinearClamped:
		d := distance
		if model == DistanceLinearClamped {
			d = clampf(d, refDist, maxOr(maxDist, refDist))
		}
		denom := maxDist - refDist
		if denom <= 0 {
			return 1
		}
		g := 1 - rolloff*(d-refDist)/denom
		return clampf(g, 0, 1)
	case DistanceExponent, DistanceExponentClamped:
		d := distance
		if model == DistanceExponentClamped {
			d = clampf(d, refDist, maxOr(maxDist, refDist))
		}
		if refDist <= 0 || d <= 0 {
			return 1
		}
		return float32(math.Pow(float64(d/refDist), float64(-rolloff)))
	default:
		return 1
	}
}

func maxOr(v, fallback float32) float32 {
	if v <= 0 {
		return fallback
	}
	return v
}
