// doppler.go - Doppler pitch shift (§4.4 step 2)

package alengine

// DopplerShift computes the effective playback frequency after applying
// the classic Doppler formula, clamped so neither velocity term can drive
// the denominator through zero (a listener or source approaching at
// exactly the speed of sound would otherwise divide by zero).
func DopplerShift(sourceFreq float32, dopplerFactor, speedOfSound float32, listenerVel, sourceVel, dir Vec3) float32 {
	if speedOfSound <= 0 {
		return sourceFreq
	}
	vl := listenerVel.Dot(dir)
	vs := sourceVel.Dot(dir)

	vl = clampf(vl, -speedOfSound/dopplerFactorOrOne(dopplerFactor), speedOfSound/dopplerFactorOrOne(dopplerFactor))
	vs = clampf(vs, -speedOfSound/dopplerFactorOrOne(dopplerFactor), speedOfSound/dopplerFactorOrOne(dopplerFactor))

	num := speedOfSound - dopplerFactor*vl
	den := speedOfSound - dopplerFactor*vs
	if den <= 0.001 {
		den = 0.001
	}
	return sourceFreq * num / den
}

func dopplerFactorOrOne(f float32) float32 {
	if f <= 0 {
		return 1
	}
	return f
}
