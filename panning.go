// panning.go - cone gain and per-channel dry-gain panning (§4.4 step 2)

package alengine

import "math"

// ConeScale maps the half-angle compatibility switch from
// __ALSOFT_HALF_ANGLE_CONES (§6.3): 1.0 when cone angles are specified as
// full angles (halved internally), 0.5 when callers already pass half
// angles, matching the teacher-era historical default.
const (
	ConeScaleFull = 1.0
	ConeScaleHalf = 0.5
)

// ConeGain linearly interpolates between 1 and outerGain as the angle
// between the source's facing direction and the direction to the listener
// sweeps from innerAngle/2 to outerAngle/2 (degrees).
func ConeGain(angleToListenerDeg, innerAngle, outerAngle, outerGain, coneScale float32) float32 {
	half := angleToListenerDeg
	innerHalf := innerAngle / (2 * coneScale)
	outerHalf := outerAngle / (2 * coneScale)
	if half <= innerHalf {
		return 1
	}
	if half >= outerHalf {
		return outerGain
	}
	if outerHalf <= innerHalf {
		return outerGain
	}
	t := (half - innerHalf) / (outerHalf - innerHalf)
	return lerpf(1, outerGain, t)
}

// speakerAzimuths lists each channel layout's speaker azimuths in degrees,
// 0 = front, positive = clockwise (right), matching the device's
// channel-order table (§4.4 step 7).
var speakerAzimuths = map[ChannelLayout][]float32{
	Mono:     {0},
	Stereo:   {-30, 30},
	Quad:     {-45, 45, -135, 135},
	Layout51: {-30, 30, 0, 0, -110, 110}, // L R C LFE Ls Rs
	Layout61: {-30, 30, 0, 0, 180, -110, 110},
	Layout71: {-30, 30, 0, 0, -150, 150, -110, 110},
}

// lfeChannels reports which output channel indices are LFE (never
// panned to directly; the mixer leaves them at zero for positional
// sources, matching OpenAL-soft's treatment of the .1 channel).
var lfeChannels = map[ChannelLayout]map[int]bool{
	Layout51: {3: true},
	Layout61: {3: true},
	Layout71: {3: true},
}

// PanGains returns, for one mono input channel located at localDir
// (listener-relative, already normalized) with elevation component Y,
// the per-output-channel gain vector for layout. Stereo and mono use
// simple linear pair panning; larger layouts use an angle-weighted
// (VBAP-like) law across every non-LFE speaker, attenuated toward the
// pole as elevation rises.
func PanGains(layout ChannelLayout, localDir Vec3, distanceGain float32) []float32 {
	n := layout.Channels()
	gains := make([]float32, n)
	if n == 0 {
		return gains
	}

	azimuth := float32(math.Atan2(float64(localDir.X), float64(-localDir.Z))) * 180 / math.Pi
	elevGain := float32(1)
	horiz := math.Hypot(float64(localDir.X), float64(localDir.Z))
	if horiz > 1e-6 || localDir.Y != 0 {
		elevAngle := math.Atan2(float64(localDir.Y), horiz)
		elevGain = float32(math.Cos(elevAngle))
	}

	if layout == Mono {
		gains[0] = distanceGain
		return gains
	}
	if layout == Stereo {
		// Equal-power pan across the +-30 degree stereo pair.
		t := clampf((azimuth+30)/60, 0, 1)
		gains[0] = distanceGain * float32(math.Cos(float64(t)*math.Pi/2)) * elevGain
		gains[1] = distanceGain * float32(math.Sin(float64(t)*math.Pi/2)) * elevGain
		return gains
	}

	azList := speakerAzimuths[layout]
	lfe := lfeChannels[layout]
	// Pick the two bracketing speakers by angular distance and distribute
	// gain by inverse angular distance (a cheap VBAP approximation that
	// degrades gracefully to "nearest speaker only" when angles coincide).
	type cand struct {
		idx   int
		delta float32
	}
	var cands []cand
	for i, az := range azList {
		if lfe[i] {
			continue
		}
		d := angularDelta(azimuth, az)
		cands = append(cands, cand{i, d})
	}
	if len(cands) == 0 {
		return gains
	}
	// sort the two closest by delta (small n, insertion is fine)
	for i := 1; i < len(cands); i++ {
		for j := i; j > 0 && cands[j].delta < cands[j-1].delta; j-- {
			cands[j], cands[j-1] = cands[j-1], cands[j]
		}
	}
	best := cands[0]
	if len(cands) == 1 || best.delta < 1e-3 {
		gains[best.idx] = distanceGain * elevGain
		return gains
	}
	second := cands[1]
	total := best.delta + second.delta
	wBest := 1 - best.delta/total
	wSecond := 1 - second.delta/total
	norm := float32(math.Sqrt(float64(wBest*wBest + wSecond*wSecond)))
	if norm > 0 {
		wBest /= norm
		wSecond /= norm
	}
	gains[best.idx] = distanceGain * elevGain * wBest
	gains[second.idx] = distanceGain * elevGain * wSecond
	return gains
}

func angularDelta(a, b float32) float32 {
	d := a - b
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	if d < 0 {
		d = -d
	}
	return d
}
