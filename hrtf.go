// hrtf.go - HRTF store, direction query and per-ear convolution state

package alengine

import (
	"math"
	"sync/atomic"
)

const (
	MinIRSize = 8
	MaxIRSize = 512

	MinEvCount = 5
	MaxEvCount = 128

	MinAzCount = 1
	MaxAzCount = 128

	MinFdDistance = 0.05
	MaxFdDistance = 2.5

	// HRTFHistoryLength bounds the per-ear delay line used during
	// convolution; every loaded delay value must be strictly smaller
	// (§4.6 validation table).
	HRTFHistoryLength = 128
)

// HrirSample is one coefficient sample for both ears at a single tap.
type HrirSample [2]float32

// HrtfElevation is one elevation ring within a field: its azimuth count and
// the offset into the field's (and store's) flat IR table where its first
// IR begins.
type HrtfElevation struct {
	AzCount   int
	IROffset  int
}

// HrtfField is one distance band: a set of elevations, each with its own
// azimuth ring, sharing one nominal source distance.
type HrtfField struct {
	DistanceMeters float32
	Elevations     []HrtfElevation
}

// HrtfStore owns the full parsed HRTF dataset: per-field per-elevation
// azimuth rings indexing into one flat, 16-byte-aligned coefficient table
// and a parallel per-ear delay table (§3 HrtfStore).
type HrtfStore struct {
	SampleRate uint32
	IRSize     int
	Fields     []HrtfField

	// Coeffs/Delays are indexed by a flat IR index resolved through
	// Fields[f].Elevations[e].IROffset + azimuth.
	Coeffs []HrirSample // len = ircount * IRSize
	Delays [][2]float32 // len = ircount, in samples

	refCount int32
}

func (h *HrtfStore) Retain()  { atomic.AddInt32(&h.refCount, 1) }
func (h *HrtfStore) Release() { atomic.AddInt32(&h.refCount, -1) }

// CalcEvIndex maps an elevation in radians (-pi/2..pi/2) to a fractional
// index into an evCount-sized ring, per §4.6.
func CalcEvIndex(evCount int, ev float32) (idx int, blend float32) {
	f := (float64(ev) + math.Pi/2) * float64(evCount-1) / math.Pi
	if f < 0 {
		f = 0
	}
	maxF := float64(evCount - 1)
	if f > maxF {
		f = maxF
	}
	idx = int(f)
	blend = float32(f - math.Floor(f))
	if idx >= evCount-1 {
		idx = evCount - 1
		blend = 0
	}
	return idx, blend
}

// CalcAzIndex maps an azimuth in radians (0..2pi, wrapping) to a
// fractional index into an azCount-sized ring, per §4.6.
func CalcAzIndex(azCount int, az float32) (idx int, blend float32) {
	if azCount <= 0 {
		return 0, 0
	}
	tau := 2 * math.Pi
	a := math.Mod(float64(az)+tau, tau)
	f := a * float64(azCount) / tau
	idx = int(f) % azCount
	blend = float32(f - math.Floor(f))
	return idx, blend
}

// fieldIndex selects the field whose distance band contains d, per §4.6:
// the last field whose distance is <= d, clamped to the final field
// when d exceeds every configured distance.
func (h *HrtfStore) fieldIndex(d float32) int {
	idx := 0
	for i, f := range h.Fields {
		if f.DistanceMeters <= d {
			idx = i
		} else {
			break
		}
	}
	return idx
}

// Coefficients is the resolved direct IR (not yet blended across the
// query's four bracketing azimuth/elevation corners), used by unit tests
// to assert symmetry properties against raw loaded data.
func (h *HrtfStore) Coefficients(irIndex int) []HrirSample {
	if irIndex < 0 {
		return nil
	}
	start := irIndex * h.IRSize
	if start+h.IRSize > len(h.Coeffs) {
		return nil
	}
	return h.Coeffs[start : start+h.IRSize]
}

// HrtfQuery is a resolved direction/distance/spread used to interpolate a
// stereo IR and delay pair for one source (§4.6 "Interpolation").
type HrtfQuery struct {
	Elevation float32 // radians, -pi/2..pi/2
	Azimuth   float32 // radians, 0..2pi
	Distance  float32 // meters
	Spread    float32 // radians, source angular size
}

// HrtfResult is the blended output: a per-tap stereo IR and a per-ear
// delay in samples.
type HrtfResult struct {
	Coeffs []HrirSample
	DelayL float32
	DelayR float32
}

// PassthruCoeff is the unit impulse weight assigned to tap 0 of both ears so that,
// as dirFact -> 0 (a fully diffuse/enveloping source per Spread), the
// result degrades to an unfiltered passthrough rather than silence.
const PassthruCoeff = 1.0

// Query bilinearly blends the four IRs surrounding (elevation, azimuth) at
// the nearest field below Distance, per §4.6.
func (h *HrtfStore) Query(q HrtfQuery) HrtfResult {
	out := HrtfResult{Coeffs: make([]HrirSample, h.IRSize)}
	if len(h.Fields) == 0 {
		return out
	}
	field := h.Fields[h.fieldIndex(q.Distance)]
	if len(field.Elevations) == 0 {
		return out
	}
	evIdx, evBlend := CalcEvIndex(len(field.Elevations), q.Elevation)
	evIdx2 := evIdx + 1
	if evIdx2 >= len(field.Elevations) {
		evIdx2 = evIdx
		evBlend = 0
	}
	e0, e1 := field.Elevations[evIdx], field.Elevations[evIdx2]
	az0Idx, az0Blend := CalcAzIndex(e0.AzCount, q.Azimuth)
	az1Idx, az1Blend := CalcAzIndex(e1.AzCount, q.Azimuth)
	az0Next := (az0Idx + 1) % maxInt(e0.AzCount, 1)
	az1Next := (az1Idx + 1) % maxInt(e1.AzCount, 1)

	ir00 := e0.IROffset + az0Idx
	ir01 := e0.IROffset + az0Next
	ir10 := e1.IROffset + az1Idx
	ir11 := e1.IROffset + az1Next

	w00 := (1 - evBlend) * (1 - az0Blend)
	w01 := (1 - evBlend) * az0Blend
	w10 := evBlend * (1 - az1Blend)
	w11 := evBlend * az1Blend

	tau := float32(2 * math.Pi)
	dirFact := float32(1) - q.Spread/tau
	if dirFact < 0 {
		dirFact = 0
	}
	if dirFact > 1 {
		dirFact = 1
	}

	c00, c01, c10, c11 := h.Coefficients(ir00), h.Coefficients(ir01), h.Coefficients(ir10), h.Coefficients(ir11)
	for i := 0; i < h.IRSize; i++ {
		var l, r float32
		if c00 != nil {
			l += w00 * c00[i][0] * dirFact
			r += w00 * c00[i][1] * dirFact
		}
		if c01 != nil {
			l += w01 * c01[i][0] * dirFact
			r += w01 * c01[i][1] * dirFact
		}
		if c10 != nil {
			l += w10 * c10[i][0] * dirFact
			r += w10 * c10[i][1] * dirFact
		}
		if c11 != nil {
			l += w11 * c11[i][0] * dirFact
			r += w11 * c11[i][1] * dirFact
		}
		if i == 0 {
			l += PassthruCoeff * (1 - dirFact)
			r += PassthruCoeff * (1 - dirFact)
		}
		out.Coeffs[i] = HrirSample{l, r}
	}

	delayAt := func(ir int) (float32, float32) {
		if ir < 0 || ir >= len(h.Delays) {
			return 0, 0
		}
		return h.Delays[ir][0], h.Delays[ir][1]
	}
	l00, r00 := delayAt(ir00)
	l01, r01 := delayAt(ir01)
	l10, r10 := delayAt(ir10)
	l11, r11 := delayAt(ir11)
	out.DelayL = w00*l00 + w01*l01 + w10*l10 + w11*l11
	out.DelayR = w00*r00 + w01*r01 + w10*r10 + w11*r11
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// HrtfChannelState is the per-source convolution state: a running history
// of recent input samples (used as the FIR delay line) and the
// coefficient/delay interpolation trajectory driven over HRTF_COUNTER
// frames whenever the query direction changes (§4.4 step 2/4).
const HRTFCounter = 32

type HrtfChannelState struct {
	history   [HRTFHistoryLength]float32
	writePos  int
	coeffs    []HrirSample
	coeffStep []HrirSample
	delayL    float32
	delayR    float32
	delayStepL float32
	delayStepR float32
	counter   int
}

func NewHrtfChannelState(irSize int) *HrtfChannelState {
	return &HrtfChannelState{coeffs: make([]HrirSample, irSize), coeffStep: make([]HrirSample, irSize)}
}

// SetTarget begins a new HRTF_COUNTER-frame linear interpolation from the
// current coefficients/delays toward target.
func (s *HrtfChannelState) SetTarget(target HrtfResult) {
	n := float32(HRTFCounter)
	for i := range s.coeffs {
		var cur HrirSample
		if i < len(s.coeffStep) {
			cur = s.coeffs[i]
		}
		var tgt HrirSample
		if i < len(target.Coeffs) {
			tgt = target.Coeffs[i]
		}
		s.coeffStep[i] = HrirSample{(tgt[0] - cur[0]) / n, (tgt[1] - cur[1]) / n}
	}
	s.delayStepL = (target.DelayL - s.delayL) / n
	s.delayStepR = (target.DelayR - s.delayR) / n
	s.counter = HRTFCounter
}

// Advance applies one interpolation step toward the pending target.
func (s *HrtfChannelState) Advance() {
	if s.counter <= 0 {
		return
	}
	for i := range s.coeffs {
		s.coeffs[i][0] += s.coeffStep[i][0]
		s.coeffs[i][1] += s.coeffStep[i][1]
	}
	s.delayL += s.delayStepL
	s.delayR += s.delayStepR
	s.counter--
}

// Push writes one new input sample into the convolution history ring.
func (s *HrtfChannelState) Push(sample float32) {
	s.history[s.writePos%HRTFHistoryLength] = sample
	s.writePos++
}

// Convolve produces one (left, right) output pair from the current history
// and coefficients, applying the per-ear fractional delay by reading from
// an offset history position.
func (s *HrtfChannelState) Convolve() (left, right float32) {
	for i, c := range s.coeffs {
		hl := s.at(float32(i) + s.delayL)
		hr := s.at(float32(i) + s.delayR)
		left += c[0] * hl
		right += c[1] * hr
	}
	return left, right
}

func (s *HrtfChannelState) at(offsetBack float32) float32 {
	i := int(offsetBack)
	frac := offsetBack - float32(i)
	pos := s.writePos - 1 - i
	a := s.sampleAt(pos)
	b := s.sampleAt(pos - 1)
	return lerpf(a, b, frac)
}

func (s *HrtfChannelState) sampleAt(pos int) float32 {
	if pos < 0 {
		return 0
	}
	return s.history[pos%HRTFHistoryLength]
}
