// resampler.go - point/linear/cubic interpolation plug point (§4.4 step 3)

package alengine

// ResamplerKind selects the interpolation kernel used when stepping the
// fixed-point playback cursor by a non-unity amount.
type ResamplerKind int

const (
	ResamplerPoint ResamplerKind = iota
	ResamplerLinear
	ResamplerCubic
)

// SRCHistoryLength is the per-channel history retained across render
// passes so the cubic kernel always has its one-sample pre-pad and
// two-sample post-pad available, even for the first few output frames of
// a pass (§3 Source, §4.4 step 3).
const SRCHistoryLength = 64

// SampleFetcher returns the sample at position relative to the current
// integer cursor sample (0 = current, -1 = one sample before, +1/+2 =
// one/two samples ahead), resolving queue-node transitions, loop wrap or
// zero-fill as the caller's playback state dictates.
type SampleFetcher func(relative int) float32

// Generate produces one interpolated output sample for fractional position
// frac (in [0, FracOne)) using the given kernel and neighbor fetcher.
func Generate(kind ResamplerKind, fetch SampleFetcher, frac uint64) float32 {
	t := float32(frac) / float32(FracOne)
	switch kind {
	case ResamplerPoint:
		return fetch(0)
	case ResamplerLinear:
		s0, s1 := fetch(0), fetch(1)
		return lerpf(s0, s1, t)
	case ResamplerCubic:
		return cubicHermite(fetch(-1), fetch(0), fetch(1), fetch(2), t)
	default:
		return fetch(0)
	}
}

// cubicHermite is the standard 4-point, 3rd-order Catmull-Rom style
// interpolation: p(-1), p0, p1, p2 bracket the fractional position t.
func cubicHermite(pm1, p0, p1, p2, t float32) float32 {
	a0 := p2 - p1 - pm1 + p0
	a1 := pm1 - p0 - a0
	a2 := p1 - pm1
	a3 := p0
	return ((a0*t+a1)*t+a2)*t + a3
}

// channelHistory is a per-source, per-channel ring retaining the most
// recent SRCHistoryLength output samples, used to seed the pre-pad for
// cubic interpolation at a queue or loop boundary where the "previous"
// sample belongs to a different buffer than the "current" one.
type channelHistory struct {
	buf [SRCHistoryLength]float32
	pos int
}

func (h *channelHistory) push(s float32) {
	h.buf[h.pos%SRCHistoryLength] = s
	h.pos++
}

// last returns the nth-from-most-recent pushed sample (0 = most recent).
func (h *channelHistory) last(n int) float32 {
	if h.pos == 0 {
		return 0
	}
	idx := h.pos - 1 - n
	if idx < 0 {
		return 0
	}
	return h.buf[idx%SRCHistoryLength]
}

func (h *channelHistory) reset() {
	*h = channelHistory{}
}
