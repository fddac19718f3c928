// filter.go - one-pole filter primitives shared by sources, sends and effects

package alengine

import "math"

// FilterType tags the kind of filter a Filter object represents. The zero
// value, FilterNone, passes audio through unchanged.
type FilterType int

const (
	FilterNone FilterType = iota
	FilterLowPass
	FilterHighPass
	FilterBandPass
)

// Filter is the caller-facing object: a tagged variant carrying the gain
// triple (overall, high-frequency, low-frequency) and the reference
// frequencies the one-pole coefficients are derived from.
type Filter struct {
	Type        FilterType
	Gain        float32
	GainHF      float32
	HFReference float32
	GainLF      float32
	LFReference float32
}

// NewFilter returns a Filter at its constructor defaults (pass-through).
func NewFilter() *Filter {
	return &Filter{
		Type:        FilterNone,
		Gain:        1,
		GainHF:      1,
		HFReference: 5000,
		GainLF:      1,
		LFReference: 250,
	}
}

// onePole is a one-pole IIR section: y[n] = a0*x[n] + a1*y[n-1]. It is the
// building block for the low-pass and high-pass direct/send filters, the
// BandSplitter, the echo effect's damping and the crossfeed stage.
type onePole struct {
	a0, a1 float32
	z1     float32
}

// setLowpass configures the section as a low-pass with unity gain at DC
// whose high-frequency attenuation grows as gainHF falls (a shelving low-pass,
// matching OpenAL-soft's ALfilterState two-pole-per-band simplification
// collapsed to one pole per the spec's "one-pole low/high-pass" primitive).
func (p *onePole) setLowpass(sampleRate float32, hfReference, gainHF float32) {
	if gainHF >= 0.9999 {
		p.a0, p.a1 = 1, 0
		return
	}
	w := 2 * math.Pi * float64(hfReference) / float64(sampleRate)
	cw := float32(math.Cos(w))
	// One-pole coefficient (1-g)*cos(w): DC stays at unity, and a lower
	// gainHF or a lower hfReference moves the pole toward 1 and cuts more
	// high frequency. The response at hfReference is not exactly gainHF.
	g := clampf(gainHF, 0.01, 1)
	a1 := (1 - g) * cw
	p.a1 = a1
	p.a0 = 1 - a1
}

func (p *onePole) setHighpass(sampleRate float32, lfReference, gainLF float32) {
	if gainLF >= 0.9999 {
		p.a0, p.a1 = 1, 0
		return
	}
	w := 2 * math.Pi * float64(lfReference) / float64(sampleRate)
	cw := float32(math.Cos(w))
	g := clampf(gainLF, 0.01, 1)
	a1 := g * cw
	p.a0 = 1 - a1
	p.a1 = a1
}

func (p *onePole) process(in float32) float32 {
	out := p.a0*in + p.a1*p.z1
	p.z1 = out
	return out
}

func (p *onePole) reset() { p.z1 = 0 }

// BiquadPair implements the direct/send filter contract from §4.4: an IIR
// pair built from (gain, gainHF, hfReference) and (gainLF, lfReference)
// that processes one channel's signal. The mixer does not run it:
// Source.DirectFilter and each SourceSend.Filter are stored but not
// applied to the rendered signal.
type BiquadPair struct {
	gain         float32
	lowShelf     onePole
	highShelf    onePole
}

// Configure rebuilds the pair's coefficients from a Filter's parameters at
// the device's sample rate.
func (b *BiquadPair) Configure(f *Filter, sampleRate float32) {
	b.gain = f.Gain
	switch f.Type {
	case FilterLowPass:
		b.lowShelf.setLowpass(sampleRate, f.HFReference, f.GainHF)
		b.highShelf.a0, b.highShelf.a1 = 1, 0
	case FilterHighPass:
		b.highShelf.setHighpass(sampleRate, f.LFReference, f.GainLF)
		b.lowShelf.a0, b.lowShelf.a1 = 1, 0
	case FilterBandPass:
		b.lowShelf.setLowpass(sampleRate, f.HFReference, f.GainHF)
		b.highShelf.setHighpass(sampleRate, f.LFReference, f.GainLF)
	default:
		b.lowShelf.a0, b.lowShelf.a1 = 1, 0
		b.highShelf.a0, b.highShelf.a1 = 1, 0
	}
}

func (b *BiquadPair) Process(in float32) float32 {
	return b.gain * b.highShelf.process(b.lowShelf.process(in))
}

func (b *BiquadPair) Reset() {
	b.lowShelf.reset()
	b.highShelf.reset()
}

// BandSplitter divides a signal into a low band and a high band using a
// one-pole low-pass plus its complementary all-pass difference (hi = in -
// lo), the technique the spec calls out as the "band-splitter all-pass" and
// which OpenAL-soft's reverb uses ahead of its early/late network.
type BandSplitter struct {
	lp onePole
}

func NewBandSplitter(sampleRate, crossover float32) *BandSplitter {
	bs := &BandSplitter{}
	bs.lp.setLowpass(sampleRate, crossover, 0.01)
	return bs
}

func (bs *BandSplitter) Split(in float32) (lo, hi float32) {
	lo = bs.lp.process(in)
	hi = in - lo
	return lo, hi
}

func (bs *BandSplitter) Reset() { bs.lp.reset() }
