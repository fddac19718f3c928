package alengine

import "testing"

func TestBiquadPairNoneIsPassthrough(t *testing.T) {
	f := NewFilter()
	var b BiquadPair
	b.Configure(f, 48000)
	in := float32(0.5)
	out := b.Process(in)
	if out != in {
		t.Errorf("FilterNone should pass signal through unchanged, got %f want %f", out, in)
	}
}

func TestBiquadPairLowPassAttenuatesHighFrequencyGain(t *testing.T) {
	f := NewFilter()
	f.Type = FilterLowPass
	f.GainHF = 0.1
	var b BiquadPair
	b.Configure(f, 48000)

	// Feed a few periods of a signal alternating at Nyquist to approximate
	// a high-frequency tone and confirm the filter damps its amplitude
	// relative to an unfiltered pass-through.
	var filteredPeak float32
	for i := 0; i < 64; i++ {
		in := float32(1)
		if i%2 == 1 {
			in = -1
		}
		out := b.Process(in)
		if out < 0 {
			out = -out
		}
		if out > filteredPeak {
			filteredPeak = out
		}
	}
	if filteredPeak >= 1 {
		t.Errorf("low-pass with GainHF=0.1 should damp a Nyquist-rate signal below unity, got peak %f", filteredPeak)
	}
}

func TestBandSplitterSumsBackToInput(t *testing.T) {
	bs := NewBandSplitter(48000, 1000)
	lo, hi := bs.Split(1)
	if lo+hi != 1 {
		t.Errorf("lo+hi should reconstruct the input exactly, got lo=%f hi=%f sum=%f", lo, hi, lo+hi)
	}
}

func TestOnePoleResetClearsState(t *testing.T) {
	var p onePole
	p.setLowpass(48000, 1000, 0.1)
	p.process(1)
	p.reset()
	if p.z1 != 0 {
		t.Errorf("reset() should clear the filter's internal state, z1 = %f", p.z1)
	}
}
