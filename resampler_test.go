package alengine

import "testing"

func constFetcher(v float32) SampleFetcher {
	return func(relative int) float32 { return v }
}

func TestGeneratePointReturnsCurrentSample(t *testing.T) {
	fetch := func(relative int) float32 {
		if relative == 0 {
			return 1
		}
		return -1
	}
	if g := Generate(ResamplerPoint, fetch, FracOne/2); g != 1 {
		t.Errorf("point interpolation = %f, want 1", g)
	}
}

func TestGenerateLinearInterpolatesHalfway(t *testing.T) {
	fetch := func(relative int) float32 {
		if relative == 0 {
			return 0
		}
		return 10
	}
	g := Generate(ResamplerLinear, fetch, FracOne/2)
	if g < 4.9 || g > 5.1 {
		t.Errorf("linear interpolation at t=0.5 = %f, want ~5", g)
	}
}

func TestGenerateLinearAtZeroFracReturnsCurrent(t *testing.T) {
	fetch := func(relative int) float32 {
		if relative == 0 {
			return 3
		}
		return 9
	}
	if g := Generate(ResamplerLinear, fetch, 0); g != 3 {
		t.Errorf("linear interpolation at frac=0 = %f, want 3", g)
	}
}

func TestGenerateCubicOnConstantSignalIsFlat(t *testing.T) {
	fetch := constFetcher(2.5)
	for _, frac := range []uint64{0, FracOne / 4, FracOne / 2, FracOne * 3 / 4} {
		if g := Generate(ResamplerCubic, fetch, frac); g < 2.49 || g > 2.51 {
			t.Errorf("cubic interpolation of a constant signal should stay flat, got %f at frac %d", g, frac)
		}
	}
}

func TestChannelHistoryPushAndLast(t *testing.T) {
	var h channelHistory
	for i := 0; i < 5; i++ {
		h.push(float32(i))
	}
	if got := h.last(0); got != 4 {
		t.Errorf("last(0) = %f, want 4 (most recently pushed)", got)
	}
	if got := h.last(4); got != 0 {
		t.Errorf("last(4) = %f, want 0 (oldest of the 5 pushed)", got)
	}
}

func TestChannelHistoryResetClearsState(t *testing.T) {
	var h channelHistory
	h.push(1)
	h.push(2)
	h.reset()
	if got := h.last(0); got != 0 {
		t.Errorf("after reset, last(0) = %f, want 0", got)
	}
}
