package alengine

import "testing"

func TestCalcEvIndexClampsToRange(t *testing.T) {
	idx, blend := CalcEvIndex(5, -10)
	if idx != 0 || blend != 0 {
		t.Errorf("elevation below range should clamp to idx 0 blend 0, got idx=%d blend=%f", idx, blend)
	}
	idx, blend = CalcEvIndex(5, 10)
	if idx != 4 || blend != 0 {
		t.Errorf("elevation above range should clamp to last idx blend 0, got idx=%d blend=%f", idx, blend)
	}
}

func TestCalcAzIndexWraps(t *testing.T) {
	idx, _ := CalcAzIndex(4, -0.01)
	if idx != 3 {
		t.Errorf("a small negative azimuth should wrap to the last index, got %d", idx)
	}
}

func TestFieldIndexSelectsNearestBelow(t *testing.T) {
	h := &HrtfStore{Fields: []HrtfField{{DistanceMeters: 1}, {DistanceMeters: 2}}}
	if got := h.fieldIndex(0.5); got != 0 {
		t.Errorf("distance below every field should select field 0, got %d", got)
	}
	if got := h.fieldIndex(1.5); got != 0 {
		t.Errorf("distance between fields should select the nearest field at or below it, got %d", got)
	}
	if got := h.fieldIndex(5); got != 1 {
		t.Errorf("distance beyond every field should clamp to the last field, got %d", got)
	}
}

func TestCoefficientsOutOfRangeReturnsNil(t *testing.T) {
	h := &HrtfStore{IRSize: 4, Coeffs: make([]HrirSample, 8)}
	if h.Coefficients(-1) != nil {
		t.Error("negative IR index should return nil")
	}
	if h.Coefficients(5) != nil {
		t.Error("IR index past the end of the coefficient table should return nil")
	}
	if got := h.Coefficients(1); len(got) != 4 {
		t.Errorf("Coefficients(1) should return an IRSize-length slice, got len %d", len(got))
	}
}

func TestQueryEmptyStoreReturnsZeroResult(t *testing.T) {
	h := &HrtfStore{IRSize: 4}
	res := h.Query(HrtfQuery{})
	if len(res.Coeffs) != 4 {
		t.Fatalf("Query on an empty store should still size Coeffs to IRSize, got %d", len(res.Coeffs))
	}
	for _, c := range res.Coeffs {
		if c[0] != 0 || c[1] != 0 {
			t.Error("Query on a store with no fields should return silence")
		}
	}
}

func TestQueryFullSpreadFallsBackToPassthrough(t *testing.T) {
	h := &HrtfStore{
		IRSize: 2,
		Fields: []HrtfField{{DistanceMeters: 1, Elevations: []HrtfElevation{{AzCount: 1, IROffset: 0}}}},
		Coeffs: []HrirSample{{0.5, 0.5}, {0.1, 0.1}},
		Delays: [][2]float32{{0, 0}},
	}
	res := h.Query(HrtfQuery{Spread: 2 * 3.14159265})
	if res.Coeffs[0][0] < 0.99 || res.Coeffs[0][1] < 0.99 {
		t.Errorf("a fully diffuse source (spread = 2pi) should degrade to a unit passthrough at tap 0, got %v", res.Coeffs[0])
	}
}

func TestHrtfChannelStateConvolveSilentWithZeroCoeffs(t *testing.T) {
	s := NewHrtfChannelState(4)
	s.Push(1)
	s.Push(1)
	l, r := s.Convolve()
	if l != 0 || r != 0 {
		t.Errorf("convolving with all-zero coefficients should produce silence, got (%f, %f)", l, r)
	}
}

func TestHrtfChannelStateSetTargetInterpolatesOverCounter(t *testing.T) {
	s := NewHrtfChannelState(1)
	target := HrtfResult{Coeffs: []HrirSample{{1, 1}}, DelayL: HRTFCounter, DelayR: 0}
	s.SetTarget(target)
	if s.counter != HRTFCounter {
		t.Fatalf("SetTarget should arm a full HRTFCounter-frame ramp, got counter=%d", s.counter)
	}
	for i := 0; i < HRTFCounter; i++ {
		s.Advance()
	}
	if s.coeffs[0][0] < 0.99 || s.coeffs[0][0] > 1.01 {
		t.Errorf("after HRTFCounter Advance() calls the coefficient should reach its target, got %f", s.coeffs[0][0])
	}
	if s.delayL < float32(HRTFCounter)-0.01 {
		t.Errorf("after HRTFCounter Advance() calls delayL should reach its target, got %f", s.delayL)
	}
	if s.counter != 0 {
		t.Errorf("counter should be exhausted after HRTFCounter Advance() calls, got %d", s.counter)
	}
}
