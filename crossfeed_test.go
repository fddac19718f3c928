package alengine

import "testing"

func TestCrossfeedProcessIsSilentOnSilentInput(t *testing.T) {
	c := NewCrossfeed()
	c.DeviceUpdate(48000)
	left := make([]float32, 64)
	right := make([]float32, 64)
	c.Process(left, right)
	for i := range left {
		if left[i] != 0 || right[i] != 0 {
			t.Fatalf("crossfeed on silence should stay silent, got left=%f right=%f at %d", left[i], right[i], i)
		}
	}
}

func TestCrossfeedNarrowsHardPannedSignal(t *testing.T) {
	c := NewCrossfeed()
	c.DeviceUpdate(48000)
	n := 4096
	left := make([]float32, n)
	right := make([]float32, n)
	for i := range left {
		left[i] = 1
	}
	c.Process(left, right)

	var sawCrossfeed bool
	for _, v := range right {
		if v != 0 {
			sawCrossfeed = true
			break
		}
	}
	if !sawCrossfeed {
		t.Error("a hard-left signal should bleed some energy into the right channel after crossfeed")
	}
	for _, v := range left {
		if v > 1 {
			t.Errorf("crossfeed should not amplify the source channel beyond its input, got %f", v)
		}
	}
}

func TestCrossfeedResetClearsDelayLineAndFilters(t *testing.T) {
	c := NewCrossfeed()
	c.DeviceUpdate(48000)
	left := []float32{1, 1, 1, 1}
	right := []float32{1, 1, 1, 1}
	c.Process(left, right)
	c.Reset()
	for i, v := range c.delayLine[0] {
		if v != 0 {
			t.Fatalf("Reset should clear the delay line, found nonzero at %d: %f", i, v)
		}
	}
	if c.lowpass[0].z1 != 0 || c.lowpass[1].z1 != 0 {
		t.Error("Reset should clear the crossfeed lowpass filter state")
	}
}

func TestCrossfeedProcessNoopBeforeDeviceUpdate(t *testing.T) {
	c := NewCrossfeed()
	left := []float32{1, 1}
	right := []float32{0, 0}
	c.Process(left, right)
	if left[0] != 1 || right[0] != 0 {
		t.Error("Process before DeviceUpdate (delayLen == 0) should be a no-op")
	}
}
