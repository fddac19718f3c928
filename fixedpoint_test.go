package alengine

import "testing"

func TestCursorSampleAndFrac(t *testing.T) {
	c := NewCursor(42)
	if c.Sample() != 42 {
		t.Errorf("Sample() = %d, want 42", c.Sample())
	}
	if c.Frac() != 0 {
		t.Errorf("Frac() = %d, want 0", c.Frac())
	}
}

func TestCursorAddCarries(t *testing.T) {
	c := NewCursor(0)
	step := FracOne + FracOne/2 // 1.5 samples per step
	c = c.Add(step)
	if c.Sample() != 1 {
		t.Errorf("after one add, Sample() = %d, want 1", c.Sample())
	}
	if c.Frac() != FracOne/2 {
		t.Errorf("after one add, Frac() = %d, want %d", c.Frac(), FracOne/2)
	}
	c = c.Add(step)
	if c.Sample() != 3 {
		t.Errorf("after two adds, Sample() = %d, want 3", c.Sample())
	}
}

func TestStepFromRatio(t *testing.T) {
	tests := []struct {
		name                   string
		sourceFreq, deviceFreq uint32
		wantSample             uint32
	}{
		{"unity", 48000, 48000, 1},
		{"half rate source", 24000, 48000, 0},
		{"double rate source", 96000, 48000, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := StepFromRatio(tt.sourceFreq, tt.deviceFreq)
			got := Cursor(step).Sample()
			if got != tt.wantSample {
				t.Errorf("StepFromRatio(%d,%d) integer part = %d, want %d", tt.sourceFreq, tt.deviceFreq, got, tt.wantSample)
			}
		})
	}
}

func TestStepFromRatioZeroDevice(t *testing.T) {
	if StepFromRatio(48000, 0) != FracOne {
		t.Error("StepFromRatio with zero device frequency should fall back to unity step")
	}
}
