package alengine

import "testing"

func TestParseContextAttrsStopsAtZeroKey(t *testing.T) {
	raw := []int32{0x1007, 48000, 0x1010, 64, 0, 0}
	attrs, err := ParseContextAttrs(raw)
	if err != nil {
		t.Fatalf("ParseContextAttrs failed: %v", err)
	}
	if attrs.Frequency != 48000 || attrs.MonoSources != 64 {
		t.Errorf("unexpected parsed attrs: %+v", attrs)
	}
}

func TestParseContextAttrsRejectsUnknownKey(t *testing.T) {
	raw := []int32{0x9999, 1, 0, 0}
	if _, err := ParseContextAttrs(raw); err == nil {
		t.Error("an unrecognized attribute key should be rejected")
	}
}

func TestParseContextAttrsHrtfSoftFlag(t *testing.T) {
	raw := []int32{0x1992, 1, 0, 0}
	attrs, err := ParseContextAttrs(raw)
	if err != nil {
		t.Fatalf("ParseContextAttrs failed: %v", err)
	}
	if !attrs.HrtfRequested {
		t.Error("ALC_HRTF_SOFT=1 should set HrtfRequested")
	}
}

func TestCreateContextOnClosedDeviceFails(t *testing.T) {
	d := openTestDevice(t)
	d.Close()
	if _, err := CreateContext(d, DefaultContextAttrs(d)); err == nil {
		t.Error("CreateContext on a closed device should fail")
	}
}

func TestCreateContextActivatesHrtfWhenRequestedAndAvailable(t *testing.T) {
	d := openTestDevice(t)
	d.Hrtf = &HrtfStore{IRSize: 8}
	attrs := DefaultContextAttrs(d)
	attrs.HrtfRequested = true
	if _, err := CreateContext(d, attrs); err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	if !d.HrtfActive {
		t.Error("requesting HRTF on a device with a loaded dataset should activate it")
	}
}

func TestContextDestroyClearsCurrentContext(t *testing.T) {
	d := openTestDevice(t)
	ctx, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	if err := MakeContextCurrent(ctx); err != NoError {
		t.Fatalf("MakeContextCurrent failed: %v", err)
	}
	ctx.Destroy()
	if CurrentContext() != nil {
		t.Error("destroying the current context should clear CurrentContext()")
	}
}

func TestMakeContextCurrentRejectsClosedDeviceContext(t *testing.T) {
	d := openTestDevice(t)
	ctx, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	d.Close()
	if err := MakeContextCurrent(ctx); err != InvalidContext {
		t.Errorf("MakeContextCurrent with a closed device's context should return InvalidContext, got %v", err)
	}
}

func TestContextDistanceModelIsContextScoped(t *testing.T) {
	d := openTestDevice(t)
	ctx1, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	ctx2, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	ctx1.SetDistanceModel(DistanceLinear)
	if ctx1.DistanceModel() != DistanceLinear {
		t.Error("SetDistanceModel should update the calling context")
	}
	if ctx2.DistanceModel() == DistanceLinear {
		t.Error("SetDistanceModel on one context should not affect a sibling context on the same device")
	}
}

func TestCreateContextDefaultsDistanceModelDopplerAndSpeedOfSound(t *testing.T) {
	d := openTestDevice(t)
	ctx, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	if ctx.DistanceModel() != DistanceInverseClamped {
		t.Errorf("new context DistanceModel() = %v, want DistanceInverseClamped", ctx.DistanceModel())
	}
	if ctx.DopplerFactor() != 1 {
		t.Errorf("new context DopplerFactor() = %v, want 1", ctx.DopplerFactor())
	}
	if ctx.SpeedOfSound() != 343.3 {
		t.Errorf("new context SpeedOfSound() = %v, want 343.3", ctx.SpeedOfSound())
	}
}

func TestCreateContextRejectsFrequencyBelowMinimum(t *testing.T) {
	d := openTestDevice(t)
	attrs := DefaultContextAttrs(d)
	attrs.Frequency = 4000
	if _, err := CreateContext(d, attrs); err == nil {
		t.Error("a context frequency below 8000Hz should be rejected")
	}
}

func TestCreateContextRejectsSourceBudgetOverDeviceMax(t *testing.T) {
	d := openTestDevice(t)
	attrs := DefaultContextAttrs(d)
	attrs.MonoSources = d.MaxSources
	attrs.StereoSources = 1
	if _, err := CreateContext(d, attrs); err == nil {
		t.Error("requesting more mono+stereo sources than the device allows should be rejected")
	}
}

func TestCreateContextRejectsMaxAuxiliarySendsOutOfRange(t *testing.T) {
	d := openTestDevice(t)
	attrs := DefaultContextAttrs(d)
	attrs.MaxAuxiliarySends = d.MaxSendsAbsolute + 1
	if _, err := CreateContext(d, attrs); err == nil {
		t.Error("MaxAuxiliarySends beyond the device's absolute send budget should be rejected")
	}
}

func TestCreateContextOnLoopbackDeviceRequiresFormatAttrs(t *testing.T) {
	d, err := OpenLoopbackDevice(NewLoopbackBackend(), 44100, Stereo, 64, 2, nil)
	if err != nil {
		t.Fatalf("OpenLoopbackDevice failed: %v", err)
	}
	if _, err := CreateContext(d, DefaultContextAttrs(d)); err == nil {
		t.Error("creating a context on a loopback device without FormatChannels/FormatType should be rejected")
	}
	attrs := DefaultContextAttrs(d)
	attrs.FormatChannels = Stereo
	attrs.FormatType = FormatF32
	raw := []int32{0x1990, 0x1501, 0x1991, 0x1405, 0}
	parsed, err := ParseContextAttrs(raw)
	if err != nil {
		t.Fatalf("ParseContextAttrs failed: %v", err)
	}
	attrs.FormatChannels = parsed.FormatChannels
	attrs.FormatType = parsed.FormatType
	attrs.hasFormatChannels = true
	attrs.hasFormatType = true
	if _, err := CreateContext(d, attrs); err != nil {
		t.Errorf("creating a context with both format attributes set should succeed, got %v", err)
	}
}

func TestContextDestroyFreesOwnedSourcesAndSlots(t *testing.T) {
	d := openTestDevice(t)
	ctx, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	srcNames := ctx.GenSources(2)
	slotNames := ctx.GenEffectSlots(1)
	b := newTestBuffer(t, 10, 1)
	src := ctx.Source(srcNames[0])
	if err := src.QueueBuffers([]*Buffer{b}); err != NoError {
		t.Fatalf("QueueBuffers failed: %v", err)
	}

	ctx.Destroy()

	if len(ctx.AllSources()) != 0 {
		t.Error("Destroy should leave the context with no sources")
	}
	if len(ctx.AllEffectSlots()) != 0 {
		t.Error("Destroy should leave the context with no effect slots")
	}
	if b.RefCount() != 0 {
		t.Errorf("Destroy should release every buffer a destroyed context's sources held, RefCount() = %d", b.RefCount())
	}
	_ = slotNames
}
