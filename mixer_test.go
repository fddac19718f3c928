package alengine

import "testing"

func TestRenderWithNoSourcesProducesSilence(t *testing.T) {
	d := openTestDevice(t)
	backend := d.backend.(*LoopbackBackend)
	if err := d.Render(32); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	blocks := backend.Blocks()
	if len(blocks) != 1 || len(blocks[0]) != 32*d.Channels.Channels() {
		t.Fatalf("unexpected block shape: %v", blocks)
	}
	for _, v := range blocks[0] {
		if v != 0 {
			t.Error("rendering with no live sources should produce silence")
		}
	}
}

func TestRenderPlayingSourceProducesNonSilentOutput(t *testing.T) {
	d := openTestDevice(t)
	backend := d.backend.(*LoopbackBackend)
	ctx, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	names := ctx.GenSources(1)
	s := ctx.Source(names[0])

	b := NewBuffer()
	data := make([]byte, 256*2) // 256 mono S16 frames
	for i := 0; i < 256; i++ {
		v := int16(10000)
		data[2*i] = byte(v)
		data[2*i+1] = byte(v >> 8)
	}
	if err := b.SetData(data, FormatS16, 1, 44100); err != NoError {
		t.Fatalf("SetData failed: %v", err)
	}
	if err := s.SetBuffer(b); err != NoError {
		t.Fatalf("SetBuffer failed: %v", err)
	}
	if err := s.Play(); err != NoError {
		t.Fatalf("Play failed: %v", err)
	}

	if err := d.Render(64); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	blocks := backend.Blocks()
	var sawSound bool
	for _, v := range blocks[0] {
		if v != 0 {
			sawSound = true
			break
		}
	}
	if !sawSound {
		t.Error("rendering a playing source with nonzero samples should produce audible output")
	}
}

func TestRenderAppliesEachContextsOwnListenerAndDistanceModel(t *testing.T) {
	d := openTestDevice(t)
	backend := d.backend.(*LoopbackBackend)

	ctxA, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	ctxB, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	// Only ctxA is ever made current; ctxB's source must still render using
	// ctxB's own listener rather than being silently dropped or mixed
	// against ctxA's listener.
	if err := MakeContextCurrent(ctxA); err != NoError {
		t.Fatalf("MakeContextCurrent failed: %v", err)
	}
	ctxB.Listener.Position = Vec3{X: 1000, Y: 0, Z: 0}

	b := newTestBuffer(t, 256, 1)
	data := make([]byte, 256*2)
	for i := 0; i < 256; i++ {
		v := int16(10000)
		data[2*i] = byte(v)
		data[2*i+1] = byte(v >> 8)
	}
	if err := b.SetData(data, FormatS16, 1, 44100); err != NoError {
		t.Fatalf("SetData failed: %v", err)
	}

	names := ctxB.GenSources(1)
	s := ctxB.Source(names[0])
	if err := s.SetBuffer(b); err != NoError {
		t.Fatalf("SetBuffer failed: %v", err)
	}
	// Positioned at the listener's own location so distance attenuation
	// does not zero it out; only a wrong (ctxA) listener reference could
	// silently mute or mis-render this source.
	s.Position = ctxB.Listener.Position

	if err := s.Play(); err != NoError {
		t.Fatalf("Play failed: %v", err)
	}

	if err := d.Render(64); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	var sawSound bool
	for _, v := range backend.Blocks()[0] {
		if v != 0 {
			sawSound = true
			break
		}
	}
	if !sawSound {
		t.Error("a source on a context that is not current should still be rendered using its own context's listener")
	}
}

func TestRenderAdvancesSourceAndStopsAtBufferEnd(t *testing.T) {
	d := openTestDevice(t)
	ctx, err := CreateContext(d, DefaultContextAttrs(d))
	if err != nil {
		t.Fatalf("CreateContext failed: %v", err)
	}
	names := ctx.GenSources(1)
	s := ctx.Source(names[0])

	b := NewBuffer()
	data := make([]byte, 32*2) // 32 mono S16 frames at source rate == device rate
	if err := b.SetData(data, FormatS16, 1, 44100); err != NoError {
		t.Fatalf("SetData failed: %v", err)
	}
	if err := s.QueueBuffers([]*Buffer{b}); err != NoError {
		t.Fatalf("QueueBuffers failed: %v", err)
	}
	if err := s.Play(); err != NoError {
		t.Fatalf("Play failed: %v", err)
	}

	if err := d.Render(64); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if s.State() != SourceStopped {
		t.Errorf("a streaming source should stop once its only buffer is exhausted, got %v", s.State())
	}
}
