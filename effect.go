// effect.go - auxiliary effect tagged variant and dispatch contract (§4.5)

package alengine

// EffectType tags which effect parameter set and DSP an EffectSlot holds.
type EffectType int

const (
	EffectNull EffectType = iota
	EffectChorus
	EffectEcho
)

// EffectParams is a tagged union of every effect's parameter block. Only
// the field matching Type is meaningful; the others retain their default
// zero value construction.
type EffectParams struct {
	Type   EffectType
	Chorus ChorusParams
	Echo   EchoParams
}

// NewEffectParams returns a zero-value effect (EffectNull) with every
// variant's defaults pre-populated, so switching Type at runtime without
// resetting the whole struct still yields sane parameters.
func NewEffectParams() EffectParams {
	return EffectParams{
		Type:   EffectNull,
		Chorus: NewChorusParams(),
		Echo:   NewEchoParams(),
	}
}

// EffectState is the per-slot DSP instance contract every effect
// implements, mirroring the render pipeline's three call sites: device
// parameter changes, per-update parameter commits, and per-block
// processing (§4.5).
type EffectState interface {
	// DeviceUpdate is called when the device's sample rate or channel
	// layout changes, letting the effect rebuild rate-dependent state
	// (delay line lengths, filter coefficients).
	DeviceUpdate(sampleRate uint32, layout ChannelLayout)

	// Update commits a validated parameter block and the slot's current
	// send gain/target ahead of the next Process call.
	Update(params EffectParams, slotGain float32, layout ChannelLayout)

	// Process consumes n input frames (mono, the effect's one aux-send
	// input channel) accumulated on the slot and mixes n output frames
	// into out, one slice per output channel.
	Process(n int, in []float32, out [][]float32)
}

// NewEffectState constructs the DSP instance matching t, or nil for
// EffectNull (a slot with no effect attached processes nothing).
func NewEffectState(t EffectType) EffectState {
	switch t {
	case EffectChorus:
		return NewChorusState()
	case EffectEcho:
		return NewEchoState()
	default:
		return nil
	}
}
