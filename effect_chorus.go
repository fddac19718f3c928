// effect_chorus.go - modulated-delay chorus/flanger effect (§4.5)

package alengine

import "math"

// ChorusWaveform selects the LFO shape modulating the delay tap.
type ChorusWaveform int

const (
	ChorusWaveTriangle ChorusWaveform = iota
	ChorusWaveSine
)

// ChorusParams holds the validated parameter set for one chorus instance.
// Ranges follow the conventional effect parameter limits.
type ChorusParams struct {
	Waveform ChorusWaveform
	Phase    int     // degrees, -180..180
	Rate     float32 // Hz, 0..10
	Depth    float32 // 0..1
	Feedback float32 // -1..1
	Delay    float32 // seconds, 0..0.016
}

func NewChorusParams() ChorusParams {
	return ChorusParams{Waveform: ChorusWaveTriangle, Phase: 90, Rate: 1.1, Depth: 0.1, Feedback: 0.25, Delay: 0.016}
}

// ValidateChorusParams clamps each field into its legal range and reports
// whether any clamping was necessary.
func ValidateChorusParams(p *ChorusParams) bool {
	orig := *p
	p.Phase = int(clampf(float32(p.Phase), -180, 180))
	p.Rate = clampf(p.Rate, 0, 10)
	p.Depth = clampf(p.Depth, 0, 1)
	p.Feedback = clampf(p.Feedback, -1, 1)
	p.Delay = clampf(p.Delay, 0, 0.016)
	return *p != orig
}

const chorusMaxDelaySamples = 1 << 16

// ChorusState is the DSP instance backing one chorus-typed EffectSlot: a
// mono delay line read at a phase-offset, LFO-modulated tap per output
// channel pair, with feedback into the write head.
type ChorusState struct {
	params     ChorusParams
	sampleRate uint32

	// gainsA/gainsB distribute the two LFO taps (the straight phase and
	// the phase-offset one) across output channels as if each tap were a
	// point source panned to -90/+90 degrees azimuth, per §4.5's "angle
	// gains" output stage.
	gainsA []float32
	gainsB []float32

	line     []float32
	writePos int

	lfoPhaseSamples float64
	lfoStepRad      float64
}

func NewChorusState() *ChorusState {
	return &ChorusState{line: make([]float32, chorusMaxDelaySamples), params: NewChorusParams()}
}

func (c *ChorusState) DeviceUpdate(sampleRate uint32, layout ChannelLayout) {
	c.sampleRate = sampleRate
	c.gainsA, c.gainsB = chorusTapGains(layout, 1)
	c.recomputeLfoStep()
}

func (c *ChorusState) Update(params EffectParams, slotGain float32, layout ChannelLayout) {
	c.params = params.Chorus
	ValidateChorusParams(&c.params)
	c.gainsA, c.gainsB = chorusTapGains(layout, slotGain)
	c.recomputeLfoStep()
}

// chorusTapGains precomputes the ±90 degree azimuth angle-gain vectors
// the two LFO taps distribute into, reusing the same panning law the
// mixer applies to positional sources (§4.5).
func chorusTapGains(layout ChannelLayout, slotGain float32) (a, b []float32) {
	a = PanGains(layout, Vec3{X: -1, Y: 0, Z: 0}, slotGain)
	b = PanGains(layout, Vec3{X: 1, Y: 0, Z: 0}, slotGain)
	return
}

func (c *ChorusState) recomputeLfoStep() {
	if c.sampleRate == 0 {
		return
	}
	c.lfoStepRad = 2 * math.Pi * float64(c.params.Rate) / float64(c.sampleRate)
}

func (c *ChorusState) lfoValue(phase float64) float32 {
	switch c.params.Waveform {
	case ChorusWaveSine:
		return float32(math.Sin(phase))
	default:
		// triangle, period 2pi, range [-1,1]
		t := math.Mod(phase, 2*math.Pi)
		if t < 0 {
			t += 2 * math.Pi
		}
		x := t / math.Pi // 0..2
		if x < 1 {
			return float32(2*x - 1)
		}
		return float32(3 - 2*x)
	}
}

func (c *ChorusState) Process(n int, in []float32, out [][]float32) {
	if c.sampleRate == 0 || len(c.line) == 0 {
		return
	}
	baseDelay := c.params.Delay * float32(c.sampleRate)
	depthSamples := c.params.Depth * baseDelay
	phaseOffset := float64(c.params.Phase) * math.Pi / 180

	for i := 0; i < n && i < len(in); i++ {
		lfo := c.lfoValue(c.lfoPhaseSamples)
		lfoB := c.lfoValue(c.lfoPhaseSamples + phaseOffset)

		tapA := baseDelay + depthSamples*lfo
		tapB := baseDelay + depthSamples*lfoB
		sampleA := c.tapAt(tapA)
		sampleB := c.tapAt(tapB)

		wet := (sampleA + sampleB) * 0.5
		c.line[c.writePos] = in[i] + wet*c.params.Feedback
		c.writePos = (c.writePos + 1) % len(c.line)

		for ch := range out {
			if len(out[ch]) <= i {
				continue
			}
			var v float32
			if ch < len(c.gainsA) {
				v += sampleA * c.gainsA[ch]
			}
			if ch < len(c.gainsB) {
				v += sampleB * c.gainsB[ch]
			}
			out[ch][i] += v
		}
		c.lfoPhaseSamples += c.lfoStepRad
	}
}

// tapAt reads the delay line delaySamples behind the write head with
// linear interpolation between the two bracketing integer taps.
func (c *ChorusState) tapAt(delaySamples float32) float32 {
	n := len(c.line)
	if delaySamples < 0 {
		delaySamples = 0
	}
	d0 := int(delaySamples)
	frac := delaySamples - float32(d0)
	i0 := ((c.writePos-d0)%n + n) % n
	i1 := ((c.writePos-d0-1)%n + n) % n
	return lerpf(c.line[i0], c.line[i1], frac)
}
