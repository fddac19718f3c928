// effect_echo.go - feedback delay echo effect, second EffectState (§4.5)

package alengine

// EchoParams holds the validated parameter set for one echo instance.
type EchoParams struct {
	Delay       float32 // seconds, 0..0.207
	LRDelay     float32 // seconds, 0..0.404
	Damping     float32 // 0..1, one-pole lowpass coefficient on the tap
	Feedback    float32 // 0..1
	Spread      float32 // -1..1, stereo cross-feed between the two taps
}

func NewEchoParams() EchoParams {
	return EchoParams{Delay: 0.1, LRDelay: 0.1, Damping: 0.5, Feedback: 0.5, Spread: -1}
}

// ValidateEchoParams clamps each field into its legal range and reports
// whether any clamping was necessary.
func ValidateEchoParams(p *EchoParams) bool {
	orig := *p
	p.Delay = clampf(p.Delay, 0, 0.207)
	p.LRDelay = clampf(p.LRDelay, 0, 0.404)
	p.Damping = clampf(p.Damping, 0, 1)
	p.Feedback = clampf(p.Feedback, 0, 1)
	p.Spread = clampf(p.Spread, -1, 1)
	return *p != orig
}

const echoMaxDelaySamples = 1 << 16

// EchoState is the DSP instance backing one echo-typed EffectSlot: two
// feedback delay lines (left tap, right tap offset by LRDelay) each with
// a one-pole damping filter in the feedback path.
type EchoState struct {
	sampleRate uint32
	params     EchoParams
	gains      []float32

	tapA, tapB         []float32
	posA, posB         int
	dampA, dampB       onePole
}

func NewEchoState() *EchoState {
	return &EchoState{
		tapA:   make([]float32, echoMaxDelaySamples),
		tapB:   make([]float32, echoMaxDelaySamples),
		params: NewEchoParams(),
	}
}

func (e *EchoState) DeviceUpdate(sampleRate uint32, layout ChannelLayout) {
	e.sampleRate = sampleRate
	e.gains = make([]float32, layout.Channels())
}

func (e *EchoState) Update(params EffectParams, slotGain float32, layout ChannelLayout) {
	e.params = params.Echo
	ValidateEchoParams(&e.params)
	if len(e.gains) != layout.Channels() {
		e.gains = make([]float32, layout.Channels())
	}
	for i := range e.gains {
		e.gains[i] = slotGain
	}
	hf := 5000 - e.params.Damping*4000
	if e.sampleRate > 0 {
		e.dampA.setLowpass(float32(e.sampleRate), hf, 1-e.params.Damping*0.5)
		e.dampB.setLowpass(float32(e.sampleRate), hf, 1-e.params.Damping*0.5)
	}
}

func (e *EchoState) Process(n int, in []float32, out [][]float32) {
	if e.sampleRate == 0 {
		return
	}
	delayA := clampInt(int(e.params.Delay*float32(e.sampleRate)), 1, len(e.tapA)-1)
	delayB := clampInt(int((e.params.Delay+e.params.LRDelay)*float32(e.sampleRate)), 1, len(e.tapB)-1)

	for i := 0; i < n && i < len(in); i++ {
		readA := ((e.posA-delayA)%len(e.tapA) + len(e.tapA)) % len(e.tapA)
		readB := ((e.posB-delayB)%len(e.tapB) + len(e.tapB)) % len(e.tapB)
		outA := e.tapA[readA]
		outB := e.tapB[readB]

		fedA := e.dampA.process(outA) * e.params.Feedback
		fedB := e.dampB.process(outB) * e.params.Feedback

		crossA := lerpf(fedA, fedB, clampf((e.params.Spread+1)/2, 0, 1))
		crossB := lerpf(fedB, fedA, clampf((e.params.Spread+1)/2, 0, 1))

		e.tapA[e.posA] = in[i] + crossA
		e.tapB[e.posB] = in[i] + crossB
		e.posA = (e.posA + 1) % len(e.tapA)
		e.posB = (e.posB + 1) % len(e.tapB)

		wetL := outA
		wetR := outB
		for ch := range out {
			if ch >= len(e.gains) || len(out[ch]) <= i {
				continue
			}
			if ch%2 == 0 {
				out[ch][i] += wetL * e.gains[ch]
			} else {
				out[ch][i] += wetR * e.gains[ch]
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
