// clickremover.go - per-channel gain-step smoothing (§4.4 step 6)

package alengine

// ClickRemover smooths a discontinuous per-channel gain change (a source's
// gain, pan or filter target moving between render passes) over a fixed
// number of frames instead of stepping it instantly, avoiding the audible
// click a hard jump produces.
type ClickRemover struct {
	current []float32
	target  []float32
	step    []float32
	counter int
}

// ClickRemoverFrames is how many frames a gain change takes to settle.
const ClickRemoverFrames = 128

func NewClickRemover(channels int) *ClickRemover {
	return &ClickRemover{current: make([]float32, channels), target: make([]float32, channels), step: make([]float32, channels)}
}

// SetTargets begins a new ramp from the current gains toward targets.
func (c *ClickRemover) SetTargets(targets []float32) {
	if len(targets) != len(c.current) {
		c.current = make([]float32, len(targets))
		c.target = make([]float32, len(targets))
		c.step = make([]float32, len(targets))
	}
	for i, t := range targets {
		c.target[i] = t
		c.step[i] = (t - c.current[i]) / float32(ClickRemoverFrames)
	}
	c.counter = ClickRemoverFrames
}

// Next advances the ramp by one frame and returns the current per-channel
// gain vector to apply.
func (c *ClickRemover) Next() []float32 {
	if c.counter > 0 {
		for i := range c.current {
			c.current[i] += c.step[i]
		}
		c.counter--
	} else {
		copy(c.current, c.target)
	}
	return c.current
}

// Snap forces the ramp to its target immediately and clears the remaining
// ramp count, so the next Process call returns the target gains.
func (c *ClickRemover) Snap() {
	copy(c.current, c.target)
	c.counter = 0
}
