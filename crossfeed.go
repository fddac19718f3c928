// crossfeed.go - BS2B-style headphone crossfeed (§4.4 step 6)

package alengine

// Crossfeed narrows a stereo signal's perceived width for headphone
// listening by mixing a delayed copy of each channel into its opposite,
// approximating the natural head-related crossfeed a speaker pair provides
// and a pair of headphones does not. Its onePole stages are configured
// with unity gainHF, so the delayed copy is passed through unfiltered.
type Crossfeed struct {
	sampleRate uint32
	lowpass    [2]onePole
	delayLine  [2][]float32
	delayPos   int
	delayLen   int
	feedGain   float32
}

const crossfeedDelayMS = 0.3
const crossfeedCutoffHz = 700
const crossfeedFeedGain = 0.3

func NewCrossfeed() *Crossfeed {
	return &Crossfeed{feedGain: crossfeedFeedGain}
}

func (c *Crossfeed) DeviceUpdate(sampleRate uint32) {
	c.sampleRate = sampleRate
	c.delayLen = maxInt(1, int(crossfeedDelayMS*float32(sampleRate)/1000))
	c.delayLine[0] = make([]float32, c.delayLen)
	c.delayLine[1] = make([]float32, c.delayLen)
	c.delayPos = 0
	c.lowpass[0].setLowpass(float32(sampleRate), crossfeedCutoffHz, 1)
	c.lowpass[1].setLowpass(float32(sampleRate), crossfeedCutoffHz, 1)
}

// Process applies crossfeed in place to a stereo pair, left/right sliced
// per-frame.
func (c *Crossfeed) Process(left, right []float32) {
	if c.delayLen == 0 {
		return
	}
	for i := range left {
		if i >= len(right) {
			break
		}
		delayedL := c.delayLine[0][c.delayPos]
		delayedR := c.delayLine[1][c.delayPos]
		c.delayLine[0][c.delayPos] = left[i]
		c.delayLine[1][c.delayPos] = right[i]
		c.delayPos = (c.delayPos + 1) % c.delayLen

		crossToR := c.lowpass[0].process(delayedL) * c.feedGain
		crossToL := c.lowpass[1].process(delayedR) * c.feedGain
		left[i] = left[i]*(1-c.feedGain) + crossToL
		right[i] = right[i]*(1-c.feedGain) + crossToR
	}
}

func (c *Crossfeed) Reset() {
	for i := range c.delayLine {
		for j := range c.delayLine[i] {
			c.delayLine[i][j] = 0
		}
	}
	c.lowpass[0].reset()
	c.lowpass[1].reset()
}
