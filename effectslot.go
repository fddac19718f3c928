// effectslot.go - auxiliary effect slot object (§3, §4.5)

package alengine

import "sync"

// EffectSlot is an auxiliary send target: it owns one EffectState instance
// and the per-update-size accumulation buffer that sources mix their send
// contribution into before Process runs (§4.4 step 5, §4.5).
type EffectSlot struct {
	mu sync.Mutex

	Gain     float32
	AutoAdjust bool

	params EffectParams
	state  EffectState

	sendBuf []float32 // mono accumulation, sized to the device's update length

	refCount int32
}

func NewEffectSlot() *EffectSlot {
	return &EffectSlot{Gain: 1, AutoAdjust: true, params: NewEffectParams()}
}

// SetEffectType swaps the active EffectState, discarding any in-flight DSP
// state from the previous effect (§4.5: changing an effect slot's type
// resets its processor).
func (s *EffectSlot) SetEffectType(t EffectType, sampleRate uint32, layout ChannelLayout) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params.Type = t
	s.state = NewEffectState(t)
	if s.state != nil {
		s.state.DeviceUpdate(sampleRate, layout)
		s.state.Update(s.params, s.Gain, layout)
	}
}

// SetParams validates and commits a parameter block matching the slot's
// current effect type; returns InvalidOperation if the type does not
// match what SetEffectType last established.
func (s *EffectSlot) SetParams(p EffectParams, layout ChannelLayout) ALError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Type != s.params.Type {
		return InvalidOperation
	}
	s.params = p
	if s.state != nil {
		s.state.Update(s.params, s.Gain, layout)
	}
	return NoError
}

// DeviceUpdate propagates a sample-rate or channel-layout change to the
// active effect and resizes the send accumulation buffer.
func (s *EffectSlot) DeviceUpdate(sampleRate uint32, layout ChannelLayout, updateLen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		s.state.DeviceUpdate(sampleRate, layout)
		s.state.Update(s.params, s.Gain, layout)
	}
	if len(s.sendBuf) != updateLen {
		s.sendBuf = make([]float32, updateLen)
	}
}

// AccumulateSend adds one source's per-frame send contribution into the
// slot's mono accumulation buffer (§4.4 step 5).
func (s *EffectSlot) AccumulateSend(frames []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range frames {
		if i >= len(s.sendBuf) {
			break
		}
		s.sendBuf[i] += v
	}
}

// Process runs the active effect over the accumulated send buffer and
// clears it for the next render pass, mixing n frames of wet signal into
// out (§4.4 step 6).
func (s *EffectSlot) Process(n int, out [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		s.state.Process(n, s.sendBuf, out)
	}
	for i := range s.sendBuf {
		s.sendBuf[i] = 0
	}
}

func (s *EffectSlot) Retain()  { s.mu.Lock(); s.refCount++; s.mu.Unlock() }
func (s *EffectSlot) Release() { s.mu.Lock(); s.refCount--; s.mu.Unlock() }
func (s *EffectSlot) RefCount() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refCount
}
