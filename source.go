// source.go - Source object: 3D parameters and playback state machine (§4.3)

package alengine

import "sync"

// SourceState is the play/pause/stop/initial state machine §4.3 defines.
type SourceState int

const (
	SourceInitial SourceState = iota
	SourcePlaying
	SourcePaused
	SourceStopped
)

// SourceType reports whether a source is bound to one static buffer, a
// streaming queue, or has no buffer attached yet.
type SourceType int

const (
	SourceUndetermined SourceType = iota
	SourceStatic
	SourceStreaming
)

const MaxSends = 4

// SourceSend is one auxiliary effect-slot send: the target slot and a
// filter setting. The mixer does not apply Filter; a send reaches its
// slot unfiltered.
type SourceSend struct {
	Slot   *EffectSlot
	Filter Filter
}

// Source is one playable sound emitter: its 3D placement, gain/distance/
// cone parameters, direct and per-send filters, buffer queue and playback
// cursor (§3 Source).
type Source struct {
	mu sync.Mutex

	// device backlinks to the device this source was generated on (set by
	// Context.GenSources), letting Play observe the sticky DeviceGone
	// failure (§4.3, §4.8) and UnqueueBuffers reach the mix-generation
	// counter (§5). nil for a source constructed directly by NewSource,
	// e.g. in isolation by tests.
	device *Device

	Name uint32

	// Spatial properties.
	Position    Vec3
	Velocity    Vec3
	Direction   Vec3
	Relative    bool

	// Gain and distance-model parameters.
	Gain              float32
	MinGain           float32
	MaxGain           float32
	Pitch             float32
	ReferenceDistance float32
	MaxDistance       float32
	RolloffFactor     float32
	RoomRolloffFactor float32
	DopplerFactor     float32

	// Cone parameters, degrees.
	ConeInnerAngle float32
	ConeOuterAngle float32
	ConeOuterGain  float32
	ConeOuterGainHF float32

	// Spatial spread used by the HRTF path (radians; 0 = point source).
	Spread float32

	Looping    bool
	Resampler  ResamplerKind
	DirectFilter Filter
	Sends      [MaxSends]SourceSend
	DirectChannels bool
	SpatializeAuto bool // true: spatialize unless Mono==false and auto-disabled

	state SourceState
	typ   SourceType

	queueHead *queueNode
	queueTail *queueNode
	current   *queueNode
	cursor    Cursor

	buffersProcessed int

	hrtfState []*HrtfChannelState
	history   []channelHistory
}

// NewSource returns a source with the OpenAL-specified default parameter
// values (§3 Source defaults).
func NewSource() *Source {
	return &Source{
		Gain:              1,
		MinGain:           0,
		MaxGain:           1,
		Pitch:             1,
		ReferenceDistance: 1,
		MaxDistance:       float32(3.402823466e+38),
		RolloffFactor:     1,
		DopplerFactor:     1,
		ConeInnerAngle:    360,
		ConeOuterAngle:    360,
		ConeOuterGain:     0,
		ConeOuterGainHF:   1,
		Resampler:         ResamplerLinear,
		DirectFilter:      *NewFilter(),
		SpatializeAuto:    true,
		state:             SourceInitial,
		typ:               SourceUndetermined,
	}
}

func (s *Source) State() SourceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Source) Type() SourceType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typ
}

// Play transitions Initial/Stopped/Paused -> Playing. Restarting a
// Stopped source rewinds to the queue head (§4.3 transition table); a
// Paused source resumes from its retained cursor.
func (s *Source) Play() ALError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.device != nil && !s.device.Connected() {
		s.state = SourceStopped
		return NoError
	}
	if s.queueHead == nil {
		return InvalidOperation
	}
	switch s.state {
	case SourcePaused:
		// resume in place
	default:
		s.current = s.queueHead
		s.cursor = NewCursor(0)
		s.buffersProcessed = 0
		for i := range s.history {
			s.history[i].reset()
		}
	}
	s.state = SourcePlaying
	return NoError
}

func (s *Source) Pause() ALError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SourcePlaying {
		return NoError
	}
	s.state = SourcePaused
	return NoError
}

// Stop halts playback, retaining the queue contents but marking every
// queued buffer processed, ready for an application to unqueue them
// (§4.3: a Stopped source's whole queue becomes "processed").
func (s *Source) Stop() ALError {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SourceStopped
	s.current = nil
	count := 0
	for n := s.queueHead; n != nil; n = n.next {
		count++
	}
	s.buffersProcessed = count
	return NoError
}

// Rewind returns a source to Initial with the cursor reset to the queue
// head; the processed count goes back to zero, since no queued buffer
// lies before the cursor any more.
func (s *Source) Rewind() ALError {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SourceInitial
	s.current = s.queueHead
	s.cursor = NewCursor(0)
	s.buffersProcessed = 0
	for i := range s.history {
		s.history[i].reset()
	}
	return NoError
}

// BuffersQueued and BuffersProcessed back the AL_BUFFERS_QUEUED/PROCESSED
// integer queries.
func (s *Source) BuffersQueued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for c := s.queueHead; c != nil; c = c.next {
		n++
	}
	return n
}

func (s *Source) BuffersProcessed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffersProcessed
}

// ensureChannelState lazily sizes the per-channel resampler history and
// HRTF convolution state to match a newly attached buffer's channel count.
func (s *Source) ensureChannelState(channels int, irSize int) {
	if len(s.history) != channels {
		s.history = make([]channelHistory, channels)
	}
	if irSize > 0 && len(s.hrtfState) != channels {
		s.hrtfState = make([]*HrtfChannelState, channels)
		for i := range s.hrtfState {
			s.hrtfState[i] = NewHrtfChannelState(irSize)
		}
	}
}
