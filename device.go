// device.go - Device object: output format, named-object registries, lifecycle (§3 Device, §4.2)

package alengine

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// DeviceState is the coarse lifecycle a Device moves through between
// Open and Close (§4.2).
type DeviceState int

const (
	DeviceClosed DeviceState = iota
	DeviceOpen
)

// Device owns the output format, the backend driving it, every
// device-scoped named object (buffers and data buffers; sources and
// effect slots belong to whichever Context generated them, §3 Context)
// reachable by integer name, the mix-generation publish counter sources
// and the mixer coordinate through, and the connected/last-error pair
// every attached context's failures ultimately surface through (§3
// Device, §5).
type Device struct {
	mu sync.Mutex

	state DeviceState

	SampleRate uint32
	Channels   ChannelLayout
	UpdateSize int // frames per render call
	NumUpdates int

	// MaxSources bounds a context's MonoSources+StereoSources request;
	// MaxSendsAbsolute bounds a context's MaxAuxiliarySends request
	// (§4.2 create_context validation).
	MaxSources       int
	MaxSendsAbsolute int

	Hrtf       *HrtfStore
	HrtfActive bool
	Crossfeed  *Crossfeed

	// loopback marks a device opened via OpenLoopbackDevice: create_context
	// then requires the loopback-only FormatChannels/FormatType attributes
	// (§4.2), and progress comes only from explicit Render calls rather
	// than a backend driving its own callback thread.
	loopback bool
	backend  Backend

	buffers     map[uint32]*Buffer
	dataBuffers map[uint32]*DataBuffer

	nextName uint32

	gen mixGeneration

	contexts []*Context

	// connected is read from the mixer's own goroutine and from any
	// application thread without holding mu (§4.8: DeviceGone is sticky
	// and must never block a Source.Play check behind whatever lock an
	// unrelated Gen/Delete call is holding).
	connected atomic.Bool
	lastError ALError

	log Logger
}

// OpenDevice constructs a Device bound to backend, negotiating the output
// format per §8's ValidDeviceFormat rules, and defaults matching the
// OpenAL-specified context-attribute defaults (§4.2).
func OpenDevice(backend Backend, sampleRate uint32, channels ChannelLayout, updateSize, numUpdates int, log Logger) (*Device, error) {
	if !ValidDeviceFormat(sampleRate, channels, FormatF32) {
		return nil, fmt.Errorf("invalid device format: %dHz, %d channels", sampleRate, channels.Channels())
	}
	if log == nil {
		log = NopLogger{}
	}
	d := &Device{
		state:            DeviceOpen,
		SampleRate:       sampleRate,
		Channels:         channels,
		UpdateSize:       updateSize,
		NumUpdates:       numUpdates,
		MaxSources:       512,
		MaxSendsAbsolute: MaxSends,
		Crossfeed:        NewCrossfeed(),
		buffers:          make(map[uint32]*Buffer),
		dataBuffers:      make(map[uint32]*DataBuffer),
		nextName:         1,
		backend:          backend,
		log:              log,
	}
	d.connected.Store(true)
	d.Crossfeed.DeviceUpdate(sampleRate)
	if err := backend.Open(sampleRate, channels, updateSize); err != nil {
		return nil, err
	}
	log.Infof("device opened: %dHz %d channels, update=%d x%d", sampleRate, channels.Channels(), updateSize, numUpdates)
	return d, nil
}

// OpenLoopbackDevice opens a device in loopback mode: the caller drives it
// through Render (ValidDeviceFormat checks a candidate format), and every
// context created on it must negotiate an explicit FormatChannels/FormatType
// pair instead of inheriting the device's own format (§4.2, §6.1).
func OpenLoopbackDevice(backend Backend, sampleRate uint32, channels ChannelLayout, updateSize, numUpdates int, log Logger) (*Device, error) {
	d, err := OpenDevice(backend, sampleRate, channels, updateSize, numUpdates, log)
	if err != nil {
		return nil, err
	}
	d.loopback = true
	return d, nil
}

// Close tears the device down, releasing the backend. Any contexts still
// attached are detached first.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DeviceOpen {
		return nil
	}
	d.state = DeviceClosed
	d.contexts = nil
	err := d.backend.Close()
	d.log.Infof("device closed")
	return err
}

// Connected reports the device's live/gone flag (§3 Device, §4.8).
func (d *Device) Connected() bool { return d.connected.Load() }

// MarkDisconnected implements §4.8's sticky DeviceGone failure: once a
// backend reports a fatal loss, connected flips to false and every source
// on every attached context is forced to Stopped, so a subsequent Play
// call observes the device gone rather than resuming playback (§4.3,
// §4.8). Safe to call from the mixer's own goroutine or an application
// thread.
func (d *Device) MarkDisconnected() {
	d.connected.Store(false)
	d.mu.Lock()
	d.lastError = InvalidDevice
	contexts := append([]*Context(nil), d.contexts...)
	d.mu.Unlock()
	for _, ctx := range contexts {
		for _, s := range ctx.AllSources() {
			s.Stop()
		}
	}
	d.log.Warnf("device reported disconnected; every source forced to Stopped")
}

// LastError returns and clears the device's sticky error slot (§4.8:
// GetError returns and clears, never raises).
func (d *Device) LastError() ALError {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.lastError
	d.lastError = NoError
	return e
}

func (d *Device) setLastError(e ALError) {
	d.mu.Lock()
	d.lastError = e
	d.mu.Unlock()
}

func (d *Device) allocName() uint32 {
	n := d.nextName
	d.nextName++
	return n
}

// GenBuffers allocates n new buffer names.
func (d *Device) GenBuffers(n int) []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]uint32, n)
	for i := range names {
		name := d.allocName()
		d.buffers[name] = NewBuffer()
		names[i] = name
	}
	return names
}

// DeleteBuffers removes buffer names, refusing (InvalidOperation) if any
// named buffer is still referenced by a source queue.
func (d *Device) DeleteBuffers(names []uint32) ALError {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range names {
		b, ok := d.buffers[n]
		if !ok {
			return InvalidName
		}
		if b.RefCount() > 0 {
			return InvalidOperation
		}
	}
	for _, n := range names {
		delete(d.buffers, n)
	}
	return NoError
}

func (d *Device) Buffer(name uint32) *Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buffers[name]
}

// LoadHrtfFile loads and attaches an HRTF dataset, making it eligible for
// per-source spatialization once a context enables HRTF (§4.6).
func (d *Device) LoadHrtfFile(path string) error {
	store, err := LoadHrtf(path)
	if err != nil {
		return err
	}
	d.mu.Lock()
	d.Hrtf = store
	d.mu.Unlock()
	return nil
}
