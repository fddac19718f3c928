// context.go - Context lifecycle, named-object ownership, create_context attribute parsing (§3 Context, §4.2)

package alengine

import (
	"fmt"
	"sync"
)

// ContextAttrs mirrors the attribute-list pairs an application can pass to
// create_context: requested frequency/refresh/sync, the per-context source
// and send limits, the loopback-only format pair, and the HRTF toggle this
// engine layers on top of stock OpenAL attributes (§4.2, §4.6).
type ContextAttrs struct {
	Frequency         uint32
	Refresh           uint32
	Sync              bool
	MonoSources       int
	StereoSources     int
	MaxAuxiliarySends int
	HrtfRequested     bool

	// FormatChannels/FormatType only apply to a context created on a
	// loopback device (§4.2); hasFormatChannels/hasFormatType record
	// whether the attribute list actually supplied them, since the zero
	// value of either type is itself a valid setting.
	FormatChannels    ChannelLayout
	FormatType        SampleFormat
	hasFormatChannels bool
	hasFormatType     bool
}

// DefaultContextAttrs mirrors the device's negotiated format and OpenAL's
// stock source/send defaults when an application passes no explicit
// attribute list.
func DefaultContextAttrs(d *Device) ContextAttrs {
	return ContextAttrs{
		Frequency:         d.SampleRate,
		MonoSources:       256,
		StereoSources:     16,
		MaxAuxiliarySends: 2,
	}
}

var contextFormatChannelsKeys = map[int32]ChannelLayout{
	0x1500: Mono,
	0x1501: Stereo,
	0x1503: Quad,
	0x1504: Layout51,
	0x1505: Layout61,
	0x1506: Layout71,
}

var contextFormatTypeKeys = map[int32]SampleFormat{
	0x1400: FormatS8,
	0x1401: FormatU8,
	0x1402: FormatS16,
	0x1403: FormatU16,
	0x1405: FormatF32,
}

// ParseContextAttrs reads an OpenAL-style flat key/value attribute list
// (terminated by a zero key), the wire format create_context receives
// (§4.2).
func ParseContextAttrs(raw []int32) (ContextAttrs, error) {
	a := ContextAttrs{MonoSources: 256, StereoSources: 16}
	for i := 0; i+1 < len(raw); i += 2 {
		key := raw[i]
		if key == 0 {
			break
		}
		val := raw[i+1]
		switch key {
		case 0x1007: // ALC_FREQUENCY
			a.Frequency = uint32(val)
		case 0x1008: // ALC_REFRESH
			a.Refresh = uint32(val)
		case 0x1009: // ALC_SYNC
			a.Sync = val != 0
		case 0x1010: // ALC_MONO_SOURCES
			a.MonoSources = int(val)
		case 0x1011: // ALC_STEREO_SOURCES
			a.StereoSources = int(val)
		case 0x20003: // ALC_MAX_AUXILIARY_SENDS
			a.MaxAuxiliarySends = int(val)
		case 0x1990: // ALC_FORMAT_CHANNELS_SOFT (loopback only)
			layout, ok := contextFormatChannelsKeys[val]
			if !ok {
				return a, fmt.Errorf("unsupported loopback format channels 0x%x", val)
			}
			a.FormatChannels = layout
			a.hasFormatChannels = true
		case 0x1991: // ALC_FORMAT_TYPE_SOFT (loopback only)
			typ, ok := contextFormatTypeKeys[val]
			if !ok {
				return a, fmt.Errorf("unsupported loopback format type 0x%x", val)
			}
			a.FormatType = typ
			a.hasFormatType = true
		case 0x1992: // ALC_HRTF_SOFT
			a.HrtfRequested = val != 0
		default:
			return a, fmt.Errorf("unknown context attribute key 0x%x", key)
		}
	}
	return a, nil
}

// Context is one rendering context bound to a device: its listener, its
// own name->Source and name->EffectSlot registries, the distance-model/
// doppler state an application mutates via alDistanceModel and friends,
// and the HRTF enable flag negotiated at creation (§3 Context). Sources
// and effect slots belong to exactly one context; buffers and data
// buffers stay device-scoped and are shared across every context on that
// device.
type Context struct {
	device   *Device
	Listener *Listener
	Attrs    ContextAttrs

	// mu guards this struct's own small AL-state fields below. Source and
	// effect-slot map access instead locks device.mu directly, per §4.7's
	// single context lock covering "device object lifecycle list, source
	// maps, effect-slot maps, active-source scratch array".
	mu            sync.Mutex
	distanceModel DistanceModel
	speedOfSound  float32
	dopplerFactor float32
	suspended     bool
	lastError     ALError

	sources     map[uint32]*Source
	effectSlots map[uint32]*EffectSlot
}

// CreateContext constructs a context for device, validating attrs per
// §4.2: frequency must be at least 8000Hz (defaulting to the device's own
// rate when unset), MonoSources+StereoSources must fit within the
// device's source budget, MaxAuxiliarySends must fit within the device's
// absolute send budget, and a loopback device requires both FormatChannels
// and FormatType to be present.
func CreateContext(d *Device, attrs ContextAttrs) (*Context, error) {
	if d.state != DeviceOpen {
		return nil, fmt.Errorf("cannot create context on closed device")
	}
	if attrs.Frequency == 0 {
		attrs.Frequency = d.SampleRate
	}
	if attrs.Frequency < 8000 {
		return nil, fmt.Errorf("context frequency %dHz below the 8000Hz minimum", attrs.Frequency)
	}
	if attrs.MonoSources+attrs.StereoSources > d.MaxSources {
		return nil, fmt.Errorf("mono+stereo source request %d exceeds device limit %d", attrs.MonoSources+attrs.StereoSources, d.MaxSources)
	}
	if attrs.MaxAuxiliarySends < 0 || attrs.MaxAuxiliarySends > d.MaxSendsAbsolute {
		return nil, fmt.Errorf("max auxiliary sends %d out of range [0,%d]", attrs.MaxAuxiliarySends, d.MaxSendsAbsolute)
	}
	if d.loopback && (!attrs.hasFormatChannels || !attrs.hasFormatType) {
		return nil, fmt.Errorf("loopback device context requires FormatChannels and FormatType attributes")
	}

	ctx := &Context{
		device:        d,
		Listener:      NewListener(),
		Attrs:         attrs,
		distanceModel: DistanceInverseClamped,
		speedOfSound:  343.3,
		dopplerFactor: 1,
		sources:       make(map[uint32]*Source),
		effectSlots:   make(map[uint32]*EffectSlot),
	}
	if attrs.HrtfRequested && d.Hrtf != nil {
		d.HrtfActive = true
	}
	d.mu.Lock()
	d.contexts = append(d.contexts, ctx)
	d.mu.Unlock()
	return ctx, nil
}

// Destroy frees every source and effect slot this context owns (§4.2:
// "Destruction frees all its sources and slots"), detaches the context
// from its device, and clears it from the process-global and thread-local
// current-context slots if it was current in either.
func (c *Context) Destroy() {
	clearCurrentIfMatches(c)
	clearThreadContextIfCurrent(c)

	c.device.mu.Lock()
	sources := c.sources
	c.sources = nil
	c.effectSlots = nil
	for i, other := range c.device.contexts {
		if other == c {
			c.device.contexts = append(c.device.contexts[:i], c.device.contexts[i+1:]...)
			break
		}
	}
	c.device.mu.Unlock()

	for _, s := range sources {
		s.forceRelease()
	}
}

func (c *Context) Device() *Device { return c.device }

// GenSources allocates n new source names on this context.
func (c *Context) GenSources(n int) []uint32 {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	names := make([]uint32, n)
	for i := range names {
		name := c.device.allocName()
		s := NewSource()
		s.device = c.device
		c.sources[name] = s
		names[i] = name
	}
	return names
}

// DeleteSources removes source names, refusing (InvalidOperation) if any
// named source is still playing or paused.
func (c *Context) DeleteSources(names []uint32) ALError {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	for _, n := range names {
		s, ok := c.sources[n]
		if !ok {
			return InvalidName
		}
		switch s.State() {
		case SourcePlaying, SourcePaused:
			return InvalidOperation
		}
	}
	for _, n := range names {
		c.sources[n].forceRelease()
		delete(c.sources, n)
	}
	return NoError
}

func (c *Context) Source(name uint32) *Source {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	return c.sources[name]
}

// AllSources returns a snapshot of every live source on this context, the
// set the mixer renders each pass (§4.4 step 1: "freeze inputs under
// device lock").
func (c *Context) AllSources() []*Source {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	out := make([]*Source, 0, len(c.sources))
	for _, s := range c.sources {
		out = append(out, s)
	}
	return out
}

// GenEffectSlots allocates n new effect-slot names on this context.
func (c *Context) GenEffectSlots(n int) []uint32 {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	names := make([]uint32, n)
	for i := range names {
		name := c.device.allocName()
		slot := NewEffectSlot()
		slot.DeviceUpdate(c.device.SampleRate, c.device.Channels, c.device.UpdateSize)
		c.effectSlots[name] = slot
		names[i] = name
	}
	return names
}

// DeleteEffectSlots removes effect-slot names, refusing (InvalidOperation)
// if any named slot is still referenced by a source send.
func (c *Context) DeleteEffectSlots(names []uint32) ALError {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	for _, n := range names {
		slot, ok := c.effectSlots[n]
		if !ok {
			return InvalidName
		}
		if slot.RefCount() > 0 {
			return InvalidOperation
		}
	}
	for _, n := range names {
		delete(c.effectSlots, n)
	}
	return NoError
}

func (c *Context) EffectSlot(name uint32) *EffectSlot {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	return c.effectSlots[name]
}

// AllEffectSlots returns a snapshot of every live effect slot on this
// context, the set the mixer processes each pass for wet output (§4.4
// step 5).
func (c *Context) AllEffectSlots() []*EffectSlot {
	c.device.mu.Lock()
	defer c.device.mu.Unlock()
	out := make([]*EffectSlot, 0, len(c.effectSlots))
	for _, s := range c.effectSlots {
		out = append(out, s)
	}
	return out
}

func (c *Context) DistanceModel() DistanceModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.distanceModel
}

func (c *Context) SetDistanceModel(m DistanceModel) {
	c.mu.Lock()
	c.distanceModel = m
	c.mu.Unlock()
}

func (c *Context) DopplerFactor() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dopplerFactor
}

func (c *Context) SetDopplerFactor(f float32) {
	c.mu.Lock()
	c.dopplerFactor = f
	c.mu.Unlock()
}

func (c *Context) SpeedOfSound() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speedOfSound
}

func (c *Context) SetSpeedOfSound(v float32) {
	c.mu.Lock()
	c.speedOfSound = v
	c.mu.Unlock()
}

// Suspend stops the mixer from rendering this context's sources until
// Process is called (§3's process-suspended flag, §6.1's suspend/process
// pair).
func (c *Context) Suspend() {
	c.mu.Lock()
	c.suspended = true
	c.mu.Unlock()
}

// Process resumes mixing for this context after Suspend.
func (c *Context) Process() {
	c.mu.Lock()
	c.suspended = false
	c.mu.Unlock()
}

func (c *Context) Suspended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suspended
}

func (c *Context) LastError() ALError {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.lastError
	c.lastError = NoError
	return e
}

func (c *Context) setLastError(e ALError) {
	c.mu.Lock()
	c.lastError = e
	c.mu.Unlock()
}
