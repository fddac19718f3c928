// backend.go - output backend trait (§6.4; concrete platform audio
// backends are out of scope, this defines only the seam)

package alengine

// Backend is the seam between the mixer's render loop and wherever
// rendered frames actually go. A concrete platform audio backend is out
// of this package's scope (§1 Non-goals); Backend exists so the loopback
// and null reference implementations, and an application-supplied real
// backend (oto, a test double, a file writer), all plug into the same
// Device/Context machinery the same way.
type Backend interface {
	// Open is called once, after the device has negotiated its format,
	// so the backend can start whatever playback device or buffer it
	// needs at that sample rate/channel layout/update size.
	Open(sampleRate uint32, channels ChannelLayout, updateSize int) error

	// Write delivers one fully rendered, interleaved update-size block
	// of frames (len(frames) == updateSize*channels.Channels()).
	Write(frames []float32) error

	// Close releases whatever Open acquired.
	Close() error
}
