// backend_null.go - discard-everything backend (§6.4)

package alengine

// NullBackend discards every rendered block. Useful for exercising the
// mixer's timing and state-machine side effects (buffers becoming
// processed, sources stopping at queue end) without the memory cost of
// LoopbackBackend's retained history.
type NullBackend struct{}

func NewNullBackend() *NullBackend { return &NullBackend{} }

func (NullBackend) Open(sampleRate uint32, channels ChannelLayout, updateSize int) error { return nil }
func (NullBackend) Write(frames []float32) error                                        { return nil }
func (NullBackend) Close() error                                                         { return nil }
