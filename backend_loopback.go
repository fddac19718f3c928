// backend_loopback.go - in-process reference backend (§6.4)

package alengine

import "sync"

// LoopbackBackend retains every rendered block in memory instead of
// sending it anywhere, the mandatory reference backend this package ships
// since it has no platform audio output of its own (§1 Non-goals, §6.4).
// Tests and the CLI demo drive the mixer against it and inspect the
// captured frames directly.
type LoopbackBackend struct {
	mu     sync.Mutex
	blocks [][]float32
}

func NewLoopbackBackend() *LoopbackBackend { return &LoopbackBackend{} }

func (b *LoopbackBackend) Open(sampleRate uint32, channels ChannelLayout, updateSize int) error {
	return nil
}

func (b *LoopbackBackend) Write(frames []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]float32, len(frames))
	copy(cp, frames)
	b.blocks = append(b.blocks, cp)
	return nil
}

func (b *LoopbackBackend) Close() error { return nil }

// Blocks returns every block captured so far, in render order.
func (b *LoopbackBackend) Blocks() [][]float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]float32, len(b.blocks))
	copy(out, b.blocks)
	return out
}

// TotalFrames sums the frame count across every captured block for one
// channel layout width.
func (b *LoopbackBackend) TotalFrames(channels int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, blk := range b.blocks {
		if channels > 0 {
			total += len(blk) / channels
		}
	}
	return total
}
