//go:build !headless

// backend_oto.go - real playback backend via ebitengine/oto/v3 (§6.4)

package alengine

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoBackend drives actual speaker output through oto, the same
// cross-platform playback library used for real-time synthesis in the
// wider example corpus. Oto only accepts bytes from an io.Reader, so
// Write pushes each rendered float32 block, converted to little-endian
// int16 PCM, through an internal pipe the player continuously drains.
type OtoBackend struct {
	ctx    *oto.Context
	player *oto.Player

	mu  sync.Mutex
	buf bytes.Buffer

	channels int
}

type otoReader struct{ b *OtoBackend }

func (r otoReader) Read(p []byte) (int, error) {
	r.b.mu.Lock()
	defer r.b.mu.Unlock()
	if r.b.buf.Len() == 0 {
		// Starve with silence rather than blocking; oto expects Read to
		// return promptly even with nothing queued yet.
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	return r.b.buf.Read(p)
}

func NewOtoBackend() *OtoBackend { return &OtoBackend{} }

func (b *OtoBackend) Open(sampleRate uint32, channels ChannelLayout, updateSize int) error {
	b.channels = channels.Channels()
	opts := &oto.NewContextOptions{
		SampleRate:   int(sampleRate),
		ChannelCount: b.channels,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return err
	}
	<-ready
	b.ctx = ctx
	b.player = ctx.NewPlayer(otoReader{b})
	b.player.Play()
	return nil
}

func (b *OtoBackend) Write(frames []float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	var tmp [2]byte
	for _, f := range frames {
		s := int16(clampf(f, -1, 1) * 32767)
		binary.LittleEndian.PutUint16(tmp[:], uint16(s))
		b.buf.Write(tmp[:])
	}
	return nil
}

func (b *OtoBackend) Close() error {
	if b.player != nil {
		if err := b.player.Close(); err != nil && err != io.EOF {
			return err
		}
	}
	return nil
}
