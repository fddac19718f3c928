package alengine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferSetDataS16(t *testing.T) {
	b := NewBuffer()
	data := []byte{0x00, 0x00, 0xff, 0x7f, 0x00, 0x80} // 0, 32767, -32768
	err := b.SetData(data, FormatS16, 1, 44100)
	require.Equal(t, NoError, err)
	require.Equal(t, uint32(3), b.SampleCount())
	require.Equal(t, uint32(3), b.LoopEnd)

	frame := b.FrameAt(1)
	require.InDelta(t, 0.99996, frame[0], 1e-3)
}

func TestBufferSetDataRefusedWhileReferenced(t *testing.T) {
	b := NewBuffer()
	b.Retain()
	err := b.SetData([]byte{0, 0}, FormatS16, 1, 44100)
	require.Equal(t, InvalidOperation, err)
}

func TestBufferSetLoopPointsValidatesRange(t *testing.T) {
	b := NewBuffer()
	require.Equal(t, NoError, b.SetData(make([]byte, 20), FormatS16, 1, 44100))
	require.Equal(t, uint32(10), b.SampleCount())

	require.Equal(t, NoError, b.SetLoopPoints(2, 8))
	require.Equal(t, InvalidValue, b.SetLoopPoints(8, 2))
	require.Equal(t, InvalidValue, b.SetLoopPoints(0, 100))
}

func TestBufferFrameAtOutOfRangeReturnsNil(t *testing.T) {
	b := NewBuffer()
	require.Equal(t, NoError, b.SetData(make([]byte, 8), FormatS16, 1, 44100))
	require.Nil(t, b.FrameAt(100))
}

func TestBufferRefCountRoundTrip(t *testing.T) {
	b := NewBuffer()
	require.Equal(t, int32(0), b.RefCount())
	b.Retain()
	b.Retain()
	require.Equal(t, int32(2), b.RefCount())
	b.Release()
	require.Equal(t, int32(1), b.RefCount())
}

func TestBufferDecodeStereoF32(t *testing.T) {
	b := NewBuffer()
	data := make([]byte, 16) // two stereo frames
	// frame 0: L=1.0, R=-1.0 ; frame 1: L=0, R=0.5, encoded little endian
	putF32 := func(buf []byte, v float32) {
		bits := math.Float32bits(v)
		buf[0] = byte(bits)
		buf[1] = byte(bits >> 8)
		buf[2] = byte(bits >> 16)
		buf[3] = byte(bits >> 24)
	}
	putF32(data[0:4], 1.0)
	putF32(data[4:8], -1.0)
	putF32(data[8:12], 0)
	putF32(data[12:16], 0.5)

	require.Equal(t, NoError, b.SetData(data, FormatF32, 2, 48000))
	require.Equal(t, uint32(2), b.SampleCount())
	frame0 := b.FrameAt(0)
	require.Len(t, frame0, 2)
	require.Equal(t, float32(1.0), frame0[0])
	require.Equal(t, float32(-1.0), frame0[1])
}
