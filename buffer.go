// buffer.go - PCM sample storage shared by reference between source queues

package alengine

import (
	"math"
	"sync"
	"sync/atomic"
)

// ima4BlockAlign is OpenAL's mono IMA4 block size in bytes: a 4-byte
// header (predicted sample + step index) followed by 32 bytes of 4-bit
// nibbles, decoding to 65 samples per channel per block.
const ima4BlockAlign = 36
const ima4SamplesPerBlock = 65

// msadpcmBlockAlign mirrors the common WAVEFORMAT block size used by the
// Microsoft ADPCM codec for mono streams.
const msadpcmBlockAlign = 256

// Buffer owns a contiguous f32 sample array after format promotion, plus
// the original format tag and loop points. It is shared by reference count
// across every source queue node that points to it; Delete fails while any
// node still holds a reference (§3 Buffer invariants).
type Buffer struct {
	mu sync.RWMutex

	Samples    []float32 // interleaved, Channels per frame
	Channels   int
	SampleRate uint32
	origFormat SampleFormat

	LoopStart uint32
	LoopEnd   uint32

	refCount int32
}

// SampleCount is the number of frames (not raw floats) stored.
func (b *Buffer) SampleCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.Channels == 0 {
		return 0
	}
	return uint32(len(b.Samples) / b.Channels)
}

func (b *Buffer) OriginalFormat() SampleFormat {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.origFormat
}

// NewBuffer constructs an empty buffer (constructor defaults: no data, loop
// points collapsed to zero).
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Retain/Release implement the source-queue reference count described in
// §3/§9: buffers are referenced by queue nodes, never by other buffers, so
// the count cannot cycle and a simple atomic suffices.
func (b *Buffer) Retain() { atomic.AddInt32(&b.refCount, 1) }
func (b *Buffer) Release() { atomic.AddInt32(&b.refCount, -1) }
func (b *Buffer) RefCount() int32 { return atomic.LoadInt32(&b.refCount) }

// SetData uploads raw bytes in the given format/layout, promoting them to
// the engine's internal f32 representation. It fails with InvalidOperation
// if the buffer is still referenced by a queue (the spec's "deletion fails
// while referenced" rule applies equally to re-upload, since a playing
// source must never see its buffer resized under it — §4.7).
func (b *Buffer) SetData(data []byte, format SampleFormat, channels int, sampleRate uint32) ALError {
	if b.RefCount() > 0 {
		return InvalidOperation
	}
	if channels <= 0 || sampleRate == 0 {
		return InvalidValue
	}
	var samples []float32
	switch format {
	case FormatS8:
		samples = decodeS8(data)
	case FormatU8:
		samples = decodeU8(data)
	case FormatS16:
		samples = decodeS16(data)
	case FormatU16:
		samples = decodeU16(data)
	case FormatF32:
		samples = decodeF32(data)
	case FormatIMA4:
		if channels != 1 {
			return InvalidValue
		}
		samples = decodeIMA4(data)
	case FormatMSADPCM:
		if channels != 1 {
			return InvalidValue
		}
		samples = decodeMSADPCM(data)
	default:
		return InvalidEnum
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.Samples = samples
	b.Channels = channels
	b.SampleRate = sampleRate
	b.origFormat = format
	b.LoopStart = 0
	b.LoopEnd = uint32(len(samples) / channels)
	return NoError
}

// SetLoopPoints validates and installs the loop-point pair, enforcing
// startSample <= endSample <= sampleCount (§3 Buffer invariants).
func (b *Buffer) SetLoopPoints(start, end uint32) ALError {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := uint32(0)
	if b.Channels > 0 {
		count = uint32(len(b.Samples) / b.Channels)
	}
	if start > end || end > count {
		return InvalidValue
	}
	b.LoopStart, b.LoopEnd = start, end
	return NoError
}

// FrameAt returns the Channels-wide slice of samples for frame index idx,
// or nil if out of range. Read under the buffer's own RLock per §4.7 so a
// concurrent SetData cannot resize the backing array mid-read (SetData
// itself refuses while referenced, but a defensive read lock costs nothing
// on the mixer's already-bounded per-block work).
func (b *Buffer) FrameAt(idx uint32) []float32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start := int(idx) * b.Channels
	if start < 0 || start+b.Channels > len(b.Samples) {
		return nil
	}
	return b.Samples[start : start+b.Channels]
}

func decodeS8(data []byte) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(int8(v)) / 128
	}
	return out
}

func decodeU8(data []byte) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = (float32(v) - 128) / 128
	}
	return out
}

func decodeS16(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := int16(uint16(data[2*i]) | uint16(data[2*i+1])<<8)
		out[i] = float32(v) / 32768
	}
	return out
}

func decodeU16(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v := uint16(data[2*i]) | uint16(data[2*i+1])<<8
		out[i] = (float32(v) - 32768) / 32768
	}
	return out
}

func decodeF32(data []byte) []float32 {
	n := len(data) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := uint32(data[4*i]) | uint32(data[4*i+1])<<8 | uint32(data[4*i+2])<<16 | uint32(data[4*i+3])<<24
		out[i] = math.Float32frombits(bits)
	}
	return out
}

var imaIndexTable = [16]int{-1, -1, -1, -1, 2, 4, 6, 8, -1, -1, -1, -1, 2, 4, 6, 8}
var imaStepTable = [89]int{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17, 19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118, 130, 143, 157, 173, 190, 209, 230,
	253, 279, 307, 337, 371, 408, 449, 494, 544, 598, 658, 724, 796, 876, 963,
	1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066, 2272, 2499, 2749, 3024,
	3327, 3660, 4026, 4428, 4871, 5358, 5894, 6484, 7132, 7845, 8630, 9493,
	10442, 11487, 12635, 13899, 15289, 16818, 18500, 20350, 22385, 24623,
	27086, 29794, 32767,
}

// decodeIMA4 decodes mono OpenAL IMA4: each 36-byte block starts with a
// 16-bit signed predicted sample and an 8-bit step index, followed by 32
// bytes (64 nibbles) of 4-bit deltas.
func decodeIMA4(data []byte) []float32 {
	var out []float32
	for off := 0; off+ima4BlockAlign <= len(data); off += ima4BlockAlign {
		block := data[off : off+ima4BlockAlign]
		pred := int32(int16(uint16(block[0]) | uint16(block[1])<<8))
		stepIdx := int(int8(block[2]))
		if stepIdx < 0 {
			stepIdx = 0
		}
		if stepIdx > 88 {
			stepIdx = 88
		}
		out = append(out, float32(pred)/32768)
		for i := 4; i < ima4BlockAlign; i++ {
			b := block[i]
			for _, nibble := range [2]byte{b & 0x0f, b >> 4} {
				step := imaStepTable[stepIdx]
				diff := step >> 3
				if nibble&1 != 0 {
					diff += step >> 2
				}
				if nibble&2 != 0 {
					diff += step >> 1
				}
				if nibble&4 != 0 {
					diff += step
				}
				if nibble&8 != 0 {
					pred -= int32(diff)
				} else {
					pred += int32(diff)
				}
				if pred > 32767 {
					pred = 32767
				} else if pred < -32768 {
					pred = -32768
				}
				stepIdx += imaIndexTable[nibble]
				if stepIdx < 0 {
					stepIdx = 0
				}
				if stepIdx > 88 {
					stepIdx = 88
				}
				out = append(out, float32(pred)/32768)
			}
		}
	}
	return out
}

// msadpcmCoeff holds the seven standard Microsoft ADPCM predictor pairs.
var msadpcmCoeff1 = [7]int32{256, 512, 0, 192, 240, 460, 392}
var msadpcmCoeff2 = [7]int32{0, -256, 0, 64, 0, -208, -232}

// decodeMSADPCM decodes mono Microsoft ADPCM blocks of msadpcmBlockAlign
// bytes: a 7-byte header (predictor index, delta, sample1, sample2)
// followed by nibble-coded deltas for the remainder of the block.
func decodeMSADPCM(data []byte) []float32 {
	var out []float32
	for off := 0; off+7 <= len(data); off += msadpcmBlockAlign {
		end := off + msadpcmBlockAlign
		if end > len(data) {
			end = len(data)
		}
		block := data[off:end]
		if len(block) < 7 {
			break
		}
		predictor := int(block[0])
		if predictor >= 7 {
			predictor = 0
		}
		delta := int32(int16(uint16(block[1]) | uint16(block[2])<<8))
		sample1 := int32(int16(uint16(block[3]) | uint16(block[4])<<8))
		sample2 := int32(int16(uint16(block[5]) | uint16(block[6])<<8))
		out = append(out, float32(sample2)/32768, float32(sample1)/32768)

		c1, c2 := msadpcmCoeff1[predictor], msadpcmCoeff2[predictor]
		for i := 7; i < len(block); i++ {
			b := block[i]
			for _, nibble := range [2]byte{b >> 4, b & 0x0f} {
				signed := int32(nibble)
				if signed&0x08 != 0 {
					signed -= 16
				}
				predicted := (sample1*c1 + sample2*c2) >> 8
				predicted += signed * delta
				if predicted > 32767 {
					predicted = 32767
				} else if predicted < -32768 {
					predicted = -32768
				}
				sample2 = sample1
				sample1 = predicted
				out = append(out, float32(predicted)/32768)

				delta = (delta * adaptationTable[nibble]) >> 8
				if delta < 16 {
					delta = 16
				}
			}
		}
	}
	return out
}

var adaptationTable = [16]int32{
	230, 230, 230, 230, 307, 409, 512, 614,
	768, 614, 512, 409, 307, 230, 230, 230,
}
