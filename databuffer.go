// databuffer.go - named raw-byte buffer registry (SUPPLEMENTED FEATURES)

package alengine

// DataBuffer is a named, arbitrary-size byte slice registered on the
// Device as opaque side-channel data (scene identifiers, per-voice
// metadata) without overloading the sample-format Buffer type, mirroring
// the AL_EXT_BUFFER_DATA_STATIC style of side storage some OpenAL
// implementations expose. Sources and effect slots hold no reference to
// a DataBuffer, and the engine never reads its payload.
type DataBuffer struct {
	Data []byte
}

func NewDataBuffer(data []byte) *DataBuffer {
	cp := make([]byte, len(data))
	copy(cp, data)
	return &DataBuffer{Data: cp}
}

// GenDataBuffers allocates n new data-buffer names holding empty payloads.
func (d *Device) GenDataBuffers(n int) []uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	names := make([]uint32, n)
	for i := range names {
		name := d.allocName()
		d.dataBuffers[name] = NewDataBuffer(nil)
		names[i] = name
	}
	return names
}

func (d *Device) DeleteDataBuffers(names []uint32) ALError {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range names {
		if _, ok := d.dataBuffers[n]; !ok {
			return InvalidName
		}
	}
	for _, n := range names {
		delete(d.dataBuffers, n)
	}
	return NoError
}

func (d *Device) DataBuffer(name uint32) *DataBuffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dataBuffers[name]
}

// SetDataBufferData replaces a data buffer's payload in place.
func (d *Device) SetDataBufferData(name uint32, data []byte) ALError {
	d.mu.Lock()
	defer d.mu.Unlock()
	db, ok := d.dataBuffers[name]
	if !ok {
		return InvalidName
	}
	db.Data = append([]byte(nil), data...)
	return NoError
}
