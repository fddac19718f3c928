// hrtf_loader.go - binary HRTF dataset loader (§4.6, three on-disk versions)

package alengine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// The three magics this loader accepts, oldest first. 00 and 01 carry a
// single implicit distance field; 02 adds explicit multi-field (distance
// banded) datasets and per-ear delays.
const (
	magicV00 = "MinPHR00"
	magicV01 = "MinPHR01"
	magicV02 = "MinPHR02"
)

const (
	sampleTypeS16 = 0
	sampleTypeS24 = 1

	channelTypeMono   = 0
	channelTypeStereo = 1
)

// LoadHrtf reads and parses an HRTF dataset from disk.
func LoadHrtf(path string) (*HrtfStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseHrtfData(data)
}

// ParseHrtfData parses an in-memory HRTF dataset, dispatching on the
// 8-byte magic to the matching version's layout.
func ParseHrtfData(data []byte) (*HrtfStore, error) {
	if len(data) < 8 {
		return nil, errors.New("hrtf data too short for magic")
	}
	magic := string(data[:8])
	switch magic {
	case magicV00:
		return parseHrtfV00(data[8:], false)
	case magicV01:
		return parseHrtfV00(data[8:], true)
	case magicV02:
		return parseHrtfV02(data[8:])
	default:
		return nil, fmt.Errorf("invalid hrtf magic: %q", magic)
	}
}

// parseHrtfV00 parses the 00/01 layouts, which differ only in whether the
// sample type byte (01) is present: both describe a single implicit field
// at 1 meter with one delay sample per IR, shared between ears.
func parseHrtfV00(data []byte, hasSampleType bool) (*HrtfStore, error) {
	off := 0
	need := func(n int) error {
		if off+n > len(data) {
			return errors.New("hrtf v0 data truncated")
		}
		return nil
	}

	if err := need(4); err != nil {
		return nil, err
	}
	sampleRate := binary.LittleEndian.Uint32(data[off : off+4])
	off += 4

	sampleType := sampleTypeS16
	if hasSampleType {
		if err := need(1); err != nil {
			return nil, err
		}
		sampleType = int(data[off])
		off++
		if sampleType != sampleTypeS16 && sampleType != sampleTypeS24 {
			return nil, fmt.Errorf("unsupported hrtf sample type: %d", sampleType)
		}
	}

	if err := need(2); err != nil {
		return nil, err
	}
	irSize := int(data[off])
	channelType := int(data[off+1])
	off += 2
	if channelType != channelTypeMono && channelType != channelTypeStereo {
		return nil, fmt.Errorf("unsupported hrtf channel type: %d", channelType)
	}
	if irSize < MinIRSize || irSize > MaxIRSize {
		return nil, fmt.Errorf("hrtf IR size %d out of range [%d,%d]", irSize, MinIRSize, MaxIRSize)
	}

	if err := need(1); err != nil {
		return nil, err
	}
	evCount := int(data[off])
	off++
	if evCount < MinEvCount || evCount > MaxEvCount {
		return nil, fmt.Errorf("hrtf elevation count %d out of range [%d,%d]", evCount, MinEvCount, MaxEvCount)
	}

	if err := need(evCount); err != nil {
		return nil, err
	}
	azCounts := make([]int, evCount)
	irTotal := 0
	for i := 0; i < evCount; i++ {
		az := int(data[off+i])
		if az < MinAzCount || az > MaxAzCount {
			return nil, fmt.Errorf("hrtf azimuth count %d at elevation %d out of range [%d,%d]", az, i, MinAzCount, MaxAzCount)
		}
		azCounts[i] = az
		irTotal += az
	}
	off += evCount

	elevations := make([]HrtfElevation, evCount)
	offsetAccum := 0
	for i, az := range azCounts {
		elevations[i] = HrtfElevation{AzCount: az, IROffset: offsetAccum}
		offsetAccum += az
	}

	bytesPerSample := 2
	if sampleType == sampleTypeS24 {
		bytesPerSample = 3
	}
	coeffBytes := irTotal * irSize * bytesPerSample
	if channelType == channelTypeStereo {
		coeffBytes *= 2
	}
	if err := need(coeffBytes); err != nil {
		return nil, err
	}
	coeffs := make([]HrirSample, irTotal*irSize)
	if channelType == channelTypeStereo {
		for i := 0; i < irTotal*irSize; i++ {
			l := readSigned(data[off:], bytesPerSample)
			off += bytesPerSample
			r := readSigned(data[off:], bytesPerSample)
			off += bytesPerSample
			coeffs[i] = HrirSample{sampleToFloat(l, bytesPerSample), sampleToFloat(r, bytesPerSample)}
		}
	} else {
		for i := 0; i < irTotal*irSize; i++ {
			l := readSigned(data[off:], bytesPerSample)
			off += bytesPerSample
			coeffs[i] = HrirSample{sampleToFloat(l, bytesPerSample), 0}
		}
		mirrorMonoRightEar(coeffs, elevations, irSize)
	}

	if err := need(irTotal); err != nil {
		return nil, err
	}
	delays := make([][2]float32, irTotal)
	for i := 0; i < irTotal; i++ {
		d := float32(data[off])
		off++
		if d >= HRTFHistoryLength {
			return nil, fmt.Errorf("hrtf delay %d exceeds history length %d", int(d), HRTFHistoryLength)
		}
		delays[i] = [2]float32{d, d}
	}

	return &HrtfStore{
		SampleRate: sampleRate,
		IRSize:     irSize,
		Fields:     []HrtfField{{DistanceMeters: 1.0, Elevations: elevations}},
		Coeffs:     coeffs,
		Delays:     delays,
	}, nil
}

// parseHrtfV02 parses the multi-field layout: explicit distance bands and
// independent per-ear delays.
func parseHrtfV02(data []byte) (*HrtfStore, error) {
	off := 0
	need := func(n int) error {
		if off+n > len(data) {
			return errors.New("hrtf v2 data truncated")
		}
		return nil
	}

	if err := need(7); err != nil {
		return nil, err
	}
	sampleRate := binary.LittleEndian.Uint32(data[off : off+4])
	sampleType := int(data[off+4])
	channelType := int(data[off+5])
	irSize := int(data[off+6])
	off += 7
	if sampleType != sampleTypeS16 && sampleType != sampleTypeS24 {
		return nil, fmt.Errorf("unsupported hrtf sample type: %d", sampleType)
	}
	if channelType != channelTypeMono && channelType != channelTypeStereo {
		return nil, fmt.Errorf("unsupported hrtf channel type: %d", channelType)
	}
	if irSize < MinIRSize || irSize > MaxIRSize {
		return nil, fmt.Errorf("hrtf IR size %d out of range [%d,%d]", irSize, MinIRSize, MaxIRSize)
	}

	if err := need(1); err != nil {
		return nil, err
	}
	fieldCount := int(data[off])
	off++
	if fieldCount < 1 {
		return nil, errors.New("hrtf dataset has no distance fields")
	}

	type rawField struct {
		distanceMM uint16
		evCounts   []int
	}
	raw := make([]rawField, fieldCount)
	totalEv := 0
	for f := 0; f < fieldCount; f++ {
		if err := need(3); err != nil {
			return nil, err
		}
		distMM := binary.LittleEndian.Uint16(data[off : off+2])
		evCount := int(data[off+2])
		off += 3
		if evCount < MinEvCount || evCount > MaxEvCount {
			return nil, fmt.Errorf("hrtf field %d elevation count %d out of range [%d,%d]", f, evCount, MinEvCount, MaxEvCount)
		}
		dist := float32(distMM) / 1000
		if dist < MinFdDistance || dist > MaxFdDistance {
			return nil, fmt.Errorf("hrtf field %d distance %.3fm out of range [%.2f,%.2f]", f, dist, MinFdDistance, MaxFdDistance)
		}
		raw[f] = rawField{distanceMM: distMM, evCounts: make([]int, evCount)}
		totalEv += evCount
	}
	for f := range raw {
		if err := need(len(raw[f].evCounts)); err != nil {
			return nil, err
		}
		for i := range raw[f].evCounts {
			raw[f].evCounts[i] = int(data[off])
			off++
		}
	}

	fields := make([]HrtfField, fieldCount)
	irTotal := 0
	prevDist := float32(-1)
	for f, rf := range raw {
		dist := float32(rf.distanceMM) / 1000
		if dist <= prevDist {
			return nil, fmt.Errorf("hrtf fields must be strictly increasing by distance (field %d)", f)
		}
		prevDist = dist
		elevations := make([]HrtfElevation, len(rf.evCounts))
		for i, az := range rf.evCounts {
			if az < MinAzCount || az > MaxAzCount {
				return nil, fmt.Errorf("hrtf azimuth count %d out of range [%d,%d]", az, MinAzCount, MaxAzCount)
			}
			elevations[i] = HrtfElevation{AzCount: az, IROffset: irTotal}
			irTotal += az
		}
		fields[f] = HrtfField{DistanceMeters: dist, Elevations: elevations}
	}

	bytesPerSample := 2
	if sampleType == sampleTypeS24 {
		bytesPerSample = 3
	}
	coeffBytes := irTotal * irSize * bytesPerSample
	if channelType == channelTypeStereo {
		coeffBytes *= 2
	}
	if err := need(coeffBytes); err != nil {
		return nil, err
	}
	coeffs := make([]HrirSample, irTotal*irSize)
	if channelType == channelTypeStereo {
		for i := 0; i < irTotal*irSize; i++ {
			l := readSigned(data[off:], bytesPerSample)
			off += bytesPerSample
			r := readSigned(data[off:], bytesPerSample)
			off += bytesPerSample
			coeffs[i] = HrirSample{sampleToFloat(l, bytesPerSample), sampleToFloat(r, bytesPerSample)}
		}
	} else {
		for i := 0; i < irTotal*irSize; i++ {
			l := readSigned(data[off:], bytesPerSample)
			off += bytesPerSample
			coeffs[i] = HrirSample{sampleToFloat(l, bytesPerSample), 0}
		}
		var allElevations []HrtfElevation
		for _, fld := range fields {
			allElevations = append(allElevations, fld.Elevations...)
		}
		mirrorMonoRightEar(coeffs, allElevations, irSize)
	}

	delays := make([][2]float32, irTotal)
	if channelType == channelTypeStereo {
		if err := need(irTotal * 2); err != nil {
			return nil, err
		}
		for i := 0; i < irTotal; i++ {
			dl := float32(data[off])
			dr := float32(data[off+1])
			off += 2
			if dl >= HRTFHistoryLength || dr >= HRTFHistoryLength {
				return nil, fmt.Errorf("hrtf delay exceeds history length %d", HRTFHistoryLength)
			}
			delays[i] = [2]float32{dl, dr}
		}
	} else {
		if err := need(irTotal); err != nil {
			return nil, err
		}
		for i := 0; i < irTotal; i++ {
			d := float32(data[off])
			off++
			if d >= HRTFHistoryLength {
				return nil, fmt.Errorf("hrtf delay %d exceeds history length %d", int(d), HRTFHistoryLength)
			}
			delays[i] = [2]float32{d, d}
		}
	}

	_ = totalEv
	return &HrtfStore{
		SampleRate: sampleRate,
		IRSize:     irSize,
		Fields:     fields,
		Coeffs:     coeffs,
		Delays:     delays,
	}, nil
}

// mirrorMonoRightEar derives the right-ear coefficients of a left-only
// dataset from the left ear at the azimuth-reflected index within the
// same elevation: ridx = evOffset + ((azCount - j) mod azCount). This is
// what makes the right ear at azimuth +θ equal the left ear at -θ for
// every elevation (§4.6, §8 property 5).
func mirrorMonoRightEar(coeffs []HrirSample, elevations []HrtfElevation, irSize int) {
	for _, e := range elevations {
		if e.AzCount == 0 {
			continue
		}
		for j := 0; j < e.AzCount; j++ {
			mirrored := (e.AzCount - j) % e.AzCount
			src := e.IROffset + mirrored
			dst := e.IROffset + j
			for t := 0; t < irSize; t++ {
				coeffs[dst*irSize+t][1] = coeffs[src*irSize+t][0]
			}
		}
	}
}

func readSigned(b []byte, n int) int32 {
	switch n {
	case 2:
		return int32(int16(binary.LittleEndian.Uint16(b)))
	case 3:
		v := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
		if v&0x800000 != 0 {
			v |= 0xFF000000
		}
		return int32(v)
	default:
		return 0
	}
}

func sampleToFloat(v int32, bytesPerSample int) float32 {
	switch bytesPerSample {
	case 2:
		return float32(v) / 32768
	case 3:
		return float32(v) / 8388608
	default:
		return 0
	}
}
