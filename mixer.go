// mixer.go - the render(nFrames) orchestrator (§4.4)

package alengine

import "math"

// sourceRenderResult is one source's contribution for a render pass: its
// direct output (already panned/filtered/gain-applied into the device's
// channel layout) and its per-send mono contributions.
type sourceRenderResult struct {
	direct [][]float32       // [channel][frame]
	sends  [MaxSends][]float32 // mono, nil where the send slot is unset
}

// Render produces exactly nFrames of output: it advances every live
// source (§4.4 steps 1-5) concurrently into private scratch buffers,
// accumulates those into the device's master buffer and each referenced
// effect slot's send buffer, runs every slot's effect (step 6), sums the
// wet signal back in, optionally applies headphone crossfeed, and hands
// the finished interleaved block to the backend.
func (d *Device) Render(nFrames int) error {
	d.gen.beginPass()
	defer d.gen.endPass()

	channels := d.Channels.Channels()
	master := make([][]float32, channels)
	for i := range master {
		master[i] = make([]float32, nFrames)
	}

	d.mu.Lock()
	contexts := append([]*Context(nil), d.contexts...)
	d.mu.Unlock()

	for _, ctx := range contexts {
		if ctx.Suspended() {
			continue
		}

		sources := ctx.AllSources()
		results := make([]*sourceRenderResult, len(sources))

		err := renderSourcesConcurrently(sources, func(s *Source) error {
			idx := -1
			for i, cand := range sources {
				if cand == s {
					idx = i
					break
				}
			}
			res := d.renderOneSourceN(ctx, s, nFrames)
			if idx >= 0 {
				results[idx] = res
			}
			return nil
		})
		if err != nil {
			return err
		}

		for i, res := range results {
			if res == nil {
				continue
			}
			for ch := 0; ch < channels && ch < len(res.direct); ch++ {
				for f := 0; f < nFrames; f++ {
					master[ch][f] += res.direct[ch][f]
				}
			}
			for sendIdx := 0; sendIdx < MaxSends; sendIdx++ {
				send := sources[i].Sends[sendIdx]
				if send.Slot == nil || res.sends[sendIdx] == nil {
					continue
				}
				send.Slot.AccumulateSend(res.sends[sendIdx])
			}
		}

		for _, slot := range ctx.AllEffectSlots() {
			wet := make([][]float32, channels)
			for i := range wet {
				wet[i] = make([]float32, nFrames)
			}
			slot.Process(nFrames, wet)
			for ch := 0; ch < channels; ch++ {
				for f := 0; f < nFrames; f++ {
					master[ch][f] += wet[ch][f]
				}
			}
		}
	}

	if d.Crossfeed != nil && channels == 2 {
		d.Crossfeed.Process(master[0], master[1])
	}

	interleaved := make([]float32, nFrames*channels)
	for f := 0; f < nFrames; f++ {
		for ch := 0; ch < channels; ch++ {
			interleaved[f*channels+ch] = master[ch][f]
		}
	}
	return d.backend.Write(interleaved)
}

// renderOneSourceN implements §4.4 steps 1-5 for a single source: queue
// advance, distance/cone/doppler gain, resampled interpolation, and
// either angle-weighted panning or HRTF convolution into the device's
// channel layout, plus accumulation into any configured sends.
func (d *Device) renderOneSourceN(ctx *Context, s *Source, nFrames int) *sourceRenderResult {
	channels := d.Channels.Channels()
	res := &sourceRenderResult{direct: make([][]float32, channels)}
	for i := range res.direct {
		res.direct[i] = make([]float32, nFrames)
	}

	s.mu.Lock()
	if s.state != SourcePlaying || s.current == nil {
		s.mu.Unlock()
		return res
	}
	buf := s.current.buf
	srcChannels := buf.Channels
	s.ensureChannelState(srcChannels, 0)

	listenerRelative := s.Relative
	pos := s.Position
	vel := s.Velocity
	dopplerFactor := s.DopplerFactor
	gain := clampf(s.Gain, s.MinGain, s.MaxGain)
	resamplerKind := s.Resampler
	looping := s.Looping
	srcType := s.typ
	s.mu.Unlock()

	listener := ctx.Listener
	distVec := pos
	if !listenerRelative && listener != nil {
		distVec = Vec3{pos.X - listener.Position.X, pos.Y - listener.Position.Y, pos.Z - listener.Position.Z}
	}
	distance := distVec.Length()

	distGain := DistanceGain(ctx.DistanceModel(), distance, s.ReferenceDistance, s.MaxDistance, s.RolloffFactor)
	coneAngle := float32(0)
	if listener != nil && distance > 1e-6 {
		dirN := s.Direction
		if dirN.Length() > 1e-6 {
			toListener := Vec3{-distVec.X, -distVec.Y, -distVec.Z}
			cosA := dirN.Normalize().Dot(toListener.Normalize())
			coneAngle = float32(math.Acos(float64(clampf(cosA, -1, 1)))) * 180 / math.Pi
		}
	}
	coneGain := ConeGain(coneAngle, s.ConeInnerAngle, s.ConeOuterAngle, s.ConeOuterGain, ConeScaleFull)

	dopplerStep := float32(1)
	if listener != nil {
		dopplerStep = DopplerShift(1, dopplerFactor, ctx.SpeedOfSound(), listener.Velocity, vel, distVec.Scale(-1).Normalize()) / 1
	}

	totalGain := gain * distGain * coneGain

	var localDir Vec3
	if listener != nil && distance > 1e-6 {
		right, up, forward := listener.Orientation.Basis()
		localDir = ToLocal(right, up, forward, distVec.Scale(1/distance))
	}

	useHrtf := d.HrtfActive && d.Hrtf != nil && channels == 2 && srcChannels == 1
	if useHrtf {
		s.mu.Lock()
		s.ensureChannelState(srcChannels, d.Hrtf.IRSize)
		hrtfStates := s.hrtfState
		s.mu.Unlock()
		if len(hrtfStates) > 0 && hrtfStates[0] != nil {
			elev := float32(math.Asin(float64(clampf(localDir.Y, -1, 1))))
			az := float32(math.Atan2(float64(localDir.X), float64(-localDir.Z)))
			if az < 0 {
				az += 2 * math.Pi
			}
			target := d.Hrtf.Query(HrtfQuery{Elevation: elev, Azimuth: az, Distance: maxf(distance, 0.1), Spread: s.Spread})
			hrtfStates[0].SetTarget(target)
		}
	}

	baseStep := StepFromRatio(buf.SampleRate, d.SampleRate)
	baseStep = uint64(float64(baseStep) * float64(dopplerStep))

	for ch := 0; ch < srcChannels; ch++ {
		chanBuf := buf
		cursor := s.cursorSnapshot()
		for f := 0; f < nFrames; f++ {
			fetch := d.makeFetcher(s, chanBuf, ch, cursor)
			sample := Generate(resamplerKind, fetch, cursor.Frac())
			s.pushHistory(ch, sample)

			if useHrtf && ch == 0 {
				hs := s.hrtfChannel(0)
				hs.Advance()
				hs.Push(sample)
				l, r := hs.Convolve()
				res.direct[0][f] += l * totalGain
				if channels > 1 {
					res.direct[1][f] += r * totalGain
				}
			} else {
				gains := PanGains(d.Channels, localDir, totalGain)
				for c := 0; c < channels && c < len(gains); c++ {
					res.direct[c][f] += sample * gains[c]
				}
			}

			next := cursor.Add(baseStep)
			var active bool
			cursor, chanBuf, active = s.advanceCursor(next, chanBuf, looping, srcType)
			if !active || chanBuf == nil {
				break
			}
		}
		s.setCursorSnapshot(cursor)
	}

	for i := 0; i < MaxSends; i++ {
		send := s.Sends[i]
		if send.Slot == nil {
			continue
		}
		mono := make([]float32, nFrames)
		for f := 0; f < nFrames; f++ {
			var sum float32
			for c := range res.direct {
				sum += res.direct[c][f]
			}
			mono[f] = sum / float32(maxInt(1, len(res.direct)))
		}
		res.sends[i] = mono
	}

	return res
}

func maxf(v, floor float32) float32 {
	if v < floor {
		return floor
	}
	return v
}

// makeFetcher builds a SampleFetcher reading channel ch of buf relative to
// the render loop's cursor cur, falling back to the source's retained
// per-channel history for negative offsets (pre-pad across a prior
// queue/loop boundary) and to zero-fill beyond the buffer's end when no
// further data is queued (§4.4 step 3 boundary handling; see
// resampler.go's SampleFetcher contract).
func (d *Device) makeFetcher(s *Source, buf *Buffer, ch int, cur Cursor) SampleFetcher {
	return func(relative int) float32 {
		idx := int(cur.Sample()) + relative
		if idx < 0 {
			return s.historyAt(ch, -idx-1)
		}
		count := int(buf.SampleCount())
		if idx < count {
			frame := buf.FrameAt(uint32(idx))
			if ch < len(frame) {
				return frame[ch]
			}
			return 0
		}
		return 0
	}
}
