// source_render.go - per-source render-time cursor/history helpers used by mixer.go

package alengine

// cursorSnapshot returns the current playback cursor without advancing
// it.
func (s *Source) cursorSnapshot() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Source) setCursorSnapshot(c Cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = c
}

func (s *Source) currentBuffer() *Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.buf
}

func (s *Source) pushHistory(ch int, sample float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch < len(s.history) {
		s.history[ch].push(sample)
	}
}

// historyAt returns the nth-from-most-recent sample retained for channel
// ch, used by the resampler's negative-offset (pre-pad) fetches.
func (s *Source) historyAt(ch, n int) float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch >= len(s.history) {
		return 0
	}
	return s.history[ch].last(n)
}

func (s *Source) hrtfChannel(ch int) *HrtfChannelState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch >= len(s.hrtfState) {
		return nil
	}
	return s.hrtfState[ch]
}

// advanceCursor moves the cursor forward by whatever Add already computed,
// rolling over to the next queue node (or looping) whenever the integer
// sample position reaches the current buffer's length. Returns the
// possibly-rebased cursor, the buffer to keep reading from (nil if
// playback ended), and whether playback is still live.
func (s *Source) advanceCursor(next Cursor, buf *Buffer, looping bool, srcType SourceType) (Cursor, *Buffer, bool) {
	count := buf.SampleCount()
	if count == 0 || next.Sample() < count {
		return next, buf, true
	}
	if looping && srcType == SourceStatic {
		return NewCursor(next.Sample() - count), buf, true
	}
	if !s.AdvanceToNextBuffer() {
		return next, nil, false
	}
	return NewCursor(0), s.currentBuffer(), true
}
