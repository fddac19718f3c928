// source_queue.go - queue_buffers/unqueue_buffers (§4.3)

package alengine

// QueueBuffers appends bufs to the source's queue, retaining each one and
// fixing the source's type to Streaming. Mixing sample rates, channel
// counts or formats across queued buffers returns InvalidOperation and
// leaves the queue unchanged, matching the single-voice-format constraint
// a streaming source must honor.
func (s *Source) QueueBuffers(bufs []*Buffer) ALError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.typ == SourceStatic {
		return InvalidOperation
	}
	if len(bufs) == 0 {
		return NoError
	}
	var first *Buffer
	if s.queueTail != nil {
		first = s.queueTail.buf
	}
	for _, b := range bufs {
		if b == nil {
			continue
		}
		if first == nil {
			first = b
			continue
		}
		if first.Channels != b.Channels || first.SampleRate != b.SampleRate || first.OriginalFormat() != b.OriginalFormat() {
			return InvalidOperation
		}
	}
	for _, b := range bufs {
		if b == nil {
			continue
		}
		b.Retain()
		node := &queueNode{buf: b}
		if s.queueTail == nil {
			s.queueHead = node
			s.queueTail = node
			s.current = node
		} else {
			s.queueTail.next = node
			s.queueTail = node
		}
	}
	s.typ = SourceStreaming
	if s.queueHead != nil {
		s.ensureChannelState(s.queueHead.buf.Channels, 0)
	}
	return NoError
}

// SetBuffer implements the single-buffer (static) attach/detach form: a
// non-nil buffer replaces the whole queue with one retained node; nil
// clears the queue, both only legal while Initial or Stopped (§4.3).
func (s *Source) SetBuffer(b *Buffer) ALError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SourcePlaying || s.state == SourcePaused {
		return InvalidOperation
	}
	s.releaseQueueLocked()
	if b == nil {
		s.typ = SourceUndetermined
		return NoError
	}
	b.Retain()
	node := &queueNode{buf: b}
	s.queueHead, s.queueTail, s.current = node, node, node
	s.typ = SourceStatic
	s.ensureChannelState(b.Channels, 0)
	return NoError
}

func (s *Source) releaseQueueLocked() {
	for n := s.queueHead; n != nil; {
		next := n.next
		n.buf.Release()
		n = next
	}
	s.queueHead, s.queueTail, s.current = nil, nil, nil
	s.buffersProcessed = 0
}

// forceRelease drops every buffer reference this source's queue holds,
// used by Context.Destroy to free a source's resources without going
// through the application-facing unqueue path (§4.2: "Destruction frees
// all its sources and slots").
func (s *Source) forceRelease() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releaseQueueLocked()
}

// UnqueueBuffers removes exactly n buffers from the queue head. Fails
// InvalidValue if the source is looping, is not a Streaming source, or n
// exceeds the number of buffers already marked processed (§4.3: unqueuing
// a buffer still reachable from the playback cursor, or from a looping
// static source, is never legal). Once the nodes are detached, the caller
// blocks on the device's mix-generation counter until no mixer pass is
// still touching the old head before the buffers are returned, the §5
// publish/observe/free protocol.
func (s *Source) UnqueueBuffers(n int) ([]*Buffer, ALError) {
	s.mu.Lock()
	if s.Looping || s.typ != SourceStreaming || n > s.buffersProcessed {
		s.mu.Unlock()
		return nil, InvalidValue
	}
	out := make([]*Buffer, 0, n)
	for i := 0; i < n; i++ {
		node := s.queueHead
		if node == nil {
			s.mu.Unlock()
			return nil, InvalidValue
		}
		s.queueHead = node.next
		if s.queueHead == nil {
			s.queueTail = nil
		}
		out = append(out, node.buf)
		s.buffersProcessed--
	}
	dev := s.device
	s.mu.Unlock()

	if dev != nil {
		since := dev.gen.snapshot()
		waitForQuiescence(&dev.gen, since)
	}
	return out, NoError
}

// ReleaseUnqueued drops the caller's reference on buffers returned by
// UnqueueBuffers once the application is done inspecting them.
func ReleaseUnqueued(bufs []*Buffer) {
	for _, b := range bufs {
		b.Release()
	}
}

// AdvanceToNextBuffer moves the render cursor to the next queue node when
// the current one is exhausted, marking the exhausted node processed and
// reporting whether playback should continue (false when the queue ends
// without looping). Looping only applies to a single-buffer Static
// source; a Streaming source that exhausts its queue simply stops
// (§4.3/§4.4 step 1).
func (s *Source) AdvanceToNextBuffer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	if s.typ == SourceStatic && s.Looping {
		s.cursor = NewCursor(0)
		return true
	}
	s.buffersProcessed++
	next := s.current.next
	s.current = next
	s.cursor = NewCursor(0)
	if next == nil {
		s.state = SourceStopped
		return false
	}
	return true
}
