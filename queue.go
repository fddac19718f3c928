// queue.go - buffer queue nodes and the mix-generation publish protocol

package alengine

import (
	"runtime"
	"sync/atomic"
)

// queueNode is a node in a source's singly-linked buffer queue. A Source
// exclusively owns its nodes; the Buffer each one references is shared by
// refcount (§3 BufferQueueItem).
type queueNode struct {
	buf  *Buffer
	next *queueNode
}

// mixGeneration is the device-wide monotonic counter from §4.3/§5: a
// writer publishes a new queue head, observes the counter, and only frees
// the detached nodes once it has seen the counter tick past an
// odd (mixer-active) value it might have raced with. The mixer increments
// it at the start and end of every render pass, so a sequence of two
// observed increments from outside a render guarantees no in-flight pass
// still holds the old head.
//
// Modelled directly on media_loader.go's reqGen: bump-and-compare to
// detect and discard work that raced a newer request, generalized here to
// "don't free memory a concurrent reader might still be touching" instead
// of "don't apply a stale load result".
type mixGeneration struct {
	counter uint64
}

func (g *mixGeneration) beginPass() uint64 { return atomic.AddUint64(&g.counter, 1) }
func (g *mixGeneration) endPass()          { atomic.AddUint64(&g.counter, 1) }
func (g *mixGeneration) snapshot() uint64  { return atomic.LoadUint64(&g.counter) }

// isMixerActive reports whether a snapshot was taken mid-pass (odd value).
func isMixerActive(v uint64) bool { return v%2 == 1 }

// waitForQuiescence blocks the calling goroutine (an application thread
// inside unqueue_buffers) until the pass that was in flight when the
// snapshot was taken has ended, per §5's publish/observe/free protocol.
// An even snapshot means no pass was running, so it returns at once.
// Bounded to a device's own counter, never to an arbitrary external lock,
// so it cannot violate the mixer's own no-blocking-on-API-locks rule (only
// API threads call this, never the mixer itself).
func waitForQuiescence(g *mixGeneration, since uint64) {
	if !isMixerActive(since) {
		return
	}
	for g.snapshot() == since {
		runtime.Gosched()
	}
}
