// registry.go - current-context tracking: process-global and thread-local (§4.2 make-current semantics, §6.1)

package alengine

import "sync"

// currentContext is the process-wide "current" context every thread-free
// call implicitly targets once made current, mirroring alcMakeContextCurrent
// (§4.2).
var (
	currentMu      sync.Mutex
	currentContext *Context
)

// threadContexts holds the thread-local variant (§4.2, §6.1's
// setThreadContext/getThreadContext): a context installed here is visible
// only to source API calls made from the same OS thread, and wins over
// the process-global slot when both are set. Keyed by threadID rather
// than goroutine id, since Go exposes no goroutine-identity API; callers
// that need a stable slot must runtime.LockOSThread() first, the same
// precondition SetRealtimePriority already imposes.
var (
	threadMu       sync.Mutex
	threadContexts = map[int]*Context{}
)

// MakeContextCurrent installs ctx (or clears it if nil) as the
// process-global current context. Returns InvalidContext if ctx belongs
// to a closed device.
func MakeContextCurrent(ctx *Context) ALError {
	if ctx != nil && ctx.device.state != DeviceOpen {
		return InvalidContext
	}
	currentMu.Lock()
	currentContext = ctx
	currentMu.Unlock()
	return NoError
}

// SetThreadContext installs ctx as current for the calling OS thread only,
// independent of the process-global slot (§4.2, §6.1).
func SetThreadContext(ctx *Context) ALError {
	if ctx != nil && ctx.device.state != DeviceOpen {
		return InvalidContext
	}
	tid := threadID()
	threadMu.Lock()
	defer threadMu.Unlock()
	if ctx == nil {
		delete(threadContexts, tid)
	} else {
		threadContexts[tid] = ctx
	}
	return NoError
}

// GetThreadContext returns the calling thread's thread-local context, or
// nil if none was set.
func GetThreadContext() *Context {
	tid := threadID()
	threadMu.Lock()
	defer threadMu.Unlock()
	return threadContexts[tid]
}

// CurrentContext resolves the context a thread-free source API call
// targets: the calling thread's thread-local slot if one was set there,
// falling back to the process-global slot otherwise (§4.2: "when both are
// set, the thread-local wins during source API calls").
func CurrentContext() *Context {
	if c := GetThreadContext(); c != nil {
		return c
	}
	currentMu.Lock()
	defer currentMu.Unlock()
	return currentContext
}

// clearCurrentIfMatches drops ctx from the process-global slot if it is
// still installed there, used by Context.Destroy.
func clearCurrentIfMatches(ctx *Context) {
	currentMu.Lock()
	if currentContext == ctx {
		currentContext = nil
	}
	currentMu.Unlock()
}

// clearThreadContextIfCurrent drops ctx from every thread-local slot that
// still points at it, used by Context.Destroy so a destroyed context can
// never be resolved as current again from any thread.
func clearThreadContextIfCurrent(ctx *Context) {
	threadMu.Lock()
	defer threadMu.Unlock()
	for tid, c := range threadContexts {
		if c == ctx {
			delete(threadContexts, tid)
		}
	}
}
