//go:build linux

// threadid_linux.go - OS thread identity for the thread-local context registry (§4.2)

package alengine

import "golang.org/x/sys/unix"

// threadID resolves the calling OS thread's id, the key SetThreadContext
// and GetThreadContext use for their per-thread slot. Meaningful only
// after the caller has runtime.LockOSThread()'d, the same precondition
// SetRealtimePriority already documents for this goroutine/thread split.
func threadID() int {
	return unix.Gettid()
}
