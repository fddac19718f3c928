//go:build linux

// rtprio_linux.go - real-time scheduling for the render goroutine (§6.4)

package alengine

import "golang.org/x/sys/unix"

// SetRealtimePriority requests SCHED_RR scheduling for the calling OS
// thread at the given priority, the mixer's recommended setup before its
// render loop starts missing deadlines under system load. Callers must
// have locked the calling goroutine to its OS thread first
// (runtime.LockOSThread), since Linux thread scheduling attributes are
// per-thread, not per-process.
func SetRealtimePriority(priority int) error {
	return unix.SchedSetscheduler(0, unix.SCHED_RR, &unix.SchedParam{Priority: int32(priority)})
}
