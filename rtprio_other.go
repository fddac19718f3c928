//go:build !linux

// rtprio_other.go - real-time scheduling stub for non-Linux platforms (§6.4)

package alengine

// SetRealtimePriority is a no-op outside Linux and always returns nil;
// this package has no portable way to request real-time scheduling on
// other platforms.
func SetRealtimePriority(priority int) error {
	return nil
}
