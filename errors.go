// errors.go - API-visible error taxonomy

package alengine

import "fmt"

// ALError is the error taxonomy: NoError plus seven error codes, returned
// directly by the calls that can fail. No operation in this package panics
// on a caller mistake. The sticky slot Device.LastError reads is set only
// by Device.MarkDisconnected; nothing sets the one Context.LastError reads.
type ALError int

const (
	NoError ALError = iota
	InvalidDevice
	InvalidContext
	InvalidEnum
	InvalidValue
	InvalidOperation
	InvalidName
	OutOfMemory
)

func (e ALError) String() string {
	switch e {
	case NoError:
		return "NoError"
	case InvalidDevice:
		return "InvalidDevice"
	case InvalidContext:
		return "InvalidContext"
	case InvalidEnum:
		return "InvalidEnum"
	case InvalidValue:
		return "InvalidValue"
	case InvalidOperation:
		return "InvalidOperation"
	case InvalidName:
		return "InvalidName"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return fmt.Sprintf("ALError(%d)", int(e))
	}
}

func (e ALError) Error() string { return e.String() }
