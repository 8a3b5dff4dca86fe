package printer_dashboard

import "fmt"

// Failure taxonomy for a poll cycle. Transport and payload failures map to
// DEGRADED; a device-reported fault maps to ERROR. None of them are fatal:
// the loop retries on the next tick.

// TransportError covers timeouts, refused connections and non-success
// HTTP responses from the status source.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PayloadError covers malformed responses and missing required fields.
type PayloadError struct {
	Field  string
	Reason string
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("payload: %s: %s", e.Field, e.Reason)
}

// DeviceFault is raised when the poll itself succeeds but the device
// reports an explicit error/shutdown condition.
type DeviceFault struct {
	Reason string
}

func (e *DeviceFault) Error() string {
	if e.Reason == "" {
		return "device fault"
	}
	return "device fault: " + e.Reason
}
