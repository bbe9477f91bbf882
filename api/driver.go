// File: api/driver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Driver capability abstraction: one multiplexed event source owned by
// the poll context. Register-level protocols (I2C, ioctl, sysfs) stay
// behind this interface.

package api

// Driver is a single sensor event source backed by a file descriptor.
// All methods except ReadEvents may be called from the control thread
// while the poll thread blocks on the descriptor; drivers provide their
// own serialization where they need it.
type Driver interface {
	// Fd returns the readiness descriptor registered with the poll set.
	Fd() int

	// Enable turns a logical sensor on or off.
	Enable(handle SensorHandle, enabled bool) error

	// SetDelay sets the sampling interval for handle, in nanoseconds.
	SetDelay(handle SensorHandle, ns int64) error

	// ReadEvents drains up to len(out) buffered or readable events into
	// out and returns the number written. It must not block.
	ReadEvents(out []Event) (int, error)

	// HasPendingEvents reports decoded events buffered independently of
	// descriptor readiness. Drivers that batch several logical events
	// per physical read need this so the poll loop drains them even
	// when the descriptor is quiet.
	HasPendingEvents() bool

	// Flush requests that buffered events be emitted, followed by a
	// flush-complete marker event for handle.
	Flush(handle SensorHandle) error

	// Close releases the descriptor and any buffered state.
	Close() error
}
