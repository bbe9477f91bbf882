// File: api/device.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Device function table exposed to the platform loader. The table is
// the opaque device handle: every entry closes over the owning poll
// context, so recovering the context never requires type punning.

package api

// Device version tags reported to the platform loader.
const (
	DeviceTag     uint32 = 0x53454e53 // "SENS"
	DeviceVersion uint32 = 0x0103     // poll-device API 1.3
)

// Device is the function table satisfying the platform's poll-device
// contract. All entries follow the C return convention: 0 or a negated
// errno, except Poll which returns an event count or a negated errno.
type Device struct {
	Tag     uint32
	Version uint32

	// Activate enables or disables a logical sensor.
	Activate func(handle SensorHandle, enabled bool) int

	// SetDelay sets the sampling interval for handle, in nanoseconds.
	SetDelay func(handle SensorHandle, ns int64) int

	// Poll blocks until events are available and fills out, returning
	// the number of events produced.
	Poll func(out []Event) int

	// Batch configures batched sampling. Flags and timeout are accepted
	// for ABI compatibility; this HAL version only honors the interval.
	Batch func(handle SensorHandle, flags int32, ns, timeout int64) int

	// Flush requests buffered events plus a flush-complete marker.
	Flush func(handle SensorHandle) int

	// Close releases all device resources. Always returns 0.
	Close func() int
}
