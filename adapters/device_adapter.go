// File: adapters/device_adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Device adapter: fills the platform's function table with stateless
// trampolines closing over a poll context. The table itself is the
// opaque device handle the platform holds.

package adapters

import (
	"github.com/momentics/hioload-sensors/api"
	"github.com/momentics/hioload-sensors/internal/hal"
)

// NewDevice binds the device table to ctx. Every entry forwards to the
// context and converts the result to the C-style return convention.
func NewDevice(ctx *hal.PollContext) *api.Device {
	return &api.Device{
		Tag:     api.DeviceTag,
		Version: api.DeviceVersion,

		Activate: func(handle api.SensorHandle, enabled bool) int {
			return api.ErrnoCode(ctx.Activate(handle, enabled))
		},
		SetDelay: func(handle api.SensorHandle, ns int64) int {
			return api.ErrnoCode(ctx.SetDelay(handle, ns))
		},
		Poll: func(out []api.Event) int {
			n, err := ctx.PollEvents(out)
			if err != nil {
				return api.ErrnoCode(err)
			}
			return n
		},
		Batch: func(handle api.SensorHandle, flags int32, ns, timeout int64) int {
			return api.ErrnoCode(ctx.Batch(handle, flags, ns, timeout))
		},
		Flush: func(handle api.SensorHandle) int {
			return api.ErrnoCode(ctx.Flush(handle))
		},
		Close: func() int {
			ctx.Close()
			return 0
		},
	}
}
