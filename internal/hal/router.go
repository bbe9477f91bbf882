// File: internal/hal/router.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Static routing from logical sensor handle to driver slot.

package hal

import "github.com/momentics/hioload-sensors/api"

// Driver slot layout inside the poll context. The wake channel occupies
// the final poll-set entry.
const (
	slotHub = iota
	slotCompass
	numDrivers
	numFds
)

const wakeIdx = numFds - 1

// driverForHandle maps a logical sensor handle to its owning driver
// slot, or -1 when the handle is not recognized. Pure and re-evaluated
// on every routed call: handle values this build does not know about
// must surface as invalid-argument, never as a crash.
func driverForHandle(h api.SensorHandle) int {
	switch h {
	case api.HandleAccelerometer,
		api.HandleLight,
		api.HandleDisplayRotate,
		api.HandleProximity,
		api.HandleFlatUp,
		api.HandleFlatDown,
		api.HandleStowed,
		api.HandleCameraActivate,
		api.HandleSecondaryAccel:
		return slotHub
	case api.HandleMagnetometer:
		return slotCompass
	}
	return -1
}
