// File: internal/hal/router_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hal

import (
	"testing"

	"github.com/momentics/hioload-sensors/api"
)

// TestDriverForHandle_AllKnownHandles checks every recognized handle
// routes to exactly one of the two slots.
func TestDriverForHandle_AllKnownHandles(t *testing.T) {
	hubHandles := []api.SensorHandle{
		api.HandleAccelerometer,
		api.HandleLight,
		api.HandleDisplayRotate,
		api.HandleProximity,
		api.HandleFlatUp,
		api.HandleFlatDown,
		api.HandleStowed,
		api.HandleCameraActivate,
		api.HandleSecondaryAccel,
	}
	for _, h := range hubHandles {
		if got := driverForHandle(h); got != slotHub {
			t.Errorf("driverForHandle(%s) = %d, want hub slot %d", h, got, slotHub)
		}
	}
	if got := driverForHandle(api.HandleMagnetometer); got != slotCompass {
		t.Errorf("driverForHandle(magnetometer) = %d, want compass slot %d", got, slotCompass)
	}
}

// TestDriverForHandle_Unrecognized checks unknown handles surface as a
// routing failure, never a slot index.
func TestDriverForHandle_Unrecognized(t *testing.T) {
	for _, h := range []api.SensorHandle{api.NumHandles, api.NumHandles + 7, -1, 1000} {
		if got := driverForHandle(h); got != -1 {
			t.Errorf("driverForHandle(%d) = %d, want -1", h, got)
		}
	}
}
