// File: api/types.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Shared sensor HAL type declarations, handles, and the event record.

package api

// SensorHandle is a stable integer naming a logical sensor. The values
// form the platform's sensor enumeration and never change for the life
// of the process.
type SensorHandle int32

const (
	HandleAccelerometer SensorHandle = iota
	HandleLight
	HandleDisplayRotate
	HandleProximity
	HandleFlatUp
	HandleFlatDown
	HandleStowed
	HandleCameraActivate
	HandleSecondaryAccel
	HandleMagnetometer
	NumHandles
)

func (h SensorHandle) String() string {
	switch h {
	case HandleAccelerometer:
		return "accelerometer"
	case HandleLight:
		return "light"
	case HandleDisplayRotate:
		return "display-rotate"
	case HandleProximity:
		return "proximity"
	case HandleFlatUp:
		return "flat-up"
	case HandleFlatDown:
		return "flat-down"
	case HandleStowed:
		return "stowed"
	case HandleCameraActivate:
		return "camera-activate"
	case HandleSecondaryAccel:
		return "secondary-accelerometer"
	case HandleMagnetometer:
		return "magnetometer"
	default:
		return "unknown"
	}
}

// SensorType tags the payload carried by an Event.
type SensorType int32

const (
	TypeAccelerometer SensorType = iota + 1
	TypeMagneticField
	TypeLight
	TypeProximity
	TypeDisplayRotate
	TypeGesture
	// TypeMetaData marks a flush-complete marker rather than a sample.
	TypeMetaData
)

// Event is the fixed-size record produced by driver drains and passed
// through to the platform unmodified. Timestamp is in nanoseconds.
type Event struct {
	Sensor    SensorHandle
	Type      SensorType
	Timestamp int64
	Values    [3]float32
	Status    int8
}

// WakeMessage is the single byte value recognized on the wake channel.
// Any other byte read from it is a protocol anomaly, logged and ignored.
const WakeMessage byte = 'W'
