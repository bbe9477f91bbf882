// File: internal/driver/hub/packet.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-layout packet codec for the sensor hub character device. One
// physical read can carry several packets back to back; each packet
// decodes to exactly one logical event.

package hub

import (
	"encoding/binary"
	"fmt"

	"github.com/momentics/hioload-sensors/api"
)

// Hub packet layout, little endian, packetSize bytes:
//
//	[0]     packet kind
//	[1]     status
//	[2:4]   x sample (int16)
//	[4:6]   y sample (int16)
//	[6:8]   z sample (int16)
//	[8:16]  timestamp, nanoseconds (int64)
const packetSize = 16

type packetKind uint8

const (
	pktAccel packetKind = iota + 1
	pktAccel2
	pktLight
	pktProximity
	pktDisplayRotate
	pktFlatUp
	pktFlatDown
	pktStowed
	pktCameraActivate
	pktFlushComplete
)

// Sample scaling applied by the hub firmware.
const (
	accelScale = 9.80665 / 1024.0 // counts to m/s^2
	luxScale   = 1.0              // counts to lux
)

// decodePacket turns one raw packet into an event. Unknown kinds are an
// error; the caller logs and skips them so one bad packet never poisons
// the rest of the read.
func decodePacket(pkt []byte) (api.Event, error) {
	if len(pkt) < packetSize {
		return api.Event{}, fmt.Errorf("short packet: %d bytes", len(pkt))
	}
	kind := packetKind(pkt[0])
	status := int8(pkt[1])
	x := int16(binary.LittleEndian.Uint16(pkt[2:4]))
	y := int16(binary.LittleEndian.Uint16(pkt[4:6]))
	z := int16(binary.LittleEndian.Uint16(pkt[6:8]))
	ts := int64(binary.LittleEndian.Uint64(pkt[8:16]))

	ev := api.Event{Timestamp: ts, Status: status}
	switch kind {
	case pktAccel:
		ev.Sensor = api.HandleAccelerometer
		ev.Type = api.TypeAccelerometer
		ev.Values = [3]float32{float32(x) * accelScale, float32(y) * accelScale, float32(z) * accelScale}
	case pktAccel2:
		ev.Sensor = api.HandleSecondaryAccel
		ev.Type = api.TypeAccelerometer
		ev.Values = [3]float32{float32(x) * accelScale, float32(y) * accelScale, float32(z) * accelScale}
	case pktLight:
		ev.Sensor = api.HandleLight
		ev.Type = api.TypeLight
		ev.Values[0] = float32(x) * luxScale
	case pktProximity:
		ev.Sensor = api.HandleProximity
		ev.Type = api.TypeProximity
		ev.Values[0] = float32(x)
	case pktDisplayRotate:
		ev.Sensor = api.HandleDisplayRotate
		ev.Type = api.TypeDisplayRotate
		ev.Values[0] = float32(x)
	case pktFlatUp:
		ev.Sensor = api.HandleFlatUp
		ev.Type = api.TypeGesture
		ev.Values[0] = float32(x)
	case pktFlatDown:
		ev.Sensor = api.HandleFlatDown
		ev.Type = api.TypeGesture
		ev.Values[0] = float32(x)
	case pktStowed:
		ev.Sensor = api.HandleStowed
		ev.Type = api.TypeGesture
		ev.Values[0] = float32(x)
	case pktCameraActivate:
		ev.Sensor = api.HandleCameraActivate
		ev.Type = api.TypeGesture
		ev.Values[0] = float32(x)
	case pktFlushComplete:
		// x carries the handle the flush was requested for.
		ev.Sensor = api.SensorHandle(x)
		ev.Type = api.TypeMetaData
	default:
		return api.Event{}, fmt.Errorf("unknown packet kind 0x%02x", pkt[0])
	}
	return ev, nil
}
