// File: internal/driver/akm/input.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux input-event decoding for the compass input device.

package akm

import "encoding/binary"

// input_event wire layout on 64-bit kernels: two int64 time fields,
// then type, code, value. 24 bytes total, little endian.
const inputEventSize = 24

// Event types and codes this driver consumes.
const (
	evSyn = 0x00
	evAbs = 0x03

	synReport = 0x00
	absX      = 0x00
	absY      = 0x01
	absZ      = 0x02
)

type inputEvent struct {
	sec   int64
	usec  int64
	typ   uint16
	code  uint16
	value int32
}

func parseInputEvent(b []byte) inputEvent {
	return inputEvent{
		sec:   int64(binary.LittleEndian.Uint64(b[0:8])),
		usec:  int64(binary.LittleEndian.Uint64(b[8:16])),
		typ:   binary.LittleEndian.Uint16(b[16:18]),
		code:  binary.LittleEndian.Uint16(b[18:20]),
		value: int32(binary.LittleEndian.Uint32(b[20:24])),
	}
}

func (e inputEvent) timestampNanos() int64 {
	return e.sec*1e9 + e.usec*1e3
}
