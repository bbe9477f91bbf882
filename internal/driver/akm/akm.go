// File: internal/driver/akm/akm.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// AKM-style compass driver. Samples arrive as Linux input events on an
// evdev node: ABS_X/Y/Z latch axis values into a staged sample, which a
// SYN_REPORT seals into one magnetic-field event. Enable and sampling
// rate are sysfs attribute writes handled by the compass kernel driver.

package akm

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sensors/api"
)

// Microtesla per LSB reported by the AKM part.
const magScale = 0.06

// Driver consumes compass samples from an input device descriptor.
type Driver struct {
	fd         int
	enableAttr string
	rateAttr   string

	mu      sync.Mutex
	staged  [3]float32
	pending []api.Event
	closed  bool
}

// New opens the compass input device non-blocking. enableAttr and
// rateAttr name the sysfs files controlling the part.
func New(devicePath, enableAttr, rateAttr string) (*Driver, error) {
	fd, err := unix.Open(devicePath, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devicePath, err)
	}
	return &Driver{
		fd:         fd,
		enableAttr: enableAttr,
		rateAttr:   rateAttr,
	}, nil
}

// Fd returns the compass readiness descriptor.
func (d *Driver) Fd() int { return d.fd }

// Enable writes the sysfs enable attribute.
func (d *Driver) Enable(handle api.SensorHandle, enabled bool) error {
	if handle != api.HandleMagnetometer {
		return api.ErrInvalidArgument
	}
	v := "0"
	if enabled {
		v = "1"
	}
	if err := os.WriteFile(d.enableAttr, []byte(v), 0o644); err != nil {
		return fmt.Errorf("compass enable: %w", err)
	}
	return nil
}

// SetDelay writes the sampling interval, in milliseconds, to the sysfs
// rate attribute.
func (d *Driver) SetDelay(handle api.SensorHandle, ns int64) error {
	if handle != api.HandleMagnetometer {
		return api.ErrInvalidArgument
	}
	ms := ns / 1e6
	if ms < 1 {
		ms = 1
	}
	if err := os.WriteFile(d.rateAttr, []byte(strconv.FormatInt(ms, 10)), 0o644); err != nil {
		return fmt.Errorf("compass set delay: %w", err)
	}
	return nil
}

// ReadEvents drains staged samples first, then consumes raw input
// events until the descriptor runs dry or out is full. A sample is only
// emitted once its SYN_REPORT arrives; axis updates between reports
// stay latched in the staged value.
func (d *Driver) ReadEvents(out []api.Event) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, api.ErrClosed
	}

	n := 0
	for n < len(out) && len(d.pending) > 0 {
		out[n] = d.pending[0]
		d.pending = d.pending[1:]
		n++
	}

	var raw [inputEventSize * 32]byte
	for n < len(out) {
		nr, err := unix.Read(d.fd, raw[:])
		if nr <= 0 {
			if err == unix.EINTR {
				continue
			}
			if err != nil && err != unix.EAGAIN {
				return n, fmt.Errorf("compass read: %w", err)
			}
			break
		}
		if nr%inputEventSize != 0 {
			log.Printf("[akm] truncated read of %d bytes, tail dropped", nr)
			nr -= nr % inputEventSize
		}
		for off := 0; off < nr; off += inputEventSize {
			ie := parseInputEvent(raw[off : off+inputEventSize])
			switch {
			case ie.typ == evAbs && ie.code <= absZ:
				d.staged[ie.code] = float32(ie.value) * magScale
			case ie.typ == evSyn && ie.code == synReport:
				ev := api.Event{
					Sensor:    api.HandleMagnetometer,
					Type:      api.TypeMagneticField,
					Timestamp: ie.timestampNanos(),
					Values:    d.staged,
				}
				if n < len(out) {
					out[n] = ev
					n++
				} else {
					d.pending = append(d.pending, ev)
				}
			}
		}
	}
	return n, nil
}

// HasPendingEvents reports sealed samples awaiting a drain.
func (d *Driver) HasPendingEvents() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending) > 0
}

// Flush is not supported: the compass has no buffered-batch mode and no
// flush-complete marker. The poll context never routes flush here.
func (d *Driver) Flush(handle api.SensorHandle) error {
	_ = handle
	return api.ErrNotSupported
}

// Close releases the input device descriptor.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.pending = nil
	if err := unix.Close(d.fd); err != nil {
		return fmt.Errorf("compass close: %w", err)
	}
	return nil
}
