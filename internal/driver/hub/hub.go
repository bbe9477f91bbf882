// File: internal/driver/hub/hub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Combined motion hub driver. The hub firmware batches samples from the
// accelerometers and the gesture engines into back-to-back packets on a
// character device; enable, sampling rate, and flush are ioctls on the
// same descriptor.

package hub

import (
	"fmt"
	"log"
	"sync"

	"github.com/eapache/queue"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sensors/api"
)

// ioctl requests understood by the hub kernel driver.
const (
	ioctlSetSensors = 0x40045302 // _IOW('S', 0x02, uint32) enabled-sensor bitmask
	ioctlSetDelay   = 0x40045303 // _IOW('S', 0x03, uint32) sample interval, ms
	ioctlFlush      = 0x40045304 // _IOW('S', 0x04, uint32) flush target handle
)

// Driver reads batched sample packets from the sensor hub character
// device. One physical read can carry several packets, so decoded
// events beyond the caller's capacity are parked in a pending FIFO and
// surfaced through HasPendingEvents.
type Driver struct {
	fd int

	mu          sync.Mutex
	pending     *queue.Queue // of api.Event
	maxPending  int
	enabledMask uint32
	closed      bool
}

// New opens the hub character device non-blocking. maxPending caps the
// parked-event FIFO; overflow drops the oldest event (logged).
func New(devicePath string, maxPending int) (*Driver, error) {
	fd, err := unix.Open(devicePath, unix.O_RDONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", devicePath, err)
	}
	if maxPending <= 0 {
		maxPending = 256
	}
	return &Driver{
		fd:         fd,
		pending:    queue.New(),
		maxPending: maxPending,
	}, nil
}

// Fd returns the hub readiness descriptor. Valid for the driver's whole
// lifetime; the poll context registers it once.
func (d *Driver) Fd() int { return d.fd }

// Enable flips handle's bit in the enabled-sensor mask and pushes the
// whole mask to the firmware.
func (d *Driver) Enable(handle api.SensorHandle, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return api.ErrClosed
	}
	mask := d.enabledMask
	if enabled {
		mask |= 1 << uint(handle)
	} else {
		mask &^= 1 << uint(handle)
	}
	if err := unix.IoctlSetInt(d.fd, ioctlSetSensors, int(mask)); err != nil {
		return fmt.Errorf("hub set sensors: %w", err)
	}
	d.enabledMask = mask
	return nil
}

// SetDelay converts the requested interval to the firmware's millisecond
// granularity and applies it. The hub has a single rate shared by all of
// its sensors; the fastest requested interval wins at the firmware level.
func (d *Driver) SetDelay(handle api.SensorHandle, ns int64) error {
	_ = handle
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return api.ErrClosed
	}
	ms := int(ns / 1e6)
	if ms < 1 {
		ms = 1
	}
	if err := unix.IoctlSetInt(d.fd, ioctlSetDelay, ms); err != nil {
		return fmt.Errorf("hub set delay: %w", err)
	}
	return nil
}

// ReadEvents serves parked events first, then pulls fresh packets until
// the descriptor runs dry or out is full. Never blocks: the descriptor
// is non-blocking and EAGAIN ends the read pass.
func (d *Driver) ReadEvents(out []api.Event) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, api.ErrClosed
	}

	n := 0
	for n < len(out) && d.pending.Length() > 0 {
		out[n] = d.pending.Remove().(api.Event)
		n++
	}

	var raw [packetSize * 16]byte
	for n < len(out) {
		nr, err := unix.Read(d.fd, raw[:])
		if nr <= 0 {
			if err == unix.EINTR {
				continue
			}
			if err != nil && err != unix.EAGAIN {
				return n, fmt.Errorf("hub read: %w", err)
			}
			break
		}
		if nr%packetSize != 0 {
			log.Printf("[hub] truncated read of %d bytes, tail dropped", nr)
			nr -= nr % packetSize
		}
		for off := 0; off < nr; off += packetSize {
			ev, derr := decodePacket(raw[off : off+packetSize])
			if derr != nil {
				log.Printf("[hub] %v", derr)
				continue
			}
			if n < len(out) {
				out[n] = ev
				n++
			} else {
				d.park(ev)
			}
		}
	}
	return n, nil
}

// park queues an overflow event, evicting the oldest on a full FIFO.
func (d *Driver) park(ev api.Event) {
	if d.pending.Length() >= d.maxPending {
		d.pending.Remove()
		log.Printf("[hub] pending queue full, dropped oldest event")
	}
	d.pending.Add(ev)
}

// HasPendingEvents reports parked events awaiting a drain, independent
// of descriptor readiness.
func (d *Driver) HasPendingEvents() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.Length() > 0
}

// Flush asks the firmware to emit everything it has buffered for handle
// plus a flush-complete packet, which decodes to the meta-data marker.
func (d *Driver) Flush(handle api.SensorHandle) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return api.ErrClosed
	}
	if err := unix.IoctlSetInt(d.fd, ioctlFlush, int(handle)); err != nil {
		return fmt.Errorf("hub flush: %w", err)
	}
	return nil
}

// Close releases the device descriptor and drops parked events.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	d.pending = queue.New()
	if err := unix.Close(d.fd); err != nil {
		return fmt.Errorf("hub close: %w", err)
	}
	return nil
}
