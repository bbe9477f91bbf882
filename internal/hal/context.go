// File: internal/hal/context.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// PollContext is the multiplexing core of the HAL: it owns both driver
// slots and the wake channel, routes control-plane calls by sensor
// handle, and fans events from all sources into one blocking poll call.

package hal

import (
	"fmt"
	"log"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sensors/api"
)

// PollContext multiplexes the driver slots behind the platform's
// poll-device operations. Exactly one thread calls PollEvents; the
// control-plane methods may run on a different thread, coupled to the
// poller only through the atomic one-byte wake write.
type PollContext struct {
	slots [numDrivers]api.Driver
	fds   [numFds]unix.PollFd
	wake  *wakePipe

	polls    atomic.Uint64
	events   atomic.Uint64
	wakes    atomic.Uint64
	pollErrs atomic.Uint64
}

// PollStats is a snapshot of the context's counters.
type PollStats struct {
	Polls      uint64
	Events     uint64
	Wakes      uint64
	PollErrors uint64
}

// NewContext assembles a poll context from independently constructed
// driver slots. Either slot may be nil (construction failed upstream):
// its poll entry stays at fd -1 and never reports readiness, and calls
// routed to it fail with ErrNoDevice. Wake pipe failure is logged, not
// fatal; the context then runs without forced-wake support.
func NewContext(hubDrv, compassDrv api.Driver) *PollContext {
	c := &PollContext{}
	c.slots[slotHub] = hubDrv
	c.slots[slotCompass] = compassDrv

	for i := 0; i < numDrivers; i++ {
		c.fds[i] = unix.PollFd{Fd: -1, Events: unix.POLLIN}
		if c.slots[i] != nil {
			c.fds[i].Fd = int32(c.slots[i].Fd())
		}
	}

	c.fds[wakeIdx] = unix.PollFd{Fd: -1, Events: unix.POLLIN}
	w, err := newWakePipe()
	if err != nil {
		log.Printf("[hal] error creating wake pipe (%v); forced wakeups disabled", err)
	} else {
		c.wake = w
		c.fds[wakeIdx].Fd = int32(w.readFd)
	}
	return c
}

// Activate routes handle to its driver slot and delegates the enable
// call. Enabling the compass succeeds out of band from the hub's own
// readiness, so the poll loop is kicked awake to re-evaluate instead of
// sleeping on a stale wait.
func (c *PollContext) Activate(handle api.SensorHandle, enabled bool) error {
	drv := driverForHandle(handle)
	if drv < 0 {
		return api.ErrInvalidArgument
	}
	d := c.slots[drv]
	if d == nil {
		return api.ErrNoDevice
	}
	if err := d.Enable(handle, enabled); err != nil {
		return err
	}
	if handle == api.HandleMagnetometer && enabled && c.wake != nil {
		if err := c.wake.Wake(); err != nil {
			log.Printf("[hal] error sending wake message: %v", err)
		} else {
			c.wakes.Add(1)
		}
	}
	return nil
}

// SetDelay routes handle to its driver slot and delegates the
// sample-interval change.
func (c *PollContext) SetDelay(handle api.SensorHandle, ns int64) error {
	drv := driverForHandle(handle)
	if drv < 0 {
		return api.ErrInvalidArgument
	}
	d := c.slots[drv]
	if d == nil {
		return api.ErrNoDevice
	}
	return d.SetDelay(handle, ns)
}

// Batch aliases SetDelay. Flags and timeout are accepted for ABI
// compatibility; only the interval matters for this HAL version.
func (c *PollContext) Batch(handle api.SensorHandle, flags int32, ns, timeout int64) error {
	_ = flags
	_ = timeout
	return c.SetDelay(handle, ns)
}

// Flush always targets the hub slot: it is the only driver with an
// explicit flush-to-completion operation. A compass-exclusive handle
// therefore still produces a hub flush marker; preserved as-is pending
// product clarification.
func (c *PollContext) Flush(handle api.SensorHandle) error {
	d := c.slots[slotHub]
	if d == nil {
		return api.ErrNoDevice
	}
	return d.Flush(handle)
}

// PollEvents blocks until at least one registered source is ready, then
// drains everything currently available into out without re-blocking:
// the wait is infinite only while no events have been collected within
// this call, and zero-timeout afterwards. Slot order is fixed (hub
// before compass) and decides who wins scarce buffer capacity. Returns
// the number of events written; 0 is legal for a zero-capacity buffer
// or a wake-only wakeup, in which case the caller polls again.
func (c *PollContext) PollEvents(out []api.Event) (int, error) {
	if len(out) == 0 {
		return 0, nil
	}

	total := 0
	for {
		timeout := -1
		if total > 0 {
			timeout = 0
		}
		n, err := c.wait(timeout)
		if err != nil {
			c.pollErrs.Add(1)
			if total > 0 {
				// Drained events win; the caller hits the failure
				// again on its next poll.
				return total, nil
			}
			return 0, err
		}

		progressed := false
		for i := 0; i < numDrivers && total < len(out); i++ {
			d := c.slots[i]
			if d == nil {
				continue
			}
			ready := c.fds[i].Revents&unix.POLLIN != 0
			if !ready && !d.HasPendingEvents() {
				continue
			}
			nb, rerr := d.ReadEvents(out[total:])
			if rerr != nil {
				log.Printf("[hal] error draining slot %d: %v", i, rerr)
			}
			if nb > 0 {
				total += nb
				progressed = true
			}
			c.fds[i].Revents = 0
		}

		if c.wake != nil && c.fds[wakeIdx].Revents&unix.POLLIN != 0 {
			c.wake.Drain()
			c.fds[wakeIdx].Revents = 0
		}

		if total == len(out) {
			break
		}
		if total == 0 {
			// Woken with nothing drainable (wake byte, or a source
			// that produced no complete event yet). Hand control
			// back; the caller polls again.
			break
		}
		if n == 0 && !progressed {
			break
		}
	}

	c.events.Add(uint64(total))
	return total, nil
}

// wait blocks in poll(2) across all registered descriptors, absorbing
// EINTR. Any other failure is surfaced to the caller of PollEvents for
// that call only; the context stays usable.
func (c *PollContext) wait(timeout int) (int, error) {
	for {
		n, err := unix.Poll(c.fds[:], timeout)
		if err == nil {
			c.polls.Add(1)
			return n, nil
		}
		if err == unix.EINTR {
			continue
		}
		log.Printf("[hal] poll() failed: %v", err)
		return 0, fmt.Errorf("poll wait: %w", err)
	}
}

// Close releases both driver slots and the wake pipe. Safe regardless
// of prior error state; always fully releases what was acquired.
func (c *PollContext) Close() {
	for i, d := range c.slots {
		if d == nil {
			continue
		}
		if err := d.Close(); err != nil {
			log.Printf("[hal] error closing slot %d: %v", i, err)
		}
		c.slots[i] = nil
		c.fds[i].Fd = -1
	}
	if c.wake != nil {
		c.wake.Close()
		c.wake = nil
		c.fds[wakeIdx].Fd = -1
	}
}

// Stats returns a snapshot of the context's counters.
func (c *PollContext) Stats() PollStats {
	return PollStats{
		Polls:      c.polls.Load(),
		Events:     c.events.Load(),
		Wakes:      c.wakes.Load(),
		PollErrors: c.pollErrs.Load(),
	}
}

// SlotsPresent reports which driver slots were successfully constructed.
func (c *PollContext) SlotsPresent() (hub, compass bool) {
	return c.slots[slotHub] != nil, c.slots[slotCompass] != nil
}
