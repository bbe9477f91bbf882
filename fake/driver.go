// File: fake/driver.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fake implementation of api.Driver for testing and development.
// Backed by a real pipe so a poll context sees genuine descriptor
// readiness, with predictable, controllable behavior for every method.

package fake

import (
	"sync"

	"github.com/eapache/queue"
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sensors/api"
)

// Driver is a fake api.Driver. PushEvent makes the descriptor readable;
// PushPending exercises the buffered-without-readiness path.
type Driver struct {
	readFd  int
	writeFd int

	mu        sync.Mutex
	pending   *queue.Queue // of api.Event
	enabled   map[api.SensorHandle]bool
	delays    map[api.SensorHandle]int64
	flushed   []api.SensorHandle
	closed    bool
	enableErr error
	delayErr  error
	flushErr  error
	readErr   error
}

// NewDriver creates a fake driver with an open pipe pair.
func NewDriver() (*Driver, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	_ = unix.SetNonblock(fds[0], true)
	_ = unix.SetNonblock(fds[1], true)
	return &Driver{
		readFd:  fds[0],
		writeFd: fds[1],
		pending: queue.New(),
		enabled: make(map[api.SensorHandle]bool),
		delays:  make(map[api.SensorHandle]int64),
	}, nil
}

// Fd implements api.Driver.Fd.
func (d *Driver) Fd() int { return d.readFd }

// Enable implements api.Driver.Enable.
func (d *Driver) Enable(handle api.SensorHandle, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return api.ErrClosed
	}
	if d.enableErr != nil {
		return d.enableErr
	}
	d.enabled[handle] = enabled
	return nil
}

// SetDelay implements api.Driver.SetDelay.
func (d *Driver) SetDelay(handle api.SensorHandle, ns int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return api.ErrClosed
	}
	if d.delayErr != nil {
		return d.delayErr
	}
	d.delays[handle] = ns
	return nil
}

// ReadEvents implements api.Driver.ReadEvents. It pops queued events up
// to the capacity of out and consumes one readiness byte per popped
// event, so events left behind keep the descriptor readable exactly
// like a real fd-backed queue.
func (d *Driver) ReadEvents(out []api.Event) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, api.ErrClosed
	}
	if d.readErr != nil {
		return 0, d.readErr
	}
	n := 0
	var b [1]byte
	for n < len(out) && d.pending.Length() > 0 {
		out[n] = d.pending.Remove().(api.Event)
		n++
		// Events queued via PushPending carry no readiness byte;
		// EAGAIN here is expected and ignored.
		_, _ = unix.Read(d.readFd, b[:])
	}
	return n, nil
}

// HasPendingEvents implements api.Driver.HasPendingEvents.
func (d *Driver) HasPendingEvents() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending.Length() > 0
}

// Flush implements api.Driver.Flush. It records the request and queues
// a flush-complete marker, signaling readiness like a real flush would.
func (d *Driver) Flush(handle api.SensorHandle) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return api.ErrClosed
	}
	if d.flushErr != nil {
		d.mu.Unlock()
		return d.flushErr
	}
	d.flushed = append(d.flushed, handle)
	d.pending.Add(api.Event{Sensor: handle, Type: api.TypeMetaData})
	d.mu.Unlock()
	_, _ = unix.Write(d.writeFd, []byte{1})
	return nil
}

// Close implements api.Driver.Close.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	_ = unix.Close(d.readFd)
	_ = unix.Close(d.writeFd)
	return nil
}

// PushEvent queues ev and makes the descriptor readable.
func (d *Driver) PushEvent(ev api.Event) {
	d.mu.Lock()
	d.pending.Add(ev)
	d.mu.Unlock()
	_, _ = unix.Write(d.writeFd, []byte{1})
}

// PushPending queues ev WITHOUT descriptor readiness, exercising the
// HasPendingEvents drain path.
func (d *Driver) PushPending(ev api.Event) {
	d.mu.Lock()
	d.pending.Add(ev)
	d.mu.Unlock()
}

// SetEnableError configures Enable to fail.
func (d *Driver) SetEnableError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enableErr = err
}

// SetDelayError configures SetDelay to fail.
func (d *Driver) SetDelayError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delayErr = err
}

// SetFlushError configures Flush to fail.
func (d *Driver) SetFlushError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushErr = err
}

// SetReadError configures ReadEvents to fail.
func (d *Driver) SetReadError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readErr = err
}

// Enabled reports the last Enable state recorded for handle.
func (d *Driver) Enabled(handle api.SensorHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enabled[handle]
}

// EnableCalled reports whether Enable was ever called for handle.
func (d *Driver) EnableCalled(handle api.SensorHandle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.enabled[handle]
	return ok
}

// DelayOf returns the last interval recorded for handle and whether one
// was ever set.
func (d *Driver) DelayOf(handle api.SensorHandle) (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ns, ok := d.delays[handle]
	return ns, ok
}

// Flushed returns all handles flush was requested for, in order.
func (d *Driver) Flushed() []api.SensorHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]api.SensorHandle, len(d.flushed))
	copy(out, d.flushed)
	return out
}

// Closed reports whether Close was called.
func (d *Driver) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
