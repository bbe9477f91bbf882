// File: internal/hal/wake.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Self-pipe wake channel. The control thread writes one byte to force
// the poll thread's blocked wait to return; single-byte pipe writes are
// atomic, so no further synchronization is needed between the two.

package hal

import (
	"fmt"
	"log"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sensors/api"
)

type wakePipe struct {
	readFd  int
	writeFd int
}

func newWakePipe() (*wakePipe, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, fmt.Errorf("wake pipe: %w", err)
	}
	// Non-blocking on both ends: the control thread must never stall on
	// a full pipe, and the poll thread drains one byte at a time.
	_ = unix.SetNonblock(fds[0], true)
	_ = unix.SetNonblock(fds[1], true)
	return &wakePipe{readFd: fds[0], writeFd: fds[1]}, nil
}

// Wake writes the wake byte. Best effort: callers log failures and move on.
func (w *wakePipe) Wake() error {
	_, err := unix.Write(w.writeFd, []byte{api.WakeMessage})
	return err
}

// Drain consumes exactly one byte from the read end and validates it.
// Anomalies are logged, never propagated.
func (w *wakePipe) Drain() {
	var msg [1]byte
	n, err := unix.Read(w.readFd, msg[:])
	if err != nil {
		log.Printf("[hal] error reading from wake pipe: %v", err)
		return
	}
	if n == 1 && msg[0] != api.WakeMessage {
		log.Printf("[hal] unknown message on wake pipe (0x%02x)", msg[0])
	}
}

func (w *wakePipe) Close() {
	_ = unix.Close(w.readFd)
	_ = unix.Close(w.writeFd)
}
