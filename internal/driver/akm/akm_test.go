// File: internal/driver/akm/akm_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Drain-path tests against a pipe standing in for the compass evdev
// node, and sysfs-attribute tests against temp files.

package akm

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-sensors/api"
)

func newPipeDriver(t *testing.T) (*Driver, int) {
	t.Helper()
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		t.Fatalf("pipe: %v", err)
	}
	_ = unix.SetNonblock(fds[0], true)
	dir := t.TempDir()
	d := &Driver{
		fd:         fds[0],
		enableAttr: filepath.Join(dir, "enable"),
		rateAttr:   filepath.Join(dir, "rate"),
	}
	t.Cleanup(func() {
		_ = d.Close()
		_ = unix.Close(fds[1])
	})
	return d, fds[1]
}

func feed(t *testing.T, w int, recs ...[]byte) {
	t.Helper()
	for _, r := range recs {
		if _, err := unix.Write(w, r); err != nil {
			t.Fatalf("feed: %v", err)
		}
	}
}

// TestReadEvents_SealsOnSynReport checks axis updates latch into the
// staged sample and only a SYN_REPORT emits an event.
func TestReadEvents_SealsOnSynReport(t *testing.T) {
	d, w := newPipeDriver(t)
	feed(t, w,
		makeInputEvent(1, 0, evAbs, absX, 100),
		makeInputEvent(1, 0, evAbs, absY, -200),
		makeInputEvent(1, 0, evAbs, absZ, 50),
		makeInputEvent(1, 500, evSyn, synReport, 0),
	)

	out := make([]api.Event, 4)
	n, err := d.ReadEvents(out)
	if err != nil {
		t.Fatalf("ReadEvents: %v", err)
	}
	if n != 1 {
		t.Fatalf("ReadEvents = %d, want 1 sealed sample", n)
	}
	ev := out[0]
	if ev.Sensor != api.HandleMagnetometer || ev.Type != api.TypeMagneticField {
		t.Errorf("identity = (%s, %d), want magnetometer", ev.Sensor, ev.Type)
	}
	if ev.Timestamp != 1*1e9+500*1e3 {
		t.Errorf("timestamp = %d, want syn-report time", ev.Timestamp)
	}
	want := [3]float32{100 * magScale, -200 * magScale, 50 * magScale}
	if ev.Values != want {
		t.Errorf("values = %v, want %v", ev.Values, want)
	}
}

// TestReadEvents_PartialSampleEmitsNothing checks axis events without a
// SYN_REPORT stay staged.
func TestReadEvents_PartialSampleEmitsNothing(t *testing.T) {
	d, w := newPipeDriver(t)
	feed(t, w, makeInputEvent(1, 0, evAbs, absX, 100))

	n, err := d.ReadEvents(make([]api.Event, 4))
	if err != nil || n != 0 {
		t.Fatalf("ReadEvents = (%d, %v), want (0, nil)", n, err)
	}
	if d.HasPendingEvents() {
		t.Error("partial sample reported as pending")
	}
}

// TestReadEvents_OverflowParksSample checks a second sealed sample
// beyond the caller's capacity is reported via HasPendingEvents.
func TestReadEvents_OverflowParksSample(t *testing.T) {
	d, w := newPipeDriver(t)
	feed(t, w,
		makeInputEvent(1, 0, evAbs, absX, 10),
		makeInputEvent(1, 0, evSyn, synReport, 0),
		makeInputEvent(2, 0, evAbs, absX, 20),
		makeInputEvent(2, 0, evSyn, synReport, 0),
	)

	out := make([]api.Event, 1)
	n, err := d.ReadEvents(out)
	if err != nil || n != 1 {
		t.Fatalf("ReadEvents = (%d, %v), want (1, nil)", n, err)
	}
	if !d.HasPendingEvents() {
		t.Fatal("second sample not parked")
	}
	n, err = d.ReadEvents(out)
	if err != nil || n != 1 || out[0].Values[0] != 20*magScale {
		t.Fatalf("second drain = (%d, %v) %+v, want the parked sample", n, err, out[0])
	}
}

func TestEnable_WritesSysfsAttribute(t *testing.T) {
	d, _ := newPipeDriver(t)

	if err := d.Enable(api.HandleMagnetometer, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if got, _ := os.ReadFile(d.enableAttr); string(got) != "1" {
		t.Errorf("enable attribute = %q, want \"1\"", got)
	}
	if err := d.Enable(api.HandleMagnetometer, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got, _ := os.ReadFile(d.enableAttr); string(got) != "0" {
		t.Errorf("enable attribute = %q, want \"0\"", got)
	}

	if err := d.Enable(api.HandleAccelerometer, true); !errors.Is(err, api.ErrInvalidArgument) {
		t.Errorf("foreign handle accepted: %v", err)
	}
}

func TestSetDelay_WritesMilliseconds(t *testing.T) {
	d, _ := newPipeDriver(t)

	if err := d.SetDelay(api.HandleMagnetometer, 20e6); err != nil {
		t.Fatalf("setDelay: %v", err)
	}
	if got, _ := os.ReadFile(d.rateAttr); string(got) != "20" {
		t.Errorf("rate attribute = %q, want \"20\"", got)
	}
	// Sub-millisecond intervals clamp to the 1 ms floor.
	if err := d.SetDelay(api.HandleMagnetometer, 100); err != nil {
		t.Fatalf("setDelay: %v", err)
	}
	if got, _ := os.ReadFile(d.rateAttr); string(got) != "1" {
		t.Errorf("rate attribute = %q, want \"1\"", got)
	}
}

func TestFlush_NotSupported(t *testing.T) {
	d, _ := newPipeDriver(t)
	if err := d.Flush(api.HandleMagnetometer); !errors.Is(err, api.ErrNotSupported) {
		t.Errorf("Flush = %v, want ErrNotSupported", err)
	}
}
