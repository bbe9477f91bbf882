// File: api/errors.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and the errno mapping used at the device-table
// boundary, where results are C-style integers (0 or -errno).

package api

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Common errors used across the HAL.
var (
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrNoDevice        = fmt.Errorf("driver slot is absent")
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrClosed          = fmt.Errorf("driver is closed")
)

// ErrnoCode converts err into the device table's return convention:
// 0 on success, otherwise a negated errno. Errors that wrap a unix.Errno
// keep their code; the HAL's own sentinels map to the closest errno, and
// anything else degrades to -EIO.
func ErrnoCode(err error) int {
	if err == nil {
		return 0
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		return -int(errno)
	}
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return -int(unix.EINVAL)
	case errors.Is(err, ErrNoDevice):
		return -int(unix.ENODEV)
	case errors.Is(err, ErrNotSupported):
		return -int(unix.ENOTSUP)
	case errors.Is(err, ErrClosed):
		return -int(unix.EBADF)
	}
	return -int(unix.EIO)
}
