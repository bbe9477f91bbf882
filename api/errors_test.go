// File: api/errors_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import (
	"fmt"
	"testing"

	"golang.org/x/sys/unix"
)

func TestErrnoCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"invalid argument", ErrInvalidArgument, -int(unix.EINVAL)},
		{"absent slot", ErrNoDevice, -int(unix.ENODEV)},
		{"not supported", ErrNotSupported, -int(unix.ENOTSUP)},
		{"closed", ErrClosed, -int(unix.EBADF)},
		{"wrapped sentinel", fmt.Errorf("route: %w", ErrInvalidArgument), -int(unix.EINVAL)},
		{"wrapped errno", fmt.Errorf("hub read: %w", unix.EAGAIN), -int(unix.EAGAIN)},
		{"bare errno", unix.ENOMEM, -int(unix.ENOMEM)},
		{"opaque error", fmt.Errorf("something else"), -int(unix.EIO)},
	}
	for _, tc := range cases {
		if got := ErrnoCode(tc.err); got != tc.want {
			t.Errorf("%s: ErrnoCode = %d, want %d", tc.name, got, tc.want)
		}
	}
}
