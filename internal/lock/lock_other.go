//go:build !unix

package lock

import (
	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

func supported() error {
	return vainErrors.NewLockError("", 0,
		vainErrors.Wrap(vainErrors.ErrLockAcquisitionFailure,
			"gitvain currently only supports Unix-like operating systems (Linux, macOS, BSD)"))
}

// Acquire is never reached here because New fails.
func (l *Locker) Acquire() error {
	return supported()
}

// Release implements Locker.Release
func (l *Locker) Release() error {
	if l.lockFd != nil {
		_ = l.lockFd.Close()
		l.lockFd = nil
	}
	l.acquired = false
	return nil
}
