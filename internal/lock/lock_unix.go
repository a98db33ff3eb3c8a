//go:build unix

package lock

import (
	"os"
	"strconv"

	"golang.org/x/sys/unix"

	vainErrors "github.com/bashhack/gitvain/internal/errors"
)

// openAttempts bounds how often Acquire retries when the lock file is
// replaced between open and flock.
const openAttempts = 3

func supported() error { return nil }

// Acquire tries to acquire the lock without blocking. It fails with
// ErrAlreadyRunning when a live process holds it. A lock file left behind by
// a dead process is taken over.
func (l *Locker) Acquire() error {
	for attempt := 0; attempt < openAttempts; attempt++ {
		fd, err := os.OpenFile(l.lockFile, os.O_CREATE|os.O_RDWR, 0o644)
		if err != nil {
			return vainErrors.NewLockError(l.lockFile, 0,
				vainErrors.Wrap(err, "failed to open lock file"))
		}

		if err := unix.Flock(int(fd.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
			_ = fd.Close()

			// EWOULDBLOCK and EAGAIN are distinct on some older systems;
			// both mean another descriptor holds the lock.
			if vainErrors.Is(err, unix.EWOULDBLOCK) || vainErrors.Is(err, unix.EAGAIN) {
				return l.handleBlockedLock()
			}
			return vainErrors.NewLockError(l.lockFile, 0,
				vainErrors.Wrap(err, "failed to acquire lock"))
		}

		// A releasing process unlinks the file while still holding the
		// lock; if we locked that orphaned inode, start over.
		same, err := sameFile(fd, l.lockFile)
		if err != nil {
			_ = fd.Close()
			return vainErrors.NewLockError(l.lockFile, 0, err)
		}
		if !same {
			_ = fd.Close()
			continue
		}

		l.lockFd = fd
		if err := l.resetAndWritePid(); err != nil {
			if releaseErr := l.Release(); releaseErr != nil {
				return vainErrors.Join(err, releaseErr)
			}
			return err
		}

		l.acquired = true
		return nil
	}

	return vainErrors.NewLockError(l.lockFile, 0,
		vainErrors.Wrap(vainErrors.ErrLockAcquisitionFailure, "lock file kept changing while acquiring it"))
}

// handleBlockedLock reports who holds the lock
func (l *Locker) handleBlockedLock() error {
	otherPid, err := l.readLockFilePid()
	if err != nil {
		return vainErrors.NewLockError(l.lockFile, 0,
			vainErrors.Join(vainErrors.ErrAlreadyRunning, vainErrors.Wrap(err, "couldn't identify its PID")))
	}
	if !isProcessRunning(otherPid) {
		// The holder forked before dying or its PID was never written;
		// either way the lock is still held and cannot be stolen safely.
		return vainErrors.NewLockError(l.lockFile, otherPid,
			vainErrors.Wrap(vainErrors.ErrLockAcquisitionFailure, "lock is held but the recorded process is gone"))
	}
	return vainErrors.NewLockError(l.lockFile, otherPid, vainErrors.ErrAlreadyRunning)
}

// sameFile reports whether fd is still the file at path.
func sameFile(fd *os.File, path string) (bool, error) {
	var held, current unix.Stat_t
	if err := unix.Fstat(int(fd.Fd()), &held); err != nil {
		return false, vainErrors.Wrap(err, "failed to stat lock descriptor")
	}
	if err := unix.Stat(path, &current); err != nil {
		if vainErrors.Is(err, unix.ENOENT) {
			return false, nil
		}
		return false, vainErrors.Wrap(err, "failed to stat lock file")
	}
	return held.Dev == current.Dev && held.Ino == current.Ino, nil
}

// resetAndWritePid clears the file and writes the current PID
func (l *Locker) resetAndWritePid() error {
	if err := l.lockFd.Truncate(0); err != nil {
		return vainErrors.NewLockError(l.lockFile, l.pid,
			vainErrors.Wrap(err, "failed to truncate lock file"))
	}
	if _, err := l.lockFd.WriteAt([]byte(strconv.Itoa(l.pid)), 0); err != nil {
		return vainErrors.NewLockError(l.lockFile, l.pid,
			vainErrors.Wrap(err, "failed to write PID to lock file"))
	}
	return nil
}

// isProcessRunning checks if a process exists using signal 0. EPERM means it
// exists but belongs to another user.
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || vainErrors.Is(err, unix.EPERM)
}

// Release releases the lock if it was acquired. The file is removed while the
// lock is still held so no other process can lock the old inode.
func (l *Locker) Release() error {
	if l.lockFd == nil {
		return nil
	}

	var err error
	if removeErr := os.Remove(l.lockFile); removeErr != nil && !os.IsNotExist(removeErr) {
		err = vainErrors.NewLockError(l.lockFile, l.pid,
			vainErrors.Wrap(removeErr, "failed to remove lock file"))
	}

	if flockErr := unix.Flock(int(l.lockFd.Fd()), unix.LOCK_UN); flockErr != nil && err == nil {
		err = vainErrors.NewLockError(l.lockFile, l.pid,
			vainErrors.Wrap(flockErr, "failed to release lock"))
	}

	// Always try to close the file descriptor, even if previous operations failed
	if closeErr := l.lockFd.Close(); closeErr != nil && err == nil {
		err = vainErrors.NewLockError(l.lockFile, l.pid,
			vainErrors.Wrap(closeErr, "failed to close lock file"))
	}

	l.lockFd = nil
	l.acquired = false
	return err
}
