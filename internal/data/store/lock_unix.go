//go:build unix

package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/penwyp/go-timesheet/internal/util"
	"golang.org/x/sys/unix"
)

// fileLock is an advisory lock on a sibling file. The state file itself is replaced on every
// write, so locking it directly would not exclude other writers.
type fileLock struct {
	path string
}

func newFileLock(path string) *fileLock {
	return &fileLock{path: path}
}

// Lock blocks until the exclusive lock is held and returns its release function
func (l *fileLock) Lock() (func(), error) {
	if err := util.EnsureDir(filepath.Dir(l.path)); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	for {
		err = unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to lock %s: %w", l.path, err)
	}

	return func() {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		f.Close()
	}, nil
}
