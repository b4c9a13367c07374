//go:build !unix

package store

// fileLock is a no-op where flock is unavailable; the in-process mutex still orders writes.
type fileLock struct{}

func newFileLock(string) *fileLock {
	return &fileLock{}
}

func (l *fileLock) Lock() (func(), error) {
	return func() {}, nil
}
