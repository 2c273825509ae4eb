//go:build windows

package logsearch

import "golang.org/x/sys/windows"

// Lock the whole file so a writer's range lock always overlaps ours.
const allBytes = ^uint32(0)

func (l *fileLock) lock(mode LockMode) error {
	var flags uint32
	if mode == LockExclusive {
		flags = windows.LOCKFILE_EXCLUSIVE_LOCK
	}
	ol := new(windows.Overlapped)
	return windows.LockFileEx(windows.Handle(l.f.Fd()), flags, 0, allBytes, allBytes, ol)
}

func (l *fileLock) unlock() error {
	ol := new(windows.Overlapped)
	return windows.UnlockFileEx(windows.Handle(l.f.Fd()), 0, allBytes, allBytes, ol)
}
