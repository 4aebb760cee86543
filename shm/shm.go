// Package shm provides helpers for dealing with POSIX shared memory,
// the mechanism wl_shm_pool buffers are backed by.
package shm

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Create opens a new anonymous shared-memory file: a /dev/shm entry
// that is unlinked immediately after opening, leaving the caller with
// the sole open file descriptor.
func Create() (*os.File, error) {
	path := "/dev/shm/wl-shm-" + time.Now().String()

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return nil, err
	}

	return file, os.Remove(path)
}

// Mmap is a shared memory mapping obtained from MapShared.
type Mmap []byte

// MapShared maps size bytes of file with the given mmap protection
// flags, shared so that writes are visible to the compositor.
func MapShared(file *os.File, size int, prot int) (mmap Mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	sc.Control(func(fd uintptr) {
		m, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		mmap, err = Mmap(m), merr
	})

	return mmap, err
}

// Unmap releases the mapping.
func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}
