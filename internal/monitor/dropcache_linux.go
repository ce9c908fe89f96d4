//go:build linux

package monitor

import (
	"os"

	"golang.org/x/sys/unix"
)

// dropFileCache hints the kernel to evict the file's pages so a read-back
// hits the device rather than the page cache. Best effort.
func dropFileCache(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return
	}
	_ = unix.Fadvise(int(f.Fd()), 0, info.Size(), unix.FADV_DONTNEED)
}
