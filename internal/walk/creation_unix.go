//go:build linux || darwin

package walk

import (
	"os"
	"syscall"
	"time"
)

// creationTime returns the file's creation ("birth") time where the platform
// exposes one. Linux's ext4/xfs/btrfs statx birth time is not reachable
// through syscall.Stat_t, so ctime (status-change time) is used as the
// closest available proxy there; darwin exposes a true birth time via
// Timespec.
func creationTime(fi os.FileInfo) time.Time {
	stat, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return fi.ModTime()
	}
	return statCreationTime(stat, fi)
}
