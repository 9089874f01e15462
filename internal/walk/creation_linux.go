//go:build linux

package walk

import (
	"os"
	"syscall"
	"time"
)

func statCreationTime(stat *syscall.Stat_t, fi os.FileInfo) time.Time {
	return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
}
