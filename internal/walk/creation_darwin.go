//go:build darwin

package walk

import (
	"os"
	"syscall"
	"time"
)

func statCreationTime(stat *syscall.Stat_t, fi os.FileInfo) time.Time {
	return time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)
}
