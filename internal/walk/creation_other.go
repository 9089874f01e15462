//go:build !linux && !darwin

package walk

import (
	"os"
	"time"
)

// creationTime falls back to modification time on platforms where this
// module does not special-case the birth-time syscall.
func creationTime(fi os.FileInfo) time.Time {
	return fi.ModTime()
}
