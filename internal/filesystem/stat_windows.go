//go:build windows

package filesystem

import (
	"os"
	"time"
)

// StatInfo carries the platform-level identity and timestamps of a file.
// OK is false when the underlying syscall data was unavailable.
type StatInfo struct {
	Dev        uint64
	Ino        uint64
	Nlink      uint64
	UID        uint32
	GID        uint32
	CreatedAt  time.Time
	AccessedAt time.Time
	OK         bool
}

// ExtractStat has no device/inode identity to report on Windows, so
// hardlink detection degrades to treating every path as independent.
func ExtractStat(info os.FileInfo) StatInfo {
	return StatInfo{}
}
