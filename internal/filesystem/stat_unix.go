//go:build !windows

package filesystem

import (
	"os"
	"syscall"
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

// ExtractStat pulls device, inode, link count, ownership and the extra
// timestamps out of an os.FileInfo. On Unix the inode change time is
// the closest available stand-in for a creation time.
func ExtractStat(info os.FileInfo) StatInfo {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return StatInfo{}
	}
	return StatInfo{
		Dev:        uint64(stat.Dev),
		Ino:        uint64(stat.Ino),
		Nlink:      uint64(stat.Nlink),
		UID:        stat.Uid,
		GID:        stat.Gid,
		CreatedAt:  time.Unix(int64(stat.Ctim.Sec), int64(stat.Ctim.Nsec)),
		AccessedAt: time.Unix(int64(stat.Atim.Sec), int64(stat.Atim.Nsec)),
		OK:         true,
	}
}
