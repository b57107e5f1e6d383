//go:build linux || darwin

package filesystem

import (
	"strings"

	"golang.org/x/sys/unix"
)

// PlatformTags lists the user-namespace extended attributes set on
// path, without following symlinks. Attribute failures are not worth
// surfacing; a file with unreadable xattrs simply has no tags.
func PlatformTags(path string) []string {
	sz, err := unix.Llistxattr(path, nil)
	if err != nil || sz <= 0 {
		return nil
	}

	buf := make([]byte, sz)
	n, err := unix.Llistxattr(path, buf)
	if err != nil || n <= 0 {
		return nil
	}

	var tags []string
	for _, name := range strings.Split(strings.TrimRight(string(buf[:n]), "\x00"), "\x00") {
		if strings.HasPrefix(name, "user.") || strings.HasPrefix(name, "com.apple.") {
			tags = append(tags, name)
		}
	}
	return tags
}
