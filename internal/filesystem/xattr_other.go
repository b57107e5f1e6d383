//go:build !linux && !darwin

package filesystem

// PlatformTags reports no extended attributes on platforms without an
// xattr API.
func PlatformTags(path string) []string {
	return nil
}
