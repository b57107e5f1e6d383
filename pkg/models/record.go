package models

import (
	"fmt"
	"time"
)

// Category is the coarse content class a file is bucketed into,
// derived from its MIME type or extension.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryArchive  Category = "archive"
	CategoryCode     Category = "code"
	CategoryOther    Category = "other"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryDocument, CategoryImage, CategoryVideo,
		CategoryAudio, CategoryArchive, CategoryCode, CategoryOther,
	}
}

// DevIno identifies the physical storage object behind a path.
// Two paths with the same DevIno are hard links to one file.
type DevIno struct {
	Dev uint64 `json:"dev"`
	Ino uint64 `json:"ino"`
}

// FileRecord describes one discovered file within a scan session.
// All fields except the hash tiers are populated by the metadata
// extractor and immutable afterwards; PartialHash and FullHash are
// filled at most once by the hash engine when grouping requires them.
type FileRecord struct {
	Path      string `json:"path"`      // absolute path, unique within a session
	Name      string `json:"name"`      // base name
	Extension string `json:"extension"` // lowercase, without dot

	Size        int64  `json:"size"`
	PartialHash string `json:"partial_hash,omitempty"` // sha256 of the leading chunk
	FullHash    string `json:"full_hash,omitempty"`    // sha256 of the entire content

	MimeType string   `json:"mime_type"`
	Category Category `json:"category"`

	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	AccessedAt time.Time `json:"accessed_at"`

	Perm  uint32 `json:"perm"` // permission bits, octal semantics
	Owner string `json:"owner"`

	Device        uint64 `json:"device"`
	Inode         uint64 `json:"inode"`
	HardLinkCount uint64 `json:"hard_link_count"`

	IsSymlink     bool   `json:"is_symlink"`
	SymlinkTarget string `json:"symlink_target,omitempty"`

	IsHidden     bool     `json:"is_hidden"`
	Depth        int      `json:"depth"` // path separators below the scan root
	PlatformTags []string `json:"platform_tags,omitempty"`
	IsExecutable bool     `json:"is_executable"`
}

// DevIno returns the record's (device, inode) identity.
func (r *FileRecord) DevIno() DevIno {
	return DevIno{Dev: r.Device, Ino: r.Inode}
}

// PermOctal renders the permission bits as a four-digit octal string.
func (r *FileRecord) PermOctal() string {
	return fmt.Sprintf("%04o", r.Perm)
}
