package metadata

import (
	"os"
	"path/filepath"

	"github.com/Hameem1/sheldon-fs/internal/config"
	"github.com/Hameem1/sheldon-fs/internal/filesystem"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"go.uber.org/zap"
)

// Extractor turns walker entries into file records
type Extractor struct {
	config     *config.Config
	owners     *OwnerCache
	classifier *Classifier
	logger     *zap.Logger
}

// NewExtractor creates a new metadata extractor
func NewExtractor(cfg *config.Config, owners *OwnerCache, logger *zap.Logger) *Extractor {
	return &Extractor{
		config:     cfg,
		owners:     owners,
		classifier: NewClassifier(),
		logger:     logger,
	}
}

// LoadCategories overlays the extension→category table from a YAML file
func (e *Extractor) LoadCategories(path string) error {
	return e.classifier.LoadOverlay(path)
}

// Classifier exposes the extension table in use
func (e *Extractor) Classifier() *Classifier {
	return e.classifier
}

// Extract builds a FileRecord for one walker entry. Hash fields are
// left empty; the hash engine fills them on demand. Content is never
// read here beyond the bounded MIME header sniff.
func (e *Extractor) Extract(ent *filesystem.Entry) (*models.FileRecord, error) {
	info := ent.Info
	mode := info.Mode()
	name := filepath.Base(ent.Path)
	ext := filesystem.GetExtension(name)

	record := &models.FileRecord{
		Path:       ent.Path,
		Name:       name,
		Extension:  ext,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
		Perm:       uint32(mode.Perm()),
		IsHidden:   filesystem.IsHidden(name),
		Depth:      ent.Depth,
	}

	if st := filesystem.ExtractStat(info); st.OK {
		record.Device = st.Dev
		record.Inode = st.Ino
		record.HardLinkCount = st.Nlink
		record.CreatedAt = st.CreatedAt
		record.AccessedAt = st.AccessedAt
		record.Owner = e.owners.Resolve(st.UID)
	}

	// Symlinks that were not followed are recorded as links, never
	// content-inspected.
	if mode&os.ModeSymlink != 0 {
		record.IsSymlink = true
		if target, err := os.Readlink(ent.Path); err == nil {
			record.SymlinkTarget = target
		}
		return record, nil
	}

	if !mode.IsRegular() {
		e.logger.Debug("Skipping unsupported path",
			zap.String("path", ent.Path),
			zap.String("mode", mode.String()))
		return nil, models.UnsupportedPathError(ent.Path, mode)
	}

	record.MimeType = DetectMime(ent.Path, ext)
	record.Category = e.classifier.Classify(ext, record.MimeType)
	record.IsExecutable = isExecutable(mode, ext)
	record.PlatformTags = filesystem.PlatformTags(ent.Path)

	return record, nil
}

// isExecutable uses permission bits where the platform has them and an
// extension heuristic where it does not.
func isExecutable(mode os.FileMode, ext string) bool {
	if mode&0o111 != 0 {
		return true
	}
	switch ext {
	case "exe", "bat", "cmd", "com", "msi", "ps1":
		return true
	}
	return false
}
