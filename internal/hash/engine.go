package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/Hameem1/sheldon-fs/internal/config"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"go.uber.org/zap"
)

// Engine computes the tiered content hashes. The partial tier digests
// only the first partialSize bytes; the full tier digests the whole
// file. Methods are safe for concurrent use across distinct records;
// a single record is hashed by one goroutine at a time.
type Engine struct {
	partialSize int64
	logger      *zap.Logger
}

// NewEngine creates a new hash engine
func NewEngine(partialSize int64, logger *zap.Logger) *Engine {
	if partialSize <= 0 {
		partialSize = config.DefaultPartialSize
	}
	return &Engine{
		partialSize: partialSize,
		logger:      logger,
	}
}

// PartialSize returns the partial-tier prefix length in bytes
func (e *Engine) PartialSize() int64 {
	return e.partialSize
}

// PartialHash returns the SHA-256 of the first partialSize bytes of
// the record's content, filling the field on first use. Files no
// larger than the partial size carry identical partial and full
// hashes, computed in a single read.
func (e *Engine) PartialHash(r *models.FileRecord) (string, error) {
	if r.PartialHash != "" {
		return r.PartialHash, nil
	}

	if r.Size <= e.partialSize {
		if _, err := e.FullHash(r); err != nil {
			return "", err
		}
		return r.PartialHash, nil
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, io.LimitReader(f, e.partialSize)); err != nil {
		return "", err
	}

	r.PartialHash = hex.EncodeToString(h.Sum(nil))
	return r.PartialHash, nil
}

// FullHash returns the SHA-256 of the record's entire content,
// filling the field on first use.
func (e *Engine) FullHash(r *models.FileRecord) (string, error) {
	if r.FullHash != "" {
		return r.FullHash, nil
	}

	f, err := os.Open(r.Path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", err
	}
	if n != r.Size {
		e.logger.Debug("File size changed since metadata pass",
			zap.String("path", r.Path),
			zap.Int64("expected", r.Size),
			zap.Int64("read", n))
	}

	r.FullHash = hex.EncodeToString(h.Sum(nil))
	if r.Size <= e.partialSize {
		r.PartialHash = r.FullHash
	}
	return r.FullHash, nil
}

// QuickCompare decides whether two records have identical content
// using the cheapest sufficient evidence: size mismatch costs nothing,
// partial hashes cost bounded reads, and full hashes are computed only
// when both earlier tiers agree.
func (e *Engine) QuickCompare(a, b *models.FileRecord) (bool, error) {
	if a.Size != b.Size {
		return false, nil
	}

	pa, err := e.PartialHash(a)
	if err != nil {
		return false, err
	}
	pb, err := e.PartialHash(b)
	if err != nil {
		return false, err
	}
	if pa != pb {
		return false, nil
	}

	fa, err := e.FullHash(a)
	if err != nil {
		return false, err
	}
	fb, err := e.FullHash(b)
	if err != nil {
		return false, err
	}
	return fa == fb, nil
}
