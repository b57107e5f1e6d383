package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Hameem1/sheldon-fs/internal/config"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"go.uber.org/zap"
)

// Entry is one candidate filesystem object emitted by the walker.
// Info is the lstat result for the path except when a symlink was
// followed, in which case it describes the link target.
type Entry struct {
	Path  string
	Root  string
	Info  os.FileInfo
	Depth int // path separators below Root
}

// WalkFunc receives emitted entries. Returning an error stops the walk.
type WalkFunc func(*Entry) error

// walkContext holds the per-walk cycle-detection state. The visited
// set is consulted before entering any directory while symlinks are
// being followed, so a cyclic link structure terminates.
type walkContext struct {
	mu      sync.Mutex
	visited map[models.DevIno]struct{}
}

func (c *walkContext) enter(di models.DevIno) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, seen := c.visited[di]; seen {
		return false
	}
	c.visited[di] = struct{}{}
	return true
}

// Walker walks directory trees and emits candidate entries
type Walker struct {
	config   *config.Config
	logger   *zap.Logger
	exclude  map[string]bool // literal directory names
	patterns []string        // glob exclusion patterns
	onError  func(models.ScanError)
	ctx      *walkContext
}

// NewWalker creates a new filesystem walker
func NewWalker(cfg *config.Config, logger *zap.Logger) *Walker {
	// Build exclude map for fast lookup; glob patterns are matched
	// separately against entry names.
	exclude := make(map[string]bool)
	var patterns []string
	for _, pat := range cfg.Exclude {
		if strings.ContainsAny(pat, "*?[") {
			patterns = append(patterns, pat)
		} else {
			exclude[pat] = true
		}
	}

	return &Walker{
		config:   cfg,
		logger:   logger,
		exclude:  exclude,
		patterns: patterns,
		ctx:      &walkContext{visited: make(map[models.DevIno]struct{})},
	}
}

// OnError registers the sink for recovered per-entry errors. The walk
// itself never aborts on them.
func (w *Walker) OnError(fn func(models.ScanError)) {
	w.onError = fn
}

// Walk recursively walks the tree under root, emitting files (and,
// when configured, directories) to fn. Directory read failures are
// reported through OnError and the walk continues with siblings; only
// an unreadable root or a cancelled context ends the walk early.
func (w *Walker) Walk(ctx context.Context, root string, fn WalkFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "walk", Path: root, Err: os.ErrInvalid}
	}

	if w.config.FollowSymlinks {
		// Mark the root itself so a symlink loop back to it is refused.
		if st := ExtractStat(info); st.OK {
			w.ctx.enter(models.DevIno{Dev: st.Dev, Ino: st.Ino})
		}
	}

	return w.walkDir(ctx, root, root, 0, fn)
}

// walkDir processes one directory level. Entries directly inside the
// scan root have depth 0.
func (w *Walker) walkDir(ctx context.Context, root, dir string, depth int, fn WalkFunc) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.reportError(models.OpReadDir, dir, err)
		return nil // continue with siblings
	}

	for _, de := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name := de.Name()
		path := filepath.Join(dir, name)

		if IsHidden(name) && !w.config.IncludeHidden {
			continue
		}

		info, err := de.Info()
		if err != nil {
			// Entry vanished between readdir and lstat.
			w.reportError(models.OpStat, path, err)
			continue
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if err := w.walkSymlink(ctx, root, path, info, depth, fn); err != nil {
				return err
			}

		case info.IsDir():
			if w.shouldExclude(name) {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				continue
			}
			if w.config.FollowSymlinks {
				if st := ExtractStat(info); st.OK {
					if !w.ctx.enter(models.DevIno{Dev: st.Dev, Ino: st.Ino}) {
						w.logger.Debug("Skipping already-visited directory", zap.String("path", path))
						continue
					}
				}
			}
			if w.config.EmitDirs {
				if err := fn(&Entry{Path: path, Root: root, Info: info, Depth: depth}); err != nil {
					return err
				}
			}
			// Entries inside this directory would sit beyond the depth
			// limit, so don't descend at all.
			if w.config.MaxDepth >= 0 && depth >= w.config.MaxDepth {
				continue
			}
			if err := w.walkDir(ctx, root, path, depth+1, fn); err != nil {
				return err
			}

		default:
			if err := fn(&Entry{Path: path, Root: root, Info: info, Depth: depth}); err != nil {
				return err
			}
		}
	}

	return nil
}

// walkSymlink applies the symlink policy: record the link itself when
// not following, otherwise descend into directory targets (cycle-safe)
// and emit file targets under the link path.
func (w *Walker) walkSymlink(ctx context.Context, root, path string, info os.FileInfo, depth int, fn WalkFunc) error {
	if !w.config.FollowSymlinks {
		return fn(&Entry{Path: path, Root: root, Info: info, Depth: depth})
	}

	target, err := os.Stat(path)
	if err != nil {
		if w.onError != nil {
			w.onError(models.BrokenSymlinkError(path, err))
		}
		w.logger.Warn("Broken symlink", zap.String("path", path), zap.Error(err))
		return nil
	}

	if target.IsDir() {
		if w.shouldExclude(filepath.Base(path)) {
			return nil
		}
		if st := ExtractStat(target); st.OK {
			if !w.ctx.enter(models.DevIno{Dev: st.Dev, Ino: st.Ino}) {
				w.logger.Debug("Refusing symlink cycle", zap.String("path", path))
				return nil
			}
		}
		if w.config.EmitDirs {
			if err := fn(&Entry{Path: path, Root: root, Info: target, Depth: depth}); err != nil {
				return err
			}
		}
		if w.config.MaxDepth >= 0 && depth >= w.config.MaxDepth {
			return nil
		}
		return w.walkDir(ctx, root, path, depth+1, fn)
	}

	return fn(&Entry{Path: path, Root: root, Info: target, Depth: depth})
}

// shouldExclude checks if a directory name is excluded
func (w *Walker) shouldExclude(name string) bool {
	if w.exclude[name] {
		return true
	}
	for _, pat := range w.patterns {
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

func (w *Walker) reportError(op models.Op, path string, err error) {
	w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
	if w.onError != nil {
		w.onError(models.ClassifyError(op, path, err))
	}
}

// IsHidden checks if a file is hidden by the dot-prefix convention
func IsHidden(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// GetExtension returns the normalized (lowercase, no dot) extension
func GetExtension(path string) string {
	ext := filepath.Ext(path)
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	return strings.ToLower(ext)
}

