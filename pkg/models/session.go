package models

import (
	"sync"
	"time"
)

// ConfigSnapshot preserves the settings a session ran with, so a
// result can be interpreted (and a scan reproduced) later.
type ConfigSnapshot struct {
	Roots          []string `json:"roots"`
	Exclude        []string `json:"exclude"`
	IncludeHidden  bool     `json:"include_hidden"`
	FollowSymlinks bool     `json:"follow_symlinks"`
	MaxDepth       int      `json:"max_depth"`
	PartialSize    int64    `json:"partial_size"`
	MinSize        int64    `json:"min_size"`
	Workers        int      `json:"workers"`
}

// ScanSession is the summary of one run: identity, configuration,
// aggregate counts, and every error recovered along the way.
type ScanSession struct {
	ID     string         `json:"id"`
	Roots  []string       `json:"roots"`
	Config ConfigSnapshot `json:"config"`

	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`

	FilesSeen    int   `json:"files_seen"`
	DirsSeen     int   `json:"dirs_seen"`
	SymlinksSeen int   `json:"symlinks_seen"`
	SkippedFiles int   `json:"skipped_files"`
	TotalBytes   int64 `json:"total_bytes"`

	Errors []ScanError `json:"errors,omitempty"`

	mu sync.Mutex
}

// AddError appends a recovered error, preserving arrival order.
// Safe for concurrent use by walker and workers.
func (s *ScanSession) AddError(e ScanError) {
	s.mu.Lock()
	s.Errors = append(s.Errors, e)
	s.mu.Unlock()
}

// ErrorCount returns the number of recovered errors.
func (s *ScanSession) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Errors)
}

// ScanResult bundles everything a session produces: the summary, the
// full record set, and the duplicate groups derived from it.
type ScanResult struct {
	Session *ScanSession      `json:"session"`
	Records []*FileRecord     `json:"records"`
	Groups  []*DuplicateGroup `json:"groups"`
}

// TotalWasted sums reclaimable bytes across all groups.
func (r *ScanResult) TotalWasted() int64 {
	var total int64
	for _, g := range r.Groups {
		total += g.WastedSpace
	}
	return total
}

// DuplicateFiles counts the group members beyond the first of each
// physical sub-cluster, i.e. the paths that are redundant copies.
func (r *ScanResult) DuplicateFiles() int {
	count := 0
	for _, g := range r.Groups {
		if n := len(g.SubClusters); n > 1 {
			count += n - 1
		}
	}
	return count
}
