package dupes

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Hameem1/sheldon-fs/internal/hash"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called as hashing tiers advance
type ProgressFunc func(phase string, current, total int, message string)

// Grouper collects file records and resolves them into confirmed
// duplicate groups. Records enter in any order; grouping happens in
// tiers so that full-content reads are spent only on files that
// already agree on size and prefix.
type Grouper struct {
	engine           *hash.Engine
	workers          int
	logger           *zap.Logger
	progressCallback ProgressFunc

	mu      sync.Mutex
	records []*models.FileRecord
}

// NewGrouper creates a new duplicate grouper
func NewGrouper(engine *hash.Engine, workers int, logger *zap.Logger) *Grouper {
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}
	return &Grouper{
		engine:  engine,
		workers: workers,
		logger:  logger,
	}
}

// SetProgressCallback sets the progress callback function
func (g *Grouper) SetProgressCallback(cb ProgressFunc) {
	g.progressCallback = cb
}

// Add registers a record as a grouping candidate. Safe for concurrent
// use. Symlink records and zero-byte files are never grouped: every
// empty file is trivially identical to every other, and links carry no
// content of their own.
func (g *Grouper) Add(r *models.FileRecord) {
	if r == nil || r.IsSymlink || r.Size == 0 {
		return
	}
	g.mu.Lock()
	g.records = append(g.records, r)
	g.mu.Unlock()
}

// Len reports how many candidates have been added
func (g *Grouper) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

// Groups resolves the collected candidates into duplicate groups.
// Size buckets are free; partial hashes are computed only for sizes
// with at least two members; full hashes only for partial-hash
// collisions. Per-file hash failures exclude that file and are
// returned as scan errors; only cancellation returns a non-nil error.
func (g *Grouper) Groups(ctx context.Context) ([]*models.DuplicateGroup, []models.ScanError, error) {
	g.mu.Lock()
	records := make([]*models.FileRecord, len(g.records))
	copy(records, g.records)
	g.mu.Unlock()

	var (
		errMu    sync.Mutex
		scanErrs []models.ScanError
	)
	report := func(se models.ScanError) {
		errMu.Lock()
		scanErrs = append(scanErrs, se)
		errMu.Unlock()
	}

	// Tier 1: size buckets.
	bySize := make(map[int64][]*models.FileRecord)
	for _, r := range records {
		bySize[r.Size] = append(bySize[r.Size], r)
	}

	var partialCandidates []*models.FileRecord
	for _, bucket := range bySize {
		if len(bucket) >= 2 {
			partialCandidates = append(partialCandidates, bucket...)
		}
	}
	g.logger.Debug("Size bucketing complete",
		zap.Int("records", len(records)),
		zap.Int("candidates", len(partialCandidates)))

	// Tier 2: partial hashes for size collisions.
	if err := g.hashPhase(ctx, "partial-hash", partialCandidates, g.engine.PartialHash, report); err != nil {
		return nil, scanErrs, err
	}

	byPartial := make(map[partialKey][]*models.FileRecord)
	for _, r := range partialCandidates {
		if r.PartialHash == "" {
			continue // hash failed, excluded above
		}
		key := partialKey{size: r.Size, hash: r.PartialHash}
		byPartial[key] = append(byPartial[key], r)
	}

	var fullCandidates []*models.FileRecord
	for _, bucket := range byPartial {
		if len(bucket) >= 2 {
			fullCandidates = append(fullCandidates, bucket...)
		}
	}

	// Tier 3: full hashes confirm.
	if err := g.hashPhase(ctx, "full-hash", fullCandidates, g.engine.FullHash, report); err != nil {
		return nil, scanErrs, err
	}

	byFull := make(map[string][]*models.FileRecord)
	for _, r := range fullCandidates {
		if r.FullHash == "" {
			continue
		}
		byFull[r.FullHash] = append(byFull[r.FullHash], r)
	}

	var groups []*models.DuplicateGroup
	for fullHash, members := range byFull {
		if len(members) < 2 {
			continue
		}
		groups = append(groups, buildGroup(fullHash, members))
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].WastedSpace != groups[j].WastedSpace {
			return groups[i].WastedSpace > groups[j].WastedSpace
		}
		return groups[i].FullHash < groups[j].FullHash
	})

	g.logger.Debug("Grouping complete",
		zap.Int("groups", len(groups)),
		zap.Int("hash_errors", len(scanErrs)))

	return groups, scanErrs, nil
}

// partialKey scopes partial-hash buckets by size so that a prefix
// collision between different-sized files can never merge them.
type partialKey struct {
	size int64
	hash string
}

// hashPhase fans one hash tier out over the worker limit. Hash
// failures are reported and leave the record's field empty; only
// cancellation aborts the phase.
func (g *Grouper) hashPhase(ctx context.Context, phase string, records []*models.FileRecord, fn func(*models.FileRecord) (string, error), report func(models.ScanError)) error {
	if len(records) == 0 {
		return nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	var done atomic.Int64
	total := len(records)

	for _, r := range records {
		r := r
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}
			if _, err := fn(r); err != nil {
				g.logger.Warn("Hash failed",
					zap.String("path", r.Path),
					zap.Error(err))
				report(models.ClassifyError(models.OpHash, r.Path, err))
			}
			if n := done.Add(1); g.progressCallback != nil && n%100 == 0 {
				g.progressCallback(phase, int(n), total, r.Path)
			}
			return nil
		})
	}

	err := eg.Wait()
	if g.progressCallback != nil && err == nil {
		g.progressCallback(phase, total, total, "")
	}
	return err
}

// buildGroup classifies one confirmed set of identical files by its
// hardlink structure and computes the reclaimable space.
func buildGroup(fullHash string, members []*models.FileRecord) *models.DuplicateGroup {
	sort.Slice(members, func(i, j int) bool {
		return members[i].Path < members[j].Path
	})

	// Cluster members sharing a (device, inode) identity; they are one
	// stored copy with several names. Records without identity (stat
	// data unavailable) each count as their own copy.
	clusters := make(map[models.DevIno][]string)
	var order []models.DevIno
	var anonymous [][]string
	for _, m := range members {
		di := m.DevIno()
		if di == (models.DevIno{}) {
			anonymous = append(anonymous, []string{m.Path})
			continue
		}
		if _, seen := clusters[di]; !seen {
			order = append(order, di)
		}
		clusters[di] = append(clusters[di], m.Path)
	}

	subClusters := make([]models.SubCluster, 0, len(order)+len(anonymous))
	for _, di := range order {
		subClusters = append(subClusters, models.SubCluster{DevIno: di, Paths: clusters[di]})
	}
	for _, paths := range anonymous {
		subClusters = append(subClusters, models.SubCluster{Paths: paths})
	}
	sort.Slice(subClusters, func(i, j int) bool {
		return subClusters[i].Paths[0] < subClusters[j].Paths[0]
	})

	size := members[0].Size
	kind := classify(subClusters)

	// One stored copy per sub-cluster; every copy beyond the first is
	// reclaimable. A single-cluster group wastes nothing.
	wasted := int64(len(subClusters)-1) * size

	return &models.DuplicateGroup{
		FullHash:    fullHash,
		Size:        size,
		Members:     members,
		Kind:        kind,
		SubClusters: subClusters,
		WastedSpace: wasted,
	}
}

func classify(subClusters []models.SubCluster) models.GroupKind {
	if len(subClusters) == 1 {
		return models.GroupHardlinkOnly
	}
	for _, sc := range subClusters {
		if len(sc.Paths) > 1 {
			return models.GroupMixed
		}
	}
	return models.GroupIndependent
}
