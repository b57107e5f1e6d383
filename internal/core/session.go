package core

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/Hameem1/sheldon-fs/internal/config"
	"github.com/Hameem1/sheldon-fs/internal/dupes"
	"github.com/Hameem1/sheldon-fs/internal/filesystem"
	"github.com/Hameem1/sheldon-fs/internal/hash"
	"github.com/Hameem1/sheldon-fs/internal/metadata"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProgressCallback is called to report session progress
type ProgressCallback func(phase string, current, total int, message string)

// Session drives one complete scan: walking the roots, extracting
// metadata over a worker pool, and resolving duplicate groups.
type Session struct {
	config           *config.Config
	logger           *zap.Logger
	walker           *filesystem.Walker
	extractor        *metadata.Extractor
	grouper          *dupes.Grouper
	progress         *Progress
	summary          *models.ScanSession
	records          []*models.FileRecord
	progressCallback ProgressCallback
	mu               sync.Mutex
}

// NewSession creates a new scan session
func NewSession(cfg *config.Config, logger *zap.Logger) *Session {
	owners := metadata.NewOwnerCache()
	engine := hash.NewEngine(cfg.PartialSizeBytes(), logger)
	workers := cfg.WorkerCount()

	return &Session{
		config:    cfg,
		logger:    logger,
		extractor: metadata.NewExtractor(cfg, owners, logger),
		grouper:   dupes.NewGrouper(engine, workers, logger),
		progress:  &Progress{},
		summary: &models.ScanSession{
			ID:    uuid.NewString(),
			Roots: cfg.Roots,
			Config: models.ConfigSnapshot{
				Roots:          cfg.Roots,
				Exclude:        cfg.Exclude,
				IncludeHidden:  cfg.IncludeHidden,
				FollowSymlinks: cfg.FollowSymlinks,
				MaxDepth:       cfg.MaxDepth,
				PartialSize:    cfg.PartialSizeBytes(),
				MinSize:        cfg.MinSizeBytes(),
				Workers:        workers,
			},
		},
	}
}

// SetProgressCallback sets the progress callback function
func (s *Session) SetProgressCallback(cb ProgressCallback) {
	s.progressCallback = cb
}

// Progress exposes the live counters for concurrent observation
func (s *Session) Progress() *Progress {
	return s.progress
}

// reportProgress calls the progress callback if set
func (s *Session) reportProgress(phase string, current, total int, message string) {
	if s.progressCallback != nil {
		s.progressCallback(phase, current, total, message)
	}
}

// Run performs the scan. Recovered per-file errors accumulate on the
// session summary without stopping the run; cancellation returns the
// partial result alongside ctx.Err(), with every record produced so
// far intact.
func (s *Session) Run(ctx context.Context) (*models.ScanResult, error) {
	s.logger.Info("Starting scan session",
		zap.String("session_id", s.summary.ID),
		zap.Strings("roots", s.config.Roots),
		zap.Int("workers", s.summary.Config.Workers))

	s.summary.StartTime = time.Now()

	if s.config.CategoriesFile != "" {
		if err := s.extractor.LoadCategories(s.config.CategoriesFile); err != nil {
			return nil, fmt.Errorf("failed to load category overlay: %w", err)
		}
	}

	// Wire grouping progress into the live counters.
	s.grouper.SetProgressCallback(func(phase string, current, total int, message string) {
		switch phase {
		case "partial-hash":
			s.progress.PartialHashed.Store(int64(current))
		case "full-hash":
			s.progress.FullHashed.Store(int64(current))
		}
		s.reportProgress(phase, current, total, message)
	})

	// Count files first so progress has a denominator.
	s.reportProgress("counting", 0, 0, "Counting files...")
	totalFiles := s.countFiles(ctx)
	s.reportProgress("counting", totalFiles, totalFiles, fmt.Sprintf("Found %d files to examine", totalFiles))

	if err := s.extractFilesWithProgress(ctx, totalFiles); err != nil {
		return s.finalize(nil), err
	}

	s.reportProgress("grouping", 0, s.grouper.Len(), "Resolving duplicate groups...")
	groups, hashErrs, err := s.grouper.Groups(ctx)
	for _, he := range hashErrs {
		s.summary.AddError(he)
		s.progress.Errors.Add(1)
	}
	if err != nil {
		return s.finalize(groups), err
	}

	result := s.finalize(groups)

	s.logger.Info("Scan session completed",
		zap.String("session_id", s.summary.ID),
		zap.Duration("duration", s.summary.Duration),
		zap.Int("files", s.summary.FilesSeen),
		zap.Int("groups", len(groups)),
		zap.Int64("wasted_bytes", result.TotalWasted()),
		zap.Int("errors", s.summary.ErrorCount()))

	return result, nil
}

// countFiles walks the roots once without extraction to size the work
func (s *Session) countFiles(ctx context.Context) int {
	count := 0
	minSize := s.config.MinSizeBytes()
	tempWalker := filesystem.NewWalker(s.config, s.logger)
	for _, root := range s.config.Roots {
		tempWalker.Walk(ctx, root, func(ent *filesystem.Entry) error {
			if ent.Info.IsDir() {
				return nil
			}
			if minSize > 0 && ent.Info.Mode().IsRegular() && ent.Info.Size() < minSize {
				return nil
			}
			count++
			return nil
		})
	}
	return count
}

// extractResult carries one worker's outcome to the collector
type extractResult struct {
	entry   *filesystem.Entry
	record  *models.FileRecord
	err     error
	skipped bool
}

// extractFilesWithProgress runs the walk → worker pool → collector
// pipeline that turns directory entries into file records.
func (s *Session) extractFilesWithProgress(ctx context.Context, totalFiles int) error {
	workers := s.summary.Config.Workers

	entryChan := make(chan *filesystem.Entry, workers*2)
	resultsChan := make(chan *extractResult, workers*2)

	// Start worker pool
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go s.worker(ctx, &wg, entryChan, resultsChan)
	}

	// Start results collector with progress
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go s.collectRecords(&collectWg, resultsChan, totalFiles)

	// Directories are observed for the counters but never extracted.
	walkCfg := *s.config
	walkCfg.EmitDirs = true
	s.walker = filesystem.NewWalker(&walkCfg, s.logger)
	s.walker.OnError(func(se models.ScanError) {
		s.summary.AddError(se)
		s.progress.Errors.Add(1)
	})

	var walkErr error
	for _, root := range s.config.Roots {
		err := s.walker.Walk(ctx, root, func(ent *filesystem.Entry) error {
			if ent.Info.IsDir() {
				s.progress.DirsSeen.Add(1)
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case entryChan <- ent:
				if ent.Info.Mode()&os.ModeSymlink != 0 {
					s.progress.SymlinksSeen.Add(1)
				} else {
					s.progress.FilesSeen.Add(1)
					s.progress.BytesSeen.Add(ent.Info.Size())
				}
				return nil
			}
		})
		if err != nil {
			walkErr = err
			break
		}
	}

	// Close channels and wait
	close(entryChan)
	wg.Wait()
	close(resultsChan)
	collectWg.Wait()

	return walkErr
}

// worker extracts metadata for entries from the channel
func (s *Session) worker(ctx context.Context, wg *sync.WaitGroup, entryChan <-chan *filesystem.Entry, resultsChan chan<- *extractResult) {
	defer wg.Done()

	minSize := s.config.MinSizeBytes()
	for ent := range entryChan {
		select {
		case <-ctx.Done():
			return
		default:
			resultsChan <- s.extractEntry(ent, minSize)
		}
	}
}

// extractEntry processes a single walker entry
func (s *Session) extractEntry(ent *filesystem.Entry, minSize int64) *extractResult {
	result := &extractResult{entry: ent}

	if minSize > 0 && ent.Info.Mode().IsRegular() && ent.Info.Size() < minSize {
		s.logger.Debug("File below minimum size, skipping",
			zap.String("path", ent.Path),
			zap.Int64("size", ent.Info.Size()))
		result.skipped = true
		return result
	}

	record, err := s.extractor.Extract(ent)
	if err != nil {
		result.err = err
		return result
	}

	result.record = record
	return result
}

// collectRecords drains worker results, appending records and feeding
// the grouper, with progress reported at a bounded cadence.
func (s *Session) collectRecords(wg *sync.WaitGroup, resultsChan <-chan *extractResult, totalFiles int) {
	defer wg.Done()

	processed := 0
	lastReport := time.Now()

	for result := range resultsChan {
		switch {
		case result.skipped:
			s.progress.SkippedFiles.Add(1)
		case result.err != nil:
			s.recordError(result.entry.Path, result.err)
			processed++
		default:
			s.mu.Lock()
			s.records = append(s.records, result.record)
			s.mu.Unlock()
			s.grouper.Add(result.record)
			processed++
		}

		// Report progress every 100ms or every 100 files
		if time.Since(lastReport) > 100*time.Millisecond || processed%100 == 0 {
			s.reportProgress("extracting", processed, totalFiles, result.entry.Path)
			lastReport = time.Now()
		}
	}

	s.reportProgress("extracting", processed, totalFiles, "Metadata extraction complete")
}

// recordError folds an extraction failure into the session summary
func (s *Session) recordError(path string, err error) {
	se, ok := err.(models.ScanError)
	if !ok {
		se = models.ClassifyError(models.OpStat, path, err)
	}
	s.summary.AddError(se)
	s.progress.Errors.Add(1)
}

// finalize stamps the summary and assembles the result
func (s *Session) finalize(groups []*models.DuplicateGroup) *models.ScanResult {
	s.summary.EndTime = time.Now()
	s.summary.Duration = s.summary.EndTime.Sub(s.summary.StartTime)

	snap := s.progress.Snapshot()
	s.summary.FilesSeen = int(snap.FilesSeen)
	s.summary.DirsSeen = int(snap.DirsSeen)
	s.summary.SymlinksSeen = int(snap.SymlinksSeen)
	s.summary.SkippedFiles = int(snap.SkippedFiles)
	s.summary.TotalBytes = snap.BytesSeen

	s.mu.Lock()
	records := s.records
	s.mu.Unlock()

	return &models.ScanResult{
		Session: s.summary,
		Records: records,
		Groups:  groups,
	}
}
