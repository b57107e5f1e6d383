package core

import "sync/atomic"

// Progress holds live session counters updated by the pipeline stages.
// All fields are atomic so workers can write them while observers read
// without locks.
type Progress struct {
	FilesSeen     atomic.Int64
	DirsSeen      atomic.Int64
	SymlinksSeen  atomic.Int64
	SkippedFiles  atomic.Int64
	BytesSeen     atomic.Int64
	PartialHashed atomic.Int64
	FullHashed    atomic.Int64
	Errors        atomic.Int64
}

// ProgressSnapshot is a plain copy of the counters at one instant
type ProgressSnapshot struct {
	FilesSeen     int64
	DirsSeen      int64
	SymlinksSeen  int64
	SkippedFiles  int64
	BytesSeen     int64
	PartialHashed int64
	FullHashed    int64
	Errors        int64
}

// Snapshot reads every counter once
func (p *Progress) Snapshot() ProgressSnapshot {
	return ProgressSnapshot{
		FilesSeen:     p.FilesSeen.Load(),
		DirsSeen:      p.DirsSeen.Load(),
		SymlinksSeen:  p.SymlinksSeen.Load(),
		SkippedFiles:  p.SkippedFiles.Load(),
		BytesSeen:     p.BytesSeen.Load(),
		PartialHashed: p.PartialHashed.Load(),
		FullHashed:    p.FullHashed.Load(),
		Errors:        p.Errors.Load(),
	}
}
