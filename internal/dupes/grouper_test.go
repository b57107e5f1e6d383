package dupes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Hameem1/sheldon-fs/internal/filesystem"
	"github.com/Hameem1/sheldon-fs/internal/hash"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"go.uber.org/zap"
)

func newTestGrouper(t *testing.T) *Grouper {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	engine := hash.NewEngine(4, logger)
	return NewGrouper(engine, 2, logger)
}

// writeRec creates a real file for hashing and a record with an
// explicit (device, inode) identity.
func writeRec(t *testing.T, dir, name, content string, dev, ino uint64) *models.FileRecord {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	return &models.FileRecord{
		Path:   path,
		Name:   name,
		Size:   int64(len(content)),
		Device: dev,
		Inode:  ino,
	}
}

func TestGroups_MixedScenario(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	// Two names for one stored copy plus one independent identical copy.
	content := "0123456789"
	grouper.Add(writeRec(t, tmpDir, "a.txt", content, 1, 1))
	grouper.Add(writeRec(t, tmpDir, "b.txt", content, 1, 1))
	grouper.Add(writeRec(t, tmpDir, "c.txt", content, 1, 2))

	groups, errs, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("Groups() reported %d errors, want 0: %v", len(errs), errs)
	}
	if len(groups) != 1 {
		t.Fatalf("Groups() returned %d groups, want 1", len(groups))
	}

	group := groups[0]
	if group.Kind != models.GroupMixed {
		t.Errorf("Kind = %v, want %v", group.Kind, models.GroupMixed)
	}
	if group.MemberCount() != 3 {
		t.Errorf("MemberCount() = %d, want 3", group.MemberCount())
	}
	if len(group.SubClusters) != 2 {
		t.Fatalf("SubClusters = %d, want 2", len(group.SubClusters))
	}
	if group.WastedSpace != 10 {
		t.Errorf("WastedSpace = %d, want 10", group.WastedSpace)
	}

	// The hardlinked pair forms one sub-cluster, the copy another.
	if len(group.SubClusters[0].Paths) != 2 {
		t.Errorf("First sub-cluster has %d paths, want 2", len(group.SubClusters[0].Paths))
	}
	if len(group.SubClusters[1].Paths) != 1 {
		t.Errorf("Second sub-cluster has %d paths, want 1", len(group.SubClusters[1].Paths))
	}
}

func TestGroups_HardlinkOnly(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	content := "same stored bytes"
	grouper.Add(writeRec(t, tmpDir, "a.txt", content, 7, 42))
	grouper.Add(writeRec(t, tmpDir, "b.txt", content, 7, 42))

	groups, _, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Groups() returned %d groups, want 1", len(groups))
	}

	group := groups[0]
	if group.Kind != models.GroupHardlinkOnly {
		t.Errorf("Kind = %v, want %v", group.Kind, models.GroupHardlinkOnly)
	}
	if group.WastedSpace != 0 {
		t.Errorf("WastedSpace = %d, want 0", group.WastedSpace)
	}
	if len(group.SubClusters) != 1 {
		t.Errorf("SubClusters = %d, want 1", len(group.SubClusters))
	}
}

func TestGroups_Independent(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	content := "three true copies"
	grouper.Add(writeRec(t, tmpDir, "a.txt", content, 1, 1))
	grouper.Add(writeRec(t, tmpDir, "b.txt", content, 1, 2))
	grouper.Add(writeRec(t, tmpDir, "c.txt", content, 1, 3))

	groups, _, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Groups() returned %d groups, want 1", len(groups))
	}

	group := groups[0]
	if group.Kind != models.GroupIndependent {
		t.Errorf("Kind = %v, want %v", group.Kind, models.GroupIndependent)
	}
	wantWasted := int64(2 * len(content))
	if group.WastedSpace != wantWasted {
		t.Errorf("WastedSpace = %d, want %d", group.WastedSpace, wantWasted)
	}
	if len(group.SubClusters) != 3 {
		t.Errorf("SubClusters = %d, want 3", len(group.SubClusters))
	}
}

func TestGroups_RealHardlinks(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	content := []byte("hardlinked on disk")
	original := filepath.Join(tmpDir, "a.bin")
	if err := os.WriteFile(original, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	link := filepath.Join(tmpDir, "b.bin")
	if err := os.Link(original, link); err != nil {
		t.Skipf("Hardlinks not supported: %v", err)
	}
	copyPath := filepath.Join(tmpDir, "c.bin")
	if err := os.WriteFile(copyPath, content, 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	for _, path := range []string{original, link, copyPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat(%q) error = %v", path, err)
		}
		st := filesystem.ExtractStat(info)
		if !st.OK {
			t.Skip("Platform stat data unavailable")
		}
		grouper.Add(&models.FileRecord{
			Path:          path,
			Name:          filepath.Base(path),
			Size:          info.Size(),
			Device:        st.Dev,
			Inode:         st.Ino,
			HardLinkCount: st.Nlink,
		})
	}

	groups, _, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("Groups() returned %d groups, want 1", len(groups))
	}
	group := groups[0]
	if group.Kind != models.GroupMixed {
		t.Errorf("Kind = %v, want %v", group.Kind, models.GroupMixed)
	}
	if group.WastedSpace != int64(len(content)) {
		t.Errorf("WastedSpace = %d, want %d", group.WastedSpace, len(content))
	}
}

func TestGroups_NoFalseGroups(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	// Same size, same 4-byte prefix (the partial window), different tails.
	grouper.Add(writeRec(t, tmpDir, "a.txt", "SAME-tail-one", 1, 1))
	grouper.Add(writeRec(t, tmpDir, "b.txt", "SAME-tail-two", 1, 2))

	groups, errs, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(errs) != 0 {
		t.Fatalf("Groups() reported %d errors, want 0", len(errs))
	}
	if len(groups) != 0 {
		t.Errorf("Groups() returned %d groups for distinct content, want 0", len(groups))
	}
}

func TestGroups_UniqueSizesSkipHashing(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	recA := writeRec(t, tmpDir, "a.txt", "short", 1, 1)
	recB := writeRec(t, tmpDir, "b.txt", "rather longer content", 1, 2)
	grouper.Add(recA)
	grouper.Add(recB)

	groups, _, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Groups() returned %d groups, want 0", len(groups))
	}

	// Singleton size buckets never reach the hashing tiers.
	if recA.PartialHash != "" || recB.PartialHash != "" {
		t.Error("Groups() hashed records with unique sizes")
	}
}

func TestAdd_ExcludesZeroByteAndSymlinks(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	grouper.Add(writeRec(t, tmpDir, "empty1.txt", "", 1, 1))
	grouper.Add(writeRec(t, tmpDir, "empty2.txt", "", 1, 2))
	grouper.Add(&models.FileRecord{Path: "/somewhere/link", Size: 5, IsSymlink: true})
	grouper.Add(nil)

	if grouper.Len() != 0 {
		t.Errorf("Len() = %d, want 0", grouper.Len())
	}

	groups, _, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Groups() returned %d groups, want 0", len(groups))
	}
}

func TestGroups_HashErrorExcludesRecord(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	content := "vanishing duplicate bytes"
	grouper.Add(writeRec(t, tmpDir, "a.txt", content, 1, 1))
	grouper.Add(writeRec(t, tmpDir, "b.txt", content, 1, 2))
	gone := writeRec(t, tmpDir, "c.txt", content, 1, 3)
	grouper.Add(gone)

	// Deleted between metadata extraction and hashing.
	if err := os.Remove(gone.Path); err != nil {
		t.Fatalf("Failed to remove test file: %v", err)
	}

	groups, errs, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}

	if len(errs) != 1 {
		t.Fatalf("Groups() reported %d errors, want 1", len(errs))
	}
	if errs[0].Kind != models.ErrKindHash {
		t.Errorf("Error kind = %v, want %v", errs[0].Kind, models.ErrKindHash)
	}
	if errs[0].Path != gone.Path {
		t.Errorf("Error path = %q, want %q", errs[0].Path, gone.Path)
	}

	// The surviving pair still groups.
	if len(groups) != 1 {
		t.Fatalf("Groups() returned %d groups, want 1", len(groups))
	}
	if groups[0].MemberCount() != 2 {
		t.Errorf("MemberCount() = %d, want 2", groups[0].MemberCount())
	}
}

func TestGroups_Ordering(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	// Wastes 20 bytes across three copies.
	small := strings.Repeat("s", 10)
	grouper.Add(writeRec(t, tmpDir, "s1.txt", small, 1, 1))
	grouper.Add(writeRec(t, tmpDir, "s2.txt", small, 1, 2))
	grouper.Add(writeRec(t, tmpDir, "s3.txt", small, 1, 3))

	// Wastes 40 bytes across two copies.
	big := strings.Repeat("b", 40)
	grouper.Add(writeRec(t, tmpDir, "b1.txt", big, 1, 4))
	grouper.Add(writeRec(t, tmpDir, "b2.txt", big, 1, 5))

	groups, _, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("Groups() returned %d groups, want 2", len(groups))
	}

	if groups[0].WastedSpace < groups[1].WastedSpace {
		t.Errorf("Groups not ordered by wasted space: %d before %d",
			groups[0].WastedSpace, groups[1].WastedSpace)
	}

	// Members are ordered by path within each group.
	for _, group := range groups {
		paths := group.Paths()
		for i := 1; i < len(paths); i++ {
			if paths[i-1] >= paths[i] {
				t.Errorf("Members not sorted: %q before %q", paths[i-1], paths[i])
			}
		}
	}
}

func TestGroups_Cancellation(t *testing.T) {
	tmpDir := t.TempDir()
	grouper := newTestGrouper(t)

	content := "cancelled before hashing"
	grouper.Add(writeRec(t, tmpDir, "a.txt", content, 1, 1))
	grouper.Add(writeRec(t, tmpDir, "b.txt", content, 1, 2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := grouper.Groups(ctx); err == nil {
		t.Error("Groups() expected error for cancelled context, got nil")
	}
}

func TestGroups_Empty(t *testing.T) {
	grouper := newTestGrouper(t)

	groups, errs, err := grouper.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Groups() returned %d groups, want 0", len(groups))
	}
	if len(errs) != 0 {
		t.Errorf("Groups() reported %d errors, want 0", len(errs))
	}
}

func BenchmarkGroups(b *testing.B) {
	tmpDir := b.TempDir()
	logger, _ := zap.NewDevelopment()
	engine := hash.NewEngine(4, logger)
	grouper := NewGrouper(engine, 4, logger)

	// 50 duplicate pairs plus 100 unique files, distinct inodes.
	ino := uint64(1)
	for i := 0; i < 50; i++ {
		content := fmt.Sprintf("duplicated payload number %04d", i)
		for _, suffix := range []string{"a", "b"} {
			path := filepath.Join(tmpDir, fmt.Sprintf("dup%04d%s.dat", i, suffix))
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				b.Fatalf("Failed to create test file: %v", err)
			}
			grouper.Add(&models.FileRecord{
				Path: path, Name: filepath.Base(path),
				Size: int64(len(content)), Device: 1, Inode: ino,
			})
			ino++
		}
	}
	for i := 0; i < 100; i++ {
		content := fmt.Sprintf("unique payload %04d with its own byte count %s", i, strings.Repeat("x", i))
		path := filepath.Join(tmpDir, fmt.Sprintf("uniq%04d.dat", i))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			b.Fatalf("Failed to create test file: %v", err)
		}
		grouper.Add(&models.FileRecord{
			Path: path, Name: filepath.Base(path),
			Size: int64(len(content)), Device: 1, Inode: ino,
		})
		ino++
	}

	// Warm the per-record hash caches so iterations measure grouping alone.
	if _, _, err := grouper.Groups(context.Background()); err != nil {
		b.Fatalf("Groups() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := grouper.Groups(context.Background()); err != nil {
			b.Fatalf("Groups() error = %v", err)
		}
	}
}
