package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Hameem1/sheldon-fs/pkg/models"
)

func TestClassify(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name     string
		ext      string
		mime     string
		expected models.Category
	}{
		{"PDF document", "pdf", "application/pdf", models.CategoryDocument},
		{"Plain text", "txt", "text/plain", models.CategoryDocument},
		{"JPEG image", "jpg", "image/jpeg", models.CategoryImage},
		{"PNG image", "png", "image/png", models.CategoryImage},
		{"Video", "mkv", "video/x-matroska", models.CategoryVideo},
		{"Audio", "flac", "audio/flac", models.CategoryAudio},
		{"Archive", "zip", "application/zip", models.CategoryArchive},
		{"Go source", "go", "text/plain", models.CategoryCode},
		{"Shell script", "sh", "text/x-shellscript", models.CategoryCode},
		{"Unknown ext with image MIME", "xyz", "image/x-custom", models.CategoryImage},
		{"Unknown ext with video MIME", "xyz", "video/x-custom", models.CategoryVideo},
		{"Unknown ext with audio MIME", "xyz", "audio/x-custom", models.CategoryAudio},
		{"Unknown ext with text MIME", "xyz", "text/x-custom", models.CategoryDocument},
		{"Unknown everything", "xyz", "application/octet-stream", models.CategoryOther},
		{"No extension", "", "application/octet-stream", models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.ext, tt.mime); got != tt.expected {
				t.Errorf("Classify(%q, %q) = %v, want %v", tt.ext, tt.mime, got, tt.expected)
			}
		})
	}
}

func TestBuiltinTableCoverage(t *testing.T) {
	if len(builtinExtensions) <= 100 {
		t.Errorf("Builtin table has %d extensions, want > 100", len(builtinExtensions))
	}

	seen := make(map[models.Category]bool)
	for _, cat := range builtinExtensions {
		seen[cat] = true
	}

	for _, cat := range models.Categories() {
		if cat == models.CategoryOther {
			continue // the fallback bucket has no fixed extensions
		}
		if !seen[cat] {
			t.Errorf("Builtin table has no extensions for category %q", cat)
		}
	}
}

func TestLoadOverlay(t *testing.T) {
	tmpDir := t.TempDir()
	overlay := filepath.Join(tmpDir, "categories.yaml")

	content := `categories:
  code:
    - svg
  document:
    - .notes
`
	if err := os.WriteFile(overlay, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write overlay file: %v", err)
	}

	classifier := NewClassifier()
	if err := classifier.LoadOverlay(overlay); err != nil {
		t.Fatalf("LoadOverlay() error = %v", err)
	}

	// Overlay wins over the builtin assignment.
	if got := classifier.Classify("svg", ""); got != models.CategoryCode {
		t.Errorf("Classify(svg) after overlay = %v, want %v", got, models.CategoryCode)
	}

	// Leading dots are tolerated.
	if got := classifier.Classify("notes", ""); got != models.CategoryDocument {
		t.Errorf("Classify(notes) after overlay = %v, want %v", got, models.CategoryDocument)
	}

	// Untouched entries keep their builtin category.
	if got := classifier.Classify("pdf", ""); got != models.CategoryDocument {
		t.Errorf("Classify(pdf) after overlay = %v, want %v", got, models.CategoryDocument)
	}
}

func TestLoadOverlay_UnknownCategory(t *testing.T) {
	tmpDir := t.TempDir()
	overlay := filepath.Join(tmpDir, "bad.yaml")

	content := `categories:
  nonsense:
    - foo
`
	if err := os.WriteFile(overlay, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write overlay file: %v", err)
	}

	classifier := NewClassifier()
	if err := classifier.LoadOverlay(overlay); err == nil {
		t.Error("LoadOverlay() expected error for unknown category, got nil")
	}
}

func TestLoadOverlay_MissingFile(t *testing.T) {
	classifier := NewClassifier()
	if err := classifier.LoadOverlay("/nonexistent/categories.yaml"); err == nil {
		t.Error("LoadOverlay() expected error for missing file, got nil")
	}
}

func TestLoadOverlay_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	overlay := filepath.Join(tmpDir, "broken.yaml")

	if err := os.WriteFile(overlay, []byte("categories: [not: a: map"), 0644); err != nil {
		t.Fatalf("Failed to write overlay file: %v", err)
	}

	classifier := NewClassifier()
	if err := classifier.LoadOverlay(overlay); err == nil {
		t.Error("LoadOverlay() expected error for invalid YAML, got nil")
	}
}

func TestTable(t *testing.T) {
	classifier := NewClassifier()
	mappings := classifier.Table()

	if len(mappings) != len(builtinExtensions) {
		t.Errorf("Table() returned %d mappings, want %d", len(mappings), len(builtinExtensions))
	}

	for i := 1; i < len(mappings); i++ {
		if mappings[i-1].Extension >= mappings[i].Extension {
			t.Errorf("Table() not sorted at %d: %q >= %q",
				i, mappings[i-1].Extension, mappings[i].Extension)
		}
	}
}
