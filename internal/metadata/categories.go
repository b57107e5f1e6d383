package metadata

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Hameem1/sheldon-fs/pkg/models"
	"gopkg.in/yaml.v3"
)

// Classifier maps file extensions to coarse content categories. The
// builtin table can be overlaid from a YAML file, with overlay entries
// winning over builtin ones.
type Classifier struct {
	table map[string]models.Category
}

// CategoryFile represents a YAML category overlay file
type CategoryFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// NewClassifier creates a classifier seeded with the builtin table
func NewClassifier() *Classifier {
	table := make(map[string]models.Category, len(builtinExtensions))
	for ext, cat := range builtinExtensions {
		table[ext] = cat
	}
	return &Classifier{table: table}
}

// LoadOverlay merges category assignments from a YAML file into the
// table. Extensions may be listed with or without a leading dot.
func (c *Classifier) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var catFile CategoryFile
	if err := yaml.Unmarshal(data, &catFile); err != nil {
		return fmt.Errorf("failed to parse category file %s: %w", path, err)
	}

	for name, exts := range catFile.Categories {
		cat := models.Category(name)
		if !validCategory(cat) {
			return fmt.Errorf("unknown category %q in %s", name, path)
		}
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimPrefix(ext, "."))
			if ext == "" {
				continue
			}
			c.table[ext] = cat
		}
	}

	return nil
}

// Classify returns the category for a normalized extension, falling
// back to the MIME major type when the extension is unknown.
func (c *Classifier) Classify(ext, mimeType string) models.Category {
	if cat, ok := c.table[ext]; ok {
		return cat
	}

	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return models.CategoryImage
	case strings.HasPrefix(mimeType, "video/"):
		return models.CategoryVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return models.CategoryAudio
	case strings.HasPrefix(mimeType, "text/"):
		return models.CategoryDocument
	}

	return models.CategoryOther
}

// Table returns the extension mapping sorted by extension, for display
func (c *Classifier) Table() []ExtensionMapping {
	mappings := make([]ExtensionMapping, 0, len(c.table))
	for ext, cat := range c.table {
		mappings = append(mappings, ExtensionMapping{Extension: ext, Category: cat})
	}
	sort.Slice(mappings, func(i, j int) bool {
		return mappings[i].Extension < mappings[j].Extension
	})
	return mappings
}

// ExtensionMapping is one extension→category table row
type ExtensionMapping struct {
	Extension string
	Category  models.Category
}

func validCategory(cat models.Category) bool {
	for _, known := range models.Categories() {
		if cat == known {
			return true
		}
	}
	return false
}

// builtinExtensions is the default extension→category table.
var builtinExtensions = map[string]models.Category{
	// Documents
	"pdf":      models.CategoryDocument,
	"doc":      models.CategoryDocument,
	"docx":     models.CategoryDocument,
	"xls":      models.CategoryDocument,
	"xlsx":     models.CategoryDocument,
	"ppt":      models.CategoryDocument,
	"pptx":     models.CategoryDocument,
	"odt":      models.CategoryDocument,
	"ods":      models.CategoryDocument,
	"odp":      models.CategoryDocument,
	"rtf":      models.CategoryDocument,
	"txt":      models.CategoryDocument,
	"md":       models.CategoryDocument,
	"markdown": models.CategoryDocument,
	"tex":      models.CategoryDocument,
	"epub":     models.CategoryDocument,
	"mobi":     models.CategoryDocument,
	"pages":    models.CategoryDocument,
	"numbers":  models.CategoryDocument,
	"key":      models.CategoryDocument,
	"csv":      models.CategoryDocument,
	"tsv":      models.CategoryDocument,
	"log":      models.CategoryDocument,
	"rst":      models.CategoryDocument,

	// Images
	"jpg":  models.CategoryImage,
	"jpeg": models.CategoryImage,
	"png":  models.CategoryImage,
	"gif":  models.CategoryImage,
	"bmp":  models.CategoryImage,
	"tiff": models.CategoryImage,
	"tif":  models.CategoryImage,
	"webp": models.CategoryImage,
	"svg":  models.CategoryImage,
	"ico":  models.CategoryImage,
	"heic": models.CategoryImage,
	"heif": models.CategoryImage,
	"avif": models.CategoryImage,
	"raw":  models.CategoryImage,
	"cr2":  models.CategoryImage,
	"nef":  models.CategoryImage,
	"arw":  models.CategoryImage,
	"dng":  models.CategoryImage,
	"psd":  models.CategoryImage,
	"ai":   models.CategoryImage,
	"eps":  models.CategoryImage,
	"xcf":  models.CategoryImage,

	// Video
	"mp4":  models.CategoryVideo,
	"mkv":  models.CategoryVideo,
	"avi":  models.CategoryVideo,
	"mov":  models.CategoryVideo,
	"wmv":  models.CategoryVideo,
	"flv":  models.CategoryVideo,
	"webm": models.CategoryVideo,
	"m4v":  models.CategoryVideo,
	"mpg":  models.CategoryVideo,
	"mpeg": models.CategoryVideo,
	"3gp":  models.CategoryVideo,
	"ogv":  models.CategoryVideo,
	"vob":  models.CategoryVideo,
	"mts":  models.CategoryVideo,
	"m2ts": models.CategoryVideo,

	// Audio
	"mp3":  models.CategoryAudio,
	"wav":  models.CategoryAudio,
	"flac": models.CategoryAudio,
	"aac":  models.CategoryAudio,
	"ogg":  models.CategoryAudio,
	"m4a":  models.CategoryAudio,
	"wma":  models.CategoryAudio,
	"opus": models.CategoryAudio,
	"aiff": models.CategoryAudio,
	"ape":  models.CategoryAudio,
	"mid":  models.CategoryAudio,
	"midi": models.CategoryAudio,

	// Archives
	"zip":  models.CategoryArchive,
	"tar":  models.CategoryArchive,
	"gz":   models.CategoryArchive,
	"bz2":  models.CategoryArchive,
	"xz":   models.CategoryArchive,
	"zst":  models.CategoryArchive,
	"lz4":  models.CategoryArchive,
	"7z":   models.CategoryArchive,
	"rar":  models.CategoryArchive,
	"tgz":  models.CategoryArchive,
	"tbz2": models.CategoryArchive,
	"txz":  models.CategoryArchive,
	"iso":  models.CategoryArchive,
	"dmg":  models.CategoryArchive,
	"jar":  models.CategoryArchive,
	"war":  models.CategoryArchive,
	"deb":  models.CategoryArchive,
	"rpm":  models.CategoryArchive,
	"apk":  models.CategoryArchive,
	"cab":  models.CategoryArchive,
	"pkg":  models.CategoryArchive,

	// Code
	"go":     models.CategoryCode,
	"py":     models.CategoryCode,
	"js":     models.CategoryCode,
	"ts":     models.CategoryCode,
	"jsx":    models.CategoryCode,
	"tsx":    models.CategoryCode,
	"java":   models.CategoryCode,
	"c":      models.CategoryCode,
	"cpp":    models.CategoryCode,
	"cc":     models.CategoryCode,
	"h":      models.CategoryCode,
	"hpp":    models.CategoryCode,
	"cs":     models.CategoryCode,
	"rb":     models.CategoryCode,
	"php":    models.CategoryCode,
	"swift":  models.CategoryCode,
	"kt":     models.CategoryCode,
	"rs":     models.CategoryCode,
	"scala":  models.CategoryCode,
	"sh":     models.CategoryCode,
	"bash":   models.CategoryCode,
	"zsh":    models.CategoryCode,
	"fish":   models.CategoryCode,
	"pl":     models.CategoryCode,
	"pm":     models.CategoryCode,
	"lua":    models.CategoryCode,
	"r":      models.CategoryCode,
	"sql":    models.CategoryCode,
	"html":   models.CategoryCode,
	"htm":    models.CategoryCode,
	"css":    models.CategoryCode,
	"scss":   models.CategoryCode,
	"sass":   models.CategoryCode,
	"less":   models.CategoryCode,
	"xml":    models.CategoryCode,
	"json":   models.CategoryCode,
	"yaml":   models.CategoryCode,
	"yml":    models.CategoryCode,
	"toml":   models.CategoryCode,
	"ini":    models.CategoryCode,
	"cfg":    models.CategoryCode,
	"conf":   models.CategoryCode,
	"proto":  models.CategoryCode,
	"dart":   models.CategoryCode,
	"vue":    models.CategoryCode,
	"svelte": models.CategoryCode,
	"asm":    models.CategoryCode,
	"bat":    models.CategoryCode,
	"cmd":    models.CategoryCode,
	"ps1":    models.CategoryCode,
	"gradle": models.CategoryCode,
	"cmake":  models.CategoryCode,
}
