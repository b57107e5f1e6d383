package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/spf13/viper"
)

// DefaultPartialSize is the prefix length hashed for the cheap
// fingerprint tier when no override is configured.
const DefaultPartialSize = 100 * 1024

// DefaultExclude lists the directory names skipped on every scan
// unless the caller overrides the exclusion set: version-control
// internals, package-manager caches, and temp/system directories.
var DefaultExclude = []string{
	".git", ".svn", ".hg", ".bzr",
	"node_modules", "vendor", "bower_components",
	"__pycache__", ".venv", "venv", ".tox", ".gradle", ".m2",
	".cache", ".Trash", "tmp", ".tmp",
	"System Volume Information", "$RECYCLE.BIN",
}

// Config represents the scan configuration
type Config struct {
	// Traversal settings
	Roots          []string `mapstructure:"roots"`           // scan root paths
	Workers        int      `mapstructure:"workers"`         // number of worker goroutines
	Exclude        []string `mapstructure:"exclude"`         // directory names/patterns to skip
	IncludeHidden  bool     `mapstructure:"include_hidden"`  // descend into and record dot-files
	FollowSymlinks bool     `mapstructure:"follow_symlinks"` // traverse into symlinked directories
	MaxDepth       int      `mapstructure:"max_depth"`       // limit below each root, -1 = unlimited
	EmitDirs       bool     `mapstructure:"emit_dirs"`       // yield directory entries as records too

	// Hashing settings
	PartialSize string `mapstructure:"partial_size"` // prefix length for the cheap tier, e.g. "100K"
	MinSize     string `mapstructure:"min_size"`     // ignore files smaller than this, 0 = keep all

	// Classification settings
	CategoriesFile string `mapstructure:"categories_file"` // optional YAML overlay for the category table

	// Report settings
	ReportFormat string `mapstructure:"report_format"` // json, csv, text, md; empty = console
	OutputFile   string `mapstructure:"output_file"`   // report destination path
}

// LoadConfig loads configuration from environment variables and defaults
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("workers", runtime.NumCPU()*2)
	v.SetDefault("exclude", DefaultExclude)
	v.SetDefault("include_hidden", false)
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("max_depth", -1)
	v.SetDefault("emit_dirs", false)
	v.SetDefault("partial_size", "100K")
	v.SetDefault("min_size", "0")
	v.SetDefault("report_format", "")

	v.SetEnvPrefix("SHELDON")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings that would make a session unable to
// start. Per-file problems are never fatal; a bad root is.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return fmt.Errorf("no scan roots configured")
	}
	for _, root := range c.Roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("invalid scan root %s: %w", root, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("scan root %s is not a directory", root)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// WorkerCount returns the effective pool size.
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU() * 2
}

// PartialSizeBytes returns the parsed partial-hash threshold.
func (c *Config) PartialSizeBytes() int64 {
	if n := ParseSize(c.PartialSize); n > 0 {
		return n
	}
	return DefaultPartialSize
}

// MinSizeBytes returns the parsed minimum file size filter.
func (c *Config) MinSizeBytes() int64 {
	return ParseSize(c.MinSize)
}

// ParseSize parses size string (e.g., "100K", "1M") to bytes
func ParseSize(sizeStr string) int64 {
	if len(sizeStr) == 0 {
		return 0
	}

	last := sizeStr[len(sizeStr)-1]
	var multiplier int64 = 1

	switch last {
	case 'K', 'k':
		multiplier = 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'M', 'm':
		multiplier = 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	case 'G', 'g':
		multiplier = 1024 * 1024 * 1024
		sizeStr = sizeStr[:len(sizeStr)-1]
	}

	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil || size < 0 {
		return 0
	}

	return size * multiplier
}
