package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Hameem1/sheldon-fs/internal/config"
	"github.com/Hameem1/sheldon-fs/internal/core"
	"github.com/Hameem1/sheldon-fs/internal/metadata"
	"github.com/Hameem1/sheldon-fs/internal/report"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorOrange = "\033[38;5;208m"
	colorYellow = "\033[38;5;220m"
	colorGray   = "\033[38;5;245m"
	colorCyan   = "\033[36m"
)

var (
	version = "0.0.1"
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sheldon-fs",
		Short: "Sheldon-FS - Duplicate File Scanner",
		Long: `High-performance filesystem scanner that finds duplicate files by tiered
content hashing and tells true copies apart from hard links.`,
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()
			cmd.Help()
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Disable built-in help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Add commands
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(helpCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printMainBanner prints the main banner
func printMainBanner() {
	fmt.Println()
	fmt.Printf("%s", colorOrange)
	fmt.Println("▄█████ ██  ██ ██████ ██     ████▄  ▄████▄ ███  ██")
	fmt.Println("▀████▄ ██████ ████   ██     ██  ██ ██  ██ ██ ▀▄██")
	fmt.Println("█████▀ ██  ██ ██████ ██████ ████▀  ▀████▀ ██   ██")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sDuplicate File Scanner v%s%s\n", colorGray, version, colorReset)
	fmt.Println()
}

// scanCmd creates the scan command
func scanCmd() *cobra.Command {
	var (
		workers        int
		exclude        []string
		includeHidden  bool
		followSymlinks bool
		maxDepth       int
		partialSize    string
		minSize        string
		categoriesFile string
		reportFormat   string
		outputFile     string
	)

	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Scan directories for duplicate files",
		Long:  `Recursively scan one or more directories, extract file metadata, and group byte-identical files by tiered SHA-256 hashing.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags before doing anything
			if err := validateFlags(reportFormat, partialSize, minSize); err != nil {
				fmt.Printf("\n  %s✗ Invalid parameter:%s %s\n\n", colorRed, colorReset, err.Error())
				return err
			}

			// Initialize logger based on verbose flag
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				// Silent logger - only errors
				cfg := zap.Config{
					Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
					Encoding:         "json",
					OutputPaths:      []string{"stderr"},
					ErrorOutputPaths: []string{"stderr"},
					EncoderConfig:    zap.NewProductionEncoderConfig(),
				}
				logger, err = cfg.Build()
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
				return err
			}
			defer logger.Sync()

			// Print banner
			printBanner(args)

			// Load configuration
			cfg, err := config.LoadConfig()
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}

			// Override config with CLI flags
			cfg.Roots = args
			if workers > 0 {
				cfg.Workers = workers
			}
			if len(exclude) > 0 {
				cfg.Exclude = exclude
			}
			if includeHidden {
				cfg.IncludeHidden = true
			}
			if followSymlinks {
				cfg.FollowSymlinks = true
			}
			if cmd.Flags().Changed("max-depth") {
				cfg.MaxDepth = maxDepth
			}
			if partialSize != "" {
				cfg.PartialSize = partialSize
			}
			if minSize != "" {
				cfg.MinSize = minSize
			}
			if categoriesFile != "" {
				cfg.CategoriesFile = categoriesFile
			}
			if reportFormat != "" {
				cfg.ReportFormat = reportFormat
			}
			if outputFile != "" {
				cfg.OutputFile = outputFile
			}

			if err := cfg.Validate(); err != nil {
				fmt.Printf("\n  %s✗ Invalid configuration:%s %s\n\n", colorRed, colorReset, err.Error())
				return err
			}

			// Cancel the scan on Ctrl-C, keeping partial results
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Create session
			session := core.NewSession(cfg, logger)

			// Set up progress callback
			lastPhase := ""
			session.SetProgressCallback(func(phase string, current, total int, message string) {
				// Clear previous line if same phase
				if lastPhase == phase && phase != "counting" {
					fmt.Print("\033[1A\033[K")
				}
				lastPhase = phase

				switch phase {
				case "counting":
					if current == 0 && total == 0 {
						fmt.Printf("\n  %sStarting scan...%s\n", colorReset, colorReset)
					}
					if total > 0 {
						fmt.Printf("  %sFiles:%s       %s\n", colorGray, colorReset, message)
					}
				case "extracting":
					if total > 0 {
						printProgressBar("Extracting:", colorOrange, current, total)
					}
				case "grouping":
					fmt.Printf("  %sGrouping:%s    %s\n", colorGray, colorReset, message)
				case "partial-hash":
					if total > 0 {
						printProgressBar("Partial:   ", colorCyan, current, total)
					}
				case "full-hash":
					if total > 0 {
						printProgressBar("Hashing:   ", colorRed, current, total)
					}
				}
			})

			// Run scan
			result, err := session.Run(ctx)
			if err != nil {
				if result == nil {
					logger.Error("Scan failed", zap.Error(err))
					return err
				}
				// Cancelled mid-flight: report whatever was gathered
				if errors.Is(err, context.Canceled) {
					fmt.Printf("\n  %s⚠ Scan interrupted, reporting partial results%s\n", colorYellow, colorReset)
				} else {
					fmt.Printf("\n  %s⚠ Scan ended early:%s %v\n", colorYellow, colorReset, err)
				}
			}

			// Generate report
			generator, err := report.NewGenerator(cfg, logger)
			if err != nil {
				logger.Error("Failed to create report generator", zap.Error(err))
				return err
			}

			reportPath, err := generator.Generate(result)
			if err != nil {
				logger.Error("Report generation failed", zap.Error(err))
				return err
			}

			// Print report path if generated
			if reportPath != "" {
				fmt.Printf("  %sReport:%s    %s%s%s\n", colorGray, colorReset, colorOrange, reportPath, colorReset)
				fmt.Println()
			}

			return nil
		},
	}

	// Flags
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of worker goroutines (default: CPU cores * 2)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "Directory names or glob patterns to skip (comma-separated)")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Descend into and record dot-files")
	cmd.Flags().BoolVarP(&followSymlinks, "follow-symlinks", "L", false, "Traverse into symlinked directories")
	cmd.Flags().IntVar(&maxDepth, "max-depth", -1, "Maximum depth below each root (-1 = unlimited)")
	cmd.Flags().StringVar(&partialSize, "partial-size", "", "Prefix length for the cheap hash tier (default: 100K)")
	cmd.Flags().StringVar(&minSize, "min-size", "", "Ignore files smaller than this size (default: 0)")
	cmd.Flags().StringVar(&categoriesFile, "categories-file", "", "YAML overlay for the extension category table")
	cmd.Flags().StringVarP(&reportFormat, "report", "r", "", "Report format: json, csv, txt, md (default: console output)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path")

	return cmd
}

// categoriesCmd creates the categories command
func categoriesCmd() *cobra.Command {
	var categoriesFile string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the extension to category mapping",
		Long:  `Display the built-in extension classification table, with any overlay file applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := metadata.NewClassifier()
			if categoriesFile != "" {
				if err := classifier.LoadOverlay(categoriesFile); err != nil {
					return err
				}
			}

			byCategory := make(map[models.Category][]string)
			for _, m := range classifier.Table() {
				byCategory[m.Category] = append(byCategory[m.Category], m.Extension)
			}

			for _, cat := range models.Categories() {
				exts := byCategory[cat]
				if len(exts) == 0 {
					continue
				}
				fmt.Printf("\n%s%s%s (%d)\n", colorBold, strings.ToUpper(string(cat)), colorReset, len(exts))
				fmt.Printf("  %s\n", strings.Join(exts, " "))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&categoriesFile, "categories-file", "", "YAML overlay for the extension category table")

	return cmd
}

// validateFlags validates CLI flag values
func validateFlags(reportFormat, partialSize, minSize string) error {
	// Validate report format
	if reportFormat != "" {
		validFormats := []string{"console", "json", "csv", "txt", "text", "md", "markdown"}
		if !contains(validFormats, reportFormat) {
			return fmt.Errorf("--report must be one of: %s (got: %s)", strings.Join(validFormats, ", "), reportFormat)
		}
	}

	// Validate size strings
	if partialSize != "" && config.ParseSize(partialSize) <= 0 {
		return fmt.Errorf("--partial-size must be a positive size like 64K or 1M (got: %s)", partialSize)
	}
	if minSize != "" && minSize != "0" && config.ParseSize(minSize) <= 0 {
		return fmt.Errorf("--min-size must be a size like 4K or 0 (got: %s)", minSize)
	}

	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// repeat returns a string with character c repeated n times
func repeat(c string, n int) string {
	if n <= 0 {
		return ""
	}
	result := ""
	for i := 0; i < n; i++ {
		result += c
	}
	return result
}

// printProgressBar renders one progress line for the current phase
func printProgressBar(label, color string, current, total int) {
	pct := float64(current) / float64(total) * 100
	barWidth := 30
	filled := int(float64(barWidth) * float64(current) / float64(total))
	bar := fmt.Sprintf("%s%s", repeat("█", filled), repeat("░", barWidth-filled))
	fmt.Printf("  %s%s%s [%s%s%s] %s%.1f%%%s (%d/%d)\n",
		colorGray, label, colorReset, color, bar, colorReset, color, pct, colorReset, current, total)
}

// printBanner prints the startup banner
func printBanner(roots []string) {
	fmt.Println()
	fmt.Printf("%s", colorOrange)
	fmt.Println("▄█████ ██  ██ ██████ ██     ████▄  ▄████▄ ███  ██")
	fmt.Println("▀████▄ ██████ ████   ██     ██  ██ ██  ██ ██ ▀▄██")
	fmt.Println("█████▀ ██  ██ ██████ ██████ ████▀  ▀████▀ ██   ██")
	fmt.Printf("%s", colorReset)
	fmt.Println()
	fmt.Printf("%sDuplicate File Scanner v%s%s\n", colorGray, version, colorReset)
	fmt.Println()
	fmt.Printf("  %sScanning:%s  %s\n", colorGray, colorReset, strings.Join(roots, ", "))
	fmt.Println()
}

// helpCmd creates a detailed help command
func helpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help",
		Short: "Show detailed help and documentation",
		Long:  `Display complete documentation including all commands, flags, and examples.`,
		Run: func(cmd *cobra.Command, args []string) {
			printMainBanner()

			fmt.Printf("%s%sABOUT%s\n\n", colorBold, colorOrange, colorReset)
			fmt.Printf("  Sheldon-FS is a high-performance duplicate file finder. It walks one or\n")
			fmt.Printf("  more directory trees, extracts rich per-file metadata, and groups files\n")
			fmt.Printf("  with identical content using size buckets and tiered SHA-256 hashing.\n\n")

			fmt.Printf("  %sKey features:%s\n", colorBold, colorReset)
			fmt.Printf("  • Multi-threaded extraction and hashing with configurable worker pool\n")
			fmt.Printf("  • Cheap partial-hash tier, full hashes computed only when needed\n")
			fmt.Printf("  • Hard-link aware: links to one inode are never counted as wasted space\n")
			fmt.Printf("  • MIME detection, category classification, and owner resolution\n")
			fmt.Printf("  • Multiple output formats: JSON, CSV, Markdown, text\n\n")

			fmt.Printf("%s%sCOMMANDS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %sscan <path...>%s    Scan directories for duplicate files\n", colorBold, colorReset)
			fmt.Printf("  %scategories%s        Show the extension to category mapping table\n", colorBold, colorReset)

			fmt.Printf("\n%s%sSCAN FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s--workers%s <n>        Number of parallel workers (default: CPU cores × 2)\n", colorBold, colorReset)
			fmt.Printf("  %s--exclude%s            Directory names or globs to skip (comma-separated)\n", colorBold, colorReset)
			fmt.Printf("  %s--include-hidden%s     Descend into and record dot-files\n", colorBold, colorReset)
			fmt.Printf("  %s-L, --follow-symlinks%s Traverse into symlinked directories (cycle-safe)\n", colorBold, colorReset)
			fmt.Printf("  %s--max-depth%s <n>      Limit traversal depth below each root (-1 = unlimited)\n", colorBold, colorReset)
			fmt.Printf("  %s--partial-size%s <sz>  Prefix length for the cheap hash tier (default: 100K)\n", colorBold, colorReset)
			fmt.Printf("  %s--min-size%s <sz>      Ignore files smaller than this size (default: 0)\n", colorBold, colorReset)
			fmt.Printf("  %s--categories-file%s    YAML overlay for the category table\n", colorBold, colorReset)

			fmt.Printf("\n%s%sREPORT FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s-r, --report%s <fmt>  Report format: %sjson%s, %scsv%s, %stxt%s, %smd%s\n",
				colorBold, colorReset, colorCyan, colorReset, colorCyan, colorReset, colorCyan, colorReset, colorCyan, colorReset)
			fmt.Printf("  %s-o, --output%s <file> Output file path (default: SHELDON-REPORT-<timestamp>)\n", colorBold, colorReset)

			fmt.Printf("\n%s%sGLOBAL FLAGS%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s-v, --verbose%s      Enable verbose logging\n", colorBold, colorReset)
			fmt.Printf("  %s-h, --help%s         Show help for any command\n", colorBold, colorReset)
			fmt.Printf("  %s--version%s          Show version\n", colorBold, colorReset)

			fmt.Printf("\n%s%sEXAMPLES%s\n\n", colorBold, colorOrange, colorReset)

			fmt.Printf("  %s# Basic scan%s\n", colorGray, colorReset)
			fmt.Printf("  sheldon-fs scan ~/Downloads\n\n")

			fmt.Printf("  %s# Scan two trees together, skipping small files%s\n", colorGray, colorReset)
			fmt.Printf("  sheldon-fs scan --min-size=64K /mnt/photos /mnt/backup\n\n")

			fmt.Printf("  %s# Follow symlinks, include dot-files%s\n", colorGray, colorReset)
			fmt.Printf("  sheldon-fs scan -L --include-hidden /srv/share\n\n")

			fmt.Printf("  %s# Generate JSON report%s\n", colorGray, colorReset)
			fmt.Printf("  sheldon-fs scan --report=json --output=dupes.json /var/data\n\n")

			fmt.Printf("  %s# CSV for spreadsheets, custom hash prefix%s\n", colorGray, colorReset)
			fmt.Printf("  sheldon-fs scan --partial-size=64K --report=csv /var/data\n\n")
		},
	}
}
