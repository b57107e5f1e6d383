package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/Hameem1/sheldon-fs/internal/config"
	"github.com/Hameem1/sheldon-fs/pkg/models"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// ANSI color codes
const (
	colorReset   = "\033[0m"
	colorBold    = "\033[1m"
	colorDim     = "\033[2m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorWhite   = "\033[37m"
	colorOrange  = "\033[38;5;208m"
	colorGray    = "\033[38;5;245m"
)

// consoleGroupLimit caps the per-group detail printed to the terminal.
// File reports always carry the full list.
const consoleGroupLimit = 15

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		// Milliseconds
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		// Seconds
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		// Minutes and seconds
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	// Hours, minutes and seconds
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// Generator generates scan reports in various formats
type Generator struct {
	config *config.Config
	logger *zap.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(cfg *config.Config, logger *zap.Logger) (*Generator, error) {
	return &Generator{
		config: cfg,
		logger: logger,
	}, nil
}

// Generate generates a report based on scan results
func (g *Generator) Generate(result *models.ScanResult) (string, error) {
	format := g.config.ReportFormat
	outputFile := g.config.OutputFile

	// If no format specified, print to console
	if format == "" || format == "console" {
		g.printConsole(result)
		return "", nil
	}

	// Generate default filename if not specified
	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		switch format {
		case "json":
			outputFile = fmt.Sprintf("SHELDON-REPORT-%s.json", timestamp)
		case "csv":
			outputFile = fmt.Sprintf("SHELDON-REPORT-%s.csv", timestamp)
		case "txt", "text":
			outputFile = fmt.Sprintf("SHELDON-REPORT-%s.txt", timestamp)
		case "md", "markdown":
			outputFile = fmt.Sprintf("SHELDON-REPORT-%s.md", timestamp)
		default:
			return "", fmt.Errorf("unknown report format: %s", format)
		}
	}

	g.logger.Info("Generating report",
		zap.String("format", format),
		zap.String("output", outputFile))

	var err error
	switch format {
	case "json":
		err = g.generateJSON(result, outputFile)
	case "csv":
		err = g.generateCSV(result, outputFile)
	case "txt", "text":
		err = g.generateText(result, outputFile)
	case "md", "markdown":
		err = g.generateMarkdown(result, outputFile)
	default:
		return "", fmt.Errorf("unknown report format: %s", format)
	}

	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	// Get absolute path
	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}

// printConsole prints results to stdout with colors
func (g *Generator) printConsole(result *models.ScanResult) {
	session := result.Session

	fmt.Println()

	// Summary header
	fmt.Printf("%s%sSCAN COMPLETE%s\n", colorBold, colorOrange, colorReset)
	fmt.Println()

	// Stats
	fmt.Printf("  %sRoots:%s     %v\n", colorGray, colorReset, session.Roots)
	fmt.Printf("  %sFiles:%s     %s\n", colorGray, colorReset, humanize.Comma(int64(session.FilesSeen)))
	fmt.Printf("  %sData:%s      %s\n", colorGray, colorReset, humanize.Bytes(uint64(session.TotalBytes)))
	fmt.Printf("  %sDuration:%s  %s\n", colorGray, colorReset, FormatDuration(session.Duration))
	if n := session.ErrorCount(); n > 0 {
		fmt.Printf("  %sErrors:%s    %s%d%s\n", colorGray, colorReset, colorYellow, n, colorReset)
	}
	fmt.Println()

	if len(result.Groups) == 0 {
		fmt.Printf("  %s%s✓ No duplicate files found%s\n", colorBold, colorGreen, colorReset)
		fmt.Println()
		return
	}

	// Duplicates found
	fmt.Printf("  %s%s⚠ DUPLICATE GROUPS: %d%s  %s(%s reclaimable)%s\n",
		colorBold, colorRed, len(result.Groups), colorReset,
		colorGray, humanize.Bytes(uint64(result.TotalWasted())), colorReset)
	fmt.Println()
	fmt.Printf("%s───────────────────────────────────────────────────────────────%s\n", colorGray, colorReset)

	shown := len(result.Groups)
	if shown > consoleGroupLimit {
		shown = consoleGroupLimit
	}

	for i := 0; i < shown; i++ {
		group := result.Groups[i]
		kindColor := getKindColor(group.Kind)

		fmt.Printf("\n  %s%s[%d]%s %s%d × %s%s\n", colorBold, colorWhite, i+1, colorReset,
			colorBold, group.MemberCount(), humanize.Bytes(uint64(group.Size)), colorReset)
		fmt.Printf("      %sKind:%s      %s%s%s\n", colorGray, colorReset, kindColor, group.Kind, colorReset)
		fmt.Printf("      %sWasted:%s    %s\n", colorGray, colorReset, humanize.Bytes(uint64(group.WastedSpace)))
		fmt.Printf("      %sHash:%s      %s%s%s\n", colorGray, colorReset, colorDim, shortHash(group.FullHash), colorReset)

		for _, sc := range group.SubClusters {
			for j, path := range sc.Paths {
				if j == 0 {
					fmt.Printf("      %s%s%s\n", colorOrange, path, colorReset)
				} else {
					fmt.Printf("        %s= %s  (hardlink)%s\n", colorDim, path, colorReset)
				}
			}
		}
	}

	if rest := len(result.Groups) - shown; rest > 0 {
		fmt.Printf("\n  %s... and %d more groups, use --report to save the full list%s\n",
			colorDim, rest, colorReset)
	}

	fmt.Println()
	fmt.Printf("%s───────────────────────────────────────────────────────────────%s\n", colorGray, colorReset)
	fmt.Println()
}

// getKindColor returns ANSI color for a duplicate group kind
func getKindColor(kind models.GroupKind) string {
	switch kind {
	case models.GroupHardlinkOnly:
		return colorGreen
	case models.GroupIndependent:
		return colorRed + colorBold
	case models.GroupMixed:
		return colorOrange
	default:
		return colorWhite
	}
}

// shortHash abbreviates a hex digest for display
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
