package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/Hameem1/sheldon-fs/pkg/models"
)

// generateText generates a text report
func (g *Generator) generateText(result *models.ScanResult, outputFile string) error {
	session := result.Session
	var sb strings.Builder

	// Header
	sb.WriteString("=" + strings.Repeat("=", 78) + "\n")
	sb.WriteString("  SHELDON-FS DUPLICATE SCAN REPORT\n")
	sb.WriteString("=" + strings.Repeat("=", 78) + "\n\n")

	// Summary
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Session ID:       %s\n", session.ID))
	sb.WriteString(fmt.Sprintf("Scan Roots:       %s\n", strings.Join(session.Roots, ", ")))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", session.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", session.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(session.Duration)))
	sb.WriteString(fmt.Sprintf("Files Seen:       %d\n", session.FilesSeen))
	sb.WriteString(fmt.Sprintf("Directories:      %d\n", session.DirsSeen))
	sb.WriteString(fmt.Sprintf("Symlinks:         %d\n", session.SymlinksSeen))
	sb.WriteString(fmt.Sprintf("Skipped Files:    %d\n", session.SkippedFiles))
	sb.WriteString(fmt.Sprintf("Total Data:       %d bytes\n", session.TotalBytes))
	sb.WriteString(fmt.Sprintf("DUPLICATE GROUPS: %d\n", len(result.Groups)))
	sb.WriteString(fmt.Sprintf("WASTED SPACE:     %d bytes\n", result.TotalWasted()))
	sb.WriteString("\n")

	if len(result.Groups) > 0 {
		// Statistics by group kind
		sb.WriteString("GROUPS BY KIND\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")

		byKind := make(map[models.GroupKind]int)
		for _, group := range result.Groups {
			byKind[group.Kind]++
		}
		for _, kind := range []models.GroupKind{
			models.GroupIndependent,
			models.GroupMixed,
			models.GroupHardlinkOnly,
		} {
			if n := byKind[kind]; n > 0 {
				sb.WriteString(fmt.Sprintf("  %-15s: %d\n", strings.ToUpper(string(kind)), n))
			}
		}
		sb.WriteString("\n")

		// Detailed groups
		sb.WriteString("DUPLICATE GROUPS\n")
		sb.WriteString(strings.Repeat("=", 79) + "\n\n")

		for i, group := range result.Groups {
			sb.WriteString(fmt.Sprintf("[%d] %s\n", i+1, group.FullHash))
			sb.WriteString(strings.Repeat("-", 79) + "\n")
			sb.WriteString(fmt.Sprintf("Kind:        %s\n", group.Kind))
			sb.WriteString(fmt.Sprintf("Members:     %d\n", group.MemberCount()))
			sb.WriteString(fmt.Sprintf("File Size:   %d bytes\n", group.Size))
			sb.WriteString(fmt.Sprintf("Wasted:      %d bytes\n", group.WastedSpace))
			sb.WriteString("Paths:\n")
			for _, sc := range group.SubClusters {
				for j, path := range sc.Paths {
					if j == 0 {
						sb.WriteString(fmt.Sprintf("  %s\n", path))
					} else {
						sb.WriteString(fmt.Sprintf("    = %s  (hardlink)\n", path))
					}
				}
			}
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("No duplicate files found.\n\n")
	}

	// File category breakdown
	if len(result.Records) > 0 {
		byCategory := make(map[models.Category]int)
		for _, rec := range result.Records {
			byCategory[rec.Category]++
		}

		sb.WriteString("FILES BY CATEGORY\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, cat := range []models.Category{
			models.CategoryDocument,
			models.CategoryImage,
			models.CategoryVideo,
			models.CategoryAudio,
			models.CategoryArchive,
			models.CategoryCode,
			models.CategoryOther,
		} {
			if n := byCategory[cat]; n > 0 {
				sb.WriteString(fmt.Sprintf("  %-10s: %d\n", strings.ToUpper(string(cat)), n))
			}
		}
		sb.WriteString("\n")
	}

	// Recovered errors
	if session.ErrorCount() > 0 {
		sb.WriteString("ERRORS\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, scanErr := range session.Errors {
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", scanErr.Kind, scanErr.Path, scanErr.Message))
		}
		sb.WriteString("\n")
	}

	// Performance stats
	sb.WriteString("PERFORMANCE\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	if secs := session.Duration.Seconds(); secs > 0 {
		sb.WriteString(fmt.Sprintf("Files/Second:     %.2f\n", float64(session.FilesSeen)/secs))
	}
	sb.WriteString(fmt.Sprintf("Workers Used:     %d\n", session.Config.Workers))
	sb.WriteString("\n")

	// Footer
	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString("End of Report\n")
	sb.WriteString(strings.Repeat("=", 79) + "\n")

	// Write to file
	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}
