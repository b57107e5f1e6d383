package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/Hameem1/sheldon-fs/pkg/models"
	"github.com/dustin/go-humanize"
)

// generateMarkdown generates a Markdown report
func (g *Generator) generateMarkdown(result *models.ScanResult, outputFile string) error {
	session := result.Session
	var sb strings.Builder

	// Header
	sb.WriteString("# Sheldon-FS Duplicate Scan Report\n\n")

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Parameter | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Session ID | `%s` |\n", session.ID))
	sb.WriteString(fmt.Sprintf("| Scan Roots | `%s` |\n", strings.Join(session.Roots, "`, `")))
	sb.WriteString(fmt.Sprintf("| Start Time | %s |\n", session.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| End Time | %s |\n", session.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("| Duration | %s |\n", FormatDuration(session.Duration)))
	sb.WriteString(fmt.Sprintf("| Files Seen | %d |\n", session.FilesSeen))
	sb.WriteString(fmt.Sprintf("| Directories | %d |\n", session.DirsSeen))
	sb.WriteString(fmt.Sprintf("| Symlinks | %d |\n", session.SymlinksSeen))
	sb.WriteString(fmt.Sprintf("| Skipped Files | %d |\n", session.SkippedFiles))
	sb.WriteString(fmt.Sprintf("| Total Data | %s |\n", humanize.Bytes(uint64(session.TotalBytes))))
	sb.WriteString(fmt.Sprintf("| **Duplicate Groups** | **%d** |\n", len(result.Groups)))
	sb.WriteString(fmt.Sprintf("| **Wasted Space** | **%s** |\n", humanize.Bytes(uint64(result.TotalWasted()))))
	sb.WriteString("\n")

	if len(result.Groups) == 0 {
		sb.WriteString("> ✅ **No duplicate files found**\n\n")
		return os.WriteFile(outputFile, []byte(sb.String()), 0644)
	}

	// Statistics by kind
	sb.WriteString("## Groups by Kind\n\n")
	sb.WriteString("| Kind | Count |\n")
	sb.WriteString("|------|-------|\n")

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
			emoji := getKindEmoji(kind)
			sb.WriteString(fmt.Sprintf("| %s %s | %d |\n", emoji, kind, n))
		}
	}
	sb.WriteString("\n")

	// Detailed groups
	sb.WriteString("## Duplicate Groups\n\n")

	for i, group := range result.Groups {
		emoji := getKindEmoji(group.Kind)
		sb.WriteString(fmt.Sprintf("### %d. %s %d × %s\n\n", i+1, emoji, group.MemberCount(), humanize.Bytes(uint64(group.Size))))

		sb.WriteString("| Field | Value |\n")
		sb.WriteString("|-------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Hash | `%s` |\n", group.FullHash))
		sb.WriteString(fmt.Sprintf("| Kind | %s |\n", group.Kind))
		sb.WriteString(fmt.Sprintf("| File Size | %d bytes |\n", group.Size))
		sb.WriteString(fmt.Sprintf("| Wasted | %d bytes |\n", group.WastedSpace))
		sb.WriteString("\n")

		sb.WriteString("**Paths:**\n\n")
		for _, sc := range group.SubClusters {
			for j, path := range sc.Paths {
				if j == 0 {
					sb.WriteString(fmt.Sprintf("- `%s`\n", path))
				} else {
					sb.WriteString(fmt.Sprintf("  - `%s` *(hardlink)*\n", path))
				}
			}
		}
		sb.WriteString("\n---\n\n")
	}

	// Recovered errors
	if session.ErrorCount() > 0 {
		sb.WriteString("## Errors\n\n")
		sb.WriteString("| Kind | Path | Message |\n")
		sb.WriteString("|------|------|--------|\n")
		for _, scanErr := range session.Errors {
			sb.WriteString(fmt.Sprintf("| %s | `%s` | %s |\n", scanErr.Kind, scanErr.Path, scanErr.Message))
		}
		sb.WriteString("\n")
	}

	// Performance stats
	sb.WriteString("## Performance\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	if secs := session.Duration.Seconds(); secs > 0 {
		sb.WriteString(fmt.Sprintf("| Files/Second | %.2f |\n", float64(session.FilesSeen)/secs))
	}
	sb.WriteString(fmt.Sprintf("| Workers Used | %d |\n", session.Config.Workers))
	sb.WriteString("\n")

	// Footer
	sb.WriteString("---\n\n")
	sb.WriteString("*Generated by sheldon-fs*\n")

	return os.WriteFile(outputFile, []byte(sb.String()), 0644)
}

// getKindEmoji returns emoji for a duplicate group kind
func getKindEmoji(kind models.GroupKind) string {
	switch kind {
	case models.GroupIndependent:
		return "🔴"
	case models.GroupMixed:
		return "🟠"
	case models.GroupHardlinkOnly:
		return "🟢"
	default:
		return "⚪"
	}
}
