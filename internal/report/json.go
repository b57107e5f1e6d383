package report

import (
	"encoding/json"
	"os"
	"time"

	"github.com/Hameem1/sheldon-fs/pkg/models"
)

// JSONReport wraps a scan result with generation metadata for JSON output
type JSONReport struct {
	GeneratedAt time.Time `json:"generated_at"`
	*models.ScanResult
}

// generateJSON generates a JSON report
func (g *Generator) generateJSON(result *models.ScanResult, outputFile string) error {
	report := &JSONReport{
		GeneratedAt: time.Now().UTC(),
		ScanResult:  result,
	}

	// Convert result to JSON
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(outputFile, data, 0644)
}
