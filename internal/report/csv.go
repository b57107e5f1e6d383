package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/Hameem1/sheldon-fs/pkg/models"
)

// csvHeader is the column layout for CSV reports, one row per member
// path so the output loads directly into a spreadsheet.
var csvHeader = []string{
	"group", "full_hash", "kind", "size_bytes", "wasted_bytes", "path", "device", "inode",
}

// generateCSV generates a CSV report
func (g *Generator) generateCSV(result *models.ScanResult, outputFile string) error {
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for i, group := range result.Groups {
		for _, sc := range group.SubClusters {
			for _, path := range sc.Paths {
				row := []string{
					strconv.Itoa(i + 1),
					group.FullHash,
					string(group.Kind),
					strconv.FormatInt(group.Size, 10),
					strconv.FormatInt(group.WastedSpace, 10),
					path,
					strconv.FormatUint(sc.DevIno.Dev, 10),
					strconv.FormatUint(sc.DevIno.Ino, 10),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}
