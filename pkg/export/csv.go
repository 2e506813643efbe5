// Package export writes tabular data (issue and content listings) to CSV
// files and renders fixed-width previews.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"atlassian-utils/internal/common"
)

// WriteCSV writes rows to path, creating parent directories as needed. The
// first row is treated as the header.
func WriteCSV(rows [][]string, path string) error {
	if len(rows) == 0 {
		return common.NewExportError("empty_dataset", "no rows to export")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return common.WrapError(err, common.ErrorTypeExport, "mkdir_failed",
				"failed to create output directory")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return common.WrapError(err, common.ErrorTypeExport, "create_failed",
			"failed to create output file")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return common.WrapError(err, common.ErrorTypeExport, "write_failed",
			"failed to write CSV data")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return common.WrapError(err, common.ErrorTypeExport, "write_failed",
			"failed to flush CSV data")
	}
	return nil
}
