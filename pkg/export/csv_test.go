package export

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"atlassian-utils/internal/common"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "issues.csv")
	rows := [][]string{
		{"key", "summary"},
		{"PROJ-1", "First issue"},
		{"PROJ-2", "Has, a comma"},
	}

	if err := WriteCSV(rows, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	got, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[2][1] != "Has, a comma" {
		t.Fatalf("comma not preserved: %q", got[2][1])
	}
}

func TestWriteCSVEmptyRows(t *testing.T) {
	err := WriteCSV(nil, filepath.Join(t.TempDir(), "empty.csv"))
	if err == nil {
		t.Fatal("expected error")
	}
	var sdkErr *common.SDKError
	if !errors.As(err, &sdkErr) {
		t.Fatalf("expected SDKError, got %T", err)
	}
	if sdkErr.Type != common.ErrorTypeExport {
		t.Fatalf("unexpected error type: %s", sdkErr.Type)
	}
}
