package workspace

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("report body"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestScanReports(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	writeFile(t, filepath.Join(dir, "agent-7", "summary.md"), base.Add(2*time.Hour))
	writeFile(t, filepath.Join(dir, "agent-7", "session.json"), base.Add(time.Hour))
	writeFile(t, filepath.Join(dir, "daily.log"), base)
	writeFile(t, filepath.Join(dir, "agent-9", "core.bin"), base) // skipped

	reports, err := ScanReports(dir)
	if err != nil {
		t.Fatalf("ScanReports(): %v", err)
	}
	if len(reports) != 3 {
		t.Fatalf("len = %d, want 3 (unknown extensions skipped)", len(reports))
	}

	// Newest first.
	if reports[0].Name != "summary.md" || reports[1].Name != "session.json" || reports[2].Name != "daily.log" {
		t.Errorf("order = %s, %s, %s", reports[0].Name, reports[1].Name, reports[2].Name)
	}

	if reports[0].Agent != "agent-7" {
		t.Errorf("Agent = %q, want agent-7", reports[0].Agent)
	}
	if reports[0].Kind != "markdown" {
		t.Errorf("Kind = %q, want markdown", reports[0].Kind)
	}
	if reports[2].Agent != "" {
		t.Errorf("top-level report Agent = %q, want empty", reports[2].Agent)
	}
	if reports[2].Kind != "text" {
		t.Errorf("Kind = %q, want text", reports[2].Kind)
	}
}

func TestScanReports_MissingDir(t *testing.T) {
	reports, err := ScanReports(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("ScanReports(): %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("len = %d, want 0", len(reports))
	}

	reports, err = ScanReports("")
	if err != nil || len(reports) != 0 {
		t.Errorf("ScanReports(\"\") = %v, %v", reports, err)
	}
}
