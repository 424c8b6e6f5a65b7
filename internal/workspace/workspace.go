// Package workspace scans the shared workspace directory for agent-written
// report and session files.
package workspace

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Report describes one file an agent dropped into the reports directory.
// Files live under <dir>/<agent>/<name>; files directly under dir belong to
// no particular agent.
type Report struct {
	Agent   string    `json:"agent,omitempty"`
	Name    string    `json:"name"`
	Kind    string    `json:"kind"` // markdown, json, or text
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Path    string    `json:"path"`
}

// ScanReports lists report files under dir, newest first. A missing or empty
// directory yields an empty list, never an error: reporting is optional.
func ScanReports(dir string) ([]Report, error) {
	if dir == "" {
		return []Report{}, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []Report{}, nil
	}

	var reports []Report
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		kind := kindOf(d.Name())
		if kind == "" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil // file vanished mid-scan
		}

		rel, _ := filepath.Rel(dir, path)
		agent := ""
		if parts := strings.SplitN(filepath.ToSlash(rel), "/", 2); len(parts) == 2 {
			agent = parts[0]
		}

		reports = append(reports, Report{
			Agent:   agent,
			Name:    d.Name(),
			Kind:    kind,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Path:    path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].ModTime.After(reports[j].ModTime)
	})
	if reports == nil {
		reports = []Report{}
	}
	return reports, nil
}

// kindOf classifies a report file by extension; unknown extensions are
// skipped entirely.
func kindOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md":
		return "markdown"
	case ".json":
		return "json"
	case ".txt", ".log":
		return "text"
	default:
		return ""
	}
}
