package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bryanwahyu/genops-guardian/internal/domain/report"
)

const DefaultReportPath = "analysis_results/report.json"

// FileWriter writes the report as indented JSON to Path.
type FileWriter struct {
	Path string
}

func NewFileWriter(path string) *FileWriter {
	if path == "" {
		path = DefaultReportPath
	}
	return &FileWriter{Path: path}
}

func (w *FileWriter) Write(r report.Report) (string, error) {
	if err := os.MkdirAll(filepath.Dir(w.Path), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", filepath.Dir(w.Path), err)
	}
	b, err := json.MarshalIndent(r.Normalize(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(w.Path, b, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", w.Path, err)
	}
	return w.Path, nil
}
