package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/genops-guardian/internal/domain/report"
)

func TestFileWriter_CreatesDirectoryAndIndents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis_results", "report.json")
	w := NewFileWriter(path)

	got, err := w.Write(report.Report{Summary: "ok", CriticalIssues: []string{}, Recommendations: []string{"pin versions"}})

	require.NoError(t, err)
	assert.Equal(t, path, got)
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"summary\": \"ok\",\n  \"critical_issues\": [],\n  \"recommendations\": [\n    \"pin versions\"\n  ]\n}", string(b))
}

func TestFileWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	w := NewFileWriter(path)

	_, err := w.Write(report.Report{Summary: "first"})
	require.NoError(t, err)
	_, err = w.Write(report.Report{Summary: "second"})
	require.NoError(t, err)

	var r report.Report
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &r))
	assert.Equal(t, "second", r.Summary)
	assert.NotNil(t, r.CriticalIssues)
}

func TestNewFileWriter_Default(t *testing.T) {
	assert.Equal(t, DefaultReportPath, NewFileWriter("").Path)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("a/report.json"))
	assert.Equal(t, "application/json", contentType("trivy.sarif"))
	assert.Equal(t, "text/html", contentType("zap.html"))
	assert.Equal(t, "application/octet-stream", contentType("blob"))
}
