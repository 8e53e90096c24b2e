package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/genops-guardian/internal/config"
	dockerrunner "github.com/bryanwahyu/genops-guardian/internal/infra/executor/docker"
	localrunner "github.com/bryanwahyu/genops-guardian/internal/infra/executor/local"
)

// isolateEnv blanks the variables that would leak CI settings into a run.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_PATH", "GITHUB_WORKSPACE", "INPUT_RUN_SEMGREP", "GUARDIAN_MODE", "INPUT_MODE",
		"GUARDIAN_OUTPUT", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "GITHUB_EVENT_NAME",
		"GITHUB_EVENT_PATH", "PR_NUMBER", "GUARDIAN_EXECUTOR", "MINIO_ENABLED",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guardian.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		configPath, workspace = "", ""
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDetectCommand(t *testing.T) {
	isolateEnv(t)
	repo := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(repo, "go.mod"), []byte("module x\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(repo, "Gemfile"), []byte(""), 0o644))
	cfgPath := writeConfig(t, "logging:\n  level: error\n")

	out, err := execute(t, "detect", "--config", cfgPath, "--path", repo)

	require.NoError(t, err)
	var tags []string
	require.NoError(t, json.Unmarshal([]byte(out), &tags))
	assert.Equal(t, []string{"go", "ruby"}, tags)
}

func TestRunCommand_WritesReport(t *testing.T) {
	isolateEnv(t)
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		content := `{"summary":"all clear","critical_issues":[],"recommendations":["keep going"]}`
		b, _ := json.Marshal(map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4.1-mini",
			"choices": []map[string]any{{
				"index": 0, "finish_reason": "stop",
				"message": map[string]any{"role": "assistant", "content": content},
			}},
		})
		_, _ = w.Write(b)
	}))
	t.Cleanup(llm.Close)

	outFile := filepath.Join(t.TempDir(), "report.json")
	cfgPath := writeConfig(t, fmt.Sprintf(`
outputPath: %s
llm:
  apiKey: test-key
  baseURL: %s/v1
logging:
  level: error
`, outFile, llm.URL))

	_, err := execute(t, "run", "--config", cfgPath, "--path", t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"all clear","critical_issues":[],"recommendations":["keep going"]}`, string(data))
}

func TestRunCommand_MissingExplicitConfigFails(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
}

func TestBuildRunner(t *testing.T) {
	c := config.Default()
	assert.IsType(t, &localrunner.Runner{}, buildRunner(c))

	c.Executor.Mode = "docker"
	assert.IsType(t, &dockerrunner.Runner{}, buildRunner(c))
}
