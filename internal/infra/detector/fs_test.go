package detector

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/genops-guardian/internal/domain/languages"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func newDetector() *FS {
	logger, _ := test.NewNullLogger()
	return New(logger)
}

func TestDetect_EmptyTree(t *testing.T) {
	tags, err := newDetector().Detect(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 0, tags.Len())
}

func TestDetect_GoModOnly(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "go.mod")

	tags, err := newDetector().Detect(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []languages.Tag{languages.Go}, tags.Sorted())
}

func TestDetect_AllMarkersNested(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"services/api/pyproject.toml",
		"web/package.json",
		"legacy/build.gradle",
		"tools/go.mod",
		"ruby/Gemfile",
		"php/composer.json",
		"dotnet/App.csproj",
		"deploy/Dockerfile",
		"infra/main.tf",
		"k8s/deploy.yml",
		"README.md",
	)

	tags, err := newDetector().Detect(context.Background(), root)

	require.NoError(t, err)
	assert.ElementsMatch(t, languages.Vocabulary, tags.Sorted())
}

func TestDetect_OutputWithinVocabulary(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "main.rs", "Cargo.toml", "a/b/c/values.yaml", "x.py", "index.js")

	tags, err := newDetector().Detect(context.Background(), root)

	require.NoError(t, err)
	for tag := range tags {
		assert.True(t, languages.Known(tag), tag)
	}
	assert.Equal(t, []languages.Tag{languages.K8s}, tags.Sorted())
}

func TestDetect_SkipsGitDir(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, ".git/hooks/config.yaml")

	tags, err := newDetector().Detect(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, 0, tags.Len())
}

func TestDetect_MissingRoot(t *testing.T) {
	_, err := newDetector().Detect(context.Background(), filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}

func TestDetect_UnreadableSubdirIsSkipped(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	writeFiles(t, root, "go.mod", "locked/package.json")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	tags, err := newDetector().Detect(context.Background(), root)

	require.NoError(t, err)
	assert.True(t, tags.Has(languages.Go))
	assert.False(t, tags.Has(languages.JavaScript))
}

func TestDetect_SymlinkCycleTerminates(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	writeFiles(t, root, "a/go.mod")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "a", "loop")))

	tags, err := newDetector().Detect(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []languages.Tag{languages.Go}, tags.Sorted())
}

func TestDetect_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newDetector().Detect(ctx, t.TempDir())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		want []languages.Tag
	}{
		{"requirements.txt", []languages.Tag{languages.Python}},
		{"pom.xml", []languages.Tag{languages.Java}},
		{"Service.csproj", []languages.Tag{languages.DotNet}},
		{"vars.tf", []languages.Tag{languages.Terraform}},
		{"chart.yaml", []languages.Tag{languages.K8s}},
		{"dockerfile", nil},
		{"go.sum", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.name))
		})
	}
}
