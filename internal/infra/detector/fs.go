package detector

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/genops-guardian/internal/domain/languages"
)

type marker struct {
	tag   languages.Tag
	names []string
	exts  []string
}

var markers = []marker{
	{tag: languages.Python, names: []string{"requirements.txt", "pyproject.toml"}},
	{tag: languages.JavaScript, names: []string{"package.json"}},
	{tag: languages.Java, names: []string{"pom.xml", "build.gradle"}},
	{tag: languages.Go, names: []string{"go.mod"}},
	{tag: languages.Ruby, names: []string{"Gemfile"}},
	{tag: languages.PHP, names: []string{"composer.json"}},
	{tag: languages.DotNet, exts: []string{".csproj"}},
	{tag: languages.Docker, names: []string{"Dockerfile"}},
	{tag: languages.Terraform, exts: []string{".tf"}},
	{tag: languages.K8s, exts: []string{".yaml", ".yml"}},
}

// Match returns the tags a single file name marks.
func Match(name string) []languages.Tag {
	var out []languages.Tag
	for _, m := range markers {
		if m.matches(name) {
			out = append(out, m.tag)
		}
	}
	return out
}

func (m marker) matches(name string) bool {
	for _, n := range m.names {
		if name == n {
			return true
		}
	}
	for _, e := range m.exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

// FS walks the local filesystem. Unreadable subdirectories are logged and
// skipped; symlinked directories are not followed. .git directories below
// the root are never descended into, so marker files inside them do not count.
type FS struct {
	Log logrus.FieldLogger
}

func New(log logrus.FieldLogger) *FS {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &FS{Log: log}
}

func (d *FS) Detect(ctx context.Context, root string) (languages.Set, error) {
	found := languages.NewSet()
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return err
			}
			d.Log.WithError(err).WithField("path", path).Warn("skipping unreadable path")
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if entry.Name() == ".git" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		for _, tag := range Match(entry.Name()) {
			found.Add(tag)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
