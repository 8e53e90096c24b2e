package docker

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	domain "github.com/bryanwahyu/genops-guardian/internal/domain/analyzers"
	"github.com/bryanwahyu/genops-guardian/internal/infra/executor/local"
)

// workdir adalah mount point repo di dalam container
const workdir = "/src"

// DefaultImages lists the analyzers that ship an official container image.
var DefaultImages = map[domain.Tool]string{
	domain.ToolTrivy:      "aquasec/trivy:latest",
	domain.ToolSemgrep:    "semgrep/semgrep:latest",
	domain.ToolCheckov:    "bridgecrew/checkov:latest",
	domain.ToolTFSec:      "aquasec/tfsec:latest",
	domain.ToolKubeLinter: "stackrox/kube-linter:latest",
}

// Runner runs analyzers inside `docker run --rm` when an image is known for
// the tool and hands everything else to Fallback.
type Runner struct {
	Images   map[domain.Tool]string
	Fallback domain.Runner
	Timeout  time.Duration
}

// NewRunner merges overrides on top of DefaultImages.
func NewRunner(overrides map[string]string, timeout time.Duration) *Runner {
	images := make(map[domain.Tool]string, len(DefaultImages)+len(overrides))
	for k, v := range DefaultImages {
		images[k] = v
	}
	for k, v := range overrides {
		if v == "" {
			delete(images, domain.Tool(k))
			continue
		}
		images[domain.Tool(k)] = v
	}
	return &Runner{
		Images:   images,
		Fallback: local.NewRunner(timeout),
		Timeout:  timeout,
	}
}

func (r *Runner) Run(ctx context.Context, dir string, step domain.Step) domain.Result {
	image, ok := r.Images[step.Tool]
	if !ok || len(step.Args) == 0 {
		return r.Fallback.Run(ctx, dir, step)
	}

	argv, err := Command(dir, image, step.Args)
	if err != nil {
		return domain.InvocationFailed(err)
	}
	res := local.Exec(ctx, dir, argv, r.Timeout)
	if !res.Failed() {
		// prompt menampilkan command asli, bukan wrapper docker
		res.Command = fmt.Sprintf("%s (in %s)", strings.Join(step.Args, " "), image)
	}
	return res
}

// Command builds the docker invocation for args. Arguments equal to dir are
// rewritten to the in-container mount point.
func Command(dir, image string, args []string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace %q: %w", dir, err)
	}

	argv := []string{"docker", "run", "--rm",
		"-v", fmt.Sprintf("%s:%s", abs, workdir),
		"-w", workdir,
		"--entrypoint", args[0],
		image,
	}
	for _, a := range args[1:] {
		if a == dir || a == abs {
			a = workdir
		}
		argv = append(argv, a)
	}
	return argv, nil
}
