package analyzers

import (
	"encoding/json"
	"strings"

	"github.com/bryanwahyu/genops-guardian/internal/textutil"
)

// Tool is the result key of one analyzer
type Tool string

const (
	ToolRuff        Tool = "ruff"
	ToolPylint      Tool = "pylint"
	ToolBandit      Tool = "bandit"
	ToolESLint      Tool = "eslint"
	ToolMaven       Tool = "mvn"
	ToolSpotBugs    Tool = "spotbugs"
	ToolPMD         Tool = "pmd"
	ToolCheckstyle  Tool = "checkstyle"
	ToolGoVet       Tool = "govet"
	ToolStaticcheck Tool = "staticcheck"
	ToolRuboCop     Tool = "rubocop"
	ToolPHPCS       Tool = "phpcs"
	ToolPsalm       Tool = "psalm"
	ToolRoslyn      Tool = "roslyn"
	ToolTrivy       Tool = "trivy"
	ToolCheckov     Tool = "checkov"
	ToolTFSec       Tool = "tfsec"
	ToolKubeLinter  Tool = "kube-linter"
	ToolSemgrep     Tool = "semgrep"
)

// Output budgets per stream, in characters.
const (
	MaxStdout = 15000
	MaxStderr = 8000
)

// Result is what one analyzer invocation produced. Either the process ran
// (Command, ExitCode, Stdout, Stderr are set) or it could not be started or
// waited on, in which case Err holds the cause and the other fields are empty.
type Result struct {
	Command    string
	ExitCode   int
	Stdout     string
	Stderr     string
	DurationMS int64
	Err        error
}

// Completed builds the success variant, applying the output budgets.
func Completed(argv []string, exitCode int, stdout, stderr string) Result {
	return Result{
		Command:  strings.Join(argv, " "),
		ExitCode: exitCode,
		Stdout:   textutil.Truncate(stdout, MaxStdout),
		Stderr:   textutil.Truncate(stderr, MaxStderr),
	}
}

// InvocationFailed builds the error variant.
func InvocationFailed(err error) Result {
	return Result{Err: err}
}

func (r Result) Failed() bool { return r.Err != nil }

// MarshalJSON emits {"error": "..."} for the error variant and
// {"cmd","rc","stdout","stderr"} otherwise.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{Error: r.Err.Error()})
	}
	return json.Marshal(struct {
		Cmd    string `json:"cmd"`
		RC     int    `json:"rc"`
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
	}{r.Command, r.ExitCode, r.Stdout, r.Stderr})
}

// Results maps tool name to its result.
type Results map[Tool]Result

// FailedCount counts tools whose invocation failed.
func (rs Results) FailedCount() int {
	n := 0
	for _, r := range rs {
		if r.Failed() {
			n++
		}
	}
	return n
}
