package analyzers

import "github.com/bryanwahyu/genops-guardian/internal/domain/languages"

// Step satu command yang dijalankan di root repo.
// Prep steps run for their side effects only and are not recorded.
type Step struct {
	Tool Tool
	Args []string
	Prep bool
}

// Plan returns the ordered steps for the given tags. Tags are visited in
// Vocabulary order, semgrep goes last when enabled.
func Plan(root string, tags languages.Set, runSemgrep bool) []Step {
	var steps []Step
	for _, tag := range languages.Vocabulary {
		if !tags.Has(tag) {
			continue
		}
		steps = append(steps, stepsFor(tag, root)...)
	}
	if runSemgrep {
		steps = append(steps, Step{Tool: ToolSemgrep, Args: []string{"semgrep", "--config=auto", "--json"}})
	}
	return steps
}

// Recorded returns the tools whose results Plan would record.
func Recorded(steps []Step) []Tool {
	var out []Tool
	for _, s := range steps {
		if !s.Prep {
			out = append(out, s.Tool)
		}
	}
	return out
}

func stepsFor(tag languages.Tag, root string) []Step {
	switch tag {
	case languages.Python:
		return []Step{
			{Tool: ToolRuff, Args: []string{"ruff", "check", "."}},
			{Tool: ToolPylint, Args: []string{"pylint", "--output-format=json", "."}},
			{Tool: ToolBandit, Args: []string{"bandit", "-r", ".", "-f", "json"}},
		}
	case languages.JavaScript:
		return []Step{
			{Tool: ToolESLint, Args: []string{"eslint", ".", "-f", "json"}},
		}
	case languages.Java:
		return []Step{
			// spotbugs needs compiled classes
			{Tool: ToolMaven, Args: []string{"mvn", "-q", "-DskipTests", "compile"}, Prep: true},
			{Tool: ToolSpotBugs, Args: []string{"spotbugs", "-textui", "target/classes"}},
			{Tool: ToolPMD, Args: []string{"pmd", "-d", "src", "-R", "rulesets/java/quickstart.xml", "-f", "json"}},
			{Tool: ToolCheckstyle, Args: []string{"java", "-jar", "/usr/local/bin/checkstyle.jar", "-c", "google_checks.xml", "src"}},
		}
	case languages.Go:
		return []Step{
			{Tool: ToolGoVet, Args: []string{"go", "vet", "./..."}},
			{Tool: ToolStaticcheck, Args: []string{"staticcheck", "./..."}},
		}
	case languages.Ruby:
		return []Step{
			{Tool: ToolRuboCop, Args: []string{"rubocop", "-f", "json"}},
		}
	case languages.PHP:
		return []Step{
			{Tool: ToolPHPCS, Args: []string{"phpcs", "--report=json", "."}},
			{Tool: ToolPsalm, Args: []string{"psalm", "--output-format=json"}},
		}
	case languages.DotNet:
		return []Step{
			{Tool: ToolRoslyn, Args: []string{"dotnet", "build", "/warnaserror"}},
		}
	case languages.Docker:
		return []Step{
			{Tool: ToolTrivy, Args: []string{"trivy", "config", "--format", "json", root}},
		}
	case languages.Terraform:
		return []Step{
			{Tool: ToolCheckov, Args: []string{"checkov", "-d", root, "-o", "json"}},
			{Tool: ToolTFSec, Args: []string{"tfsec", "--format", "json", root}},
		}
	case languages.K8s:
		return []Step{
			{Tool: ToolKubeLinter, Args: []string{"kube-linter", "lint", root, "--format", "json"}},
		}
	}
	return nil
}
