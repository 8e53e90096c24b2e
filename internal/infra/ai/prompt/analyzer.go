package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/bryanwahyu/genops-guardian/internal/domain/analyzers"
	"github.com/bryanwahyu/genops-guardian/internal/domain/languages"
)

// GetUserPrompt embeds the detected languages and the raw analyzer output.
// An empty result map renders as {}.
func GetUserPrompt(tags languages.Set, results analyzers.Results) string {
	langs, err := json.Marshal(tags)
	if err != nil {
		langs = []byte("[]")
	}
	if results == nil {
		results = analyzers.Results{}
	}
	analysis, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		// Result.MarshalJSON tidak pernah gagal, tapi tetap aman
		analysis = []byte("{}")
	}

	return fmt.Sprintf(`
You are an expert DevSecOps reviewer.

Return STRICT JSON:
{
  "summary": "...",
  "critical_issues": [],
  "recommendations": []
}

Detected languages: %s

Analyzer results:
%s
`, langs, analysis)
}
