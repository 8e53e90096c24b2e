package report

import (
	"encoding/json"
	"fmt"
)

const commentTitle = "### 🤖 AI & GenOps Guardian Report"

// Comment renders the report as the markdown body posted on pull requests.
func (r Report) Comment() string {
	r = r.Normalize()
	return fmt.Sprintf(`
%s

**Summary**
%s

**Critical Issues**
%s

**Recommendations**
%s
`, commentTitle, r.Summary, indentJSON(r.CriticalIssues), indentJSON(r.Recommendations))
}

func indentJSON(v []string) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// []string selalu bisa di-marshal
		return "[]"
	}
	return string(b)
}
