package report

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FillsNilLists(t *testing.T) {
	r := Report{Summary: "ok"}.Normalize()

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"ok","critical_issues":[],"recommendations":[]}`, string(b))
}

func TestComment_Layout(t *testing.T) {
	r := Report{
		Summary:         "Two problems found.",
		CriticalIssues:  []string{"SQL injection in db.go"},
		Recommendations: []string{"Use prepared statements"},
	}

	c := r.Comment()

	assert.Contains(t, c, "### 🤖 AI & GenOps Guardian Report")
	assert.Contains(t, c, "**Summary**\nTwo problems found.\n")
	assert.Contains(t, c, "**Critical Issues**\n[\n  \"SQL injection in db.go\"\n]")
	assert.Contains(t, c, "**Recommendations**\n[\n  \"Use prepared statements\"\n]")
	assert.Less(t, strings.Index(c, "**Summary**"), strings.Index(c, "**Critical Issues**"))
	assert.Less(t, strings.Index(c, "**Critical Issues**"), strings.Index(c, "**Recommendations**"))
}

func TestComment_EmptyListsRenderAsEmptyArrays(t *testing.T) {
	c := Report{Summary: "clean"}.Comment()

	assert.Contains(t, c, "**Critical Issues**\n[]\n")
	assert.Contains(t, c, "**Recommendations**\n[]\n")
}
