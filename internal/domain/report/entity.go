package report

// Report is the structured summary returned by the model, or a fallback.
// Lists are never nil so the JSON artifact always carries arrays.
type Report struct {
	Summary         string   `json:"summary"`
	CriticalIssues  []string `json:"critical_issues"`
	Recommendations []string `json:"recommendations"`
}

// Normalize replaces nil lists with empty ones.
func (r Report) Normalize() Report {
	if r.CriticalIssues == nil {
		r.CriticalIssues = []string{}
	}
	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	return r
}
