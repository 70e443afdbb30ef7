package patterns

import (
	"strings"
	"time"
)

// CallResult is a named, reusable list of call outcome labels staff can
// pick from when recording an attempt. The labels are stored as one
// comma-separated string, the way operators maintain them.
type CallResult struct {
	ID      string `json:"callResultId"`
	Name    string `json:"name"`
	Results string `json:"results"`
}

// ResultList splits the stored labels, dropping blanks.
func (r CallResult) ResultList() []string {
	var out []string
	for _, part := range strings.Split(r.Results, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// PatternItem binds one major class of a company's campaign to its call
// result classification and an optional talk script.
type PatternItem struct {
	ID            string `json:"patternItemId"`
	MajorClass    string `json:"majorClass"`
	CallResultID  string `json:"callResultId,omitempty"`
	TalkScriptURL string `json:"talkScriptUrl,omitempty"`
}

// Pattern is a company's campaign configuration. Import validation
// rejects rows whose major class is not registered here.
type Pattern struct {
	ID        string        `json:"patternId"`
	CompanyID string        `json:"companyId"`
	Items     []PatternItem `json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
}
