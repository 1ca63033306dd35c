package errors

import "encoding/json"

// jsonDiagnostic is the wire shape for a Diagnostic, matching the
// teacher's practice of giving structured errors a stable schema tag
// (there: "ailang.error/v1") so tooling can depend on the shape.
type jsonDiagnostic struct {
	Schema     string `json:"schema"`
	Code       string `json:"code"`
	Phase      string `json:"phase"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ToJSON renders a Diagnostic as deterministic, sorted-key JSON.
func (d *Diagnostic) ToJSON() (string, error) {
	data, err := json.Marshal(jsonDiagnostic{
		Schema:     "vexel.diagnostic/v1",
		Code:       d.Code,
		Phase:      d.Phase,
		File:       d.Pos.File,
		Line:       d.Pos.Line,
		Column:     d.Pos.Column,
		Message:    d.Message,
		Suggestion: d.Suggestion,
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToJSON renders every Diagnostic in the list as a JSON array.
func (l *List) ToJSON() (string, error) {
	out := make([]jsonDiagnostic, len(l.items))
	for i, d := range l.items {
		out[i] = jsonDiagnostic{
			Schema:     "vexel.diagnostic/v1",
			Code:       d.Code,
			Phase:      d.Phase,
			File:       d.Pos.File,
			Line:       d.Pos.Line,
			Column:     d.Pos.Column,
			Message:    d.Message,
			Suggestion: d.Suggestion,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
