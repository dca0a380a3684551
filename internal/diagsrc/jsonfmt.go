package diagsrc

import (
	"encoding/json"
	"fmt"

	"oxmerge/internal/diag"
	"oxmerge/internal/source"
)

type jsonRecord struct {
	ID        string `json:"id"`
	Severity  string `json:"severity"`
	Path      string `json:"path"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   uint32 `json:"endLine"`
	EndColumn uint32 `json:"endColumn"`
	Message   string `json:"message"`
}

func parseJSON(data []byte) ([]diag.Diagnostic, error) {
	data, _ = source.Normalize(data)
	var records []jsonRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse json diagnostics: %w", err)
	}
	out := make([]diag.Diagnostic, 0, len(records))
	for i, r := range records {
		sev, ok := diag.ParseSeverity(r.Severity)
		if !ok {
			return nil, fmt.Errorf("parse json diagnostics: record %d: unknown severity %q", i, r.Severity)
		}
		start := source.LineCol{Line: r.Line, Col: r.Column}
		end := start
		if r.EndLine != 0 {
			end = source.LineCol{Line: r.EndLine, Col: r.EndColumn}
		}
		out = append(out, diag.Diagnostic{
			Severity: sev,
			Code:     diag.Code(r.ID),
			Message:  r.Message,
			Primary:  diag.Location{Path: r.Path, Start: start, End: end},
		})
	}
	return out, nil
}
