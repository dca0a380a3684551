package diagsrc

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"oxmerge/internal/diag"
	"oxmerge/internal/source"
)

type sarifLog struct {
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Results []sarifResult `json:"results"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
	// подавленные (#pragma warning disable, SuppressMessage) не учитываем
	Suppressions []json.RawMessage `json:"suppressions"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	Physical struct {
		Artifact struct {
			URI string `json:"uri"`
		} `json:"artifactLocation"`
		Region sarifRegion `json:"region"`
	} `json:"physicalLocation"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

func parseSARIF(data []byte) ([]diag.Diagnostic, error) {
	data, _ = source.Normalize(data)
	var log sarifLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("parse sarif: %w", err)
	}
	if log.Version != "" && !strings.HasPrefix(log.Version, "2.") {
		return nil, fmt.Errorf("parse sarif: unsupported version %q", log.Version)
	}
	var out []diag.Diagnostic
	for _, run := range log.Runs {
		for _, r := range run.Results {
			if len(r.Suppressions) > 0 {
				continue
			}
			d := diag.Diagnostic{
				Severity: sarifLevel(r.Level),
				Code:     diag.Code(r.RuleID),
				Message:  r.Message.Text,
			}
			if len(r.Locations) > 0 {
				phys := r.Locations[0].Physical
				d.Primary = diag.Location{
					Path:  uriToPath(phys.Artifact.URI),
					Start: source.LineCol{Line: phys.Region.StartLine, Col: max(phys.Region.StartColumn, 1)},
				}
				d.Primary.End = d.Primary.Start
				if phys.Region.EndLine != 0 {
					d.Primary.End = source.LineCol{Line: phys.Region.EndLine, Col: max(phys.Region.EndColumn, 1)}
				}
				if d.Primary.Start.Line == 0 {
					d.Primary.Start.Col = 0
				}
			}
			out = append(out, d)
		}
	}
	return out, nil
}

// sarifLevel maps SARIF result levels; an absent level means "warning".
func sarifLevel(level string) diag.Severity {
	if level == "" {
		return diag.SevWarning
	}
	sev, _ := diag.ParseSeverity(level)
	return sev
}

func uriToPath(uri string) string {
	if uri == "" {
		return ""
	}
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" || (len(u.Scheme) == 1 && len(uri) > 2 && uri[1] == ':') {
		// не URI, а путь (в том числе C:\...)
		return uri
	}
	if u.Scheme != "file" {
		return uri
	}
	p := u.Path
	// file:///C:/x -> /C:/x
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return p
}
