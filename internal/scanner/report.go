package scanner

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/redteam-mcp/scanner/internal/signals"
)

// Finding is a report-level record combining a probe outcome, its
// evidence, and a severity assessment. Appended to the report; immutable
// after append.
type Finding struct {
	Severity    string                 `json:"severity"`
	Confidence  string                 `json:"confidence"`
	ToolName    string                 `json:"tool_name"`
	ProbeName   string                 `json:"probe_name"`
	Description string                 `json:"description"`
	ReproArgs   map[string]interface{} `json:"repro_args"`
	Evidence    []signals.Evidence     `json:"evidence"`
	Remediation string                 `json:"remediation"`
}

// Summary is the top-level description of a completed scan.
type Summary struct {
	ScanID           string `json:"scan_id"`
	Target           string `json:"target"`
	ToolCount        int    `json:"tool_count"`
	TestsRun         int    `json:"tests_run"`
	IncludeLLMProbes bool   `json:"include_llm_probes"`
}

// Report is assembled once at scan end. The JSON schema is stable:
// renaming or deleting fields is a breaking change.
type Report struct {
	Summary  Summary   `json:"summary"`
	Findings []Finding `json:"findings"`
}

// WriteJSON writes the structured report.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteMarkdown writes a minimal human-readable rendering of the report.
// Styled, paginated report rendering is an external collaborator's
// concern; this is a plain walk over the report, not a templated
// generator.
func (r *Report) WriteMarkdown(path string) error {
	var b strings.Builder

	b.WriteString("# MCP Red Team Report\n\n")
	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Scan ID: %s\n", r.Summary.ScanID)
	fmt.Fprintf(&b, "- Target: %s\n", r.Summary.Target)
	fmt.Fprintf(&b, "- Tools discovered: %d\n", r.Summary.ToolCount)
	fmt.Fprintf(&b, "- Tests executed: %d\n", r.Summary.TestsRun)
	fmt.Fprintf(&b, "- LLM probes enabled: %t\n\n", r.Summary.IncludeLLMProbes)
	b.WriteString("## Findings\n")

	if len(r.Findings) == 0 {
		b.WriteString("No findings detected.\n")
	} else {
		for _, finding := range r.Findings {
			fmt.Fprintf(&b, "### %s: %s on %s\n", finding.Severity, finding.ProbeName, finding.ToolName)
			fmt.Fprintf(&b, "- Confidence: %s\n", finding.Confidence)
			fmt.Fprintf(&b, "- Description: %s\n", finding.Description)
			reproJSON, err := json.Marshal(finding.ReproArgs)
			if err != nil {
				reproJSON = []byte("{}")
			}
			fmt.Fprintf(&b, "- Repro args: `%s`\n", string(reproJSON))
			fmt.Fprintf(&b, "- Remediation: %s\n", finding.Remediation)
			b.WriteString("- Evidence:\n")
			for _, ev := range finding.Evidence {
				fmt.Fprintf(&b, "  - %s: %s (transcript id %d)\n", ev.Signal, ev.Detail, ev.TranscriptID)
			}
			b.WriteString("\n")
		}
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
