package probes

import (
	"fmt"
	"regexp"

	"github.com/redteam-mcp/scanner/internal/mcpclient"
)

// injectionPatterns are matched case-insensitively against every
// discovered tool/resource/prompt description. Package-level and
// immutable, like the heuristic keyword tables.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore (all|previous) instructions`),
	regexp.MustCompile(`(?i)system prompt`),
	regexp.MustCompile(`(?i)you are an? ai`),
}

// PromptInjectionFinding is a single location where a description matched
// an injection pattern.
type PromptInjectionFinding struct {
	Location string
	Content  string
}

// PromptInjectionProbe is structurally a scanner, not a per-tool generator:
// it inspects the complete discovery result in one pass rather than
// producing TestCases to be dispatched through callTool.
type PromptInjectionProbe struct{}

// Name matches the Probe-shaped naming convention even though
// PromptInjectionProbe does not implement Probe (it has no per-tool
// Generate — see Scan).
func (p *PromptInjectionProbe) Name() string { return "PromptInjectionProbe" }

// Scan inspects every tool, resource, and prompt description and yields
// one finding per matching element, tagged with its location.
func (p *PromptInjectionProbe) Scan(tools []mcpclient.Tool, resources []mcpclient.Resource, prompts []mcpclient.Prompt) []PromptInjectionFinding {
	var findings []PromptInjectionFinding

	for _, tool := range tools {
		findings = append(findings, scanText(fmt.Sprintf("tool:%s", tool.Name), tool.Description)...)
	}
	for _, resource := range resources {
		findings = append(findings, scanText(fmt.Sprintf("resource:%s", resource.URI), resource.Description)...)
	}
	for _, prompt := range prompts {
		findings = append(findings, scanText(fmt.Sprintf("prompt:%s", prompt.Name), prompt.Description)...)
	}

	return findings
}

func scanText(location, text string) []PromptInjectionFinding {
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(text) {
			return []PromptInjectionFinding{{Location: location, Content: text}}
		}
	}
	return nil
}
