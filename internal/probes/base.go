// Package probes implements independent adversarial test-case generators.
// Each probe is a stateless, deterministic, side-effect-free generator:
// given a tool and the scanner metadata dictionary, it returns zero or
// more TestCases. New probes must conform to the same Probe shape; the
// registry below is a fixed ordered list, not a dynamic plugin system.
package probes

import (
	"strings"

	"github.com/redteam-mcp/scanner/internal/mcpclient"
)

// TestCase is a single adversarial invocation a probe wants run against a
// tool, consumed once by the scan runner.
type TestCase struct {
	ToolName        string
	Args            map[string]interface{}
	ProbeName       string
	ExpectedSignals []string
}

// Probe generates TestCases for a single tool. Implementations must be
// pure: same tool and metadata in, same TestCase slice out, no I/O.
type Probe interface {
	Name() string
	Generate(tool mcpclient.Tool, metadata map[string]interface{}) []TestCase
}

// Registry is the fixed, ordered list of dynamic probes the scan runner
// iterates per tool: [Auth, PathTraversal, SSRF, CmdInjection, DoS,
// SchemaConfusion]. PromptInjectionProbe is not part of this registry —
// it is a static scanner over discovery results, not a per-tool
// generator.
var Registry = []Probe{
	&AuthProbe{},
	&PathTraversalProbe{},
	&SSRFProbe{},
	&CmdInjectionProbe{},
	&DoSProbe{},
	&SchemaConfusionProbe{},
}

// extractParamNames returns the top-level property names of a tool's input
// schema, in map iteration order (the schema does not preserve source
// order once decoded into a map, so probes that need a deterministic pick
// sort the names first).
func extractParamNames(tool mcpclient.Tool) []string {
	props, ok := tool.InputSchema["properties"].(map[string]interface{})
	if !ok {
		return nil
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	return names
}

// firstMatching returns the first parameter name (in sorted order, for
// determinism) containing any of the given substrings, case-insensitively.
func firstMatching(names []string, substrings ...string) (string, bool) {
	sortStrings(names)
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				return name, true
			}
		}
	}
	return "", false
}

// sortStrings is a tiny insertion sort to avoid pulling in sort for a
// handful of parameter names while keeping generation deterministic
// regardless of Go's randomized map iteration order.
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j] < s[j-1]; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}
