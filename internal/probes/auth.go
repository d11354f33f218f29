package probes

import "github.com/redteam-mcp/scanner/internal/mcpclient"

// AuthProbe only fires in a lab deployment advertising an auth toggle, and
// only against the read_file tool, attempting to read a protected path
// without the expected elevated context.
type AuthProbe struct{}

func (p *AuthProbe) Name() string { return "AuthProbe" }

func (p *AuthProbe) Generate(tool mcpclient.Tool, metadata map[string]interface{}) []TestCase {
	if truthy, _ := metadata["lab_supports_auth_toggle"].(bool); !truthy {
		return nil
	}
	if tool.Name != "read_file" {
		return nil
	}
	return []TestCase{
		{
			ToolName:        tool.Name,
			Args:            map[string]interface{}{"path": "protected/secret.txt"},
			ProbeName:       p.Name(),
			ExpectedSignals: []string{"ErrorLeakSignal"},
		},
	}
}
