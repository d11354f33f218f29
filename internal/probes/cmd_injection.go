package probes

import "github.com/redteam-mcp/scanner/internal/mcpclient"

// CmdInjectionProbe targets parameters that look like they accept a shell
// command, chaining a benign command with a sensitive-file read.
type CmdInjectionProbe struct{}

func (p *CmdInjectionProbe) Name() string { return "CmdInjectionProbe" }

func (p *CmdInjectionProbe) Generate(tool mcpclient.Tool, metadata map[string]interface{}) []TestCase {
	param, ok := firstMatching(extractParamNames(tool), "cmd", "command")
	if !ok {
		return nil
	}
	return []TestCase{
		{
			ToolName:        tool.Name,
			Args:            map[string]interface{}{param: "echo safe && cat /etc/passwd"},
			ProbeName:       p.Name(),
			ExpectedSignals: []string{"ErrorLeakSignal"},
		},
	}
}
