package probes

import "github.com/redteam-mcp/scanner/internal/mcpclient"

// PathTraversalProbe targets parameters that look like they accept a file
// path, planting a canary-bearing traversal sequence.
type PathTraversalProbe struct{}

func (p *PathTraversalProbe) Name() string { return "PathTraversalProbe" }

func (p *PathTraversalProbe) Generate(tool mcpclient.Tool, metadata map[string]interface{}) []TestCase {
	param, ok := firstMatching(extractParamNames(tool), "path", "file")
	if !ok {
		return nil
	}
	return []TestCase{
		{
			ToolName:        tool.Name,
			Args:            map[string]interface{}{param: "../secrets/canary.txt"},
			ProbeName:       p.Name(),
			ExpectedSignals: []string{"CanarySignal"},
		},
	}
}
