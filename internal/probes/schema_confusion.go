package probes

import "github.com/redteam-mcp/scanner/internal/mcpclient"

// SchemaConfusionProbe always emits one case with an argument no schema
// declares, probing how the server's argument validation handles it.
type SchemaConfusionProbe struct{}

func (p *SchemaConfusionProbe) Name() string { return "SchemaConfusionProbe" }

func (p *SchemaConfusionProbe) Generate(tool mcpclient.Tool, metadata map[string]interface{}) []TestCase {
	return []TestCase{
		{
			ToolName:        tool.Name,
			Args:            map[string]interface{}{"unexpected": []interface{}{1, 2, 3}},
			ProbeName:       p.Name(),
			ExpectedSignals: []string{"ErrorLeakSignal"},
		},
	}
}
