package probes

import "github.com/redteam-mcp/scanner/internal/mcpclient"

// dosPayloadChunk and dosPayloadRepeat construct the oversized nested
// payload: a 10,000-char "A" string repeated 20 times inside a nested
// array.
const (
	dosPayloadChunk  = 10000
	dosPayloadRepeat = 20
)

// DoSProbe targets the lexicographically first parameter name of any tool
// with a large, deeply nested payload intended to trigger a slow response.
// The schema's declaration order is not used: it is lost once the schema is
// decoded into a map.
type DoSProbe struct{}

func (p *DoSProbe) Name() string { return "DoSProbe" }

func (p *DoSProbe) Generate(tool mcpclient.Tool, metadata map[string]interface{}) []TestCase {
	names := extractParamNames(tool)
	if len(names) == 0 {
		return nil
	}
	sortStrings(names)
	param := names[0]

	chunk := make([]byte, dosPayloadChunk)
	for i := range chunk {
		chunk[i] = 'A'
	}
	nested := make([]interface{}, dosPayloadRepeat)
	for i := range nested {
		nested[i] = string(chunk)
	}

	return []TestCase{
		{
			ToolName:        tool.Name,
			Args:            map[string]interface{}{param: map[string]interface{}{"nested": nested}},
			ProbeName:       p.Name(),
			ExpectedSignals: []string{"TimingSignal"},
		},
	}
}
