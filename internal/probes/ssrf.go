package probes

import (
	"github.com/redteam-mcp/scanner/internal/constants"
	"github.com/redteam-mcp/scanner/internal/mcpclient"
)

// SSRFProbe targets parameters that look like they accept a URL, pointing
// them at the scanner's fake metadata endpoint.
type SSRFProbe struct{}

func (p *SSRFProbe) Name() string { return "SSRFProbe" }

func (p *SSRFProbe) Generate(tool mcpclient.Tool, metadata map[string]interface{}) []TestCase {
	param, ok := firstMatching(extractParamNames(tool), "url", "fetch")
	if !ok {
		return nil
	}

	fakeURL := constants.DefaultFakeMetadataURL
	if v, ok := metadata["fake_metadata_url"].(string); ok && v != "" {
		fakeURL = v
	}

	return []TestCase{
		{
			ToolName:        tool.Name,
			Args:            map[string]interface{}{param: fakeURL},
			ProbeName:       p.Name(),
			ExpectedSignals: []string{"SSRFSignal"},
		},
	}
}
