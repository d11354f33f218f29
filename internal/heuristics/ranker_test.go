package heuristics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redteam-mcp/scanner/internal/mcpclient"
)

func schemaWithParams(names ...string) map[string]interface{} {
	props := map[string]interface{}{}
	for _, n := range names {
		props[n] = map[string]interface{}{"type": "string"}
	}
	return map[string]interface{}{"properties": props}
}

func TestRankToolsOrdersByScoreDescending(t *testing.T) {
	tools := []mcpclient.Tool{
		{Name: "lookup_weather", Description: "fetch current weather", InputSchema: schemaWithParams("city")},
		{Name: "exec_shell", Description: "run arbitrary shell commands", InputSchema: schemaWithParams("cmd")},
		{Name: "list_items", Description: "return a static list", InputSchema: schemaWithParams("page")},
	}

	ranked := RankTools(tools)

	assert.Equal(t, "exec_shell", ranked[0].Tool.Name)
	assert.True(t, ranked[0].Score >= ranked[1].Score)
	assert.True(t, ranked[1].Score >= ranked[2].Score)
}

func TestRankToolsStableOnTies(t *testing.T) {
	tools := []mcpclient.Tool{
		{Name: "alpha", Description: "", InputSchema: map[string]interface{}{}},
		{Name: "beta", Description: "", InputSchema: map[string]interface{}{}},
		{Name: "gamma", Description: "", InputSchema: map[string]interface{}{}},
	}

	ranked := RankTools(tools)

	assert.Equal(t, "alpha", ranked[0].Tool.Name)
	assert.Equal(t, "beta", ranked[1].Tool.Name)
	assert.Equal(t, "gamma", ranked[2].Tool.Name)
}

func TestRankToolsDoesNotMutateInput(t *testing.T) {
	tools := []mcpclient.Tool{
		{Name: "a", Description: "exec", InputSchema: schemaWithParams("cmd")},
		{Name: "b", Description: "", InputSchema: schemaWithParams("page")},
	}
	original := append([]mcpclient.Tool(nil), tools...)

	RankTools(tools)

	assert.Equal(t, original, tools)
}

func TestRankToolsParamWeights(t *testing.T) {
	withRiskyParam := mcpclient.Tool{Name: "risky", Description: "", InputSchema: schemaWithParams("path")}
	withoutRiskyParam := mcpclient.Tool{Name: "plain", Description: "", InputSchema: schemaWithParams("label")}

	ranked := RankTools([]mcpclient.Tool{withoutRiskyParam, withRiskyParam})
	assert.Equal(t, "risky", ranked[0].Tool.Name)
	assert.True(t, ranked[0].Score > ranked[1].Score)
}
