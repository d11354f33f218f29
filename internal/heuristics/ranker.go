// Package heuristics scores discovered tools by name/description/parameter
// keywords so the scan runner can exercise the riskiest-looking tools
// first. RankTools is a pure function over ([]Tool -> []ToolRisk) and
// never mutates its input.
package heuristics

import (
	"sort"
	"strings"

	"github.com/redteam-mcp/scanner/internal/mcpclient"
)

// nameDescWeights are keyword weights matched against a tool's name and
// description.
var nameDescWeights = map[string]int{
	"exec":     5,
	"run":      5,
	"shell":    5,
	"cmd":      5,
	"eval":     5,
	"fetch":    4,
	"http":     4,
	"url":      4,
	"sql":      4,
	"read":     3,
	"write":    3,
	"file":     3,
	"query":    3,
	"template": 2,
	"regex":    2,
}

// paramWeights are keyword weights matched against each top-level
// property name of a tool's input schema.
var paramWeights = map[string]int{
	"cmd":      4,
	"command":  4,
	"url":      4,
	"path":     3,
	"query":    3,
	"filename": 3,
	"file":     3,
	"headers":  2,
	"template": 2,
	"regex":    2,
}

// ToolRisk pairs a tool with its heuristic score.
type ToolRisk struct {
	Tool  mcpclient.Tool
	Score int
}

// scoreTool sums the weights earned by case-insensitive substring matches
// of the keyword tables against the tool's name, description, and each
// top-level input-schema property name.
func scoreTool(tool mcpclient.Tool) int {
	score := 0
	lowerName := strings.ToLower(tool.Name)
	lowerDesc := strings.ToLower(tool.Description)

	for keyword, weight := range nameDescWeights {
		if strings.Contains(lowerName, keyword) || strings.Contains(lowerDesc, keyword) {
			score += weight
		}
	}

	if props, ok := tool.InputSchema["properties"].(map[string]interface{}); ok {
		for name := range props {
			lowerParam := strings.ToLower(name)
			for keyword, weight := range paramWeights {
				if strings.Contains(lowerParam, keyword) {
					score += weight
				}
			}
		}
	}

	return score
}

// RankTools scores every tool and returns them sorted by descending score.
// Ties break on original enumeration order (stable sort); the input slice
// is never mutated.
func RankTools(tools []mcpclient.Tool) []ToolRisk {
	risks := make([]ToolRisk, len(tools))
	for i, tool := range tools {
		risks[i] = ToolRisk{Tool: tool, Score: scoreTool(tool)}
	}
	sort.SliceStable(risks, func(i, j int) bool {
		return risks[i].Score > risks[j].Score
	})
	return risks
}
