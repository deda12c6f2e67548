package scoring

import (
	"strings"

	"daopilot/internal/types"
)

// TechnicalFeasibility 以描述的篇幅与结构化程度估计可落地性。
// 基础分 0.2，全部加分项命中时封顶 1.0。
func TechnicalFeasibility(p types.Proposal) float64 {
	desc := p.Description
	lower := strings.ToLower(desc)

	score := 0.2
	if len(strings.Fields(desc)) > 150 {
		score += 0.2
	}
	if containsAny(desc, structureMarkers) {
		score += 0.2
	}
	if containsAny(lower, timelineWords) {
		score += 0.15
	}
	if strings.Contains(lower, "budget") {
		score += 0.15
	}
	if containsAny(lower, implementationWords) {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
