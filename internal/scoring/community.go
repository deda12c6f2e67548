package scoring

import (
	"strings"

	"daopilot/internal/types"
)

// CommunityAlignment 统计描述中社区正负向关键词（按出现与否计，不按次数）。
func CommunityAlignment(p types.Proposal) float64 {
	desc := strings.ToLower(p.Description)
	score := 0.5
	for _, kd := range communityPositive {
		if strings.Contains(desc, kd.Keyword) {
			score += kd.Delta
		}
	}
	for _, kd := range communityNegative {
		if strings.Contains(desc, kd.Keyword) {
			score += kd.Delta
		}
	}
	return clamp01(score)
}
