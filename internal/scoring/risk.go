package scoring

import (
	"strings"

	"daopilot/internal/types"
)

// RiskAssessment 基础分 0.6；高/中风险词在标题或描述里命中即扣分，
// 低风险词只看描述。命中数不封顶，最终结果收敛到 [0,1]。
func RiskAssessment(p types.Proposal) float64 {
	desc := strings.ToLower(p.Description)
	title := strings.ToLower(p.Title)

	score := 0.6
	for _, kd := range riskHigh {
		if strings.Contains(desc, kd.Keyword) || strings.Contains(title, kd.Keyword) {
			score += kd.Delta
		}
	}
	for _, kd := range riskMedium {
		if strings.Contains(desc, kd.Keyword) || strings.Contains(title, kd.Keyword) {
			score += kd.Delta
		}
	}
	for _, kd := range riskLow {
		if strings.Contains(desc, kd.Keyword) {
			score += kd.Delta
		}
	}
	return clamp01(score)
}
