package scoring

import (
	"daopilot/internal/types"
)

// ScoreVector 四个维度的启发式评分，均落在 [0,1]。
type ScoreVector struct {
	TreasuryImpact       float64 `json:"treasury_impact"`
	CommunityAlignment   float64 `json:"community_alignment"`
	TechnicalFeasibility float64 `json:"technical_feasibility"`
	RiskAssessment       float64 `json:"risk_assessment"`
}

// Score 对单条提案独立评分。纯函数，不依赖批内其它提案。
func Score(p types.Proposal) ScoreVector {
	return ScoreVector{
		TreasuryImpact:       TreasuryImpact(p),
		CommunityAlignment:   CommunityAlignment(p),
		TechnicalFeasibility: TechnicalFeasibility(p),
		RiskAssessment:       RiskAssessment(p),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
