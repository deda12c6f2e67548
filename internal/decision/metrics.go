package decision

import "fmt"

// VotingMetrics 投票决策的权重与阈值配置。四个权重约定合计 1.0，
// 但聚合器不强制（见 config 校验）。
type VotingMetrics struct {
	TreasuryImpactWeight       float64 `json:"treasury_impact_weight"`
	CommunityAlignmentWeight   float64 `json:"community_alignment_weight"`
	TechnicalFeasibilityWeight float64 `json:"technical_feasibility_weight"`
	RiskAssessmentWeight       float64 `json:"risk_assessment_weight"`
	MinScoreToSupport          float64 `json:"min_score_to_support"`
	// MaxTreasurySpendPct 预留给后续的金库支出上限控制，评分逻辑暂不使用。
	MaxTreasurySpendPct float64 `json:"max_treasury_spend_pct"`
}

// DefaultMetrics 与原始治理代理一致的默认配置。
func DefaultMetrics() VotingMetrics {
	return VotingMetrics{
		TreasuryImpactWeight:       0.3,
		CommunityAlignmentWeight:   0.25,
		TechnicalFeasibilityWeight: 0.25,
		RiskAssessmentWeight:       0.2,
		MinScoreToSupport:          0.6,
		MaxTreasurySpendPct:        0.1,
	}
}

// WeightSum 四个类别权重之和。
func (m VotingMetrics) WeightSum() float64 {
	return m.TreasuryImpactWeight + m.CommunityAlignmentWeight +
		m.TechnicalFeasibilityWeight + m.RiskAssessmentWeight
}

// Export 导出为键值快照，供 HTTP 接口与启动摘要使用。
func (m VotingMetrics) Export() map[string]float64 {
	return map[string]float64{
		"treasury_impact_weight":       m.TreasuryImpactWeight,
		"community_alignment_weight":   m.CommunityAlignmentWeight,
		"technical_feasibility_weight": m.TechnicalFeasibilityWeight,
		"risk_assessment_weight":       m.RiskAssessmentWeight,
		"min_score_to_support":         m.MinScoreToSupport,
		"max_treasury_spend_pct":       m.MaxTreasurySpendPct,
	}
}

// FormatWeights 按百分比拼出一行权重摘要。
func (m VotingMetrics) FormatWeights() string {
	return fmt.Sprintf("Treasury=%.0f%%, Community=%.0f%%, Technical=%.0f%%, Risk=%.0f%%",
		m.TreasuryImpactWeight*100,
		m.CommunityAlignmentWeight*100,
		m.TechnicalFeasibilityWeight*100,
		m.RiskAssessmentWeight*100,
	)
}
