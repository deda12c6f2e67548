package decision

import (
	"fmt"

	"daopilot/internal/scoring"
	"daopilot/internal/types"
)

// againstThreshold 低分否决线。固定常量，不随 min_score_to_support 变化；
// config 校验保证 min_score_to_support 不会低于它，三个分支因此保持互斥。
const againstThreshold = 0.4

// Aggregator 将四维评分按权重合成总分并给出投票建议。
type Aggregator struct {
	metrics VotingMetrics
}

func NewAggregator(metrics VotingMetrics) *Aggregator {
	return &Aggregator{metrics: metrics}
}

// Metrics 返回当前权重配置。
func (a *Aggregator) Metrics() VotingMetrics {
	return a.metrics
}

// Aggregate 计算总分与建议。总分不做 clamp：权重不归一时允许越界，
// 这是有意保留的行为（见 DESIGN.md）。
func (a *Aggregator) Aggregate(p types.Proposal, vec scoring.ScoreVector) Analysis {
	m := a.metrics
	overall := vec.TreasuryImpact*m.TreasuryImpactWeight +
		vec.CommunityAlignment*m.CommunityAlignmentWeight +
		vec.TechnicalFeasibility*m.TechnicalFeasibilityWeight +
		vec.RiskAssessment*m.RiskAssessmentWeight

	analysis := Analysis{
		ProposalID:   p.ID,
		Title:        p.Title,
		Scores:       vec,
		OverallScore: overall,
	}

	switch {
	case overall >= m.MinScoreToSupport:
		analysis.Recommendation = types.VoteFor
		analysis.Reasoning = append(analysis.Reasoning,
			fmt.Sprintf("Score %.2f exceeds threshold %g", overall, m.MinScoreToSupport))
	case overall < againstThreshold:
		analysis.Recommendation = types.VoteAgainst
		analysis.Reasoning = append(analysis.Reasoning,
			fmt.Sprintf("Score %.2f is below 0.4 threshold", overall))
	default:
		analysis.Recommendation = types.VoteAbstain
		analysis.Reasoning = append(analysis.Reasoning,
			fmt.Sprintf("Score %.2f is neutral (0.4 to %g)", overall, m.MinScoreToSupport))
	}
	return analysis
}
