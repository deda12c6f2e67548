package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"daopilot/internal/scoring"
	"daopilot/internal/types"
)

func TestAggregate_WeightedSum(t *testing.T) {
	agg := NewAggregator(DefaultMetrics())
	vec := scoring.ScoreVector{
		TreasuryImpact:       0.8,
		CommunityAlignment:   0.5,
		TechnicalFeasibility: 0.2,
		RiskAssessment:       0.6,
	}
	analysis := agg.Aggregate(types.Proposal{ID: 3, Title: "Neutral"}, vec)

	// 0.8*0.3 + 0.5*0.25 + 0.2*0.25 + 0.6*0.2 = 0.535
	assert.InDelta(t, 0.535, analysis.OverallScore, 1e-9)
	assert.Equal(t, types.VoteAbstain, analysis.Recommendation)
	assert.Equal(t, int64(3), analysis.ProposalID)
	assert.Equal(t, "Neutral", analysis.Title)
	assert.Equal(t, vec, analysis.Scores)
}

func TestAggregate_Recommendations(t *testing.T) {
	agg := NewAggregator(DefaultMetrics())

	t.Run("score at or above threshold votes FOR", func(t *testing.T) {
		vec := scoring.ScoreVector{TreasuryImpact: 0.8, CommunityAlignment: 0.8, TechnicalFeasibility: 0.8, RiskAssessment: 0.8}
		a := agg.Aggregate(types.Proposal{ID: 1}, vec)
		assert.InDelta(t, 0.8, a.OverallScore, 1e-9)
		assert.Equal(t, types.VoteFor, a.Recommendation)
		assert.Contains(t, a.Reasoning[0], "exceeds threshold")
	})
	t.Run("score below 0.4 votes AGAINST", func(t *testing.T) {
		vec := scoring.ScoreVector{TreasuryImpact: 0.3, CommunityAlignment: 0.3, TechnicalFeasibility: 0.3, RiskAssessment: 0.3}
		a := agg.Aggregate(types.Proposal{ID: 2}, vec)
		assert.InDelta(t, 0.3, a.OverallScore, 1e-9)
		assert.Equal(t, types.VoteAgainst, a.Recommendation)
		assert.Contains(t, a.Reasoning[0], "below 0.4 threshold")
	})
	t.Run("neutral band abstains", func(t *testing.T) {
		vec := scoring.ScoreVector{TreasuryImpact: 0.5, CommunityAlignment: 0.5, TechnicalFeasibility: 0.5, RiskAssessment: 0.5}
		a := agg.Aggregate(types.Proposal{ID: 4}, vec)
		assert.InDelta(t, 0.5, a.OverallScore, 1e-9)
		assert.Equal(t, types.VoteAbstain, a.Recommendation)
		assert.Contains(t, a.Reasoning[0], "neutral")
	})
	t.Run("exact threshold is enough to support", func(t *testing.T) {
		// 全部用二进制可精确表示的数，避免浮点边界抖动。
		m := VotingMetrics{
			TreasuryImpactWeight:       0.25,
			CommunityAlignmentWeight:   0.25,
			TechnicalFeasibilityWeight: 0.25,
			RiskAssessmentWeight:       0.25,
			MinScoreToSupport:          0.625,
		}
		vec := scoring.ScoreVector{TreasuryImpact: 0.5, CommunityAlignment: 0.75, TechnicalFeasibility: 0.5, RiskAssessment: 0.75}
		a := NewAggregator(m).Aggregate(types.Proposal{ID: 5}, vec)
		assert.Equal(t, 0.625, a.OverallScore)
		assert.Equal(t, types.VoteFor, a.Recommendation)
	})
}

func TestAggregate_CustomThreshold(t *testing.T) {
	m := DefaultMetrics()
	m.MinScoreToSupport = 0.75
	agg := NewAggregator(m)
	vec := scoring.ScoreVector{TreasuryImpact: 0.7, CommunityAlignment: 0.7, TechnicalFeasibility: 0.7, RiskAssessment: 0.7}
	a := agg.Aggregate(types.Proposal{ID: 6}, vec)
	assert.InDelta(t, 0.7, a.OverallScore, 1e-9)
	assert.Equal(t, types.VoteAbstain, a.Recommendation)
}

func TestVotingMetrics(t *testing.T) {
	m := DefaultMetrics()
	assert.InDelta(t, 1.0, m.WeightSum(), 1e-9)

	export := m.Export()
	assert.Equal(t, 0.3, export["treasury_impact_weight"])
	assert.Equal(t, 0.6, export["min_score_to_support"])

	assert.Equal(t, "Treasury=30%, Community=25%, Technical=25%, Risk=20%", m.FormatWeights())
}
