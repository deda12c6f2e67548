package agent

import (
	"fmt"
	"strings"

	"daopilot/internal/decision"
	"daopilot/internal/recorder"
	"daopilot/internal/types"
)

// formatAnalysis 拼一条提案的分析块，交给 logger.InfoBlock 逐行输出。
func formatAnalysis(p types.Proposal, a decision.Analysis) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "📋 Analyzing Proposal #%d\n", p.ID)
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	fmt.Fprintf(&b, "Proposer: %s\n", p.Proposer)
	fmt.Fprintf(&b, "  💰 Treasury Impact: %.2f\n", a.Scores.TreasuryImpact)
	fmt.Fprintf(&b, "  👥 Community Alignment: %.2f\n", a.Scores.CommunityAlignment)
	fmt.Fprintf(&b, "  🔧 Technical Feasibility: %.2f\n", a.Scores.TechnicalFeasibility)
	fmt.Fprintf(&b, "  ⚠️ Risk Assessment: %.2f\n", a.Scores.RiskAssessment)
	fmt.Fprintf(&b, "  📊 OVERALL SCORE: %.2f\n", a.OverallScore)
	fmt.Fprintf(&b, "  🗳️ RECOMMENDATION: %s\n", a.Recommendation)
	if len(a.Reasoning) > 0 {
		fmt.Fprintf(&b, "  💭 Reasoning: %s\n", a.Reasoning[0])
	}
	return b.String()
}

// formatVoteSummary 拼累计投票摘要块（含逐条历史）。
func formatVoteSummary(tally recorder.Tally, history []types.VoteRecord) string {
	if tally.Total == 0 {
		return "No votes cast yet."
	}
	var b strings.Builder
	b.WriteString("📊 VOTING SUMMARY\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Total Votes: %d\n", tally.Total)
	fmt.Fprintf(&b, "  FOR: %d\n", tally.For)
	fmt.Fprintf(&b, "  AGAINST: %d\n", tally.Against)
	fmt.Fprintf(&b, "  ABSTAIN: %d\n", tally.Abstain)
	b.WriteString("📝 Vote History:\n")
	for _, rec := range history {
		fmt.Fprintf(&b, "  Proposal #%d: %s\n", rec.ProposalID, rec.Choice)
	}
	return b.String()
}
