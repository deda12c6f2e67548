package decision

import (
	"daopilot/internal/scoring"
	"daopilot/internal/types"
)

// Analysis 单条提案的评分结果，产出后不再修改。
type Analysis struct {
	ProposalID     int64               `json:"proposal_id"`
	Title          string              `json:"title"`
	Scores         scoring.ScoreVector `json:"scores"`
	OverallScore   float64             `json:"overall_score"`
	Recommendation types.VoteChoice    `json:"recommendation"`
	Reasoning      []string            `json:"reasoning"`
	TraceID        string              `json:"trace_id,omitempty"`
}
