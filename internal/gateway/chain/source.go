package chain

import (
	"context"

	"daopilot/internal/types"
)

// ProposalSource 提案来源（链上或本地 mock 文件）。
type ProposalSource interface {
	FetchProposals(ctx context.Context) ([]types.Proposal, error)
}

// VoteSink 投票提交端。dry-run 模式下不会被调用。
type VoteSink interface {
	SubmitVote(ctx context.Context, proposalID int64, choice types.VoteChoice) (Receipt, error)
}

// Receipt 投票提交回执。
type Receipt struct {
	TxHash string `json:"tx_hash"`
}
