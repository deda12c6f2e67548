package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// VoteChoice 投票选项（闭合枚举，与治理合约的 support 参数对齐）。
type VoteChoice int

const (
	VoteFor     VoteChoice = 1
	VoteAgainst VoteChoice = 2
	VoteAbstain VoteChoice = 3
)

func (v VoteChoice) String() string {
	switch v {
	case VoteFor:
		return "FOR"
	case VoteAgainst:
		return "AGAINST"
	case VoteAbstain:
		return "ABSTAIN"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(v))
	}
}

// Valid reports whether v is one of the three closed variants.
func (v VoteChoice) Valid() bool {
	return v == VoteFor || v == VoteAgainst || v == VoteAbstain
}

func (v VoteChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

func (v *VoteChoice) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseVoteChoice(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVoteChoice 解析投票选项名称（大小写不敏感）。
func ParseVoteChoice(s string) (VoteChoice, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FOR":
		return VoteFor, nil
	case "AGAINST":
		return VoteAgainst, nil
	case "ABSTAIN":
		return VoteAbstain, nil
	default:
		return 0, fmt.Errorf("unknown vote choice: %q", s)
	}
}

// Proposal 单条治理提案，加载后只读。
type Proposal struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Proposer     string `json:"proposer"`
	VotesFor     uint64 `json:"votesFor"`
	VotesAgainst uint64 `json:"votesAgainst"`
	VotesAbstain uint64 `json:"votesAbstain"`
	Executed     bool   `json:"executed"`
}

// VoteRecord 一条投票决策记录，只追加、永不修改。
type VoteRecord struct {
	Timestamp  int64      `json:"timestamp"`
	ProposalID int64      `json:"proposal_id"`
	Choice     VoteChoice `json:"vote"`
	DryRun     bool       `json:"dry_run"`
	TraceID    string     `json:"trace_id,omitempty"`
}
