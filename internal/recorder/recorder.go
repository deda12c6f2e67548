package recorder

import (
	"context"
	"sync"
	"time"

	"daopilot/internal/logger"
	"daopilot/internal/types"
)

// Sink 接收投票记录的持久化端（如 votelog.Store）。
type Sink interface {
	Append(ctx context.Context, rec types.VoteRecord) error
}

// Tally 各投票选项的累计计数。
type Tally struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
	Total   int `json:"total"`
}

// Recorder 维护只追加的投票历史。历史跨周期累积，永不清空。
type Recorder struct {
	mu      sync.Mutex
	history []types.VoteRecord
	sink    Sink
	now     func() time.Time
}

// New 构造 Recorder。sink 可为 nil（仅内存模式）。
func New(sink Sink) *Recorder {
	return &Recorder{sink: sink, now: time.Now}
}

// SetClock 仅测试用。
func (r *Recorder) SetClock(now func() time.Time) {
	r.now = now
}

// Record 追加一条投票记录并返回它。持久化失败只告警，不影响内存历史。
func (r *Recorder) Record(ctx context.Context, proposalID int64, choice types.VoteChoice, dryRun bool, traceID string) types.VoteRecord {
	rec := types.VoteRecord{
		Timestamp:  r.now().Unix(),
		ProposalID: proposalID,
		Choice:     choice,
		DryRun:     dryRun,
		TraceID:    traceID,
	}
	r.mu.Lock()
	r.history = append(r.history, rec)
	r.mu.Unlock()

	if r.sink != nil {
		if err := r.sink.Append(ctx, rec); err != nil {
			logger.Warnf("持久化投票记录失败 (proposal #%d): %v", proposalID, err)
		}
	}
	return rec
}

// History 返回历史副本（插入顺序）。
func (r *Recorder) History() []types.VoteRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.VoteRecord, len(r.history))
	copy(out, r.history)
	return out
}

// Summary 统计迄今全部投票。
func (r *Recorder) Summary() Tally {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t Tally
	for _, rec := range r.history {
		switch rec.Choice {
		case types.VoteFor:
			t.For++
		case types.VoteAgainst:
			t.Against++
		case types.VoteAbstain:
			t.Abstain++
		}
	}
	t.Total = len(r.history)
	return t
}
