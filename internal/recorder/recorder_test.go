package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"daopilot/internal/types"
)

type memSink struct {
	records []types.VoteRecord
	fail    bool
}

func (s *memSink) Append(_ context.Context, rec types.VoteRecord) error {
	if s.fail {
		return errors.New("sink down")
	}
	s.records = append(s.records, rec)
	return nil
}

func TestRecorder_AppendOnly(t *testing.T) {
	sink := &memSink{}
	r := New(sink)
	fixed := time.Unix(1700000000, 0)
	r.SetClock(func() time.Time { return fixed })

	ctx := context.Background()
	r.Record(ctx, 1, types.VoteFor, true, "trace-a")
	r.Record(ctx, 2, types.VoteAgainst, true, "trace-a")
	r.Record(ctx, 1, types.VoteAbstain, true, "trace-b")

	history := r.History()
	assert.Len(t, history, 3)
	assert.Equal(t, int64(1), history[0].ProposalID)
	assert.Equal(t, types.VoteFor, history[0].Choice)
	assert.Equal(t, fixed.Unix(), history[0].Timestamp)
	assert.True(t, history[0].DryRun)
	// 同一提案的第二次投票也追加，不覆盖。
	assert.Equal(t, int64(1), history[2].ProposalID)
	assert.Equal(t, types.VoteAbstain, history[2].Choice)

	assert.Len(t, sink.records, 3)
}

func TestRecorder_HistoryReturnsCopy(t *testing.T) {
	r := New(nil)
	r.Record(context.Background(), 1, types.VoteFor, true, "")

	history := r.History()
	history[0].ProposalID = 999
	assert.Equal(t, int64(1), r.History()[0].ProposalID)
}

func TestRecorder_Summary(t *testing.T) {
	r := New(nil)
	ctx := context.Background()
	r.Record(ctx, 1, types.VoteFor, true, "")
	r.Record(ctx, 2, types.VoteFor, true, "")
	r.Record(ctx, 3, types.VoteAgainst, true, "")
	r.Record(ctx, 4, types.VoteAbstain, true, "")

	tally := r.Summary()
	assert.Equal(t, 2, tally.For)
	assert.Equal(t, 1, tally.Against)
	assert.Equal(t, 1, tally.Abstain)
	assert.Equal(t, 4, tally.Total)
}

func TestRecorder_SinkFailureKeepsMemory(t *testing.T) {
	sink := &memSink{fail: true}
	r := New(sink)
	rec := r.Record(context.Background(), 5, types.VoteFor, false, "trace")
	assert.Equal(t, int64(5), rec.ProposalID)
	assert.Len(t, r.History(), 1)
	assert.Empty(t, sink.records)
}
