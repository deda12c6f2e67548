package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"daopilot/internal/decision"
	"daopilot/internal/gateway/chain"
	"daopilot/internal/recorder"
	"daopilot/internal/types"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) FetchProposals(ctx context.Context) ([]types.Proposal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Proposal), args.Error(1)
}

type MockSink struct {
	mock.Mock
}

func (m *MockSink) SubmitVote(ctx context.Context, proposalID int64, choice types.VoteChoice) (chain.Receipt, error) {
	args := m.Called(ctx, proposalID, choice)
	return args.Get(0).(chain.Receipt), args.Error(1)
}

func sampleProposals() []types.Proposal {
	return []types.Proposal{
		{
			ID:    1,
			Title: "Community education fund",
			Description: "A community program for education and growth. Spend 5 ETH over a 2 month timeline. " +
				"Budget and contract audit included. Proven and tested approach.",
			Proposer: "0xabc",
		},
		{
			ID:          2,
			Title:       "Risky experimental treasury drain",
			Description: "Spend 500 ETH immediately on an untested experimental scheme.",
			Proposer:    "0xdef",
		},
	}
}

func newTestAgent(t *testing.T, opts Options) *Agent {
	t.Helper()
	if opts.Recorder == nil {
		opts.Recorder = recorder.New(nil)
	}
	if opts.Metrics == (decision.VotingMetrics{}) {
		opts.Metrics = decision.DefaultMetrics()
	}
	a, err := New(opts)
	require.NoError(t, err)
	return a
}

func TestRunCycle_DryRun(t *testing.T) {
	source := new(MockSource)
	source.On("FetchProposals", mock.Anything).Return(sampleProposals(), nil)

	a := newTestAgent(t, Options{Source: source, DryRun: true})
	require.NoError(t, a.RunCycle(context.Background()))

	analyses := a.Analyses()
	require.Len(t, analyses, 2)
	assert.Equal(t, types.VoteFor, analyses[0].Recommendation)
	assert.Equal(t, types.VoteAgainst, analyses[1].Recommendation)
	assert.NotEmpty(t, analyses[0].TraceID)
	assert.Equal(t, analyses[0].TraceID, analyses[1].TraceID)

	history := a.History()
	require.Len(t, history, 2)
	assert.True(t, history[0].DryRun)
	assert.Equal(t, "idle", a.State())

	source.AssertExpectations(t)
}

func TestRunCycle_HistoryAccumulatesAcrossCycles(t *testing.T) {
	source := new(MockSource)
	source.On("FetchProposals", mock.Anything).Return(sampleProposals(), nil)

	a := newTestAgent(t, Options{Source: source, DryRun: true})
	ctx := context.Background()
	require.NoError(t, a.RunCycle(ctx))
	require.NoError(t, a.RunCycle(ctx))

	// 历史跨周期累积；分析结果只保留最近一个周期。
	assert.Len(t, a.History(), 4)
	assert.Len(t, a.Analyses(), 2)

	tally := a.Summary()
	assert.Equal(t, 2, tally.For)
	assert.Equal(t, 2, tally.Against)
	assert.Equal(t, 4, tally.Total)
}

func TestRunCycle_EmptyBatchIsNotAnError(t *testing.T) {
	source := new(MockSource)
	source.On("FetchProposals", mock.Anything).Return([]types.Proposal{}, nil)

	a := newTestAgent(t, Options{Source: source, DryRun: true})
	require.NoError(t, a.RunCycle(context.Background()))
	assert.Empty(t, a.Analyses())
	assert.Empty(t, a.History())
}

func TestRunCycle_LiveSubmitsVotes(t *testing.T) {
	source := new(MockSource)
	source.On("FetchProposals", mock.Anything).Return(sampleProposals(), nil)
	sink := new(MockSink)
	sink.On("SubmitVote", mock.Anything, int64(1), types.VoteFor).Return(chain.Receipt{TxHash: "0x1"}, nil)
	sink.On("SubmitVote", mock.Anything, int64(2), types.VoteAgainst).Return(chain.Receipt{TxHash: "0x2"}, nil)

	a := newTestAgent(t, Options{Source: source, Sink: sink, DryRun: false})
	require.NoError(t, a.RunCycle(context.Background()))

	history := a.History()
	require.Len(t, history, 2)
	assert.False(t, history[0].DryRun)
	sink.AssertExpectations(t)
}

func TestRunCycle_DryRunNeverTouchesSink(t *testing.T) {
	source := new(MockSource)
	source.On("FetchProposals", mock.Anything).Return(sampleProposals(), nil)
	sink := new(MockSink)

	a := newTestAgent(t, Options{Source: source, Sink: sink, DryRun: true})
	require.NoError(t, a.RunCycle(context.Background()))
	sink.AssertNotCalled(t, "SubmitVote", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetMetrics_TakesEffectNextCycle(t *testing.T) {
	source := new(MockSource)
	source.On("FetchProposals", mock.Anything).Return(sampleProposals(), nil)

	a := newTestAgent(t, Options{Source: source, DryRun: true})
	ctx := context.Background()
	require.NoError(t, a.RunCycle(ctx))
	assert.Equal(t, types.VoteFor, a.Analyses()[0].Recommendation)

	strict := decision.DefaultMetrics()
	strict.MinScoreToSupport = 0.99
	a.SetMetrics(strict)
	require.NoError(t, a.RunCycle(ctx))
	assert.Equal(t, types.VoteAbstain, a.Analyses()[0].Recommendation)
}

func TestNew_RequiresSourceAndRecorder(t *testing.T) {
	_, err := New(Options{Recorder: recorder.New(nil)})
	assert.Error(t, err)

	source := new(MockSource)
	_, err = New(Options{Source: source})
	assert.Error(t, err)
}
