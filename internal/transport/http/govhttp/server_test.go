package govhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daopilot/internal/agent"
	"daopilot/internal/decision"
	"daopilot/internal/recorder"
	"daopilot/internal/types"
)

type staticSource struct {
	proposals []types.Proposal
}

func (s *staticSource) FetchProposals(context.Context) ([]types.Proposal, error) {
	return s.proposals, nil
}

func newTestServer(t *testing.T) (*Server, *agent.Agent) {
	t.Helper()
	source := &staticSource{proposals: []types.Proposal{
		{ID: 1, Title: "Treasury grant", Description: "Spend 10 ETH on community growth.", Proposer: "0xabc"},
	}}
	gov, err := agent.New(agent.Options{
		Metrics:  decision.DefaultMetrics(),
		Source:   source,
		Recorder: recorder.New(nil),
		DryRun:   true,
	})
	require.NoError(t, err)

	srv, err := NewServer(ServerConfig{Addr: ":0", Agent: gov, ReportDir: t.TempDir()})
	require.NoError(t, err)
	return srv, gov
}

func do(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_QueryEndpoints(t *testing.T) {
	srv, gov := newTestServer(t)
	require.NoError(t, gov.RunCycle(context.Background()))

	t.Run("analyses", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/governance/analyses")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Analyses []decision.Analysis `json:"analyses"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Analyses, 1)
		assert.Equal(t, int64(1), body.Analyses[0].ProposalID)
	})
	t.Run("votes", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/governance/votes")
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Votes []types.VoteRecord `json:"votes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Votes, 1)
		assert.True(t, body.Votes[0].DryRun)
	})
	t.Run("summary", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/governance/summary")
		require.Equal(t, http.StatusOK, rec.Code)
		var tally recorder.Tally
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tally))
		assert.Equal(t, 1, tally.Total)
	})
	t.Run("metrics", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/governance/metrics")
		require.Equal(t, http.StatusOK, rec.Code)
		var export map[string]float64
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &export))
		assert.InDelta(t, 0.6, export["min_score_to_support"], 1e-9)
	})
	t.Run("state", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/governance/state")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"state":"idle"}`, rec.Body.String())
	})
}

func TestServer_TriggerCycle(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodPost, "/api/governance/cycle")
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestServer_LatestChartMissing(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/charts/latest")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewServer_RequiresAgent(t *testing.T) {
	_, err := NewServer(ServerConfig{Addr: ":0"})
	assert.Error(t, err)
}
