package chain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProposals(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "proposals.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_FetchProposals(t *testing.T) {
	path := writeProposals(t, `[
  {"id": 1, "title": "Fund community education", "description": "Spend 10 ETH", "proposer": "0xabc", "votesFor": 3},
  {"id": 2, "title": "Upgrade contracts", "description": "## Plan", "proposer": "0xdef", "executed": true}
]`)
	src, err := NewFileSource(path, "")
	require.NoError(t, err)

	proposals, err := src.FetchProposals(context.Background())
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, int64(1), proposals[0].ID)
	assert.Equal(t, "Fund community education", proposals[0].Title)
	assert.Equal(t, uint64(3), proposals[0].VotesFor)
	assert.True(t, proposals[1].Executed)
}

func TestFileSource_MissingFileIsEmptyBatch(t *testing.T) {
	src, err := NewFileSource(filepath.Join(t.TempDir(), "nope.json"), "")
	require.NoError(t, err)

	proposals, err := src.FetchProposals(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, proposals)
}

func TestFileSource_MalformedJSON(t *testing.T) {
	path := writeProposals(t, `[{"id": 1,`)
	src, err := NewFileSource(path, "")
	require.NoError(t, err)

	_, err = src.FetchProposals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid json")
}

func TestFileSource_SchemaViolation(t *testing.T) {
	// proposer 缺失
	path := writeProposals(t, `[{"id": 1, "title": "No proposer", "description": ""}]`)
	src, err := NewFileSource(path, "")
	require.NoError(t, err)

	_, err = src.FetchProposals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation")
}

func TestFileSource_EmptyPathRejected(t *testing.T) {
	_, err := NewFileSource("", "")
	require.Error(t, err)
}
