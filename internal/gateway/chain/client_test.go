package chain

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"daopilot/internal/config"
	"daopilot/internal/types"
)

// fakeNode 模拟一个 dev 节点的 JSON-RPC 端点。
type fakeNode struct {
	t         *testing.T
	proposals []string // ABI 编码的 proposals(i) 返回
	sentTxs   []gjson.Result
}

func (n *fakeNode) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := gjson.Parse(readBody(n.t, r))
		reply := func(result string) {
			resp := map[string]any{"jsonrpc": "2.0", "id": raw.Get("id").Int(), "result": result}
			require.NoError(n.t, json.NewEncoder(w).Encode(resp))
		}

		switch raw.Get("method").String() {
		case "eth_chainId":
			reply("0x7a69") // 31337
		case "eth_getBalance":
			reply("0xde0b6b3a7640000") // 1 ETH
		case "eth_call":
			data := raw.Get("params.0.data").String()
			switch {
			case strings.HasPrefix(data, selProposalCount):
				reply("0x" + encodeUint64(uint64(len(n.proposals))))
			case strings.HasPrefix(data, selProposals):
				idx, err := wordUint64(mustDecodeHex(n.t, strings.TrimPrefix(data, selProposals)), 0)
				require.NoError(n.t, err)
				require.Less(n.t, int(idx), len(n.proposals))
				reply("0x" + n.proposals[idx])
			default:
				n.t.Fatalf("unexpected eth_call data: %s", data)
			}
		case "eth_sendTransaction":
			n.sentTxs = append(n.sentTxs, raw.Get("params.0"))
			reply("0xdeadbeef")
		default:
			n.t.Fatalf("unexpected rpc method: %s", raw.Get("method").String())
		}
	}
}

func readBody(t *testing.T, r *http.Request) string {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	return string(data)
}

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	data, err := decodeHex(s)
	require.NoError(t, err)
	return data
}

func newFakeNodeClient(t *testing.T, node *fakeNode) *Client {
	t.Helper()
	node.t = t
	srv := httptest.NewServer(node.handler())
	t.Cleanup(srv.Close)

	client, err := NewClient(config.ChainConfig{
		Mode:           "live",
		RPCURL:         srv.URL,
		AgentAddress:   "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		Governor:       "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return client
}

func TestClient_FetchProposals(t *testing.T) {
	node := &fakeNode{proposals: []string{
		buildProposalReturn(0, "First", "Spend 10 ETH", "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", 1, 0, 0, false),
		buildProposalReturn(1, "Second", "## Plan with audit", "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", 0, 2, 1, true),
	}}
	client := newFakeNodeClient(t, node)

	proposals, err := client.FetchProposals(context.Background())
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, "First", proposals[0].Title)
	assert.Equal(t, "Second", proposals[1].Title)
	assert.True(t, proposals[1].Executed)
}

func TestClient_SubmitVote(t *testing.T) {
	node := &fakeNode{}
	client := newFakeNodeClient(t, node)

	receipt, err := client.SubmitVote(context.Background(), 5, types.VoteFor)
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", receipt.TxHash)

	require.Len(t, node.sentTxs, 1)
	tx := node.sentTxs[0]
	assert.Equal(t, "0x70997970c51812dc3a010c7d01b50e0d17dc79c8", tx.Get("from").String())
	assert.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", tx.Get("to").String())
	assert.Equal(t, selCastVote+encodeUint64(5)+encodeUint64(1), tx.Get("data").String())
}

func TestClient_SubmitVoteRejectsNegativeID(t *testing.T) {
	client := newFakeNodeClient(t, &fakeNode{})
	_, err := client.SubmitVote(context.Background(), -1, types.VoteFor)
	assert.Error(t, err)
}

func TestClient_RPCErrorIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"boom"}}`))
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(config.ChainConfig{
		Mode:           "live",
		RPCURL:         srv.URL,
		AgentAddress:   "0xabc",
		Governor:       "0xdef",
		TimeoutSeconds: 2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
