package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"daopilot/internal/config"
	"daopilot/internal/logger"
	"daopilot/internal/types"
)

// Client 对接 Ethereum JSON-RPC 节点上的治理合约，同时充当提案源与投票端。
type Client struct {
	endpoint   string
	httpClient *http.Client
	agentAddr  string
	governor   string
	reqID      atomic.Int64
}

// NewClient 构造链上客户端并做连通性检查：链 ID 与代理账户余额。
// 任一失败则构造失败，周期无法启动（live 模式的致命错误）。
func NewClient(cfg config.ChainConfig) (*Client, error) {
	raw := strings.TrimSpace(cfg.RPCURL)
	if raw == "" {
		return nil, fmt.Errorf("chain.rpc_url 不能为空")
	}
	if _, err := url.Parse(raw); err != nil {
		return nil, fmt.Errorf("解析 chain.rpc_url 失败: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		endpoint:   raw,
		httpClient: &http.Client{Timeout: timeout},
		agentAddr:  strings.ToLower(strings.TrimSpace(cfg.AgentAddress)),
		governor:   strings.ToLower(strings.TrimSpace(cfg.Governor)),
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	chainID, err := c.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("连接 RPC 节点失败 (%s): %w", raw, err)
	}
	balance, err := c.BalanceEther(ctx, c.agentAddr)
	if err != nil {
		return nil, fmt.Errorf("查询代理账户余额失败: %w", err)
	}
	logger.Infof("Connected to RPC: %s (chain id %d)", raw, chainID)
	logger.Infof("Agent address: %s, balance: %s ETH", c.agentAddr, balance.String())
	return c, nil
}

// ChainID 查询链 ID。
func (c *Client) ChainID(ctx context.Context) (int64, error) {
	res, err := c.call(ctx, "eth_chainId")
	if err != nil {
		return 0, err
	}
	return parseHexInt64(res.String())
}

// BalanceEther 查询账户余额并换算为 ETH。
func (c *Client) BalanceEther(ctx context.Context, addr string) (decimal.Decimal, error) {
	res, err := c.call(ctx, "eth_getBalance", addr, "latest")
	if err != nil {
		return decimal.Zero, err
	}
	wei, ok := new(big.Int).SetString(strings.TrimPrefix(res.String(), "0x"), 16)
	if !ok {
		return decimal.Zero, fmt.Errorf("无法解析余额: %s", res.String())
	}
	return decimal.NewFromBigInt(wei, -18), nil
}

// FetchProposals 遍历治理合约的 proposalCount()/proposals(i) 读出全部提案。
func (c *Client) FetchProposals(ctx context.Context) ([]types.Proposal, error) {
	ret, err := c.ethCall(ctx, selProposalCount)
	if err != nil {
		return nil, fmt.Errorf("proposalCount 调用失败: %w", err)
	}
	count, err := wordUint64(ret, 0)
	if err != nil {
		return nil, err
	}
	proposals := make([]types.Proposal, 0, count)
	for i := uint64(0); i < count; i++ {
		data := selProposals + encodeUint64(i)
		ret, err := c.ethCall(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("proposals(%d) 调用失败: %w", i, err)
		}
		p, err := decodeProposal(ret)
		if err != nil {
			return nil, fmt.Errorf("解码提案 %d 失败: %w", i, err)
		}
		proposals = append(proposals, p)
	}
	logger.Infof("✓ 从治理合约加载了 %d 条提案", len(proposals))
	return proposals, nil
}

// SubmitVote 通过节点托管账户发送 castVote 交易（Ganache/dev 节点场景）。
func (c *Client) SubmitVote(ctx context.Context, proposalID int64, choice types.VoteChoice) (Receipt, error) {
	if proposalID < 0 {
		return Receipt{}, fmt.Errorf("proposal id 不能为负: %d", proposalID)
	}
	support, err := supportValue(choice)
	if err != nil {
		return Receipt{}, err
	}
	tx := map[string]string{
		"from": c.agentAddr,
		"to":   c.governor,
		"data": selCastVote + encodeUint64(uint64(proposalID)) + encodeUint64(support),
	}
	res, err := c.call(ctx, "eth_sendTransaction", tx)
	if err != nil {
		return Receipt{}, fmt.Errorf("提交投票交易失败 (proposal #%d): %w", proposalID, err)
	}
	return Receipt{TxHash: res.String()}, nil
}

func (c *Client) ethCall(ctx context.Context, data string) ([]byte, error) {
	params := map[string]string{
		"to":   c.governor,
		"data": data,
	}
	res, err := c.call(ctx, "eth_call", params, "latest")
	if err != nil {
		return nil, err
	}
	return decodeHex(res.String())
}

// call 发送一次 JSON-RPC 请求并返回 result 节点。
func (c *Client) call(ctx context.Context, method string, params ...any) (gjson.Result, error) {
	if params == nil {
		params = []any{}
	}
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      c.reqID.Add(1),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("rpc %s: http %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("rpc %s: invalid json response", method)
	}
	parsed := gjson.ParseBytes(body)
	if errNode := parsed.Get("error"); errNode.Exists() {
		return gjson.Result{}, fmt.Errorf("rpc %s: %s (code %d)", method, errNode.Get("message").String(), errNode.Get("code").Int())
	}
	return parsed.Get("result"), nil
}

// SetHTTPClient 仅测试用。
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

func parseHexInt64(s string) (int64, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return 0, fmt.Errorf("empty hex value")
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return 0, fmt.Errorf("invalid hex value: %s", s)
	}
	if !n.IsInt64() {
		return 0, fmt.Errorf("hex value overflows int64: %s", s)
	}
	return n.Int64(), nil
}
