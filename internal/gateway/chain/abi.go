package chain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"daopilot/internal/types"
)

// 治理合约的函数选择器（Compound Governor 系接口）。
const (
	// proposalCount()
	selProposalCount = "0xda35c664"
	// proposals(uint256)
	selProposals = "0x013cf08b"
	// castVote(uint256,uint8)
	selCastVote = "0x56781388"
)

const wordSize = 32

// encodeUint64 把整数编码为 32 字节 ABI word 的十六进制表示。
func encodeUint64(v uint64) string {
	return fmt.Sprintf("%064x", v)
}

func decodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func word(data []byte, i int) ([]byte, error) {
	start := i * wordSize
	if start+wordSize > len(data) {
		return nil, fmt.Errorf("abi: return data too short for word %d (len=%d)", i, len(data))
	}
	return data[start : start+wordSize], nil
}

func wordUint64(data []byte, i int) (uint64, error) {
	w, err := word(data, i)
	if err != nil {
		return 0, err
	}
	n := new(big.Int).SetBytes(w)
	if !n.IsUint64() {
		return 0, fmt.Errorf("abi: word %d overflows uint64", i)
	}
	return n.Uint64(), nil
}

func wordBool(data []byte, i int) (bool, error) {
	n, err := wordUint64(data, i)
	if err != nil {
		return false, err
	}
	return n != 0, nil
}

func wordAddress(data []byte, i int) (string, error) {
	w, err := word(data, i)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(w[12:]), nil
}

// dynString 解引用 head word i 指向的动态 string。
func dynString(data []byte, i int) (string, error) {
	offset, err := wordUint64(data, i)
	if err != nil {
		return "", err
	}
	if offset+wordSize > uint64(len(data)) {
		return "", fmt.Errorf("abi: string offset %d out of range", offset)
	}
	length := new(big.Int).SetBytes(data[offset : offset+wordSize])
	if !length.IsUint64() {
		return "", fmt.Errorf("abi: string length overflows")
	}
	start := offset + wordSize
	end := start + length.Uint64()
	if end > uint64(len(data)) {
		return "", fmt.Errorf("abi: string data out of range (%d..%d, len=%d)", start, end, len(data))
	}
	return string(data[start:end]), nil
}

// decodeProposal 解码 proposals(uint256) 的返回：
// (uint256 id, string title, string description, address proposer,
//  uint256 votesFor, uint256 votesAgainst, uint256 votesAbstain, bool executed)
func decodeProposal(ret []byte) (types.Proposal, error) {
	var p types.Proposal
	id, err := wordUint64(ret, 0)
	if err != nil {
		return p, err
	}
	title, err := dynString(ret, 1)
	if err != nil {
		return p, fmt.Errorf("decode title: %w", err)
	}
	description, err := dynString(ret, 2)
	if err != nil {
		return p, fmt.Errorf("decode description: %w", err)
	}
	proposer, err := wordAddress(ret, 3)
	if err != nil {
		return p, err
	}
	votesFor, err := wordUint64(ret, 4)
	if err != nil {
		return p, err
	}
	votesAgainst, err := wordUint64(ret, 5)
	if err != nil {
		return p, err
	}
	votesAbstain, err := wordUint64(ret, 6)
	if err != nil {
		return p, err
	}
	executed, err := wordBool(ret, 7)
	if err != nil {
		return p, err
	}
	p = types.Proposal{
		ID:           int64(id),
		Title:        title,
		Description:  description,
		Proposer:     proposer,
		VotesFor:     votesFor,
		VotesAgainst: votesAgainst,
		VotesAbstain: votesAbstain,
		Executed:     executed,
	}
	return p, nil
}

// supportValue 把 VoteChoice 映射到 Governor castVote 的 support 参数
// （0=against, 1=for, 2=abstain）。
func supportValue(choice types.VoteChoice) (uint64, error) {
	switch choice {
	case types.VoteAgainst:
		return 0, nil
	case types.VoteFor:
		return 1, nil
	case types.VoteAbstain:
		return 2, nil
	default:
		return 0, fmt.Errorf("invalid vote choice: %v", choice)
	}
}
