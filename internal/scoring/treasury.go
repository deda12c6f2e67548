package scoring

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"daopilot/internal/types"
)

// numberPattern 匹配带千分位和小数的数字 token，如 1,000.5。
var numberPattern = regexp.MustCompile(`\b\d+(?:,\d{3})*(?:\.\d+)?\b`)

var (
	treasuryHigh = decimal.NewFromInt(50)
	treasuryMid  = decimal.NewFromInt(20)
)

// TreasuryImpact 以描述中最大数字量级作为资金风险的代理指标。
// 没有费用关键词时视为无财务影响（0.8）；有关键词但无数字时返回中性 0.5。
func TreasuryImpact(p types.Proposal) float64 {
	desc := strings.ToLower(p.Description)
	hasCost := false
	for _, kw := range costKeywords {
		if strings.Contains(desc, kw) {
			hasCost = true
			break
		}
	}
	if !hasCost {
		return 0.8
	}

	tokens := numberPattern.FindAllString(desc, -1)
	if len(tokens) == 0 {
		return 0.5
	}
	max := decimal.Zero
	for i, tok := range tokens {
		n, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", ""))
		if err != nil {
			continue
		}
		if i == 0 || n.GreaterThan(max) {
			max = n
		}
	}
	switch {
	case max.GreaterThan(treasuryHigh):
		return 0.3
	case max.GreaterThan(treasuryMid):
		return 0.6
	default:
		return 0.8
	}
}
