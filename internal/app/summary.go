package app

import (
	"fmt"
	"strings"

	"daopilot/internal/config"
	"daopilot/internal/decision"
)

type StartupSummary struct {
	Chain   ChainSummary
	Voting  VotingSummary
	Storage StorageSummary
	HTTP    string
}

type ChainSummary struct {
	Mode          string
	RPCURL        string
	AgentAddress  string
	Governor      string
	ProposalsPath string
}

type VotingSummary struct {
	Profile   string
	Weights   string
	Threshold float64
	DryRun    bool
	PaceMs    int
}

type StorageSummary struct {
	VotesDB    string
	AnalysisDB string
	ReportDir  string
}

func buildStartupSummary(cfg *config.Config, metrics decision.VotingMetrics, profileName string) *StartupSummary {
	return &StartupSummary{
		Chain: ChainSummary{
			Mode:          cfg.Chain.Mode,
			RPCURL:        cfg.Chain.RPCURL,
			AgentAddress:  cfg.Chain.AgentAddress,
			Governor:      cfg.Chain.Governor,
			ProposalsPath: cfg.Chain.ProposalsPath,
		},
		Voting: VotingSummary{
			Profile:   profileName,
			Weights:   metrics.FormatWeights(),
			Threshold: metrics.MinScoreToSupport,
			DryRun:    cfg.Voting.IsDryRun(),
			PaceMs:    cfg.Voting.PaceMillis,
		},
		Storage: StorageSummary{
			VotesDB:    cfg.Store.VotesDB,
			AnalysisDB: cfg.Store.AnalysisDB,
			ReportDir:  cfg.Report.OutDir,
		},
		HTTP: cfg.App.HTTPAddr,
	}
}

func (s *StartupSummary) Print() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("%*s\n", 40+len("启动配置摘要 (STARTUP SUMMARY)")/2, "启动配置摘要 (STARTUP SUMMARY)")
	fmt.Println(strings.Repeat("=", 80))

	fmt.Println("[提案来源 (PROPOSAL SOURCE)]")
	fmt.Printf("  运行模式: %s\n", orDash(s.Chain.Mode))
	if strings.EqualFold(strings.TrimSpace(s.Chain.Mode), "live") {
		fmt.Printf("  RPC 节点: %s\n", orDash(s.Chain.RPCURL))
		fmt.Printf("  代理地址: %s\n", orDash(s.Chain.AgentAddress))
		fmt.Printf("  治理合约: %s\n", orDash(s.Chain.Governor))
	} else {
		fmt.Printf("  提案文件: %s\n", orDash(s.Chain.ProposalsPath))
	}
	fmt.Println()

	fmt.Println("[投票决策 (VOTING DECISION)]")
	if s.Voting.Profile != "" {
		fmt.Printf("  指标预设: %s\n", s.Voting.Profile)
	}
	fmt.Printf("  权重分布: %s\n", s.Voting.Weights)
	fmt.Printf("  支持阈值: %.2f\n", s.Voting.Threshold)
	fmt.Printf("  演练模式: %v\n", s.Voting.DryRun)
	fmt.Printf("  节奏间隔: %dms\n", s.Voting.PaceMs)
	fmt.Println()

	fmt.Println("[持久化与报表 (STORAGE & REPORTS)]")
	fmt.Printf("  投票历史: %s\n", orDash(s.Storage.VotesDB))
	fmt.Printf("  分析结果: %s\n", orDash(s.Storage.AnalysisDB))
	fmt.Printf("  图表目录: %s\n", orDash(s.Storage.ReportDir))
	fmt.Printf("  HTTP 监听: %s\n", orDash(s.HTTP))
	fmt.Println(strings.Repeat("=", 80))
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
