package config

import (
	"strings"

	"daopilot/internal/decision"
)

// Config 是 daopilot 的主配置载体。
type Config struct {
	App    AppConfig    `toml:"app"`
	Chain  ChainConfig  `toml:"chain"`
	Voting VotingConfig `toml:"voting"`
	Store  StoreConfig  `toml:"store"`
	Report ReportConfig `toml:"report"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
}

// ChainConfig 描述提案来源：mock 模式读本地 JSON 文件，
// live 模式连 JSON-RPC 节点上的治理合约。
type ChainConfig struct {
	Mode           string `toml:"mode"`
	RPCURL         string `toml:"rpc_url"`
	AgentAddress   string `toml:"agent_address"`
	AgentKey       string `toml:"agent_key"`
	Governor       string `toml:"governor_address"`
	ProposalsPath  string `toml:"proposals_path"`
	SchemaPath     string `toml:"schema_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

func (c ChainConfig) Live() bool {
	return strings.EqualFold(strings.TrimSpace(c.Mode), "live")
}

// VotingConfig 权重/阈值与运行节奏。
type VotingConfig struct {
	TreasuryImpactWeight       float64 `toml:"treasury_impact_weight"`
	CommunityAlignmentWeight   float64 `toml:"community_alignment_weight"`
	TechnicalFeasibilityWeight float64 `toml:"technical_feasibility_weight"`
	RiskAssessmentWeight       float64 `toml:"risk_assessment_weight"`
	MinScoreToSupport          float64 `toml:"min_score_to_support"`
	MaxTreasurySpendPct        float64 `toml:"max_treasury_spend_pct"`
	DryRun                     *bool   `toml:"dry_run"`
	PaceMillis                 int     `toml:"pace_ms"`
	Profile                    string  `toml:"profile"`
	ProfilesPath               string  `toml:"profiles_path"`
}

// Metrics 组装成 decision 层的指标对象。
func (v VotingConfig) Metrics() decision.VotingMetrics {
	return decision.VotingMetrics{
		TreasuryImpactWeight:       v.TreasuryImpactWeight,
		CommunityAlignmentWeight:   v.CommunityAlignmentWeight,
		TechnicalFeasibilityWeight: v.TechnicalFeasibilityWeight,
		RiskAssessmentWeight:       v.RiskAssessmentWeight,
		MinScoreToSupport:          v.MinScoreToSupport,
		MaxTreasurySpendPct:        v.MaxTreasurySpendPct,
	}
}

// IsDryRun 默认 true，显式配置 false 才会真正提交投票。
func (v VotingConfig) IsDryRun() bool {
	if v.DryRun == nil {
		return true
	}
	return *v.DryRun
}

type StoreConfig struct {
	VotesDB    string `toml:"votes_db"`
	AnalysisDB string `toml:"analysis_db"`
}

type ReportConfig struct {
	OutDir    string `toml:"out_dir"`
	RenderPNG bool   `toml:"render_png"`
}

// keySet 用于追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}
