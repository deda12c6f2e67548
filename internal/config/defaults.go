package config

import (
	"strings"

	"daopilot/internal/decision"
)

// 默认值常量
const (
	defaultAppEnv        = "dev"
	defaultAppLogLevel   = "info"
	defaultAppHTTPAddr   = ":9983"
	defaultAppLogPath    = ""
	defaultChainMode     = "mock"
	defaultChainRPC      = "http://127.0.0.1:8545"
	defaultChainTimeout  = 15
	defaultProposalsPath = "test_proposals.json"
	defaultVotesDB       = "data/votes.db"
	defaultAnalysisDB    = "data/analyses.db"
	defaultReportDir     = "reports"
	defaultPaceMillis    = 1000
	defaultProfilesPath  = ""
)

// applyDefaults 为所有子配置应用默认值。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Chain.applyDefaults(keys)
	c.Voting.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.Report.applyDefaults(keys)
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if strings.TrimSpace(a.Env) == "" {
		a.Env = defaultAppEnv
	}
	if strings.TrimSpace(a.LogLevel) == "" {
		a.LogLevel = defaultAppLogLevel
	}
	if strings.TrimSpace(a.HTTPAddr) == "" {
		a.HTTPAddr = defaultAppHTTPAddr
	}
	if !keys.isSet("app.log_path") {
		a.LogPath = defaultAppLogPath
	}
}

func (c *ChainConfig) applyDefaults(keys keySet) {
	if strings.TrimSpace(c.Mode) == "" {
		c.Mode = defaultChainMode
	}
	if strings.TrimSpace(c.RPCURL) == "" {
		c.RPCURL = defaultChainRPC
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultChainTimeout
	}
	if strings.TrimSpace(c.ProposalsPath) == "" {
		c.ProposalsPath = defaultProposalsPath
	}
}

func (v *VotingConfig) applyDefaults(keys keySet) {
	// 权重按组设置：只要配置文件里没出现任何一个权重键，就整组取默认，
	// 避免出现"只有单个权重被置零"的意外归零。
	weightKeys := []string{
		"voting.treasury_impact_weight",
		"voting.community_alignment_weight",
		"voting.technical_feasibility_weight",
		"voting.risk_assessment_weight",
	}
	anySet := false
	for _, k := range weightKeys {
		if keys.isSet(k) {
			anySet = true
			break
		}
	}
	def := decision.DefaultMetrics()
	if !anySet {
		v.TreasuryImpactWeight = def.TreasuryImpactWeight
		v.CommunityAlignmentWeight = def.CommunityAlignmentWeight
		v.TechnicalFeasibilityWeight = def.TechnicalFeasibilityWeight
		v.RiskAssessmentWeight = def.RiskAssessmentWeight
	}
	if !keys.isSet("voting.min_score_to_support") {
		v.MinScoreToSupport = def.MinScoreToSupport
	}
	if !keys.isSet("voting.max_treasury_spend_pct") {
		v.MaxTreasurySpendPct = def.MaxTreasurySpendPct
	}
	if !keys.isSet("voting.pace_ms") {
		v.PaceMillis = defaultPaceMillis
	}
	if strings.TrimSpace(v.ProfilesPath) == "" {
		v.ProfilesPath = defaultProfilesPath
	}
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	if !keys.isSet("store.votes_db") {
		s.VotesDB = defaultVotesDB
	}
	if !keys.isSet("store.analysis_db") {
		s.AnalysisDB = defaultAnalysisDB
	}
}

func (r *ReportConfig) applyDefaults(keys keySet) {
	if strings.TrimSpace(r.OutDir) == "" {
		r.OutDir = defaultReportDir
	}
}
