package config

import (
	"fmt"
	"math"
	"strings"

	"daopilot/internal/logger"
)

// weightSumTolerance 权重合计偏离 1.0 超过该值时仅告警，不拒绝。
const weightSumTolerance = 0.01

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if err := c.Chain.validate(); err != nil {
		return err
	}
	if err := c.Voting.validate(); err != nil {
		return err
	}
	if err := c.Report.validate(); err != nil {
		return err
	}
	return nil
}

func (c *ChainConfig) validate() error {
	mode := strings.ToLower(strings.TrimSpace(c.Mode))
	if mode != "mock" && mode != "live" {
		return fmt.Errorf("chain.mode must be mock or live, got %q", c.Mode)
	}
	if mode == "live" {
		if strings.TrimSpace(c.RPCURL) == "" {
			return fmt.Errorf("chain.rpc_url cannot be empty in live mode")
		}
		if strings.TrimSpace(c.AgentAddress) == "" {
			return fmt.Errorf("chain.agent_address cannot be empty in live mode")
		}
		if strings.TrimSpace(c.Governor) == "" {
			return fmt.Errorf("chain.governor_address cannot be empty in live mode")
		}
	}
	return nil
}

func (v *VotingConfig) validate() error {
	weights := map[string]float64{
		"voting.treasury_impact_weight":       v.TreasuryImpactWeight,
		"voting.community_alignment_weight":   v.CommunityAlignmentWeight,
		"voting.technical_feasibility_weight": v.TechnicalFeasibilityWeight,
		"voting.risk_assessment_weight":       v.RiskAssessmentWeight,
	}
	for key, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	// 权重不归一仅告警：总分允许越界是沿袭下来的既定行为。
	sum := v.TreasuryImpactWeight + v.CommunityAlignmentWeight +
		v.TechnicalFeasibilityWeight + v.RiskAssessmentWeight
	if math.Abs(sum-1.0) > weightSumTolerance {
		logger.Warnf("voting weights sum to %.3f (expected 1.0); overall scores may leave [0,1]", sum)
	}
	// 低于 0.4 会让 FOR 与固定的 AGAINST 下限语义冲突，直接拒绝。
	if v.MinScoreToSupport < 0.4 || v.MinScoreToSupport > 1 {
		return fmt.Errorf("voting.min_score_to_support must be in [0.4, 1], got %g", v.MinScoreToSupport)
	}
	if v.PaceMillis < 0 {
		return fmt.Errorf("voting.pace_ms must be >= 0")
	}
	if strings.TrimSpace(v.Profile) != "" && strings.TrimSpace(v.ProfilesPath) == "" {
		return fmt.Errorf("voting.profile requires voting.profiles_path")
	}
	return nil
}

func (r *ReportConfig) validate() error {
	if strings.TrimSpace(r.OutDir) == "" {
		return fmt.Errorf("report.out_dir cannot be empty")
	}
	return nil
}
