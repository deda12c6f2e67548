package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"daopilot/internal/agent"
	"daopilot/internal/config"
	"daopilot/internal/gateway/chain"
	"daopilot/internal/logger"
	"daopilot/internal/profile"
	"daopilot/internal/recorder"
	"daopilot/internal/report/visual"
	"daopilot/internal/store/gormstore"
	"daopilot/internal/store/votelog"
	govhttp "daopilot/internal/transport/http/govhttp"
)

// AppBuilder 按配置逐层构建依赖。
type AppBuilder struct {
	cfg *config.Config
}

func NewAppBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// Build 组装 App（不启动）。live 模式下链上连通性检查失败会让构建失败。
func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	cfg := b.cfg
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	votes, err := votelog.Open(cfg.Store.VotesDB)
	if err != nil {
		return nil, fmt.Errorf("初始化投票历史库失败: %w", err)
	}
	analyses, err := gormstore.NewStore(cfg.Store.AnalysisDB)
	if err != nil {
		votes.Close()
		return nil, fmt.Errorf("初始化分析库失败: %w", err)
	}
	rec := recorder.New(votes)

	metrics := cfg.Voting.Metrics()
	var registry *profile.Registry
	profileName := strings.TrimSpace(cfg.Voting.Profile)
	if strings.TrimSpace(cfg.Voting.ProfilesPath) != "" {
		registry, err = profile.NewRegistry(cfg.Voting.ProfilesPath)
		if err != nil {
			votes.Close()
			analyses.Close()
			return nil, fmt.Errorf("加载指标预设失败: %w", err)
		}
		if profileName != "" {
			metrics, err = registry.Resolve(profileName)
			if err != nil {
				votes.Close()
				analyses.Close()
				return nil, err
			}
			logger.Infof("✓ 使用指标预设 %q: %s", profileName, metrics.FormatWeights())
		}
	}

	var source chain.ProposalSource
	var sink chain.VoteSink
	if cfg.Chain.Live() {
		client, err := chain.NewClient(cfg.Chain)
		if err != nil {
			votes.Close()
			analyses.Close()
			return nil, err
		}
		source = client
		sink = client
	} else {
		fileSource, err := chain.NewFileSource(cfg.Chain.ProposalsPath, cfg.Chain.SchemaPath)
		if err != nil {
			votes.Close()
			analyses.Close()
			return nil, err
		}
		source = fileSource
	}

	reporter := visual.NewReporter(cfg.Report.OutDir, cfg.Report.RenderPNG)

	gov, err := agent.New(agent.Options{
		Metrics:  metrics,
		Source:   source,
		Sink:     sink,
		Recorder: rec,
		Store:    analyses,
		Reporter: reporter,
		DryRun:   cfg.Voting.IsDryRun(),
		Pace:     time.Duration(cfg.Voting.PaceMillis) * time.Millisecond,
	})
	if err != nil {
		votes.Close()
		analyses.Close()
		return nil, err
	}

	if registry != nil && profileName != "" {
		registry.OnChange(func(snap profile.Snapshot) {
			m, err := registry.Resolve(profileName)
			if err != nil {
				logger.Errorf("预设重载后解析失败: %v", err)
				return
			}
			gov.SetMetrics(m)
		})
	}

	httpSrv, err := govhttp.NewServer(govhttp.ServerConfig{
		Addr:      cfg.App.HTTPAddr,
		Agent:     gov,
		ReportDir: cfg.Report.OutDir,
	})
	if err != nil {
		votes.Close()
		analyses.Close()
		return nil, err
	}

	return &App{
		cfg:      cfg,
		gov:      gov,
		httpSrv:  httpSrv,
		votes:    votes,
		analyses: analyses,
		registry: registry,
		Summary:  buildStartupSummary(cfg, metrics, profileName),
	}, nil
}
