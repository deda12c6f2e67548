package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"daopilot/internal/decision"
	"daopilot/internal/gateway/chain"
	"daopilot/internal/logger"
	"daopilot/internal/recorder"
	"daopilot/internal/scoring"
	"daopilot/internal/types"
)

// ErrCycleRunning 同一时刻只允许一个分析周期。
var ErrCycleRunning = errors.New("governance cycle already running")

// Reporter 消费分析结果与投票历史，产出图表报告。只读，不回写核心状态。
type Reporter interface {
	Render(ctx context.Context, analyses []decision.Analysis, history []types.VoteRecord, threshold float64) error
}

// AnalysisStore 持久化一个周期的分析结果。
type AnalysisStore interface {
	SaveCycle(ctx context.Context, traceID string, analyses []decision.Analysis) error
}

// Options 组装 Agent 所需依赖。
type Options struct {
	Metrics  decision.VotingMetrics
	Source   chain.ProposalSource
	Sink     chain.VoteSink // nil 表示无链上提交（mock 模式）
	Recorder *recorder.Recorder
	Store    AnalysisStore // 可为 nil
	Reporter Reporter      // 可为 nil
	DryRun   bool
	Pace     time.Duration
}

// Agent 治理分析代理：编排 提案源 → 评分 → 聚合 → 投票记录 → 报告。
type Agent struct {
	running atomic.Bool

	mu        sync.Mutex
	metrics   decision.VotingMetrics
	analyses  []decision.Analysis
	lastTrace string

	source   chain.ProposalSource
	sink     chain.VoteSink
	recorder *recorder.Recorder
	store    AnalysisStore
	reporter Reporter
	dryRun   bool
	pace     time.Duration
}

// New 构造治理代理。
func New(opts Options) (*Agent, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("agent requires a proposal source")
	}
	if opts.Recorder == nil {
		return nil, fmt.Errorf("agent requires a vote recorder")
	}
	return &Agent{
		metrics:  opts.Metrics,
		source:   opts.Source,
		sink:     opts.Sink,
		recorder: opts.Recorder,
		store:    opts.Store,
		reporter: opts.Reporter,
		dryRun:   opts.DryRun,
		pace:     opts.Pace,
	}, nil
}

// State 返回 idle / running。
func (a *Agent) State() string {
	if a.running.Load() {
		return "running"
	}
	return "idle"
}

// Metrics 返回当前指标配置。
func (a *Agent) Metrics() decision.VotingMetrics {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.metrics
}

// SetMetrics 替换指标配置，从下一个周期生效（profile 热重载入口）。
func (a *Agent) SetMetrics(m decision.VotingMetrics) {
	a.mu.Lock()
	a.metrics = m
	a.mu.Unlock()
	logger.Infof("投票指标已更新（下个周期生效）: %s, threshold=%.2f", m.FormatWeights(), m.MinScoreToSupport)
}

// Analyses 返回最近一个周期的分析副本。
func (a *Agent) Analyses() []decision.Analysis {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]decision.Analysis, len(a.analyses))
	copy(out, a.analyses)
	return out
}

// History 返回累计投票历史。
func (a *Agent) History() []types.VoteRecord {
	return a.recorder.History()
}

// Summary 返回累计投票统计。
func (a *Agent) Summary() recorder.Tally {
	return a.recorder.Summary()
}

// RunCycle 执行一个完整的治理分析周期。
// 空提案批次按信息性结束处理，不算错误；周期内顺序处理，无并行。
func (a *Agent) RunCycle(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrCycleRunning
	}
	defer a.running.Store(false)

	traceID := uuid.NewString()
	a.mu.Lock()
	metrics := a.metrics
	a.analyses = nil
	a.lastTrace = traceID
	a.mu.Unlock()
	agg := decision.NewAggregator(metrics)

	mode := "DRY RUN (No blockchain transactions)"
	if !a.dryRun && a.sink != nil {
		mode = "LIVE"
	}
	logger.Infof("🤖 治理分析周期开始 (trace=%s, mode=%s)", traceID, mode)

	proposals, err := a.source.FetchProposals(ctx)
	if err != nil {
		return fmt.Errorf("fetching proposals failed: %w", err)
	}
	if len(proposals) == 0 {
		logger.Warnf("⚠️ 没有可分析的提案，周期提前结束")
		return nil
	}

	for i, p := range proposals {
		if err := ctx.Err(); err != nil {
			return err
		}
		vec := scoring.Score(p)
		analysis := agg.Aggregate(p, vec)
		analysis.TraceID = traceID
		logger.InfoBlock(formatAnalysis(p, analysis))

		a.mu.Lock()
		a.analyses = append(a.analyses, analysis)
		a.mu.Unlock()

		a.recorder.Record(ctx, p.ID, analysis.Recommendation, a.dryRun, traceID)
		if a.dryRun || a.sink == nil {
			logger.Infof("  [DRY RUN] Vote recorded: %s", analysis.Recommendation)
		} else {
			receipt, err := a.sink.SubmitVote(ctx, p.ID, analysis.Recommendation)
			if err != nil {
				logger.Errorf("  链上投票提交失败 (proposal #%d): %v", p.ID, err)
			} else {
				logger.Infof("  ✓ Vote submitted: %s (tx %s)", analysis.Recommendation, receipt.TxHash)
			}
		}

		// 提案之间的人为停顿，仅为了日志可读，不是正确性要求。
		if a.pace > 0 && i < len(proposals)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(a.pace):
			}
		}
	}

	a.persistCycle(ctx, traceID)
	logger.Infof("✓ 治理分析周期完成 (trace=%s)", traceID)
	logger.InfoBlock(formatVoteSummary(a.recorder.Summary(), a.recorder.History()))

	if a.reporter != nil {
		if err := a.reporter.Render(ctx, a.Analyses(), a.recorder.History(), metrics.MinScoreToSupport); err != nil {
			logger.Warnf("报告渲染失败: %v", err)
		}
	}
	return nil
}

func (a *Agent) persistCycle(ctx context.Context, traceID string) {
	if a.store == nil {
		return
	}
	if err := a.store.SaveCycle(ctx, traceID, a.Analyses()); err != nil {
		logger.Warnf("持久化分析结果失败 (trace=%s): %v", traceID, err)
	}
}
