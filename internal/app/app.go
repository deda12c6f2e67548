package app

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"daopilot/internal/agent"
	"daopilot/internal/config"
	"daopilot/internal/logger"
	"daopilot/internal/profile"
	"daopilot/internal/store/gormstore"
	"daopilot/internal/store/votelog"
	govhttp "daopilot/internal/transport/http/govhttp"
)

// App 负责应用级编排：加载配置→初始化依赖→跑分析周期并提供查询接口。
type App struct {
	cfg      *config.Config
	gov      *agent.Agent
	httpSrv  *govhttp.Server
	votes    *votelog.Store
	analyses *gormstore.Store
	registry *profile.Registry
	Summary  *StartupSummary
}

// NewApp 根据配置构建应用对象（不启动）。
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run 执行首个治理周期并启动 HTTP 服务，直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}
	defer a.closeStores()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.httpSrv.Start(ctx); err != nil {
			return fmt.Errorf("governance http server error: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		if err := a.gov.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		<-ctx.Done()
		return nil
	})

	err := group.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Agent 暴露治理代理实例（测试/回放用）。
func (a *App) Agent() *agent.Agent {
	if a == nil {
		return nil
	}
	return a.gov
}

func (a *App) closeStores() {
	if a.votes != nil {
		if err := a.votes.Close(); err != nil {
			logger.Warnf("关闭投票历史库失败: %v", err)
		}
	}
	if a.analyses != nil {
		if err := a.analyses.Close(); err != nil {
			logger.Warnf("关闭分析库失败: %v", err)
		}
	}
}
