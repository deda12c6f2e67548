package govhttp

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"daopilot/internal/agent"
	"daopilot/internal/logger"
	"daopilot/internal/report/visual"
)

// Router 暴露治理相关的查询与触发接口。
type Router struct {
	agent     *agent.Agent
	reportDir string
}

// NewRouter 构造 governance HTTP router。
func NewRouter(a *agent.Agent, reportDir string) *Router {
	return &Router{agent: a, reportDir: reportDir}
}

// Register 将 /api/governance 路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/analyses", r.handleAnalyses)
	group.GET("/votes", r.handleVotes)
	group.GET("/summary", r.handleSummary)
	group.GET("/metrics", r.handleMetrics)
	group.GET("/state", r.handleState)
	group.POST("/cycle", r.handleTriggerCycle)
}

func (r *Router) handleAnalyses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"analyses": r.agent.Analyses()})
}

func (r *Router) handleVotes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"votes": r.agent.History()})
}

func (r *Router) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, r.agent.Summary())
}

func (r *Router) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, r.agent.Metrics().Export())
}

func (r *Router) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": r.agent.State()})
}

// handleTriggerCycle 异步触发一个分析周期；已有周期在跑时返回 409。
func (r *Router) handleTriggerCycle(c *gin.Context) {
	if r.agent.State() == "running" {
		c.JSON(http.StatusConflict, gin.H{"error": agent.ErrCycleRunning.Error()})
		return
	}
	go func() {
		if err := r.agent.RunCycle(context.Background()); err != nil && !errors.Is(err, agent.ErrCycleRunning) {
			logger.Errorf("HTTP 触发的分析周期失败: %v", err)
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "cycle started"})
}

// handleLatestChart 返回最近一次生成的报告 HTML。
func (r *Router) handleLatestChart(c *gin.Context) {
	path := filepath.Join(r.reportDir, visual.ReportHTMLName)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report generated yet"})
		return
	}
	c.File(path)
}
