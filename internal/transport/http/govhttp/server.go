package govhttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"daopilot/internal/agent"
	"daopilot/internal/logger"
)

// Server 提供最小化的 /api/governance HTTP 服务（分析/投票查询 + 周期触发）。
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig 描述 governance HTTP 服务依赖。
type ServerConfig struct {
	Addr      string
	Agent     *agent.Agent
	ReportDir string
}

// NewServer 构建 governance HTTP server。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Agent == nil {
		return nil, errors.New("governance http server requires agent")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9983"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	govRouter := NewRouter(cfg.Agent, cfg.ReportDir)
	govRouter.Register(router.Group("/api/governance"))
	router.GET("/charts/latest", govRouter.handleLatestChart)

	return &Server{addr: cfg.Addr, router: router}, nil
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}

// Handler 暴露底层 handler，便于 httptest。
func (s *Server) Handler() http.Handler {
	return s.router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		c.Next()
		logger.Debugf("http %s %s -> %d (%s)", method, path, c.Writer.Status(), time.Since(start))
	}
}
