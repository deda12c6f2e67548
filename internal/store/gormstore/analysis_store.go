package gormstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"daopilot/internal/decision"
	"daopilot/internal/scoring"
	"daopilot/internal/types"
)

// AnalysisModel 是 analyses 表的 GORM 映射，评分向量与理由以 JSON 列保存。
type AnalysisModel struct {
	ID                   int64          `gorm:"column:id;primaryKey"`
	TraceID              string         `gorm:"column:trace_id;index"`
	ProposalID           int64          `gorm:"column:proposal_id;index"`
	Title                string         `gorm:"column:title"`
	TreasuryImpact       float64        `gorm:"column:treasury_impact"`
	CommunityAlignment   float64        `gorm:"column:community_alignment"`
	TechnicalFeasibility float64        `gorm:"column:technical_feasibility"`
	RiskAssessment       float64        `gorm:"column:risk_assessment"`
	OverallScore         float64        `gorm:"column:overall_score"`
	Recommendation       string         `gorm:"column:recommendation"`
	Reasoning            datatypes.JSON `gorm:"column:reasoning"`
	CreatedAtUnix        int64          `gorm:"column:created_at"`
}

func (AnalysisModel) TableName() string { return "analyses" }

// Store 按分析周期持久化 Analysis 列表。
type Store struct {
	db *gorm.DB
}

// NewStore 初始化 GORM + SQLite 存储。
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("gorm store: 分析库路径不能为空")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&AnalysisModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL：限制连接数以压低锁竞争。
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

// SaveCycle 保存一个分析周期产出的全部 Analysis。
func (s *Store) SaveCycle(ctx context.Context, traceID string, analyses []decision.Analysis) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("analysis store 未初始化")
	}
	if len(analyses) == 0 {
		return nil
	}
	now := time.Now().Unix()
	models := make([]AnalysisModel, 0, len(analyses))
	for _, a := range analyses {
		reasoning, err := json.Marshal(a.Reasoning)
		if err != nil {
			return fmt.Errorf("marshal reasoning failed: %w", err)
		}
		models = append(models, AnalysisModel{
			TraceID:              traceID,
			ProposalID:           a.ProposalID,
			Title:                a.Title,
			TreasuryImpact:       a.Scores.TreasuryImpact,
			CommunityAlignment:   a.Scores.CommunityAlignment,
			TechnicalFeasibility: a.Scores.TechnicalFeasibility,
			RiskAssessment:       a.Scores.RiskAssessment,
			OverallScore:         a.OverallScore,
			Recommendation:       a.Recommendation.String(),
			Reasoning:            datatypes.JSON(reasoning),
			CreatedAtUnix:        now,
		})
	}
	return s.db.WithContext(ctx).Create(&models).Error
}

// ListByTrace 返回某个周期的全部分析，按提案顺序。
func (s *Store) ListByTrace(ctx context.Context, traceID string) ([]decision.Analysis, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("analysis store 未初始化")
	}
	var models []AnalysisModel
	if err := s.db.WithContext(ctx).
		Where("trace_id = ?", traceID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toAnalyses(models)
}

// Recent 返回最近 limit 条分析记录（limit<=0 表示全部）。
func (s *Store) Recent(ctx context.Context, limit int) ([]decision.Analysis, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("analysis store 未初始化")
	}
	q := s.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var models []AnalysisModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	return toAnalyses(models)
}

// Close 关闭底层连接。
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toAnalyses(models []AnalysisModel) ([]decision.Analysis, error) {
	out := make([]decision.Analysis, 0, len(models))
	for _, m := range models {
		choice, err := types.ParseVoteChoice(m.Recommendation)
		if err != nil {
			return nil, fmt.Errorf("corrupt analyses row %d: %w", m.ID, err)
		}
		var reasoning []string
		if len(m.Reasoning) > 0 {
			if err := json.Unmarshal(m.Reasoning, &reasoning); err != nil {
				return nil, fmt.Errorf("corrupt reasoning on row %d: %w", m.ID, err)
			}
		}
		out = append(out, decision.Analysis{
			ProposalID: m.ProposalID,
			Title:      m.Title,
			Scores: scoring.ScoreVector{
				TreasuryImpact:       m.TreasuryImpact,
				CommunityAlignment:   m.CommunityAlignment,
				TechnicalFeasibility: m.TechnicalFeasibility,
				RiskAssessment:       m.RiskAssessment,
			},
			OverallScore:   m.OverallScore,
			Recommendation: choice,
			Reasoning:      reasoning,
			TraceID:        m.TraceID,
		})
	}
	return out, nil
}
