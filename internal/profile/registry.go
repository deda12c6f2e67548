package profile

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"daopilot/internal/decision"
	"daopilot/internal/logger"
)

// Preset 一组命名的投票指标预设。
type Preset struct {
	Name                       string  `yaml:"-"`
	Description                string  `yaml:"description"`
	TreasuryImpactWeight       float64 `yaml:"treasury_impact_weight"`
	CommunityAlignmentWeight   float64 `yaml:"community_alignment_weight"`
	TechnicalFeasibilityWeight float64 `yaml:"technical_feasibility_weight"`
	RiskAssessmentWeight       float64 `yaml:"risk_assessment_weight"`
	MinScoreToSupport          float64 `yaml:"min_score_to_support"`
	MaxTreasurySpendPct        float64 `yaml:"max_treasury_spend_pct"`
}

// Metrics 转成 decision 层指标。
func (p Preset) Metrics() decision.VotingMetrics {
	return decision.VotingMetrics{
		TreasuryImpactWeight:       p.TreasuryImpactWeight,
		CommunityAlignmentWeight:   p.CommunityAlignmentWeight,
		TechnicalFeasibilityWeight: p.TechnicalFeasibilityWeight,
		RiskAssessmentWeight:       p.RiskAssessmentWeight,
		MinScoreToSupport:          p.MinScoreToSupport,
		MaxTreasurySpendPct:        p.MaxTreasurySpendPct,
	}
}

type fileConfig struct {
	Profiles map[string]Preset `yaml:"profiles"`
}

// Snapshot 当前预设集合的只读快照。
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Presets  map[string]Preset
}

// ChangeListener 在 registry 重载成功后触发。
type ChangeListener func(Snapshot)

// Registry 管理投票指标预设，文件变更时热重载。
type Registry struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

// NewRegistry 读取预设文件并监听更新。
func NewRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("profile registry requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read profiles config failed: %w", err)
	}
	r := &Registry{path: path, v: v}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("profile reload failed (%s): %v", evt.Name, err)
			return
		}
		r.notifyListeners()
	})
	v.WatchConfig()
	return r, nil
}

// Snapshot 返回当前预设集。
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSnapshot(r.snapshot)
}

// Resolve 按名称取一个预设的指标。
func (r *Registry) Resolve(name string) (decision.VotingMetrics, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return decision.VotingMetrics{}, fmt.Errorf("profile name cannot be empty")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	preset, ok := r.snapshot.Presets[name]
	if !ok {
		names := make([]string, 0, len(r.snapshot.Presets))
		for n := range r.snapshot.Presets {
			names = append(names, n)
		}
		sort.Strings(names)
		return decision.VotingMetrics{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(names, ", "))
	}
	return preset.Metrics(), nil
}

// OnChange 注册重载监听器。
func (r *Registry) OnChange(fn ChangeListener) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}

func (r *Registry) reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read profiles file failed: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse profiles file failed: %w", err)
	}
	if len(cfg.Profiles) == 0 {
		return fmt.Errorf("profiles file has no profiles section (%s)", r.path)
	}
	presets := make(map[string]Preset, len(cfg.Profiles))
	for name, preset := range cfg.Profiles {
		preset.Name = name
		if err := validatePreset(preset); err != nil {
			return fmt.Errorf("profile %q invalid: %w", name, err)
		}
		presets[name] = preset
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Presets:  presets,
	}
	r.mu.Unlock()
	logger.Infof("✓ 加载了 %d 个投票指标预设 (%s)", len(presets), r.path)
	return nil
}

func (r *Registry) notifyListeners() {
	r.mu.RLock()
	listeners := append([]ChangeListener(nil), r.listeners...)
	snap := cloneSnapshot(r.snapshot)
	r.mu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func validatePreset(p Preset) error {
	for _, w := range []float64{
		p.TreasuryImpactWeight,
		p.CommunityAlignmentWeight,
		p.TechnicalFeasibilityWeight,
		p.RiskAssessmentWeight,
	} {
		if w < 0 {
			return fmt.Errorf("weights must be >= 0")
		}
	}
	if p.MinScoreToSupport < 0.4 || p.MinScoreToSupport > 1 {
		return fmt.Errorf("min_score_to_support must be in [0.4, 1]")
	}
	return nil
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := Snapshot{Version: s.Version, LoadedAt: s.LoadedAt, Presets: make(map[string]Preset, len(s.Presets))}
	for k, v := range s.Presets {
		out.Presets[k] = v
	}
	return out
}
