package visual

import (
	"context"
	"time"

	"daopilot/internal/decision"
	"daopilot/internal/logger"
	"daopilot/internal/types"
)

// Reporter 把分析结果落地为报告文件，实现 agent 的 Reporter 接口。
type Reporter struct {
	outDir    string
	renderPNG bool
}

func NewReporter(outDir string, renderPNG bool) *Reporter {
	return &Reporter{outDir: outDir, renderPNG: renderPNG}
}

// Render 输出 HTML 报告；配置允许且 headless 可用时再补一张 PNG。
// PNG 失败只降级告警，不影响周期结果。
func (r *Reporter) Render(ctx context.Context, analyses []decision.Analysis, history []types.VoteRecord, threshold float64) error {
	in := Input{
		Analyses:    analyses,
		History:     history,
		Threshold:   threshold,
		GeneratedAt: time.Now(),
	}
	htmlPath, err := WriteHTML(in, r.outDir)
	if err != nil {
		return err
	}
	logger.Infof("✓ 治理报告已生成: %s", htmlPath)

	if r.renderPNG {
		pngPath, err := SnapshotPNG(ctx, htmlPath, r.outDir)
		if err != nil {
			logger.Warnf("PNG 快照失败（保留 HTML 报告）: %v", err)
			return nil
		}
		logger.Infof("✓ 报告快照: %s", pngPath)
	}
	return nil
}

// HTMLPath 最近一次报告的预期路径。
func (r *Reporter) HTMLPath() string {
	return r.outDir + "/" + ReportHTMLName
}
