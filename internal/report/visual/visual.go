package visual

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"daopilot/internal/decision"
	"daopilot/internal/types"
)

// 沿用治理面板的固定配色。
const (
	colorTreasury  = "#4BC0C0"
	colorCommunity = "#36A2EB"
	colorTechnical = "#FFCE56"
	colorRisk      = "#FF6384"
	colorOverall   = "#9966FF"
	colorFor       = "#4BC0C0"
	colorAgainst   = "#FF6384"
	colorAbstain   = "#FFCE56"

	chartWidth  = "1000px"
	chartHeight = "520px"
)

// ReportHTMLName 输出的报告文件名。
const ReportHTMLName = "governance_report.html"

// Input 绘图输入：当前周期的分析列表 + 累计投票历史。
type Input struct {
	Analyses    []decision.Analysis
	History     []types.VoteRecord
	Threshold   float64
	GeneratedAt time.Time
}

// BuildPage 组装三张图：分类评分、总分+阈值线、投票分布。
func BuildPage(in Input) (*components.Page, error) {
	if len(in.Analyses) == 0 || len(in.History) == 0 {
		return nil, fmt.Errorf("no analysis data available for charts")
	}
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.PageTitle = "DAO Governance Report"
	page.AddCharts(
		buildCategoryChart(in.Analyses),
		buildOverallChart(in.Analyses, in.Threshold),
		buildVotePie(in.History),
	)
	return page, nil
}

// WriteHTML 渲染报告页并写入 outDir，返回文件路径。
func WriteHTML(in Input, outDir string) (string, error) {
	page, err := BuildPage(in)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering report page failed: %w", err)
	}
	path := filepath.Join(outDir, ReportHTMLName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func proposalLabels(analyses []decision.Analysis) []string {
	labels := make([]string, len(analyses))
	for i, a := range analyses {
		labels[i] = fmt.Sprintf("Proposal #%d", a.ProposalID)
	}
	return labels
}

func buildCategoryChart(analyses []decision.Analysis) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Proposal Analysis Scores by Category"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Score (0-1)", Min: 0, Max: 1}),
	)
	bar.SetXAxis(proposalLabels(analyses))

	type series struct {
		name  string
		color string
		value func(decision.Analysis) float64
	}
	for _, s := range []series{
		{"Treasury Impact", colorTreasury, func(a decision.Analysis) float64 { return a.Scores.TreasuryImpact }},
		{"Community Alignment", colorCommunity, func(a decision.Analysis) float64 { return a.Scores.CommunityAlignment }},
		{"Technical Feasibility", colorTechnical, func(a decision.Analysis) float64 { return a.Scores.TechnicalFeasibility }},
		{"Risk Assessment", colorRisk, func(a decision.Analysis) float64 { return a.Scores.RiskAssessment }},
	} {
		data := make([]opts.BarData, len(analyses))
		for i, a := range analyses {
			data[i] = opts.BarData{Value: s.value(a)}
		}
		bar.AddSeries(s.name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.color}))
	}
	return bar
}

func buildOverallChart(analyses []decision.Analysis, threshold float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Overall Proposal Scores with Voting Threshold"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Overall Score (0-1)", Min: 0, Max: 1}),
	)
	bar.SetXAxis(proposalLabels(analyses))

	data := make([]opts.BarData, len(analyses))
	for i, a := range analyses {
		data[i] = opts.BarData{Value: a.OverallScore}
	}
	bar.AddSeries("Overall Score", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colorOverall}),
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  fmt.Sprintf("Min Score to Support (%g)", threshold),
			YAxis: threshold,
		}),
	)
	return bar
}

func buildVotePie(history []types.VoteRecord) *charts.Pie {
	var forCount, againstCount, abstainCount int
	for _, rec := range history {
		switch rec.Choice {
		case types.VoteFor:
			forCount++
		case types.VoteAgainst:
			againstCount++
		case types.VoteAbstain:
			abstainCount++
		}
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Voting Summary Distribution"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("Votes", []opts.PieData{
		{Name: "FOR", Value: forCount, ItemStyle: &opts.ItemStyle{Color: colorFor}},
		{Name: "AGAINST", Value: againstCount, ItemStyle: &opts.ItemStyle{Color: colorAgainst}},
		{Name: "ABSTAIN", Value: abstainCount, ItemStyle: &opts.ItemStyle{Color: colorAbstain}},
	},
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}
