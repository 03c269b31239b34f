package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/eslsoft/reviewmine/internal/entity"
	"github.com/eslsoft/reviewmine/internal/usecase/analysis"
)

const (
	chartWidth  = 1280
	chartHeight = 720
	maxBarLabel = 15 // movie names longer than this are elided
)

// ChartRenderer draws PNG artifacts into the output directory. A
// missing CJK font downgrades the word clouds to a report note; all
// other charts are still drawn.
type ChartRenderer struct {
	outputDir string
	font      *Font
	logger    *logrus.Logger
}

func NewChartRenderer(outputDir string, logger *logrus.Logger) *ChartRenderer {
	if logger == nil {
		logger = logrus.New()
	}
	r := &ChartRenderer{outputDir: outputDir, logger: logger}

	font, err := ResolveFont()
	if err != nil {
		if !errors.Is(err, entity.ErrFontUnavailable) {
			logger.WithError(err).Warn("字体探测失败")
		}
		logger.Warn("未检测到中文字体，词云图将被跳过")
		return r
	}
	logger.WithField("font", font.Path).Info("检测到中文字体")
	r.font = font
	return r
}

// Render draws every chart the result has data for and returns the
// artifact file names in fixed order plus notes for skipped sections.
func (r *ChartRenderer) Render(res *analysis.Result) ([]string, []string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create chart directory: %w", err)
	}

	var artifacts, notes []string
	draw := func(name string, hasData bool, render func(io.Writer) error) error {
		if !hasData {
			return nil
		}
		if err := r.writeChart(name, render); err != nil {
			return fmt.Errorf("render %s: %w", name, err)
		}
		artifacts = append(artifacts, name)
		return nil
	}

	steps := []struct {
		name    string
		hasData bool
		render  func(io.Writer) error
	}{
		{"01_star_distribution.png", len(res.StarCounts) > 0, func(w io.Writer) error {
			return r.starPie(res.StarCounts, w)
		}},
		{"02_sentiment_distribution.png", len(res.SentimentCounts) > 0, func(w io.Writer) error {
			return r.sentimentPie(res.SentimentCounts, w)
		}},
		{"03_score_distribution.png", len(res.Records) > 0, func(w io.Writer) error {
			return r.scoreHistogram(res.Records, w)
		}},
		{"04_top_keywords.png", res.Frequencies.All.Len() > 0, func(w io.Writer) error {
			return r.keywordBars(res.Frequencies.All.TopK(res.ChartKeywords), w)
		}},
		{"08_top_movies_by_reviews.png", len(res.TopByVolume) > 0, func(w io.Writer) error {
			return r.movieBars(res.TopByVolume, "TOP 评论最多的电影", func(m entity.MovieStats) float64 {
				return float64(m.ReviewCount)
			}, w)
		}},
		{"09_top_movies_by_score.png", len(res.TopByScore) > 0, func(w io.Writer) error {
			return r.movieBars(res.TopByScore, "TOP 评分最高的电影", func(m entity.MovieStats) float64 {
				return m.Score
			}, w)
		}},
		{"10_yearly_trend.png", len(res.Yearly) > 1, func(w io.Writer) error {
			return r.yearlyTrend(res.Yearly, w)
		}},
		{"11_monthly_positive_rate.png", len(res.Monthly) > 1, func(w io.Writer) error {
			return r.monthlyTrend(res.Monthly, w)
		}},
		{"12_likes_distribution.png", len(res.Records) > 0, func(w io.Writer) error {
			return r.likesBars(res.Records, w)
		}},
	}
	for _, step := range steps {
		if err := draw(step.name, step.hasData, step.render); err != nil {
			return nil, nil, err
		}
	}

	cloudArtifacts, cloudNotes, err := r.renderWordClouds(res)
	if err != nil {
		return nil, nil, err
	}
	artifacts = append(artifacts, cloudArtifacts...)
	notes = append(notes, cloudNotes...)

	return artifacts, notes, nil
}

func (r *ChartRenderer) writeChart(name string, render func(io.Writer) error) error {
	f, err := os.Create(filepath.Join(r.outputDir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return render(f)
}

func (r *ChartRenderer) starPie(counts []entity.StarCount, w io.Writer) error {
	values := make([]chart.Value, 0, len(counts))
	for _, sc := range counts {
		values = append(values, chart.Value{
			Value: float64(sc.Count),
			Label: fmt.Sprintf("%d星 %.1f%%", sc.Star, sc.Percent),
		})
	}
	pie := chart.PieChart{Width: chartHeight, Height: chartHeight, Values: values, Font: r.ttf()}
	return pie.Render(chart.PNG, w)
}

func (r *ChartRenderer) sentimentPie(counts []entity.SentimentCount, w io.Writer) error {
	values := make([]chart.Value, 0, len(counts))
	for _, sc := range counts {
		if sc.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: float64(sc.Count),
			Label: fmt.Sprintf("%s %.1f%%", sc.Sentiment.Label(), sc.Percent),
		})
	}
	pie := chart.PieChart{Width: chartHeight, Height: chartHeight, Values: values, Font: r.ttf()}
	return pie.Render(chart.PNG, w)
}

// scoreHistogram buckets movie scores into unit-wide bins over the
// 0-10 scale.
func (r *ChartRenderer) scoreHistogram(records []entity.Review, w io.Writer) error {
	const bins = 10
	counts := make([]int, bins)
	for _, rec := range records {
		bin := int(rec.Score)
		if bin < 0 {
			bin = 0
		}
		if bin >= bins {
			bin = bins - 1
		}
		counts[bin]++
	}

	bars := make([]chart.Value, 0, bins)
	for i, c := range counts {
		bars = append(bars, chart.Value{Value: float64(c), Label: fmt.Sprintf("%d-%d", i, i+1)})
	}
	bar := chart.BarChart{
		Title:    "评分分布",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
		Font:     r.ttf(),
	}
	return bar.Render(chart.PNG, w)
}

func (r *ChartRenderer) keywordBars(top []analysis.TokenCount, w io.Writer) error {
	bars := make([]chart.Value, 0, len(top))
	for _, kw := range top {
		bars = append(bars, chart.Value{Value: float64(kw.Count), Label: kw.Token})
	}
	bar := chart.BarChart{
		Title:    "高频关键词",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 24,
		Bars:     bars,
		Font:     r.ttf(),
	}
	return bar.Render(chart.PNG, w)
}

func (r *ChartRenderer) movieBars(movies []entity.MovieStats, title string, value func(entity.MovieStats) float64, w io.Writer) error {
	bars := make([]chart.Value, 0, len(movies))
	for _, m := range movies {
		bars = append(bars, chart.Value{Value: value(m), Label: elide(m.Name)})
	}
	bar := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 48,
		Bars:     bars,
		Font:     r.ttf(),
	}
	return bar.Render(chart.PNG, w)
}

func (r *ChartRenderer) yearlyTrend(yearly []entity.YearlyStats, w io.Writer) error {
	xs := make([]float64, len(yearly))
	counts := make([]float64, len(yearly))
	scores := make([]float64, len(yearly))
	stars := make([]float64, len(yearly))
	for i, y := range yearly {
		xs[i] = float64(y.Year)
		counts[i] = float64(y.Count)
		scores[i] = y.AvgScore
		stars[i] = y.AvgStar
	}
	c := chart.Chart{
		Title:  "历年评论数量与评分趋势",
		Width:  chartWidth,
		Height: chartHeight,
		Font:   r.ttf(),
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "评论数", XValues: xs, YValues: counts},
			// Score (0-10) and star (1-5) share the secondary axis.
			chart.ContinuousSeries{Name: "平均评分", XValues: xs, YValues: scores, YAxis: chart.YAxisSecondary},
			chart.ContinuousSeries{Name: "平均星级", XValues: xs, YValues: stars, YAxis: chart.YAxisSecondary},
		},
	}
	return c.Render(chart.PNG, w)
}

func (r *ChartRenderer) monthlyTrend(monthly []entity.MonthlyStats, w io.Writer) error {
	xs := make([]float64, len(monthly))
	rates := make([]float64, len(monthly))
	counts := make([]float64, len(monthly))
	for i, m := range monthly {
		xs[i] = float64(i)
		rates[i] = m.PositiveRate
		counts[i] = float64(m.Count)
	}
	c := chart.Chart{
		Title:  "月度评论数与正面评论率趋势",
		Width:  chartWidth,
		Height: chartHeight,
		Font:   r.ttf(),
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "正面评论率(%)", XValues: xs, YValues: rates},
			chart.ContinuousSeries{Name: "评论数", XValues: xs, YValues: counts, YAxis: chart.YAxisSecondary},
		},
	}
	return c.Render(chart.PNG, w)
}

// likesBars buckets like counts by order of magnitude; the raw spread
// is too skewed for unit bins.
func (r *ChartRenderer) likesBars(records []entity.Review, w io.Writer) error {
	labels := []string{"0", "1-9", "10-99", "100-999", "1000+"}
	counts := make([]int, len(labels))
	for _, rec := range records {
		switch {
		case rec.LikeCount <= 0:
			counts[0]++
		case rec.LikeCount < 10:
			counts[1]++
		case rec.LikeCount < 100:
			counts[2]++
		case rec.LikeCount < 1000:
			counts[3]++
		default:
			counts[4]++
		}
	}

	bars := make([]chart.Value, 0, len(labels))
	for i, c := range counts {
		bars = append(bars, chart.Value{Value: float64(c), Label: labels[i] + " 赞"})
	}
	bar := chart.BarChart{
		Title:    "点赞数分布",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
		Font:     r.ttf(),
	}
	return bar.Render(chart.PNG, w)
}

func (r *ChartRenderer) ttf() *truetype.Font {
	if r.font == nil {
		return nil
	}
	return r.font.TTF
}

func elide(name string) string {
	runes := []rune(name)
	if len(runes) <= maxBarLabel {
		return name
	}
	return string(runes[:maxBarLabel]) + "…"
}
