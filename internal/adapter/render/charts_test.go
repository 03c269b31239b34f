package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/reviewmine/internal/entity"
	"github.com/eslsoft/reviewmine/internal/usecase/analysis"
)

type splitTokenizer struct{}

func (splitTokenizer) Tokens(comment string) []string {
	return strings.Fields(comment)
}

func chartResult(t *testing.T) *analysis.Result {
	t.Helper()
	records, err := analysis.Enrich([]entity.Review{
		{ID: 1, MovieName: "流浪地球", Username: "影迷甲", Star: 1, Score: 8.5, LikeCount: 0, Comment: "剧情 拖沓", Date: day(t, "2019-02-05")},
		{ID: 2, MovieName: "流浪地球", Username: "影迷乙", Star: 4, Score: 8.5, LikeCount: 12, Comment: "特效 震撼", Date: day(t, "2019-03-10")},
		{ID: 3, MovieName: "霸王别姬", Username: "影迷丙", Star: 5, Score: 9.6, LikeCount: 2048, Comment: "经典 好看", Date: day(t, "2020-07-01")},
	})
	if err != nil {
		t.Fatal(err)
	}
	movies := analysis.MovieAggregates(records)
	return &analysis.Result{
		Records:         records,
		Summary:         analysis.Summarize(records),
		SentimentCounts: analysis.SentimentCounts(records),
		StarCounts:      analysis.StarCounts(records),
		Frequencies:     analysis.BuildFrequencies(records, splitTokenizer{}),
		Movies:          movies,
		TopByVolume:     analysis.TopByReviewCount(movies, 10),
		TopByScore:      analysis.TopByScore(movies, 10),
		Yearly:          analysis.YearlyAggregates(records),
		Monthly:         analysis.MonthlyAggregates(records),
		ChartKeywords:   30,
		CloudWords:      200,
		CloudPartition:  150,
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

// Every chart the result has data for must be drawn, in fixed order.
// The renderer runs without a resolved font; only the word clouds
// depend on one and they degrade into a note.
func TestChartRendererRender(t *testing.T) {
	dir := t.TempDir()
	r := &ChartRenderer{outputDir: dir, logger: logrus.New()}

	artifacts, notes, err := r.Render(chartResult(t))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"01_star_distribution.png",
		"02_sentiment_distribution.png",
		"03_score_distribution.png",
		"04_top_keywords.png",
		"08_top_movies_by_reviews.png",
		"09_top_movies_by_score.png",
		"10_yearly_trend.png",
		"11_monthly_positive_rate.png",
		"12_likes_distribution.png",
	}
	if len(artifacts) != len(want) {
		t.Fatalf("expected %d artifacts got %d: %v", len(want), len(artifacts), artifacts)
	}
	for i := range want {
		if artifacts[i] != want[i] {
			t.Fatalf("artifact %d: got %s want %s", i, artifacts[i], want[i])
		}
	}

	for _, name := range artifacts {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("%s not written: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}

	if len(notes) != 1 || !strings.Contains(notes[0], "词云图未生成") {
		t.Fatalf("expected the word-cloud skip note, got %v", notes)
	}
}

// A single-year dataset has no trend to draw; the trend charts must be
// skipped, not rendered over one point.
func TestChartRendererRender_skipsFlatTrends(t *testing.T) {
	res := chartResult(t)
	res.Yearly = res.Yearly[:1]
	res.Monthly = res.Monthly[:1]

	r := &ChartRenderer{outputDir: t.TempDir(), logger: logrus.New()}
	artifacts, _, err := r.Render(res)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range artifacts {
		if name == "10_yearly_trend.png" || name == "11_monthly_positive_rate.png" {
			t.Fatalf("trend chart %s drawn over a single bucket", name)
		}
	}
}
