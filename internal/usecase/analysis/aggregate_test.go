package analysis

import (
	"math"
	"testing"

	"github.com/eslsoft/reviewmine/internal/entity"
)

func reviewsForMovies(t *testing.T) []entity.Review {
	t.Helper()
	var records []entity.Review
	for i := 0; i < 100; i++ {
		records = append(records, entity.Review{
			ID: int64(i), MovieName: "高产之作", Star: 3 + i%3, Score: 8.5,
			LikeCount: i % 5, Date: date("2021-03-01"),
		})
	}
	for i := 0; i < 50; i++ {
		records = append(records, entity.Review{
			ID: int64(1000 + i), MovieName: "口碑之作", Star: 5, Score: 9.0,
			LikeCount: 1, Date: date("2022-08-15"),
		})
	}
	enriched, err := Enrich(records)
	if err != nil {
		t.Fatal(err)
	}
	return enriched
}

func TestMovieAggregates(t *testing.T) {
	records := reviewsForMovies(t)
	movies := MovieAggregates(records)
	if len(movies) != 2 {
		t.Fatalf("expected 2 movies got %d", len(movies))
	}

	total := 0
	for _, m := range movies {
		total += m.ReviewCount
		if m.AvgStar < float64(entity.MinStar) || m.AvgStar > float64(entity.MaxStar) {
			t.Fatalf("%s: avg star %f out of range", m.Name, m.AvgStar)
		}
	}
	if total != len(records) {
		t.Fatalf("review counts sum to %d, want %d", total, len(records))
	}

	if top := TopByReviewCount(movies, 1); top[0].Name != "高产之作" {
		t.Fatalf("top by volume: got %s", top[0].Name)
	}
	if top := TopByScore(movies, 1); top[0].Name != "口碑之作" {
		t.Fatalf("top by score: got %s", top[0].Name)
	}
}

func TestMovieAggregates_empty(t *testing.T) {
	if got := MovieAggregates(nil); len(got) != 0 {
		t.Fatalf("empty store must yield empty aggregates, got %v", got)
	}
	if got := TopByReviewCount(nil, 10); got != nil {
		t.Fatalf("top over empty aggregates must be nil, got %v", got)
	}
}

func TestYearlyAggregates(t *testing.T) {
	records := reviewsForMovies(t)
	yearly := YearlyAggregates(records)
	if len(yearly) != 2 {
		t.Fatalf("expected 2 years got %d", len(yearly))
	}
	if yearly[0].Year != 2021 || yearly[1].Year != 2022 {
		t.Fatalf("years must ascend: %+v", yearly)
	}
	if yearly[0].Count != 100 || yearly[0].AvgScore != 8.5 {
		t.Fatalf("2021 stats wrong: %+v", yearly[0])
	}
	if yearly[1].AvgStar != 5 {
		t.Fatalf("2022 avg star: got %f", yearly[1].AvgStar)
	}
}

func TestMonthlyAggregates_positiveRate(t *testing.T) {
	records, err := Enrich([]entity.Review{
		{ID: 1, MovieName: "m", Star: 1, Score: 7, Date: date("2023-05-01")},
		{ID: 2, MovieName: "m", Star: 3, Score: 7, Date: date("2023-05-02")},
		{ID: 3, MovieName: "m", Star: 5, Score: 7, Date: date("2023-05-03")},
	})
	if err != nil {
		t.Fatal(err)
	}
	monthly := MonthlyAggregates(records)
	if len(monthly) != 1 {
		t.Fatalf("expected 1 bucket got %d", len(monthly))
	}
	if monthly[0].YearMonth != "2023-05" || monthly[0].Count != 3 {
		t.Fatalf("bad bucket: %+v", monthly[0])
	}
	if got := monthly[0].PositiveRate; math.Abs(got-100.0/3) > 1e-9 {
		t.Fatalf("positive rate: got %f want 33.33", got)
	}
}

func TestSentimentStarCrosstab_columnsSumTo100(t *testing.T) {
	records := reviewsForMovies(t)
	ct := SentimentStarCrosstab(records)
	if len(ct.Stars) == 0 {
		t.Fatal("expected star columns")
	}
	for _, star := range ct.Stars {
		sum := 0.0
		for _, s := range entity.Sentiments {
			sum += ct.Percent[s][star]
		}
		if math.Abs(sum-100) > 1e-9 {
			t.Fatalf("star %d column sums to %f", star, sum)
		}
	}
}

func TestCorrelationMatrix(t *testing.T) {
	records, err := Enrich([]entity.Review{
		{ID: 1, MovieName: "a", Star: 1, Score: 6.0, LikeCount: 1, Comment: "差", Date: date("2023-01-01")},
		{ID: 2, MovieName: "b", Star: 3, Score: 7.5, LikeCount: 3, Comment: "还可以", Date: date("2023-01-02")},
		{ID: 3, MovieName: "c", Star: 5, Score: 9.0, LikeCount: 5, Comment: "非常精彩", Date: date("2023-01-03")},
	})
	if err != nil {
		t.Fatal(err)
	}
	corr := CorrelationMatrix(records)

	v, ok := corr.Value("score", "star")
	if !ok {
		t.Fatal("score/star correlation must be defined")
	}
	if math.Abs(v-1) > 1e-9 {
		t.Fatalf("perfectly linear features: got %f want 1", v)
	}
	if v, ok := corr.Value("star", "star"); !ok || math.Abs(v-1) > 1e-9 {
		t.Fatalf("diagonal must be 1, got %f", v)
	}
}

func TestCorrelationMatrix_zeroVariance(t *testing.T) {
	records, err := Enrich([]entity.Review{
		{ID: 1, MovieName: "a", Star: 4, Score: 8.0, LikeCount: 1, Date: date("2023-01-01")},
		{ID: 2, MovieName: "a", Star: 4, Score: 8.0, LikeCount: 9, Date: date("2023-01-02")},
	})
	if err != nil {
		t.Fatal(err)
	}
	corr := CorrelationMatrix(records)
	if _, ok := corr.Value("star", "like_count"); ok {
		t.Fatal("zero-variance column must yield an undefined cell, not a value")
	}
}

func TestSummarize(t *testing.T) {
	records, err := Enrich(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(records)
	if s.RecordCount != 3 || s.MovieCount != 2 || s.UserCount != 3 {
		t.Fatalf("bad summary: %+v", s)
	}
	if s.DateFrom != date("2019-02-05") || s.DateTo != date("2020-07-01") {
		t.Fatalf("bad date span: %+v", s)
	}
	if s.LikedCount != 2 {
		t.Fatalf("liked count: got %d want 2", s.LikedCount)
	}
}

func TestSummarize_empty(t *testing.T) {
	if s := Summarize(nil); s.RecordCount != 0 {
		t.Fatalf("empty summary expected, got %+v", s)
	}
}

func TestSentimentCounts(t *testing.T) {
	records, err := Enrich(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	counts := SentimentCounts(records)
	if len(counts) != 3 {
		t.Fatalf("expected 3 classes got %d", len(counts))
	}
	for _, sc := range counts {
		if sc.Count != 1 {
			t.Fatalf("%s: got %d want 1", sc.Sentiment, sc.Count)
		}
		if math.Abs(sc.Percent-100.0/3) > 1e-9 {
			t.Fatalf("%s: percent %f", sc.Sentiment, sc.Percent)
		}
	}
}
