package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// CorrelationFields names the numeric record features, in matrix order.
var CorrelationFields = []string{"score", "star", "like_count", "comment_length"}

// MovieAggregates groups records by movie name in first-encounter
// order: score via first value, review count, like sum, mean star.
// An empty input yields an empty slice.
func MovieAggregates(records []entity.Review) []entity.MovieStats {
	index := make(map[string]int)
	result := make([]entity.MovieStats, 0)
	starSums := make([]int, 0)

	for _, r := range records {
		i, seen := index[r.MovieName]
		if !seen {
			i = len(result)
			index[r.MovieName] = i
			result = append(result, entity.MovieStats{Name: r.MovieName, Score: r.Score})
			starSums = append(starSums, 0)
		}
		result[i].ReviewCount++
		result[i].TotalLikes += r.LikeCount
		starSums[i] += r.Star
	}
	for i := range result {
		result[i].AvgStar = float64(starSums[i]) / float64(result[i].ReviewCount)
	}
	return result
}

// TopByReviewCount returns the n busiest movies, review count
// descending, ties broken by group iteration order.
func TopByReviewCount(movies []entity.MovieStats, n int) []entity.MovieStats {
	return topMovies(movies, n, func(a, b entity.MovieStats) bool {
		return a.ReviewCount > b.ReviewCount
	})
}

// TopByScore returns the n best-rated movies, score descending, ties
// broken by group iteration order.
func TopByScore(movies []entity.MovieStats, n int) []entity.MovieStats {
	return topMovies(movies, n, func(a, b entity.MovieStats) bool {
		return a.Score > b.Score
	})
}

func topMovies(movies []entity.MovieStats, n int, less func(a, b entity.MovieStats) bool) []entity.MovieStats {
	if n <= 0 || len(movies) == 0 {
		return nil
	}
	ranked := make([]entity.MovieStats, len(movies))
	copy(ranked, movies)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// YearlyAggregates groups records by year in ascending bucket order.
// Years with no records never appear; consumers must not assume a
// gapless timeline.
func YearlyAggregates(records []entity.Review) []entity.YearlyStats {
	groups := lo.GroupBy(records, func(r entity.Review) int { return r.Year })
	years := lo.Keys(groups)
	sort.Ints(years)

	result := make([]entity.YearlyStats, 0, len(years))
	for _, year := range years {
		rs := groups[year]
		result = append(result, entity.YearlyStats{
			Year:     year,
			Count:    len(rs),
			AvgScore: lo.SumBy(rs, func(r entity.Review) float64 { return r.Score }) / float64(len(rs)),
			AvgStar:  float64(lo.SumBy(rs, func(r entity.Review) int { return r.Star })) / float64(len(rs)),
		})
	}
	return result
}

// MonthlyAggregates groups records by year-month in ascending bucket
// order. PositiveRate is the positive fraction scaled to 0-100.
func MonthlyAggregates(records []entity.Review) []entity.MonthlyStats {
	groups := lo.GroupBy(records, func(r entity.Review) string { return r.YearMonth })
	months := lo.Keys(groups)
	sort.Strings(months)

	result := make([]entity.MonthlyStats, 0, len(months))
	for _, month := range months {
		rs := groups[month]
		positive := lo.CountBy(rs, func(r entity.Review) bool {
			return r.Sentiment == entity.SentimentPositive
		})
		result = append(result, entity.MonthlyStats{
			YearMonth:    month,
			Count:        len(rs),
			PositiveRate: float64(positive) / float64(len(rs)) * 100,
		})
	}
	return result
}

// SentimentCounts returns the sentiment distribution in fixed display
// order (positive, neutral, negative), percentages over all records.
func SentimentCounts(records []entity.Review) []entity.SentimentCount {
	if len(records) == 0 {
		return nil
	}
	counts := lo.CountValuesBy(records, func(r entity.Review) entity.Sentiment { return r.Sentiment })
	result := make([]entity.SentimentCount, 0, len(entity.Sentiments))
	for _, s := range entity.Sentiments {
		result = append(result, entity.SentimentCount{
			Sentiment: s,
			Count:     counts[s],
			Percent:   float64(counts[s]) / float64(len(records)) * 100,
		})
	}
	return result
}

// StarCounts returns the star distribution over stars actually
// present, ascending.
func StarCounts(records []entity.Review) []entity.StarCount {
	if len(records) == 0 {
		return nil
	}
	counts := lo.CountValuesBy(records, func(r entity.Review) int { return r.Star })
	result := make([]entity.StarCount, 0, entity.MaxStar)
	for star := entity.MinStar; star <= entity.MaxStar; star++ {
		if counts[star] == 0 {
			continue
		}
		result = append(result, entity.StarCount{
			Star:    star,
			Count:   counts[star],
			Percent: float64(counts[star]) / float64(len(records)) * 100,
		})
	}
	return result
}

// SentimentStarCrosstab cross-tabulates sentiment against star level,
// column-normalized so each non-empty star column sums to 100.
func SentimentStarCrosstab(records []entity.Review) entity.Crosstab {
	colTotals := make(map[int]int)
	cells := make(map[entity.Sentiment]map[int]int)
	for _, r := range records {
		colTotals[r.Star]++
		if cells[r.Sentiment] == nil {
			cells[r.Sentiment] = make(map[int]int)
		}
		cells[r.Sentiment][r.Star]++
	}

	stars := lo.Keys(colTotals)
	sort.Ints(stars)

	percent := make(map[entity.Sentiment]map[int]float64, len(entity.Sentiments))
	for _, s := range entity.Sentiments {
		percent[s] = make(map[int]float64, len(stars))
		for _, star := range stars {
			percent[s][star] = float64(cells[s][star]) / float64(colTotals[star]) * 100
		}
	}
	return entity.Crosstab{Stars: stars, Percent: percent}
}

// CorrelationMatrix computes the pairwise Pearson correlation over
// score, star, like count and comment length at record granularity.
// A zero-variance column leaves its cells NaN, the "no correlation"
// signal consumers render as not computable.
func CorrelationMatrix(records []entity.Review) entity.Correlation {
	columns := [][]float64{
		lo.Map(records, func(r entity.Review, _ int) float64 { return r.Score }),
		lo.Map(records, func(r entity.Review, _ int) float64 { return float64(r.Star) }),
		lo.Map(records, func(r entity.Review, _ int) float64 { return float64(r.LikeCount) }),
		lo.Map(records, func(r entity.Review, _ int) float64 { return float64(r.CommentLength) }),
	}

	n := len(CorrelationFields)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		for j := range values[i] {
			values[i][j] = pearson(columns[i], columns[j])
		}
	}
	return entity.Correlation{Fields: CorrelationFields, Values: values}
}

func pearson(a, b []float64) float64 {
	if len(a) < 2 || hasZeroVariance(a) || hasZeroVariance(b) {
		return math.NaN()
	}
	v, err := stats.Pearson(a, b)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

func hasZeroVariance(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

// Summarize computes the dataset overview numbers. An empty input
// yields a zero summary.
func Summarize(records []entity.Review) entity.DatasetSummary {
	if len(records) == 0 {
		return entity.DatasetSummary{}
	}

	summary := entity.DatasetSummary{
		RecordCount: len(records),
		MovieCount:  len(lo.UniqBy(records, func(r entity.Review) string { return r.MovieName })),
		UserCount:   len(lo.UniqBy(records, func(r entity.Review) string { return r.Username })),
		DateFrom:    records[0].Date,
		DateTo:      records[0].Date,
		LikedCount: lo.CountBy(records, func(r entity.Review) bool {
			return r.LikeCount > 0
		}),
	}
	for _, r := range records[1:] {
		if r.Date.Before(summary.DateFrom) {
			summary.DateFrom = r.Date
		}
		if r.Date.After(summary.DateTo) {
			summary.DateTo = r.Date
		}
	}

	scores := lo.Map(records, func(r entity.Review, _ int) float64 { return r.Score })
	if mean, err := stats.Mean(scores); err == nil {
		summary.ScoreMean = mean
	}
	if median, err := stats.Median(scores); err == nil {
		summary.ScoreMedian = median
	}
	return summary
}
