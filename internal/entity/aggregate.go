package entity

import (
	"math"
	"time"
)

// MovieStats aggregates all reviews of one movie. Score is the first
// value seen for the movie; it is a movie attribute duplicated on
// every row, so any deterministic pick would do and first is the
// documented contract.
type MovieStats struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	ReviewCount int     `json:"review_count"`
	TotalLikes  int     `json:"total_likes"`
	AvgStar     float64 `json:"avg_star"`
}

// YearlyStats aggregates reviews by calendar year.
type YearlyStats struct {
	Year     int     `json:"year"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
	AvgStar  float64 `json:"avg_star"`
}

// MonthlyStats aggregates reviews by year-month bucket. PositiveRate
// is the positive-sentiment fraction scaled to 0-100.
type MonthlyStats struct {
	YearMonth    string  `json:"year_month"` // "2006-01"
	Count        int     `json:"count"`
	PositiveRate float64 `json:"positive_rate"`
}

// SentimentCount is one slice of the sentiment distribution.
type SentimentCount struct {
	Sentiment Sentiment `json:"sentiment"`
	Count     int       `json:"count"`
	Percent   float64   `json:"percent"`
}

// StarCount is one slice of the star distribution.
type StarCount struct {
	Star    int     `json:"star"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Crosstab is the sentiment x star cross-tabulation, column-normalized
// so each non-empty star column sums to 100.
type Crosstab struct {
	Stars   []int `json:"stars"` // columns, ascending, only stars present
	Percent map[Sentiment]map[int]float64
}

// Correlation is the pairwise Pearson matrix over the numeric record
// features. Cells are NaN when undefined (zero-variance column).
type Correlation struct {
	Fields []string    `json:"fields"`
	Values [][]float64 `json:"values"`
}

// Value returns the correlation between two named fields. ok is false
// when either field is unknown or the cell is undefined.
func (c Correlation) Value(a, b string) (float64, bool) {
	ai, bi := -1, -1
	for i, f := range c.Fields {
		if f == a {
			ai = i
		}
		if f == b {
			bi = i
		}
	}
	if ai < 0 || bi < 0 {
		return 0, false
	}
	v := c.Values[ai][bi]
	if math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// DatasetSummary holds the overview numbers of one loaded dataset.
type DatasetSummary struct {
	RecordCount int       `json:"record_count"`
	MovieCount  int       `json:"movie_count"`
	UserCount   int       `json:"user_count"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
	ScoreMean   float64   `json:"score_mean"`
	ScoreMedian float64   `json:"score_median"`
	LikedCount  int       `json:"liked_count"` // reviews with at least one like
}
