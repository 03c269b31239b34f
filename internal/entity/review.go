package entity

import (
	"time"
)

// Sentiment classifies a review by its star rating.
type Sentiment string

const (
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentPositive Sentiment = "positive"
)

// Label returns the Chinese display label used in reports and charts.
func (s Sentiment) Label() string {
	switch s {
	case SentimentNegative:
		return "负面"
	case SentimentNeutral:
		return "中性"
	case SentimentPositive:
		return "正面"
	default:
		return string(s)
	}
}

// Sentiments lists all classes in fixed display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// AnonymousUser is the username recorded when the source row has none.
const AnonymousUser = "匿名用户"

// Star rating bounds. Ratings outside this range are rejected, not clamped.
const (
	MinStar = 1
	MaxStar = 5
)

// SentimentForStar maps a star rating to its sentiment class:
// star <= 2 -> negative, star == 3 -> neutral, star >= 4 -> positive.
// This is the only place the mapping lives; every consumer goes through it.
func SentimentForStar(star int) (Sentiment, error) {
	if star < MinStar || star > MaxStar {
		return "", ErrStarOutOfRange
	}
	switch {
	case star <= 2:
		return SentimentNegative, nil
	case star == 3:
		return SentimentNeutral, nil
	default:
		return SentimentPositive, nil
	}
}

// Review is a single film review row. Raw fields come from the source
// file; derived fields are populated exactly once by the enrichment
// stage and are never recomputed downstream.
type Review struct {
	ID        int64     `json:"id"`
	MovieName string    `json:"movie_name"`
	Username  string    `json:"username"`
	Star      int       `json:"star"`       // 1-5 user rating
	Score     float64   `json:"score"`      // movie-level rating, constant per movie
	LikeCount int       `json:"like_count"` // 点赞数
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date"`

	// Derived fields.
	Sentiment     Sentiment `json:"sentiment,omitempty"`
	CommentLength int       `json:"comment_length,omitempty"` // rune count, not bytes
	Year          int       `json:"year,omitempty"`
	Month         int       `json:"month,omitempty"`
	YearMonth     string    `json:"year_month,omitempty"` // "2006-01"
}
