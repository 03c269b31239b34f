package entity

import (
	"errors"
	"testing"
)

func TestSentimentForStar(t *testing.T) {
	cases := []struct {
		star int
		want Sentiment
	}{
		{1, SentimentNegative},
		{2, SentimentNegative},
		{3, SentimentNeutral},
		{4, SentimentPositive},
		{5, SentimentPositive},
	}
	for _, c := range cases {
		got, err := SentimentForStar(c.star)
		if err != nil {
			t.Fatalf("star %d: unexpected error %v", c.star, err)
		}
		if got != c.want {
			t.Fatalf("star %d: got %s want %s", c.star, got, c.want)
		}
	}
}

func TestSentimentForStar_outOfRange(t *testing.T) {
	for _, star := range []int{0, -1, 6, 100} {
		_, err := SentimentForStar(star)
		if !errors.Is(err, ErrStarOutOfRange) {
			t.Fatalf("star %d: got %v want ErrStarOutOfRange", star, err)
		}
	}
}

func TestSentimentLabel(t *testing.T) {
	if SentimentPositive.Label() != "正面" || SentimentNeutral.Label() != "中性" || SentimentNegative.Label() != "负面" {
		t.Fatal("unexpected sentiment labels")
	}
}

func TestCorrelationValue(t *testing.T) {
	c := Correlation{
		Fields: []string{"a", "b"},
		Values: [][]float64{{1, 0.5}, {0.5, 1}},
	}
	v, ok := c.Value("a", "b")
	if !ok || v != 0.5 {
		t.Fatalf("got (%v,%v) want (0.5,true)", v, ok)
	}
	if _, ok := c.Value("a", "missing"); ok {
		t.Fatal("unknown field must not resolve")
	}
}
