// Package analysis implements the review mining pipeline: feature
// enrichment, token frequency modelling, grouped aggregation and
// report compilation over one in-memory batch of reviews.
package analysis

import (
	"fmt"
	"unicode/utf8"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// Enrich computes the derived fields for every record and returns a
// new slice; the input is left untouched. Derivation reads only raw
// fields, so re-running it over the same input yields the same
// output. An out-of-range star rating aborts enrichment: sentiment
// must stay a total function over valid stars, and clamping would
// silently mislabel the record.
func Enrich(records []entity.Review) ([]entity.Review, error) {
	enriched := make([]entity.Review, len(records))
	for i, r := range records {
		sentiment, err := entity.SentimentForStar(r.Star)
		if err != nil {
			return nil, fmt.Errorf("record %d (id=%d) star=%d: %w", i+1, r.ID, r.Star, err)
		}
		if r.Username == "" {
			r.Username = entity.AnonymousUser
		}
		r.Sentiment = sentiment
		r.CommentLength = utf8.RuneCountInString(r.Comment)
		r.Year = r.Date.Year()
		r.Month = int(r.Date.Month())
		r.YearMonth = r.Date.Format("2006-01")
		enriched[i] = r
	}
	return enriched, nil
}
