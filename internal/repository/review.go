package repository

import (
	"context"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// ReviewSource loads the full review dataset once at startup. The
// pipeline works on a single in-memory batch; implementations read a
// tabular file and must fail on schema violations.
type ReviewSource interface {
	Load(ctx context.Context) ([]entity.Review, error)
}
