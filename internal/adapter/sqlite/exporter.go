// Package sqlite writes the computed aggregates into a flat SQLite
// artifact next to the other outputs, so the numbers can be queried
// after the run without re-parsing the report.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite driver, CGO_ENABLED=1 build

	"github.com/eslsoft/reviewmine/internal/usecase/analysis"
)

const schema = `
CREATE TABLE IF NOT EXISTS movie_stats (
	name         TEXT PRIMARY KEY,
	score        REAL NOT NULL,
	review_count INTEGER NOT NULL,
	total_likes  INTEGER NOT NULL,
	avg_star     REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS yearly_stats (
	year      INTEGER PRIMARY KEY,
	count     INTEGER NOT NULL,
	avg_score REAL NOT NULL,
	avg_star  REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS monthly_stats (
	year_month    TEXT PRIMARY KEY,
	count         INTEGER NOT NULL,
	positive_rate REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS keywords (
	"partition" TEXT NOT NULL,
	"rank"      INTEGER NOT NULL,
	token     TEXT NOT NULL,
	count     INTEGER NOT NULL,
	PRIMARY KEY ("partition", "rank")
);
`

// keywordDepth is how deep each partition ranking is stored.
const keywordDepth = 50

// Exporter writes one result into a SQLite database file, replacing
// any previous content of the aggregate tables.
type Exporter struct {
	path string
}

func NewExporter(path string) *Exporter {
	return &Exporter{path: path}
}

func (e *Exporter) Export(ctx context.Context, res *analysis.Result) error {
	db, err := sql.Open("sqlite3", e.path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", e.path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"movie_stats", "yearly_stats", "monthly_stats", "keywords"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}

	if err := insertMovies(ctx, tx, res); err != nil {
		return err
	}
	if err := insertTrends(ctx, tx, res); err != nil {
		return err
	}
	if err := insertKeywords(ctx, tx, res); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertMovies(ctx context.Context, tx *sql.Tx, res *analysis.Result) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movie_stats (name, score, review_count, total_likes, avg_star) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare movie_stats: %w", err)
	}
	defer stmt.Close()

	for _, m := range res.Movies {
		if _, err := stmt.ExecContext(ctx, m.Name, m.Score, m.ReviewCount, m.TotalLikes, m.AvgStar); err != nil {
			return fmt.Errorf("insert movie %q: %w", m.Name, err)
		}
	}
	return nil
}

func insertTrends(ctx context.Context, tx *sql.Tx, res *analysis.Result) error {
	yearly, err := tx.PrepareContext(ctx,
		`INSERT INTO yearly_stats (year, count, avg_score, avg_star) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare yearly_stats: %w", err)
	}
	defer yearly.Close()

	for _, y := range res.Yearly {
		if _, err := yearly.ExecContext(ctx, y.Year, y.Count, y.AvgScore, y.AvgStar); err != nil {
			return fmt.Errorf("insert year %d: %w", y.Year, err)
		}
	}

	monthly, err := tx.PrepareContext(ctx,
		`INSERT INTO monthly_stats (year_month, count, positive_rate) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare monthly_stats: %w", err)
	}
	defer monthly.Close()

	for _, m := range res.Monthly {
		if _, err := monthly.ExecContext(ctx, m.YearMonth, m.Count, m.PositiveRate); err != nil {
			return fmt.Errorf("insert month %s: %w", m.YearMonth, err)
		}
	}
	return nil
}

func insertKeywords(ctx context.Context, tx *sql.Tx, res *analysis.Result) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO keywords ("partition", "rank", token, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare keywords: %w", err)
	}
	defer stmt.Close()

	partitions := []struct {
		name  string
		table *analysis.Table
	}{
		{"all", res.Frequencies.All},
		{"positive", res.Frequencies.Positive},
		{"negative", res.Frequencies.Negative},
	}
	for _, p := range partitions {
		for rank, kw := range p.table.TopK(keywordDepth) {
			if _, err := stmt.ExecContext(ctx, p.name, rank+1, kw.Token, kw.Count); err != nil {
				return fmt.Errorf("insert keyword %q: %w", kw.Token, err)
			}
		}
	}
	return nil
}
