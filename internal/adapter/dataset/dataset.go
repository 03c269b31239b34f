// Package dataset loads review datasets from tabular files. Both
// loaders share one header contract: columns ID, Movie_Name,
// Username, Star, Score, Like, Comment, Date (case-insensitive).
// A missing required column is a fatal load error; missing comment
// and username cells are policy, not errors.
package dataset

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/eslsoft/reviewmine/internal/entity"
	"github.com/eslsoft/reviewmine/internal/repository"
)

// Column names of the source schema, lowercased for matching.
const (
	colID    = "id"
	colMovie = "movie_name"
	colUser  = "username"
	colStar  = "star"
	colScore = "score"
	colLike  = "like"
	colText  = "comment"
	colDate  = "date"
)

// Username and Comment are optional; their absent cells map to the
// documented defaults during parsing.
var requiredColumns = []string{colID, colMovie, colStar, colScore, colLike, colDate}

var dateLayouts = []string{
	"2006-01-02",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006/1/2 15:04:05",
}

// FromPath picks a loader by file extension.
func FromPath(path string) (repository.ReviewSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewExcelSource(path), nil
	case ".csv":
		return NewCSVSource(path), nil
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", path)
	}
}

// columnIndex maps the header row into column positions, failing on
// any missing required column.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("column %q: %w", col, entity.ErrMissingColumn)
		}
	}
	return index, nil
}

func cell(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseRow converts one data row into a raw review record. Derived
// fields stay zero; enrichment owns them.
func parseRow(row []string, index map[string]int, line int) (entity.Review, error) {
	var r entity.Review

	id, err := strconv.ParseInt(cell(row, index, colID), 10, 64)
	if err != nil {
		return r, fmt.Errorf("row %d: parse id: %w", line, entity.ErrInvalidRecord)
	}
	star, err := strconv.Atoi(cell(row, index, colStar))
	if err != nil {
		return r, fmt.Errorf("row %d: parse star: %w", line, entity.ErrInvalidRecord)
	}
	score, err := strconv.ParseFloat(cell(row, index, colScore), 64)
	if err != nil {
		return r, fmt.Errorf("row %d: parse score: %w", line, entity.ErrInvalidRecord)
	}
	like, err := parseLike(cell(row, index, colLike))
	if err != nil {
		return r, fmt.Errorf("row %d: parse like: %w", line, entity.ErrInvalidRecord)
	}
	date, err := parseDate(cell(row, index, colDate))
	if err != nil {
		return r, fmt.Errorf("row %d: parse date %q: %w", line, cell(row, index, colDate), entity.ErrInvalidRecord)
	}

	r.ID = id
	r.MovieName = cell(row, index, colMovie)
	r.Username = cell(row, index, colUser) // empty -> sentinel, applied by enrichment
	r.Star = star
	r.Score = score
	r.LikeCount = like
	r.Comment = cell(row, index, colText) // empty comment is valid
	r.Date = date
	if r.MovieName == "" {
		return r, fmt.Errorf("row %d: empty movie name: %w", line, entity.ErrInvalidRecord)
	}
	return r, nil
}

func parseLike(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	// Excel sometimes serializes integer cells as floats ("12.0").
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	n := int(f)
	if n < 0 {
		return 0, fmt.Errorf("negative like count %d", n)
	}
	return n, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
