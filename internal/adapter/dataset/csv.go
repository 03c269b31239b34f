package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// CSVSource reads reviews from a CSV file with the same header
// contract as the Excel loader.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) Load(ctx context.Context) ([]entity.Review, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged trailing cells are tolerated

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s has no header row: %w", s.path, entity.ErrMissingColumn)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var reviews []entity.Review
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if emptyRow(row) {
			continue
		}
		r, err := parseRow(row, index, line)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}
