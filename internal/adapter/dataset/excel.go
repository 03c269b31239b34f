package dataset

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// ExcelSource reads reviews from the first sheet of an xlsx workbook.
type ExcelSource struct {
	path string
}

func NewExcelSource(path string) *ExcelSource {
	return &ExcelSource{path: path}
}

func (s *ExcelSource) Load(ctx context.Context) ([]entity.Review, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", s.path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s has no header row: %w", sheet, entity.ErrMissingColumn)
	}

	index, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	reviews := make([]entity.Review, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if emptyRow(row) {
			continue
		}
		r, err := parseRow(row, index, i+2)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, nil
}

func emptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
