package analysis

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/eslsoft/reviewmine/internal/entity"
)

type staticSource struct {
	records []entity.Review
	err     error
}

func (s staticSource) Load(ctx context.Context) ([]entity.Review, error) {
	return s.records, s.err
}

func TestServiceRun(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(staticSource{records: sampleRecords()}, fieldsTokenizer{}, dir)
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if res.Summary.RecordCount != 3 || len(res.Movies) != 2 {
		t.Fatalf("unexpected result: %+v", res.Summary)
	}
	if res.Frequencies.All.Len() == 0 {
		t.Fatal("expected tokens in the overall table")
	}

	data, err := os.ReadFile(filepath.Join(dir, ReportFilename))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	if !strings.Contains(string(data), "# 影评数据挖掘分析报告") {
		t.Fatal("report content missing title")
	}
}

// Re-running over the same input must produce a byte-identical report.
func TestServiceRun_deterministic(t *testing.T) {
	fixed := date("2025-06-01")
	run := func() string {
		dir := t.TempDir()
		svc, err := NewService(staticSource{records: sampleRecords()}, fieldsTokenizer{}, dir)
		if err != nil {
			t.Fatal(err)
		}
		svc.now = func() time.Time { return fixed }
		res, err := svc.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(res.ReportPath)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	if run() != run() {
		t.Fatal("pipeline output must be deterministic for unchanged input")
	}
}

func TestServiceRun_validationAborts(t *testing.T) {
	records := sampleRecords()
	records[0].Star = 0
	dir := t.TempDir()

	svc, err := NewService(staticSource{records: records}, fieldsTokenizer{}, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Run(context.Background()); !errors.Is(err, entity.ErrStarOutOfRange) {
		t.Fatalf("got %v want ErrStarOutOfRange", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ReportFilename)); !os.IsNotExist(err) {
		t.Fatal("no report may be written after a validation failure")
	}
}

func TestServiceRun_emptyDataset(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(staticSource{}, fieldsTokenizer{}, dir)
	if err != nil {
		t.Fatal(err)
	}
	res, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("empty dataset must not fail: %v", err)
	}
	if len(res.Movies) != 0 || res.Frequencies.All.Len() != 0 {
		t.Fatalf("expected empty aggregates: %+v", res)
	}
}

func TestServiceRun_loadErrorPropagates(t *testing.T) {
	svc, err := NewService(staticSource{err: entity.ErrMissingColumn}, fieldsTokenizer{}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Run(context.Background()); !errors.Is(err, entity.ErrMissingColumn) {
		t.Fatalf("got %v want ErrMissingColumn", err)
	}
}
