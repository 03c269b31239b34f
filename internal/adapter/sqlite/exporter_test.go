package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/eslsoft/reviewmine/internal/entity"
	"github.com/eslsoft/reviewmine/internal/usecase/analysis"
)

func sampleResult() *analysis.Result {
	f := &analysis.Frequencies{
		All:      analysis.NewTable(),
		Positive: analysis.NewTable(),
		Negative: analysis.NewTable(),
	}
	for _, tok := range []string{"好看", "好看", "震撼"} {
		f.All.Add(tok)
		f.Positive.Add(tok)
	}
	f.All.Add("拖沓")
	f.Negative.Add("拖沓")

	return &analysis.Result{
		Movies: []entity.MovieStats{
			{Name: "流浪地球", Score: 8.5, ReviewCount: 2, TotalLikes: 12, AvgStar: 4.5},
			{Name: "霸王别姬", Score: 9.6, ReviewCount: 1, TotalLikes: 3, AvgStar: 5},
		},
		Yearly:      []entity.YearlyStats{{Year: 2019, Count: 3, AvgScore: 8.9, AvgStar: 4.7}},
		Monthly:     []entity.MonthlyStats{{YearMonth: "2019-02", Count: 3, PositiveRate: 50}},
		Frequencies: f,
	}
}

func TestExporterExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.db")
	e := NewExporter(path)

	// Export twice: the tables must hold one run's rows, not two.
	for i := 0; i < 2; i++ {
		if err := e.Export(context.Background(), sampleResult()); err != nil {
			t.Fatal(err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rowCounts := map[string]int{
		"movie_stats":   2,
		"yearly_stats":  1,
		"monthly_stats": 1,
		"keywords":      3 + 2 + 1, // all, positive, negative partitions
	}
	for table, want := range rowCounts {
		var got int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&got); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Fatalf("%s: got %d rows want %d", table, got, want)
		}
	}

	var name string
	var reviewCount int
	err = db.QueryRow(`SELECT name, review_count FROM movie_stats ORDER BY review_count DESC LIMIT 1`).
		Scan(&name, &reviewCount)
	if err != nil {
		t.Fatal(err)
	}
	if name != "流浪地球" || reviewCount != 2 {
		t.Fatalf("busiest movie: got %s/%d want 流浪地球/2", name, reviewCount)
	}

	var rate float64
	if err := db.QueryRow(`SELECT positive_rate FROM monthly_stats WHERE year_month = '2019-02'`).Scan(&rate); err != nil {
		t.Fatal(err)
	}
	if rate != 50 {
		t.Fatalf("positive rate: got %f want 50", rate)
	}
}

// Keyword ranks are per partition, start at 1 and follow the frequency
// order of the run.
func TestExporterExport_keywordRanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.db")
	if err := NewExporter(path).Export(context.Background(), sampleResult()); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT "rank", token, count FROM keywords WHERE "partition" = 'positive' ORDER BY "rank"`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	want := []struct {
		rank  int
		token string
		count int
	}{
		{1, "好看", 2},
		{2, "震撼", 1},
	}
	i := 0
	for rows.Next() {
		var rank, count int
		var token string
		if err := rows.Scan(&rank, &token, &count); err != nil {
			t.Fatal(err)
		}
		if i >= len(want) {
			t.Fatalf("unexpected extra keyword row %d/%s", rank, token)
		}
		if rank != want[i].rank || token != want[i].token || count != want[i].count {
			t.Fatalf("row %d: got %d/%s/%d want %+v", i, rank, token, count, want[i])
		}
		i++
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if i != len(want) {
		t.Fatalf("expected %d keyword rows got %d", len(want), i)
	}
}
