package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/reviewmine/internal/entity"
	"github.com/eslsoft/reviewmine/internal/repository"
)

// View sizes over the stored frequency tables and rankings. All are
// slices of the same underlying tables, not separate recomputations.
const (
	defaultKeywordDepth   = 50  // stored ranking depth
	defaultReportKeywords = 20  // report section
	defaultChartKeywords  = 30  // bar chart
	defaultCloudWords     = 200 // overall word cloud
	defaultCloudPartition = 150 // per-sentiment word clouds
	defaultTopMovies      = 10
)

// ReportFilename is the fixed name of the written Markdown report.
const ReportFilename = "analysis_report.md"

// Result carries everything the pipeline computed for one run. It is
// immutable after Run returns.
type Result struct {
	Records []entity.Review // enriched

	Summary         entity.DatasetSummary
	SentimentCounts []entity.SentimentCount
	StarCounts      []entity.StarCount
	Frequencies     *Frequencies
	Movies          []entity.MovieStats
	TopByVolume     []entity.MovieStats
	TopByScore      []entity.MovieStats
	Yearly          []entity.YearlyStats
	Monthly         []entity.MonthlyStats
	Crosstab        entity.Crosstab
	Correlation     entity.Correlation

	// Knobs the renderer reads so its views match the report's.
	ChartKeywords  int
	CloudWords     int
	CloudPartition int

	ReportPath string
	Artifacts  []string
	Notes      []string
}

// Renderer draws chart artifacts from a computed result. It returns
// the file names written and notes for sections it skipped; a missing
// rendering prerequisite must degrade into a note, not an error.
type Renderer interface {
	Render(res *Result) (artifacts []string, notes []string, err error)
}

// Exporter persists a computed result into a flat output artifact.
type Exporter interface {
	Export(ctx context.Context, res *Result) error
}

// Service runs the full pipeline: load, enrich, tokenize, aggregate,
// render, report, export. Stages run strictly in that order; nothing
// reads the store before enrichment has completed.
type Service struct {
	source   repository.ReviewSource
	tok      Tokenizer
	renderer Renderer
	exporter Exporter
	logger   *logrus.Logger
	now      func() time.Time

	outputDir      string
	keywordDepth   int
	reportKeywords int
	chartKeywords  int
	cloudWords     int
	cloudPartition int
	topMovies      int
}

type Option func(*Service)

// WithRenderer attaches the optional chart rendering backend.
func WithRenderer(r Renderer) Option {
	return func(s *Service) { s.renderer = r }
}

// WithExporter attaches the optional aggregate artifact exporter.
func WithExporter(e Exporter) Option {
	return func(s *Service) { s.exporter = e }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTopMovies overrides the ranking depth of the movie sections.
func WithTopMovies(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topMovies = n
		}
	}
}

// WithKeywordViews overrides the keyword view sizes; zero keeps the
// default for that view.
func WithKeywordViews(depth, report, chart, cloud, cloudPartition int) Option {
	return func(s *Service) {
		if depth > 0 {
			s.keywordDepth = depth
		}
		if report > 0 {
			s.reportKeywords = report
		}
		if chart > 0 {
			s.chartKeywords = chart
		}
		if cloud > 0 {
			s.cloudWords = cloud
		}
		if cloudPartition > 0 {
			s.cloudPartition = cloudPartition
		}
	}
}

// NewService constructs the pipeline over the given source and
// tokenizer, writing artifacts under outputDir.
func NewService(source repository.ReviewSource, tok Tokenizer, outputDir string, opts ...Option) (*Service, error) {
	if source == nil {
		return nil, errors.New("analysis: review source is required")
	}
	if tok == nil {
		return nil, errors.New("analysis: tokenizer is required")
	}
	if outputDir == "" {
		return nil, errors.New("analysis: output directory is required")
	}

	svc := &Service{
		source:         source,
		tok:            tok,
		logger:         logrus.New(),
		now:            time.Now,
		outputDir:      outputDir,
		keywordDepth:   defaultKeywordDepth,
		reportKeywords: defaultReportKeywords,
		chartKeywords:  defaultChartKeywords,
		cloudWords:     defaultCloudWords,
		cloudPartition: defaultCloudPartition,
		topMovies:      defaultTopMovies,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Run executes the pipeline. The first unrecoverable error aborts the
// whole run with its cause wrapped; no partial report is written
// after a failure.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	raw, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	s.logger.WithField("records", len(raw)).Info("数据加载完成")

	records, err := Enrich(raw)
	if err != nil {
		return nil, fmt.Errorf("enrich dataset: %w", err)
	}

	res := &Result{
		Records:         records,
		Summary:         Summarize(records),
		SentimentCounts: SentimentCounts(records),
		StarCounts:      StarCounts(records),
		Movies:          MovieAggregates(records),
		Yearly:          YearlyAggregates(records),
		Monthly:         MonthlyAggregates(records),
		Crosstab:        SentimentStarCrosstab(records),
		Correlation:     CorrelationMatrix(records),
		ChartKeywords:   s.chartKeywords,
		CloudWords:      s.cloudWords,
		CloudPartition:  s.cloudPartition,
	}
	res.TopByVolume = TopByReviewCount(res.Movies, s.topMovies)
	res.TopByScore = TopByScore(res.Movies, s.topMovies)

	s.logger.Info("开始分词与词频统计")
	res.Frequencies = BuildFrequencies(records, s.tok)
	s.logger.WithFields(logrus.Fields{
		"tokens":   res.Frequencies.All.Len(),
		"positive": res.Frequencies.Positive.Len(),
		"negative": res.Frequencies.Negative.Len(),
	}).Info("词频统计完成")

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	if s.renderer != nil {
		artifacts, notes, err := s.renderer.Render(res)
		if err != nil {
			return nil, fmt.Errorf("render charts: %w", err)
		}
		res.Artifacts = artifacts
		res.Notes = append(res.Notes, notes...)
		s.logger.WithField("charts", len(artifacts)).Info("图表生成完成")
	}

	report := &Report{
		GeneratedAt:     s.now(),
		Summary:         res.Summary,
		SentimentCounts: res.SentimentCounts,
		Keywords:        res.Frequencies.All.TopK(min(s.reportKeywords, s.keywordDepth)),
		PositiveWords:   res.Frequencies.Positive.TopK(10),
		NegativeWords:   res.Frequencies.Negative.TopK(10),
		TopByVolume:     res.TopByVolume,
		TopByScore:      res.TopByScore,
		Yearly:          res.Yearly,
		Monthly:         res.Monthly,
		Crosstab:        res.Crosstab,
		Correlation:     res.Correlation,
		Artifacts:       res.Artifacts,
		Notes:           res.Notes,
	}

	res.ReportPath = filepath.Join(s.outputDir, ReportFilename)
	if err := os.WriteFile(res.ReportPath, []byte(report.Markdown()), 0o644); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	s.logger.WithField("path", res.ReportPath).Info("分析报告已保存")

	if s.exporter != nil {
		if err := s.exporter.Export(ctx, res); err != nil {
			return nil, fmt.Errorf("export aggregates: %w", err)
		}
	}
	return res, nil
}
