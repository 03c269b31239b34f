/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/reviewmine/internal/adapter/dataset"
	"github.com/eslsoft/reviewmine/internal/adapter/render"
	"github.com/eslsoft/reviewmine/internal/adapter/sqlite"
	"github.com/eslsoft/reviewmine/internal/infrastructure/config"
	"github.com/eslsoft/reviewmine/internal/usecase/analysis"
	"github.com/eslsoft/reviewmine/pkg/segment"
)

const (
	analyzeInputKey  = "analysis.input"
	analyzeOutputKey = "analysis.output_dir"
	analyzeChartsKey = "analysis.charts"
	analyzeSQLiteKey = "analysis.sqlite"
	analyzeTopKey    = "analysis.top_movies"
)

// sqliteFilename is the aggregate artifact written next to the report.
const sqliteFilename = "analysis.db"

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "分析影评数据并生成报告",
	Long:  "加载影评数据文件 (xlsx 或 csv)，执行情感分类、分词统计、聚合分析，生成图表与 Markdown 报告。注意: go-sqlite3 需要 CGO_ENABLED=1 构建，可使用 --sqlite=false 关闭。",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("初始化日志失败: %w", err)
		}

		inputPath := viper.GetString(analyzeInputKey)
		outputDir := viper.GetString(analyzeOutputKey)
		if inputPath == "" {
			return fmt.Errorf("请通过 --input 指定影评数据文件")
		}

		source, err := dataset.FromPath(inputPath)
		if err != nil {
			return fmt.Errorf("识别数据文件失败: %w", err)
		}

		seg, err := segment.New()
		if err != nil {
			return fmt.Errorf("加载分词词典失败: %w", err)
		}

		opts := []analysis.Option{
			analysis.WithLogger(logger),
			analysis.WithTopMovies(viper.GetInt(analyzeTopKey)),
			analysis.WithKeywordViews(
				cfg.Analysis.KeywordDepth,
				cfg.Analysis.ReportKeywords,
				cfg.Analysis.ChartKeywords,
				cfg.Analysis.CloudWords,
				cfg.Analysis.CloudPartition,
			),
		}
		if viper.GetBool(analyzeChartsKey) {
			opts = append(opts, analysis.WithRenderer(render.NewChartRenderer(outputDir, logger)))
		}
		if viper.GetBool(analyzeSQLiteKey) {
			opts = append(opts, analysis.WithExporter(sqlite.NewExporter(filepath.Join(outputDir, sqliteFilename))))
		}

		service, err := analysis.NewService(source, seg, outputDir, opts...)
		if err != nil {
			return fmt.Errorf("创建分析服务失败: %w", err)
		}

		res, err := service.Run(ctx)
		if err != nil {
			return fmt.Errorf("分析失败: %w", err)
		}

		cmd.Printf("分析完成: %d 条影评, %d 部电影\n", res.Summary.RecordCount, res.Summary.MovieCount)
		cmd.Printf("生成图表 %d 张, 分析报告: %s\n", len(res.Artifacts), res.ReportPath)
		for _, note := range res.Notes {
			cmd.Printf("注意: %s\n", note)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringP("input", "i", "", "影评数据文件路径 (xlsx 或 csv)")
	analyzeCmd.Flags().StringP("output", "o", "analysis_results", "分析结果输出目录")
	analyzeCmd.Flags().Bool("charts", true, "生成图表")
	analyzeCmd.Flags().Bool("sqlite", true, "导出聚合结果到 SQLite")
	analyzeCmd.Flags().Int("top-movies", 10, "电影排行榜条数")

	bindAnalyzeConfig()
}

func bindAnalyzeConfig() {
	bindFlagToViper(analyzeInputKey, analyzeCmd.Flags().Lookup("input"))
	bindFlagToViper(analyzeOutputKey, analyzeCmd.Flags().Lookup("output"))
	bindFlagToViper(analyzeChartsKey, analyzeCmd.Flags().Lookup("charts"))
	bindFlagToViper(analyzeSQLiteKey, analyzeCmd.Flags().Lookup("sqlite"))
	bindFlagToViper(analyzeTopKey, analyzeCmd.Flags().Lookup("top-movies"))
}
