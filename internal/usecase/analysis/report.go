package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// Report assembles the computed aggregates into an ordered Markdown
// document. Everything here is formatting: every number it emits was
// already computed by the enrichment, frequency or aggregation stage.
type Report struct {
	GeneratedAt time.Time

	Summary         entity.DatasetSummary
	SentimentCounts []entity.SentimentCount
	Keywords        []TokenCount // report slice (top 20) of the overall table
	PositiveWords   []TokenCount
	NegativeWords   []TokenCount
	TopByVolume     []entity.MovieStats
	TopByScore      []entity.MovieStats
	Yearly          []entity.YearlyStats
	Monthly         []entity.MonthlyStats
	Crosstab        entity.Crosstab
	Correlation     entity.Correlation

	// Artifacts lists the chart files actually written; Notes records
	// optional sections that were skipped (e.g. missing CJK font).
	Artifacts []string
	Notes     []string
}

// Markdown renders the report sections in fixed order: overview,
// sentiment distribution, keyword analysis, top movies, time trends,
// correlation findings, closing summary. Empty aggregates render as
// "no data" lines rather than failing.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# 影评数据挖掘分析报告\n\n")
	fmt.Fprintf(&b, "**分析时间**: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**数据规模**: %d 条记录\n\n", r.Summary.RecordCount)
	fmt.Fprintf(&b, "**电影数量**: %d 部\n\n", r.Summary.MovieCount)

	r.writeSentiment(&b)
	r.writeKeywords(&b)
	r.writeTopMovies(&b)
	r.writeTrends(&b)
	r.writeCorrelation(&b)
	r.writeClosing(&b)

	return b.String()
}

func (r *Report) writeSentiment(b *strings.Builder) {
	b.WriteString("## 一、情感分布\n\n")
	if len(r.SentimentCounts) == 0 {
		b.WriteString("暂无数据。\n\n")
		return
	}
	for _, sc := range r.SentimentCounts {
		fmt.Fprintf(b, "- **%s**: %d 条 (%.2f%%)\n", sc.Sentiment.Label(), sc.Count, sc.Percent)
	}
	b.WriteString("\n")
}

func (r *Report) writeKeywords(b *strings.Builder) {
	b.WriteString("## 二、关键词分析\n\n")

	fmt.Fprintf(b, "### TOP %d 高频词汇\n\n", len(r.Keywords))
	if len(r.Keywords) == 0 {
		b.WriteString("暂无关键词。\n\n")
	} else {
		for i, kw := range r.Keywords {
			fmt.Fprintf(b, "%d. **%s**: %d 次\n", i+1, kw.Token, kw.Count)
		}
		b.WriteString("\n")
	}

	writePartition(b, "正面评论高频词", "暂无正面关键词。", r.PositiveWords)
	writePartition(b, "负面评论高频词", "暂无负面关键词。", r.NegativeWords)
}

func writePartition(b *strings.Builder, title, empty string, words []TokenCount) {
	fmt.Fprintf(b, "### %s\n\n", title)
	if len(words) == 0 {
		b.WriteString(empty + "\n\n")
		return
	}
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%s(%d)", w.Token, w.Count)
	}
	b.WriteString(strings.Join(parts, "、") + "\n\n")
}

func (r *Report) writeTopMovies(b *strings.Builder) {
	b.WriteString("## 三、热门电影排行\n\n")

	fmt.Fprintf(b, "### TOP %d 评论最多\n\n", len(r.TopByVolume))
	if len(r.TopByVolume) == 0 {
		b.WriteString("暂无数据。\n\n")
	} else {
		for i, m := range r.TopByVolume {
			fmt.Fprintf(b, "%d. **%s**\n", i+1, m.Name)
			fmt.Fprintf(b, "   - 评分: %.1f\n", m.Score)
			fmt.Fprintf(b, "   - 评论数: %d 条\n", m.ReviewCount)
			fmt.Fprintf(b, "   - 平均星级: %.2f\n", m.AvgStar)
			fmt.Fprintf(b, "   - 总点赞数: %d\n\n", m.TotalLikes)
		}
	}

	fmt.Fprintf(b, "### TOP %d 评分最高\n\n", len(r.TopByScore))
	if len(r.TopByScore) == 0 {
		b.WriteString("暂无数据。\n\n")
		return
	}
	for i, m := range r.TopByScore {
		fmt.Fprintf(b, "%d. **%s**: 评分 %.1f (%d 条评论)\n", i+1, m.Name, m.Score, m.ReviewCount)
	}
	b.WriteString("\n")
}

func (r *Report) writeTrends(b *strings.Builder) {
	b.WriteString("## 四、时间趋势分析\n\n")
	if len(r.Yearly) == 0 {
		b.WriteString("暂无数据。\n\n")
		return
	}

	first := r.Yearly[0]
	last := r.Yearly[len(r.Yearly)-1]
	peak := first
	for _, y := range r.Yearly[1:] {
		if y.Count > peak.Count {
			peak = y
		}
	}
	fmt.Fprintf(b, "- **时间跨度**: %d - %d 年\n", first.Year, last.Year)
	fmt.Fprintf(b, "- **评论高峰年份**: %d 年 (%d 条)\n", peak.Year, peak.Count)

	if len(r.Monthly) > 0 {
		var sum float64
		for _, m := range r.Monthly {
			sum += m.PositiveRate
		}
		fmt.Fprintf(b, "- **平均正面评论率**: %.2f%%\n", sum/float64(len(r.Monthly)))
	}
	b.WriteString("\n")
}

func (r *Report) writeCorrelation(b *strings.Builder) {
	b.WriteString("## 五、相关性分析\n\n")
	if r.Summary.RecordCount == 0 {
		b.WriteString("暂无数据。\n\n")
		return
	}

	b.WriteString("### 关键发现\n\n")
	writeCorrelationLine(b, r.Correlation, "评分与星级相关性", "score", "star")
	writeCorrelationLine(b, r.Correlation, "点赞与星级相关性", "like_count", "star")
	writeCorrelationLine(b, r.Correlation, "评论长度与星级相关性", "comment_length", "star")
	b.WriteString("\n")

	if len(r.Crosstab.Stars) > 0 {
		b.WriteString("### 情感-星级分布 (%)\n\n")
		header := "| 情感 |"
		sep := "|---|"
		for _, star := range r.Crosstab.Stars {
			header += fmt.Sprintf(" %d星 |", star)
			sep += "---|"
		}
		b.WriteString(header + "\n" + sep + "\n")
		for _, s := range entity.Sentiments {
			row := fmt.Sprintf("| %s |", s.Label())
			for _, star := range r.Crosstab.Stars {
				row += fmt.Sprintf(" %.1f |", r.Crosstab.Percent[s][star])
			}
			b.WriteString(row + "\n")
		}
		b.WriteString("\n")
	}
}

func writeCorrelationLine(b *strings.Builder, c entity.Correlation, label, fieldA, fieldB string) {
	if v, ok := c.Value(fieldA, fieldB); ok {
		fmt.Fprintf(b, "- **%s**: %.3f\n", label, v)
	} else {
		fmt.Fprintf(b, "- **%s**: 无法计算（特征无变化）\n", label)
	}
}

func (r *Report) writeClosing(b *strings.Builder) {
	b.WriteString("## 六、分析总结\n\n")
	s := r.Summary
	if s.RecordCount > 0 {
		fmt.Fprintf(b, "1. **数据规模**: 共分析了 %d 条影评，涵盖 %d 部电影\n", s.RecordCount, s.MovieCount)
		for _, sc := range r.SentimentCounts {
			if sc.Sentiment == entity.SentimentPositive {
				fmt.Fprintf(b, "2. **情感倾向**: 正面评论 %d 条，占比 %.1f%%\n", sc.Count, sc.Percent)
			}
		}
		fmt.Fprintf(b, "3. **评分分布**: 平均评分 %.2f，中位数 %.2f\n", s.ScoreMean, s.ScoreMedian)
		fmt.Fprintf(b, "4. **用户参与**: 平均每部电影获得 %.0f 条评论\n", float64(s.RecordCount)/float64(s.MovieCount))
		fmt.Fprintf(b, "5. **互动情况**: %d 条评论获得点赞，占比 %.1f%%\n\n",
			s.LikedCount, float64(s.LikedCount)/float64(s.RecordCount)*100)
	} else {
		b.WriteString("数据集为空，未产生统计结论。\n\n")
	}

	if len(r.Notes) > 0 {
		b.WriteString("### 说明\n\n")
		for _, note := range r.Notes {
			fmt.Fprintf(b, "- ⚠️ %s\n", note)
		}
		b.WriteString("\n")
	}

	b.WriteString("### 可视化图表清单\n\n")
	if len(r.Artifacts) == 0 {
		b.WriteString("本次运行未生成图表。\n\n")
	} else {
		for i, name := range r.Artifacts {
			fmt.Fprintf(b, "%d. `%s`\n", i+1, name)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n*本报告由影评数据挖掘系统自动生成*\n")
}
