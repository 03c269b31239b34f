package render

import (
	"fmt"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/psykhi/wordclouds"

	"github.com/eslsoft/reviewmine/internal/usecase/analysis"
)

const (
	cloudWidth  = 1600
	cloudHeight = 800
)

var cloudColors = []color.Color{
	color.RGBA{0x25, 0x63, 0x8b, 0xff},
	color.RGBA{0x35, 0xb7, 0x79, 0xff},
	color.RGBA{0xfd, 0xe7, 0x25, 0xff},
	color.RGBA{0x44, 0x01, 0x54, 0xff},
}

// renderWordClouds draws the overall and per-sentiment clouds. Without
// a resolved font every cloud is skipped with a single report note; an
// empty partition skips just its own cloud.
func (r *ChartRenderer) renderWordClouds(res *analysis.Result) ([]string, []string, error) {
	if r.font == nil {
		return nil, []string{"由于系统缺少中文字体，词云图未生成。"}, nil
	}

	clouds := []struct {
		name  string
		words map[string]int
	}{
		{"05_wordcloud_all.png", res.Frequencies.All.TopKMap(res.CloudWords)},
		{"06_wordcloud_positive.png", res.Frequencies.Positive.TopKMap(res.CloudPartition)},
		{"07_wordcloud_negative.png", res.Frequencies.Negative.TopKMap(res.CloudPartition)},
	}

	var artifacts []string
	for _, c := range clouds {
		if len(c.words) == 0 {
			continue
		}
		if err := r.drawCloud(c.name, c.words); err != nil {
			return nil, nil, fmt.Errorf("render %s: %w", c.name, err)
		}
		artifacts = append(artifacts, c.name)
	}
	return artifacts, nil, nil
}

func (r *ChartRenderer) drawCloud(name string, words map[string]int) error {
	cloud := wordclouds.NewWordcloud(
		words,
		wordclouds.FontFile(r.font.Path),
		wordclouds.Width(cloudWidth),
		wordclouds.Height(cloudHeight),
		wordclouds.BackgroundColor(color.White),
		wordclouds.Colors(cloudColors),
		wordclouds.FontMaxSize(160),
		wordclouds.FontMinSize(12),
	)

	f, err := os.Create(filepath.Join(r.outputDir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, cloud.Draw())
}
