// Package render draws the chart and word-cloud artifacts from a
// computed analysis result. It is an optional capability: the
// pipeline only asks whether rendering prerequisites resolved and
// records skipped sections as report notes.
package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// Font is a resolved CJK font: the file path for renderers that load
// it themselves and the parsed face for go-chart labels.
type Font struct {
	Path string
	TTF  *truetype.Font
}

var fontFiles = []string{
	"simhei.ttf",
	"msyh.ttf",
	"simsun.ttf",
	"PingFang Regular.ttf",
	"NotoSansCJKsc-Regular.otf",
	"NotoSansSC-Regular.ttf",
	"SourceHanSansCN-Regular.otf",
	"SourceHanSansSC-Regular.otf",
	"wqy-microhei.ttc",
	"wqy-zenhei.ttc",
}

func fontDirs() []string {
	home, _ := os.UserHomeDir()
	windir := os.Getenv("WINDIR")
	if windir == "" {
		windir = `C:\Windows`
	}
	return []string{
		filepath.Join(windir, "Fonts"),
		"/System/Library/Fonts",
		"/Library/Fonts",
		filepath.Join(home, "Library", "Fonts"),
		"/usr/share/fonts",
		"/usr/share/fonts/truetype",
		"/usr/share/fonts/opentype",
		"/usr/local/share/fonts",
		filepath.Join(home, ".local", "share", "fonts"),
	}
}

// ResolveFont probes well-known CJK font locations and returns the
// first file that parses. It returns ErrFontUnavailable when nothing
// resolves; callers degrade by skipping font-dependent artifacts.
func ResolveFont() (*Font, error) {
	for _, dir := range fontDirs() {
		for _, name := range fontFiles {
			path := filepath.Join(dir, name)
			font, err := loadFont(path)
			if err != nil {
				continue
			}
			return font, nil
		}
		// Linux distributions nest fonts one level deeper.
		matches, _ := filepath.Glob(filepath.Join(dir, "*", "*"))
		for _, path := range matches {
			for _, name := range fontFiles {
				if filepath.Base(path) != name {
					continue
				}
				font, err := loadFont(path)
				if err != nil {
					continue
				}
				return font, nil
			}
		}
	}
	return nil, fmt.Errorf("probe font candidates: %w", entity.ErrFontUnavailable)
}

func loadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ttf, err := truetype.Parse(data)
	if err != nil {
		// Collection files (.ttc) and some OTFs do not parse; the
		// path may still serve renderers that load fonts themselves,
		// but a chart label face is required, so keep probing.
		return nil, err
	}
	return &Font{Path: path, TTF: ttf}, nil
}
