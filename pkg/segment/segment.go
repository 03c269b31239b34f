// Package segment turns Chinese comment text into analysis tokens.
//
// Segmentation is dictionary-based (gse with its embedded default
// dictionary), so it is deterministic for the same input. The filter
// stage drops tokens shorter than two runes and tokens in the fixed
// stopword set; what survives is the word sequence the frequency
// model and the word-cloud renderer consume.
package segment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-ego/gse"
)

// minTokenRunes is the minimum token length counted in runes, so a
// multi-byte character counts as one unit.
const minTokenRunes = 2

// Segmenter wraps a loaded gse segmenter. Safe for concurrent use
// once constructed.
type Segmenter struct {
	seg gse.Segmenter
}

// New loads the embedded default dictionary.
func New() (*Segmenter, error) {
	var s Segmenter
	if err := s.seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("load segmenter dictionary: %w", err)
	}
	return &s, nil
}

// Tokens segments one comment and filters the result. Comments shorter
// than two runes carry no signal and yield nil before segmentation.
// The returned slice preserves text order.
func (s *Segmenter) Tokens(comment string) []string {
	trimmed := strings.TrimSpace(comment)
	if utf8.RuneCountInString(trimmed) < minTokenRunes {
		return nil
	}

	words := s.seg.Cut(trimmed, true)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < minTokenRunes {
			continue
		}
		if IsStopword(w) {
			continue
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
