package analysis

import (
	"sort"

	"github.com/eslsoft/reviewmine/internal/entity"
)

// Tokenizer segments one comment into filtered tokens.
type Tokenizer interface {
	Tokens(comment string) []string
}

// TokenCount is one entry of a frequency table.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// Table counts token occurrences and remembers first-insertion order
// so that TopK tie-breaking is stable with respect to the record scan.
type Table struct {
	counts map[string]int
	order  []string
}

func NewTable() *Table {
	return &Table{counts: make(map[string]int)}
}

// Add records one occurrence of token.
func (t *Table) Add(token string) {
	if _, seen := t.counts[token]; !seen {
		t.order = append(t.order, token)
	}
	t.counts[token]++
}

// Count returns the occurrence count of token, zero when absent.
func (t *Table) Count(token string) int {
	return t.counts[token]
}

// Len returns the number of distinct tokens.
func (t *Table) Len() int {
	return len(t.order)
}

// TopK returns the k highest-count entries, count descending, ties
// broken by first-encountered order. Requesting a larger k later
// yields the same ordered prefix. k <= 0 or an empty table returns
// nil.
func (t *Table) TopK(k int) []TokenCount {
	if k <= 0 || len(t.order) == 0 {
		return nil
	}
	entries := make([]TokenCount, len(t.order))
	for i, tok := range t.order {
		entries[i] = TokenCount{Token: tok, Count: t.counts[tok]}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if k < len(entries) {
		entries = entries[:k]
	}
	return entries
}

// TopKMap returns the top-k entries as a token->count map, the shape
// word-cloud rendering consumes.
func (t *Table) TopKMap(k int) map[string]int {
	top := t.TopK(k)
	if len(top) == 0 {
		return nil
	}
	m := make(map[string]int, len(top))
	for _, e := range top {
		m[e.Token] = e.Count
	}
	return m
}

// Frequencies holds the three token frequency tables: every record,
// the positive partition and the negative partition. Neutral reviews
// contribute to All only.
type Frequencies struct {
	All      *Table
	Positive *Table
	Negative *Table
}

// BuildFrequencies tokenizes every comment in record order in a
// single pass. Records must already be enriched; an empty sentiment
// partition simply leaves its table empty.
func BuildFrequencies(records []entity.Review, tok Tokenizer) *Frequencies {
	f := &Frequencies{
		All:      NewTable(),
		Positive: NewTable(),
		Negative: NewTable(),
	}
	for _, r := range records {
		for _, token := range tok.Tokens(r.Comment) {
			f.All.Add(token)
			switch r.Sentiment {
			case entity.SentimentPositive:
				f.Positive.Add(token)
			case entity.SentimentNegative:
				f.Negative.Add(token)
			}
		}
	}
	return f
}
