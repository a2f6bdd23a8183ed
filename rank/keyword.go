// Package rank contains concrete Ranker implementations. The Ranker contract
// lives in the core package; depend on core.Ranker in your code and select an
// implementation at wiring time. The keyword ranker below is deliberately
// lexical (token substring matching, no embeddings, no stemming) and serves
// as the reference retrieval semantics for the library.
package rank

import (
	"sort"
	"strings"

	"github.com/hupe1980/agentrecall/core"
)

// Keyword scores records by counting how many whitespace-separated query
// tokens occur as case-insensitive substrings of the record content. Each
// matching token contributes exactly one point regardless of how often it
// appears in the content. Records scoring zero are discarded; survivors are
// ordered by score descending, then importance descending. The sort is
// stable, so output is deterministic for identical input ordering.
type Keyword struct{}

// NewKeyword returns the keyword ranker.
func NewKeyword() *Keyword { return &Keyword{} }

type scored struct {
	record core.Record
	score  int
}

// Rank implements the core.Ranker interface.
func (r *Keyword) Rank(query string, records []core.Record, limit int) []core.Record {
	tokens := strings.Fields(strings.ToLower(query))

	hits := make([]scored, 0, len(records))
	for _, rec := range records {
		content := strings.ToLower(rec.Base().Content)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(content, tok) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{record: rec, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].record.Base().Importance > hits[j].record.Base().Importance
	})

	if limit < len(hits) {
		hits = hits[:limit]
	}
	out := make([]core.Record, len(hits))
	for i, h := range hits {
		out[i] = h.record
	}
	return out
}
