package core

// Ranker orders stored records by relevance to a query and truncates the
// result to at most limit records. Implementations must be pure (no store
// mutation) and deterministic for identical input ordering; the reference
// implementation is rank.Keyword.
type Ranker interface {
	Rank(query string, records []Record, limit int) []Record
}

// RankerFunc adapts a plain function to the Ranker interface.
type RankerFunc func(query string, records []Record, limit int) []Record

// Rank implements the Ranker interface.
func (f RankerFunc) Rank(query string, records []Record, limit int) []Record {
	return f(query, records, limit)
}
