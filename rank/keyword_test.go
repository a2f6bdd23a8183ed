package rank

import (
	"testing"

	"github.com/hupe1980/agentrecall/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Interface compliance (compile-time assertion)
var _ core.Ranker = (*Keyword)(nil)

func newStore(t *testing.T) *core.Store {
	t.Helper()
	return core.NewStore("agent-1", func(o *core.StoreOptions) { o.Ranker = NewKeyword() })
}

func TestKeyword_ScoreBeatsImportance(t *testing.T) {
	s := newStore(t)
	_, err := s.AddFact("f1", "Water freezes at 0 C", func(o *core.RecordOptions) { o.Importance = 0.7 })
	require.NoError(t, err)
	_, err = s.AddFact("f2", "The sky is blue", func(o *core.RecordOptions) { o.Importance = 0.9 })
	require.NoError(t, err)

	got, err := s.GetRelevant("what temperature does water freeze", 5)
	require.NoError(t, err)
	require.Len(t, got, 1, "zero-score records must be discarded regardless of importance")
	assert.Equal(t, "f1", got[0].Base().ID)
}

func TestKeyword_MatchingIsCaseInsensitiveSubstring(t *testing.T) {
	r := NewKeyword()
	records := []core.Record{
		core.Fact{Item: core.Item{ID: "f1", Content: "PARIS is the capital of France", Importance: 1.0}},
	}

	got := r.Rank("paris capital", records, 5)
	require.Len(t, got, 1)
}

func TestKeyword_TokenCountedOncePerRecord(t *testing.T) {
	r := NewKeyword()
	records := []core.Record{
		// "go" appears three times but contributes a single point, so the
		// two-token match below must still outrank it.
		core.Fact{Item: core.Item{ID: "rep", Content: "go go go", Importance: 1.0}},
		core.Fact{Item: core.Item{ID: "two", Content: "go fast", Importance: 0.1}},
	}

	got := r.Rank("go fast", records, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[0].Base().ID)
	assert.Equal(t, "rep", got[1].Base().ID)
}

func TestKeyword_TiesBrokenByImportance(t *testing.T) {
	r := NewKeyword()
	records := []core.Record{
		core.Fact{Item: core.Item{ID: "low", Content: "coffee is hot", Importance: 0.2}},
		core.Fact{Item: core.Item{ID: "high", Content: "coffee is dark", Importance: 0.8}},
	}

	got := r.Rank("coffee", records, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "high", got[0].Base().ID)
	assert.Equal(t, "low", got[1].Base().ID)
}

func TestKeyword_LimitAndStability(t *testing.T) {
	s := newStore(t)
	contents := map[string]string{
		"a": "the cat sat",
		"b": "the cat ran",
		"c": "the cat slept",
		"d": "the dog barked",
	}
	for id, content := range contents {
		_, err := s.AddFact(id, content, func(o *core.RecordOptions) { o.Importance = 0.5 })
		require.NoError(t, err)
	}

	first, err := s.GetRelevant("cat", 2)
	require.NoError(t, err)
	require.Len(t, first, 2, "never more than limit records")

	// Identical store state must yield identical output on every run.
	for i := 0; i < 10; i++ {
		again, err := s.GetRelevant("cat", 2)
		require.NoError(t, err)
		require.Len(t, again, 2)
		assert.Equal(t, first[0].Base().ID, again[0].Base().ID)
		assert.Equal(t, first[1].Base().ID, again[1].Base().ID)
	}
}

func TestKeyword_AllKindsPooled(t *testing.T) {
	s := newStore(t)
	_, err := s.AddFact("f1", "the ocean is salty")
	require.NoError(t, err)
	_, err = s.AddConversation("c1", "tell me about the ocean", "user", "agent-1")
	require.NoError(t, err)
	_, err = s.AddReflection("r1", "user is curious about the ocean", []string{"c1"})
	require.NoError(t, err)

	got, err := s.GetRelevant("ocean", 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestKeyword_EmptyQueryMatchesNothing(t *testing.T) {
	r := NewKeyword()
	records := []core.Record{
		core.Fact{Item: core.Item{ID: "f1", Content: "anything", Importance: 1.0}},
	}
	assert.Empty(t, r.Rank("", records, 5))
	assert.Empty(t, r.Rank("   ", records, 5))
}
