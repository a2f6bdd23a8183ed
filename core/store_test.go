package core

import (
	"errors"
	"testing"
)

func TestStore_AddFactRetrievableByKind(t *testing.T) {
	s := NewStore("agent-1")

	fact, err := s.AddFact("f1", "water freezes at 0 C")
	if err != nil {
		t.Fatalf("AddFact failed: %v", err)
	}
	if fact.ID != "f1" || fact.Importance != 1.0 {
		t.Fatalf("unexpected fact: %+v", fact)
	}
	if fact.CreatedAt.IsZero() {
		t.Error("CreatedAt should be stamped at construction")
	}

	if _, ok := s.Fact("f1"); !ok {
		t.Error("fact should be retrievable from the fact collection")
	}
	// Ids are scoped per kind; the other collections must not see it.
	if _, ok := s.Conversation("f1"); ok {
		t.Error("fact id must not resolve in the conversation collection")
	}
	if _, ok := s.Reflection("f1"); ok {
		t.Error("fact id must not resolve in the reflection collection")
	}
}

func TestStore_KindScopedIDs(t *testing.T) {
	s := NewStore("agent-1")
	if _, err := s.AddFact("x", "a fact"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddConversation("x", "an exchange", "user", "agent-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddReflection("x", "an insight", nil); err != nil {
		t.Fatal(err)
	}
	// Same id in all three collections is three distinct records.
	if s.Size() != 3 {
		t.Fatalf("expected 3 records, got %d", s.Size())
	}
}

func TestStore_OverwriteReplacesEntirely(t *testing.T) {
	s := NewStore("agent-1")
	_, err := s.AddFact("f1", "old", func(o *RecordOptions) {
		o.Importance = 0.4
		o.Metadata = map[string]any{"source": "legacy"}
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.AddFact("f1", "new"); err != nil {
		t.Fatal(err)
	}

	got, ok := s.Fact("f1")
	if !ok {
		t.Fatal("fact missing after overwrite")
	}
	if got.Content != "new" {
		t.Errorf("content not replaced: %q", got.Content)
	}
	if got.Importance != 1.0 {
		t.Errorf("old importance leaked through overwrite: %v", got.Importance)
	}
	if len(got.Metadata) != 0 {
		t.Errorf("old metadata leaked through overwrite: %#v", got.Metadata)
	}
	if s.Size() != 1 {
		t.Errorf("overwrite must not append, size=%d", s.Size())
	}
}

func TestStore_AddValidation(t *testing.T) {
	s := NewStore("agent-1")

	if _, err := s.AddFact("", "content"); !errors.Is(err, ErrEmptyID) {
		t.Errorf("expected ErrEmptyID, got %v", err)
	}
	_, err := s.AddFact("f1", "content", func(o *RecordOptions) { o.Importance = 1.5 })
	if !errors.Is(err, ErrInvalidImportance) {
		t.Errorf("expected ErrInvalidImportance, got %v", err)
	}
	// Failed adds must not mutate the store.
	if s.Size() != 0 {
		t.Errorf("store mutated by rejected add, size=%d", s.Size())
	}
}

func TestStore_MetadataIsolation(t *testing.T) {
	s := NewStore("agent-1")
	meta := map[string]any{"topic": "physics"}
	if _, err := s.AddFact("f1", "content", func(o *RecordOptions) { o.Metadata = meta }); err != nil {
		t.Fatal(err)
	}

	meta["topic"] = "changed"
	got, _ := s.Fact("f1")
	if got.Metadata["topic"] != "physics" {
		t.Error("metadata must be copied on insert")
	}

	got.Metadata["topic"] = "mutated"
	again, _ := s.Fact("f1")
	if again.Metadata["topic"] != "physics" {
		t.Error("metadata must be copied on read")
	}
}

func TestStore_RecordsPoolOrder(t *testing.T) {
	s := NewStore("agent-1")
	_, _ = s.AddReflection("r1", "insight", []string{"f1"})
	_, _ = s.AddFact("f2", "second fact")
	_, _ = s.AddFact("f1", "first fact")
	_, _ = s.AddConversation("c1", "hello", "user", "agent-1")

	ids := []string{}
	for _, rec := range s.Records() {
		ids = append(ids, rec.Base().ID)
	}
	want := []string{"f1", "f2", "c1", "r1"}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("pool order mismatch: expected %v, got %v", want, ids)
		}
	}
}

func TestStore_GetRelevantDelegatesToRanker(t *testing.T) {
	var sawQuery string
	var sawLimit int
	stub := RankerFunc(func(query string, records []Record, limit int) []Record {
		sawQuery = query
		sawLimit = limit
		return records[:1]
	})

	s := NewStore("agent-1", func(o *StoreOptions) { o.Ranker = stub })
	if _, err := s.AddFact("f1", "content"); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetRelevant("the query", 3)
	if err != nil {
		t.Fatalf("GetRelevant failed: %v", err)
	}
	if len(got) != 1 || sawQuery != "the query" || sawLimit != 3 {
		t.Fatalf("ranker not invoked as expected: %d results, query=%q limit=%d", len(got), sawQuery, sawLimit)
	}
}

func TestStore_GetRelevantLimits(t *testing.T) {
	s := NewStore("agent-1", func(o *StoreOptions) {
		o.Ranker = RankerFunc(func(_ string, records []Record, limit int) []Record { return records })
	})
	_, _ = s.AddFact("f1", "content")

	if _, err := s.GetRelevant("q", -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	got, err := s.GetRelevant("q", 0)
	if err != nil {
		t.Fatalf("limit 0 should not error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("limit 0 must return an empty sequence, got %d", len(got))
	}
}

func TestStore_GetRelevantWithoutRanker(t *testing.T) {
	s := NewStore("agent-1")
	if _, err := s.GetRelevant("q", 5); !errors.Is(err, ErrNoRanker) {
		t.Errorf("expected ErrNoRanker, got %v", err)
	}
}

func TestRestoreStore_UnknownKind(t *testing.T) {
	if _, err := RestoreStore("agent-1", []Record{unknownRecord{}}); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

type unknownRecord struct{}

func (unknownRecord) Kind() Kind { return Kind("mystery") }
func (unknownRecord) Base() Item { return Item{} }
