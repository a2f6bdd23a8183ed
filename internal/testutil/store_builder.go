package testutil

import (
	"testing"

	"github.com/hupe1980/agentrecall/core"
)

// StoreBuilder helps construct pre-populated memory stores with fluent
// chaining for tests. Example:
//
//	store := NewStoreBuilder("agent-1").
//		Fact("f1", "Water freezes at 0 degrees Celsius", 0.7).
//		Conversation("c1", "tell me about water", "user", "agent-1", 0.8).
//		Build(t)
type StoreBuilder struct {
	agentID string
	ranker  core.Ranker
	adds    []func(s *core.Store) error
}

// NewStoreBuilder creates a new builder for a store owned by the given agent.
// Use chainable methods (Fact, Conversation, Reflection, Ranker) then call
// Build.
func NewStoreBuilder(agentID string) *StoreBuilder {
	return &StoreBuilder{agentID: agentID}
}

// Ranker wires a ranker into the resulting store (chainable).
func (b *StoreBuilder) Ranker(r core.Ranker) *StoreBuilder {
	b.ranker = r
	return b
}

// Fact appends a fact record with the given importance (chainable).
func (b *StoreBuilder) Fact(id, content string, importance float64) *StoreBuilder {
	b.adds = append(b.adds, func(s *core.Store) error {
		_, err := s.AddFact(id, content, func(o *core.RecordOptions) {
			o.Importance = importance
		})
		return err
	})
	return b
}

// FactWithMetadata appends a fact record carrying metadata (chainable).
func (b *StoreBuilder) FactWithMetadata(id, content string, importance float64, metadata map[string]any) *StoreBuilder {
	b.adds = append(b.adds, func(s *core.Store) error {
		_, err := s.AddFact(id, content, func(o *core.RecordOptions) {
			o.Importance = importance
			o.Metadata = metadata
		})
		return err
	})
	return b
}

// Conversation appends a conversation record (chainable).
func (b *StoreBuilder) Conversation(id, content, sender, receiver string, importance float64) *StoreBuilder {
	b.adds = append(b.adds, func(s *core.Store) error {
		_, err := s.AddConversation(id, content, sender, receiver, func(o *core.RecordOptions) {
			o.Importance = importance
		})
		return err
	})
	return b
}

// Reflection appends a reflection record (chainable).
func (b *StoreBuilder) Reflection(id, content string, related []string, importance float64) *StoreBuilder {
	b.adds = append(b.adds, func(s *core.Store) error {
		_, err := s.AddReflection(id, content, related, func(o *core.RecordOptions) {
			o.Importance = importance
		})
		return err
	})
	return b
}

// Build returns the populated store, failing the test on any invalid record.
func (b *StoreBuilder) Build(t *testing.T) *core.Store {
	t.Helper()

	store := core.NewStore(b.agentID, func(o *core.StoreOptions) {
		o.Ranker = b.ranker
	})
	for _, add := range b.adds {
		if err := add(store); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}

	return store
}
