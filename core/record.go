package core

import "time"

// Kind discriminates the record variants held by a Store. Rendering and
// snapshot encoding dispatch on Kind, never on field presence.
type Kind string

const (
	// KindFact marks a standalone assertion.
	KindFact Kind = "fact"
	// KindConversation marks a remembered conversation exchange.
	KindConversation Kind = "conversation"
	// KindReflection marks an insight derived from other records.
	KindReflection Kind = "reflection"
)

// Item holds the fields shared by every record variant. Concrete variants
// embed it and add their kind-specific fields.
type Item struct {
	// Record identifier, unique within its owning store and kind.
	ID string
	// Free-form text payload.
	Content string
	// Stamped at construction, immutable thereafter.
	CreatedAt time.Time
	// Caller-assigned weight in [0.0, 1.0]; no automatic decay.
	Importance float64
	// Opaque key/value annotations.
	Metadata map[string]any
}

// Base implements the Record interface for all embedding variants.
func (i Item) Base() Item { return i }

// Fact is a standalone assertion with no extra fields.
type Fact struct {
	Item
}

// Kind implements the Record interface for Fact.
func (Fact) Kind() Kind { return KindFact }

// Conversation remembers a single exchange between two participants.
// Sender and Receiver are opaque identifiers ("user" or an agent id).
type Conversation struct {
	Item
	Sender   string
	Receiver string
}

// Kind implements the Record interface for Conversation.
func (Conversation) Kind() Kind { return KindConversation }

// Reflection is an insight derived from earlier records. RelatedMemories
// holds the ids it was derived from as weak references: they are not
// validated against the store and may dangle.
type Reflection struct {
	Item
	RelatedMemories []string
}

// Kind implements the Record interface for Reflection.
func (Reflection) Kind() Kind { return KindReflection }

// Record is the closed set of memory record variants. Concrete types are
// Fact, Conversation and Reflection; consumers switch on Kind() to recover
// the variant-specific fields.
type Record interface {
	Kind() Kind
	Base() Item
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	cp := make(map[string]any, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

func cloneStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	cp := make([]string, len(s))
	copy(cp, s)
	return cp
}
