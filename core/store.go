package core

import (
	"sort"
	"time"
)

// RecordOptions configures construction of a single record.
type RecordOptions struct {
	// Importance in [0.0, 1.0]. Defaults to 1.0.
	Importance float64
	// Metadata annotations. Defaults to an empty map; copied on insert.
	Metadata map[string]any
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Ranker used by GetRelevant. Required for retrieval; typically
	// rank.NewKeyword(). Left nil, GetRelevant returns ErrNoRanker.
	Ranker Ranker
}

// Store owns the memory records of exactly one agent. It keeps three
// independent id-keyed collections (facts, conversations, reflections); ids
// are unique only within their own collection. Records enter a Store only
// through the Add* operations or via RestoreStore; adding under an existing
// id silently replaces the prior record (overwrite, not append).
//
// Concurrency: a Store performs no internal locking. It is designed for
// single-writer-per-agent access; the surrounding layer (see agent.Agent)
// must serialize mutations for a given agent. Stores of different agents
// are fully independent.
type Store struct {
	agentID       string
	facts         map[string]Fact
	conversations map[string]Conversation
	reflections   map[string]Reflection
	ranker        Ranker
}

// NewStore creates an empty Store owned by the given agent.
func NewStore(agentID string, optFns ...func(o *StoreOptions)) *Store {
	opts := StoreOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		agentID:       agentID,
		facts:         make(map[string]Fact),
		conversations: make(map[string]Conversation),
		reflections:   make(map[string]Reflection),
		ranker:        opts.Ranker,
	}
}

// RestoreStore rebuilds a Store from previously constructed records, keeping
// their original timestamps. It is the snapshot decode path; interactive
// callers use the Add* operations instead. Records of an unknown kind are
// rejected with ErrUnknownKind before any are inserted.
func RestoreStore(agentID string, records []Record, optFns ...func(o *StoreOptions)) (*Store, error) {
	for _, rec := range records {
		switch rec.(type) {
		case Fact, Conversation, Reflection:
		default:
			return nil, ErrUnknownKind
		}
	}
	s := NewStore(agentID, optFns...)
	for _, rec := range records {
		switch r := rec.(type) {
		case Fact:
			s.facts[r.ID] = r
		case Conversation:
			s.conversations[r.ID] = r
		case Reflection:
			s.reflections[r.ID] = r
		}
	}
	return s, nil
}

// AgentID returns the id of the agent owning this store.
func (s *Store) AgentID() string { return s.agentID }

func newItem(id, content string, opts RecordOptions) Item {
	return Item{
		ID:         id,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		Importance: opts.Importance,
		Metadata:   cloneMetadata(opts.Metadata),
	}
}

func recordOptions(optFns []func(o *RecordOptions)) (RecordOptions, error) {
	opts := RecordOptions{Importance: 1.0}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Importance < 0.0 || opts.Importance > 1.0 {
		return RecordOptions{}, ErrInvalidImportance
	}
	return opts, nil
}

// AddFact constructs a Fact and inserts it under id, replacing any prior
// fact with the same id. The created record is returned.
func (s *Store) AddFact(id, content string, optFns ...func(o *RecordOptions)) (Fact, error) {
	if id == "" {
		return Fact{}, ErrEmptyID
	}
	opts, err := recordOptions(optFns)
	if err != nil {
		return Fact{}, err
	}
	fact := Fact{Item: newItem(id, content, opts)}
	s.facts[id] = fact
	return fact, nil
}

// AddConversation constructs a Conversation record and inserts it under id,
// replacing any prior conversation with the same id.
func (s *Store) AddConversation(id, content, sender, receiver string, optFns ...func(o *RecordOptions)) (Conversation, error) {
	if id == "" {
		return Conversation{}, ErrEmptyID
	}
	opts, err := recordOptions(optFns)
	if err != nil {
		return Conversation{}, err
	}
	conv := Conversation{Item: newItem(id, content, opts), Sender: sender, Receiver: receiver}
	s.conversations[id] = conv
	return conv, nil
}

// AddReflection constructs a Reflection linked to the given record ids and
// inserts it under id, replacing any prior reflection with the same id.
// Related ids are weak references and are not validated against the store.
func (s *Store) AddReflection(id, content string, related []string, optFns ...func(o *RecordOptions)) (Reflection, error) {
	if id == "" {
		return Reflection{}, ErrEmptyID
	}
	opts, err := recordOptions(optFns)
	if err != nil {
		return Reflection{}, err
	}
	refl := Reflection{Item: newItem(id, content, opts), RelatedMemories: cloneStrings(related)}
	s.reflections[id] = refl
	return refl, nil
}

// Fact returns the fact stored under id, if any.
func (s *Store) Fact(id string) (Fact, bool) {
	f, ok := s.facts[id]
	if ok {
		f.Metadata = cloneMetadata(f.Metadata)
	}
	return f, ok
}

// Conversation returns the conversation stored under id, if any.
func (s *Store) Conversation(id string) (Conversation, bool) {
	c, ok := s.conversations[id]
	if ok {
		c.Metadata = cloneMetadata(c.Metadata)
	}
	return c, ok
}

// Reflection returns the reflection stored under id, if any.
func (s *Store) Reflection(id string) (Reflection, bool) {
	r, ok := s.reflections[id]
	if ok {
		r.Metadata = cloneMetadata(r.Metadata)
		r.RelatedMemories = cloneStrings(r.RelatedMemories)
	}
	return r, ok
}

// Facts returns all facts sorted by id. The slice and metadata maps are
// copies safe for caller mutation.
func (s *Store) Facts() []Fact {
	out := make([]Fact, 0, len(s.facts))
	for _, f := range s.facts {
		f.Metadata = cloneMetadata(f.Metadata)
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Conversations returns all conversation records sorted by id.
func (s *Store) Conversations() []Conversation {
	out := make([]Conversation, 0, len(s.conversations))
	for _, c := range s.conversations {
		c.Metadata = cloneMetadata(c.Metadata)
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Reflections returns all reflection records sorted by id.
func (s *Store) Reflections() []Reflection {
	out := make([]Reflection, 0, len(s.reflections))
	for _, r := range s.reflections {
		r.Metadata = cloneMetadata(r.Metadata)
		r.RelatedMemories = cloneStrings(r.RelatedMemories)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Records pools all three collections into one slice: facts, then
// conversations, then reflections, each sorted by id. The fixed order makes
// downstream stable sorts deterministic for identical store state.
func (s *Store) Records() []Record {
	out := make([]Record, 0, s.Size())
	for _, f := range s.Facts() {
		out = append(out, f)
	}
	for _, c := range s.Conversations() {
		out = append(out, c)
	}
	for _, r := range s.Reflections() {
		out = append(out, r)
	}
	return out
}

// Size returns the total number of records across all three collections.
func (s *Store) Size() int {
	return len(s.facts) + len(s.conversations) + len(s.reflections)
}

// GetRelevant returns at most limit records relevant to the query, ordered
// by the configured Ranker. A limit of zero yields an empty slice; a
// negative limit is rejected with ErrInvalidLimit before any work is done.
func (s *Store) GetRelevant(query string, limit int) ([]Record, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if s.ranker == nil {
		return nil, ErrNoRanker
	}
	if limit == 0 {
		return []Record{}, nil
	}
	return s.ranker.Rank(query, s.Records(), limit), nil
}
