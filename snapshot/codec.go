package snapshot

import (
	"time"

	"github.com/hupe1980/agentrecall/core"
	"github.com/hupe1980/agentrecall/logging"
)

// Document is the JSON-equivalent durable form of a memory store. Ids appear
// both as collection keys and inside each entry; on decode the entry id wins
// when present, the key otherwise.
type Document struct {
	AgentID       string                     `json:"agent_id"`
	Facts         map[string]RecordDoc       `json:"facts"`
	Conversations map[string]ConversationDoc `json:"conversations"`
	Reflections   map[string]ReflectionDoc   `json:"reflections"`
}

// RecordDoc carries the fields shared by every serialized record. Pointer
// fields distinguish absent from zero-valued entries during validation.
type RecordDoc struct {
	ID         string         `json:"id"`
	Content    *string        `json:"content"`
	CreatedAt  string         `json:"created_at,omitempty"`
	Importance *float64       `json:"importance,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// ConversationDoc is the serialized form of a conversation record.
type ConversationDoc struct {
	RecordDoc
	Sender   *string `json:"sender,omitempty"`
	Receiver *string `json:"receiver,omitempty"`
}

// ReflectionDoc is the serialized form of a reflection record.
type ReflectionDoc struct {
	RecordDoc
	RelatedMemories []string `json:"related_memories"`
}

// Options configures decoding and snapshot file loading.
type Options struct {
	// Logger receives warnings for skipped entries. Defaults to NoOpLogger.
	Logger logging.Logger
	// Ranker wired into the restored store.
	Ranker core.Ranker
}

func newRecordDoc(item core.Item) RecordDoc {
	content := item.Content
	importance := item.Importance
	meta := item.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return RecordDoc{
		ID:         item.ID,
		Content:    &content,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339Nano),
		Importance: &importance,
		Metadata:   meta,
	}
}

// Encode produces the durable document for a store. The result shares no
// mutable state with the store.
func Encode(store *core.Store) Document {
	doc := Document{
		AgentID:       store.AgentID(),
		Facts:         make(map[string]RecordDoc),
		Conversations: make(map[string]ConversationDoc),
		Reflections:   make(map[string]ReflectionDoc),
	}
	for _, f := range store.Facts() {
		doc.Facts[f.ID] = newRecordDoc(f.Item)
	}
	for _, c := range store.Conversations() {
		sender, receiver := c.Sender, c.Receiver
		doc.Conversations[c.ID] = ConversationDoc{
			RecordDoc: newRecordDoc(c.Item),
			Sender:    &sender,
			Receiver:  &receiver,
		}
	}
	for _, r := range store.Reflections() {
		related := r.RelatedMemories
		if related == nil {
			related = []string{}
		}
		doc.Reflections[r.ID] = ReflectionDoc{
			RecordDoc:       newRecordDoc(r.Item),
			RelatedMemories: related,
		}
	}
	return doc
}

// timestampLayouts covers RFC 3339 plus the zone-less ISO-8601 form written
// by older snapshot producers.
var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"}

func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		// Legacy entries without a timestamp are stamped at decode time.
		return time.Now().UTC(), true
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// decodeItem validates the shared fields of an entry. The returned reason is
// empty on success.
func decodeItem(key string, d RecordDoc) (core.Item, string) {
	id := d.ID
	if id == "" {
		id = key
	}
	if d.Content == nil {
		return core.Item{}, "missing content"
	}
	ts, ok := parseTimestamp(d.CreatedAt)
	if !ok {
		return core.Item{}, "unparsable created_at " + d.CreatedAt
	}
	importance := 1.0
	if d.Importance != nil {
		importance = *d.Importance
	}
	meta := d.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return core.Item{
		ID:         id,
		Content:    *d.Content,
		CreatedAt:  ts,
		Importance: importance,
		Metadata:   meta,
	}, ""
}

// Decode reconstructs a store from its durable document. A malformed fact
// entry aborts the decode with a MalformedError naming the offending id;
// malformed conversation and reflection entries are skipped with a warning,
// and reflections missing related_memories default to an empty sequence.
func Decode(doc Document, optFns ...func(o *Options)) (*core.Store, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	records := make([]core.Record, 0, len(doc.Facts)+len(doc.Conversations)+len(doc.Reflections))

	for key, d := range doc.Facts {
		item, reason := decodeItem(key, d)
		if reason != "" {
			return nil, &MalformedError{Kind: core.KindFact, ID: idOrKey(d.ID, key), Reason: reason}
		}
		records = append(records, core.Fact{Item: item})
	}

	for key, d := range doc.Conversations {
		if d.Sender == nil || d.Receiver == nil {
			opts.Logger.Warn("skipping conversation entry missing sender or receiver", "id", idOrKey(d.ID, key))
			continue
		}
		item, reason := decodeItem(key, d.RecordDoc)
		if reason != "" {
			opts.Logger.Warn("skipping malformed conversation entry", "id", idOrKey(d.ID, key), "reason", reason)
			continue
		}
		records = append(records, core.Conversation{Item: item, Sender: *d.Sender, Receiver: *d.Receiver})
	}

	for key, d := range doc.Reflections {
		item, reason := decodeItem(key, d.RecordDoc)
		if reason != "" {
			opts.Logger.Warn("skipping malformed reflection entry", "id", idOrKey(d.ID, key), "reason", reason)
			continue
		}
		related := d.RelatedMemories
		if related == nil {
			related = []string{}
		}
		records = append(records, core.Reflection{Item: item, RelatedMemories: related})
	}

	return core.RestoreStore(doc.AgentID, records, func(o *core.StoreOptions) { o.Ranker = opts.Ranker })
}

func idOrKey(id, key string) string {
	if id != "" {
		return id
	}
	return key
}
