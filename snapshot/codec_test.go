package snapshot

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/agentrecall/core"
	"github.com/hupe1980/agentrecall/internal/testutil"
	"github.com/hupe1980/agentrecall/rank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingLogger captures warnings emitted for skipped entries.
type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Debug(string, ...any) {}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(msg string, args ...any) {
	l.warnings = append(l.warnings, msg)
}
func (l *recordingLogger) Error(string, ...any) {}

func seedStore(t *testing.T) *core.Store {
	t.Helper()
	return testutil.NewStoreBuilder("agent-1").
		Ranker(rank.NewKeyword()).
		FactWithMetadata("f1", "water freezes at 0 C", 0.7, map[string]any{"topic": "physics"}).
		Fact("f2", "the sky is blue", 1.0).
		Conversation("c1", "tell me about water", "user", "agent-1", 0.8).
		Reflection("r1", "user is curious about water", []string{"c1", "f1"}, 0.9).
		Build(t)
}

func TestCodec_RoundTrip(t *testing.T) {
	s := seedStore(t)

	restored, err := Decode(Encode(s))
	require.NoError(t, err)

	assert.Equal(t, "agent-1", restored.AgentID())
	require.Len(t, restored.Facts(), 2)
	require.Len(t, restored.Conversations(), 1)
	require.Len(t, restored.Reflections(), 1)

	origFact, _ := s.Fact("f1")
	gotFact, ok := restored.Fact("f1")
	require.True(t, ok)
	assert.Equal(t, origFact.Content, gotFact.Content)
	assert.Equal(t, origFact.Importance, gotFact.Importance)
	assert.Equal(t, origFact.Metadata, gotFact.Metadata)
	assert.True(t, origFact.CreatedAt.Equal(gotFact.CreatedAt), "timestamps must survive the round trip")

	gotConv, ok := restored.Conversation("c1")
	require.True(t, ok)
	assert.Equal(t, "user", gotConv.Sender)
	assert.Equal(t, "agent-1", gotConv.Receiver)

	gotRefl, ok := restored.Reflection("r1")
	require.True(t, ok)
	assert.Equal(t, []string{"c1", "f1"}, gotRefl.RelatedMemories)
}

func TestEncode_DocumentShape(t *testing.T) {
	doc := Encode(seedStore(t))

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "agent-1", raw["agent_id"])
	for _, section := range []string{"facts", "conversations", "reflections"} {
		assert.Contains(t, raw, section)
	}
	facts := raw["facts"].(map[string]any)
	f1 := facts["f1"].(map[string]any)
	created, ok := f1["created_at"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339Nano, created)
	assert.NoError(t, err, "created_at must be ISO-8601 text")
}

func TestDecode_ConversationMissingReceiverSkipped(t *testing.T) {
	doc := Encode(seedStore(t))
	entry := doc.Conversations["c1"]
	entry.Receiver = nil
	doc.Conversations["c1"] = entry

	logger := &recordingLogger{}
	restored, err := Decode(doc, func(o *Options) { o.Logger = logger })
	require.NoError(t, err, "a fixable conversation omission must not fail the decode")

	_, ok := restored.Conversation("c1")
	assert.False(t, ok, "the malformed entry must be absent from the restored store")
	require.Len(t, logger.warnings, 1)
	assert.Contains(t, logger.warnings[0], "sender or receiver")
}

func TestDecode_ReflectionMissingRelatedDefaultsEmpty(t *testing.T) {
	doc := Encode(seedStore(t))
	entry := doc.Reflections["r1"]
	entry.RelatedMemories = nil
	doc.Reflections["r1"] = entry

	restored, err := Decode(doc)
	require.NoError(t, err)

	refl, ok := restored.Reflection("r1")
	require.True(t, ok)
	assert.Equal(t, []string{}, refl.RelatedMemories)
}

func TestDecode_MalformedFactFailsWithID(t *testing.T) {
	doc := Encode(seedStore(t))
	entry := doc.Facts["f2"]
	entry.Content = nil
	doc.Facts["f2"] = entry

	_, err := Decode(doc)
	require.Error(t, err)

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, core.KindFact, malformed.Kind)
	assert.Equal(t, "f2", malformed.ID)
}

func TestDecode_LegacyTimestampWithoutZone(t *testing.T) {
	content := "a legacy fact"
	doc := Document{
		AgentID: "agent-1",
		Facts: map[string]RecordDoc{
			"f1": {ID: "f1", Content: &content, CreatedAt: "2023-04-01T12:30:45.123456"},
		},
	}

	restored, err := Decode(doc)
	require.NoError(t, err)

	fact, ok := restored.Fact("f1")
	require.True(t, ok)
	assert.Equal(t, 2023, fact.CreatedAt.Year())
	assert.Equal(t, 1.0, fact.Importance, "missing importance defaults to 1.0")
}

func TestSaveLoad_FileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "memory.json")
	s := seedStore(t)

	require.NoError(t, Save(s, path))

	// No temp files may survive a successful write.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}

	restored, err := Load(path, func(o *Options) { o.Ranker = rank.NewKeyword() })
	require.NoError(t, err)
	assert.Equal(t, s.Size(), restored.Size())

	// The restored store must be queryable through its wired ranker.
	got, err := restored.GetRelevant("water", 5)
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoad_CorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, os.WriteFile(path, []byte("{oops"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
