package agentrecall

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentrecall/model"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	dir := t.TempDir()
	return New(func(o *Options) {
		o.StorageDir = dir
		o.Generator = model.GeneratorFunc(func(_ context.Context, prompt, _ string) (string, error) {
			return "echo: " + prompt, nil
		})
	})
}

func TestManagerCreateAndGet(t *testing.T) {
	m := newTestManager(t)

	a, err := m.CreateAgent("helper", "I am a test agent.")
	require.NoError(t, err)
	assert.Equal(t, "helper", a.Name())
	assert.Equal(t, "I am a test agent.", a.Persona())

	got, err := m.Agent(a.ID())
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = m.Agent("missing")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestManagerListAgents(t *testing.T) {
	m := newTestManager(t)

	a, err := m.CreateAgent("alpha", "")
	require.NoError(t, err)
	b, err := m.CreateAgent("beta", "")
	require.NoError(t, err)

	ids, err := m.ListAgents()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID(), b.ID()}, ids)
	assert.IsIncreasing(t, ids)
}

func TestManagerSendMessagePersists(t *testing.T) {
	dir := t.TempDir()
	m := New(func(o *Options) {
		o.StorageDir = dir
		o.Generator = model.GeneratorFunc(func(_ context.Context, prompt, _ string) (string, error) {
			return "echo: " + prompt, nil
		})
	})

	a, err := m.CreateAgent("helper", "I am a test agent.")
	require.NoError(t, err)

	response, err := m.SendMessage(context.Background(), a.ID(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", response)

	// Both durable files exist after the turn.
	assert.FileExists(t, filepath.Join(dir, a.ID(), "metadata.json"))
	assert.FileExists(t, filepath.Join(dir, a.ID(), "memory.json"))

	// A fresh manager over the same directory sees the agent with its
	// history and memories intact.
	m2 := New(func(o *Options) { o.StorageDir = dir })

	ids, err := m2.ListAgents()
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID()}, ids)

	reloaded, err := m2.Agent(a.ID())
	require.NoError(t, err)
	assert.Equal(t, "helper", reloaded.Name())
	assert.Equal(t, "I am a test agent.", reloaded.Persona())
	require.Len(t, reloaded.History(), 2)
	assert.Equal(t, "hello", reloaded.History()[0].Content)

	conv, ok := reloaded.Memory().Conversation("conv_1")
	require.True(t, ok)
	assert.Equal(t, "hello", conv.Content)
	assert.Len(t, reloaded.Memory().Reflections(), 1)
}

func TestManagerSendMessageUnknownAgent(t *testing.T) {
	m := newTestManager(t)

	_, err := m.SendMessage(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestManagerDeleteAgent(t *testing.T) {
	dir := t.TempDir()
	m := New(func(o *Options) { o.StorageDir = dir })

	a, err := m.CreateAgent("helper", "")
	require.NoError(t, err)

	require.NoError(t, m.DeleteAgent(a.ID()))

	_, err = m.Agent(a.ID())
	assert.ErrorIs(t, err, ErrAgentNotFound)

	_, err = os.Stat(filepath.Join(dir, a.ID()))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, m.DeleteAgent(a.ID()), ErrAgentNotFound)
}

func TestManagerSaveAll(t *testing.T) {
	dir := t.TempDir()
	m := New(func(o *Options) { o.StorageDir = dir })

	a, err := m.CreateAgent("helper", "")
	require.NoError(t, err)

	_, err = a.Memory().AddFact("f1", "The sky is blue")
	require.NoError(t, err)
	require.NoError(t, m.SaveAll())

	m2 := New(func(o *Options) { o.StorageDir = dir })
	reloaded, err := m2.Agent(a.ID())
	require.NoError(t, err)

	fact, ok := reloaded.Memory().Fact("f1")
	require.True(t, ok)
	assert.Equal(t, "The sky is blue", fact.Content)
}

func TestManagerLoadWithoutSnapshot(t *testing.T) {
	dir := t.TempDir()
	m := New(func(o *Options) { o.StorageDir = dir })

	a, err := m.CreateAgent("helper", "")
	require.NoError(t, err)

	// An agent whose snapshot went missing still loads with empty memory.
	require.NoError(t, os.Remove(filepath.Join(dir, a.ID(), "memory.json")))

	m2 := New(func(o *Options) { o.StorageDir = dir })
	reloaded, err := m2.Agent(a.ID())
	require.NoError(t, err)
	assert.Zero(t, reloaded.Memory().Size())
}
