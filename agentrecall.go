// Package agentrecall provides a high-level façade over the memory-enabled
// agent building blocks (stores, ranking, context assembly, snapshots and
// logging). Most applications interact with this package by:
//  1. Creating a Manager via New() (optionally overriding the storage
//     directory, generation capability, ranker or logger)
//  2. Creating one or more named agents with personas
//  3. Sending messages with SendMessage, which records the exchange into the
//     agent's memory and persists it to disk
//
// The façade delegates the per-turn pipeline to the agent package while
// keeping setup and usage ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a real
// model backend and a structured logger.
package agentrecall

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/agentrecall/agent"
	"github.com/hupe1980/agentrecall/core"
	"github.com/hupe1980/agentrecall/logging"
	"github.com/hupe1980/agentrecall/model"
	"github.com/hupe1980/agentrecall/prompt"
	"github.com/hupe1980/agentrecall/rank"
)

// ErrAgentNotFound is returned when the requested agent exists neither in
// memory nor on disk.
var ErrAgentNotFound = errors.New("agent not found")

// Options configures the Manager.
type Options struct {
	// StorageDir is the root directory for durable agent state. Each agent
	// gets its own subdirectory. Defaults to "./data/agents".
	StorageDir string

	// Generator is the generation capability shared by all managed agents.
	// Defaults to the offline MockGenerator.
	Generator model.Generator

	// Ranker used for memory retrieval. Defaults to keyword ranking.
	Ranker core.Ranker

	// ContextTokenLimit bounds each agent's assembled context.
	ContextTokenLimit int

	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Manager owns a collection of memory-enabled agents and their durable
// state. Agents are loaded from disk on first access and written back after
// every turn. All Manager methods are safe for concurrent use.
type Manager struct {
	mu      sync.Mutex
	opts    Options
	storage *diskStore
	agents  map[string]*agent.Agent
}

// New creates a Manager with optional overrides. Any unset option falls back
// to a default suitable for local development.
func New(optFns ...func(o *Options)) *Manager {
	opts := Options{
		StorageDir:        "./data/agents",
		Generator:         &model.MockGenerator{},
		Logger:            logging.NoOpLogger{},
		ContextTokenLimit: prompt.DefaultTokenLimit,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Ranker == nil {
		opts.Ranker = rank.NewKeyword()
	}

	return &Manager{
		opts: opts,
		storage: &diskStore{
			root:   opts.StorageDir,
			logger: opts.Logger,
			ranker: opts.Ranker,
		},
		agents: map[string]*agent.Agent{},
	}
}

// CreateAgent creates a new agent with the given display name and persona,
// persists it and returns it. An empty persona keeps the agent default.
func (m *Manager) CreateAgent(name, persona string) (*agent.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := agent.New(name, m.opts.Generator, func(o *agent.Options) {
		if persona != "" {
			o.Persona = persona
		}
		o.Ranker = m.opts.Ranker
		o.Logger = m.opts.Logger
		o.ContextTokenLimit = m.opts.ContextTokenLimit
	})

	if err := m.storage.save(a); err != nil {
		return nil, err
	}

	m.agents[a.ID()] = a
	m.opts.Logger.Info("agent created", "agent_id", a.ID(), "name", name)

	return a, nil
}

// Agent returns the agent with the given id, loading it from disk when it is
// not yet resident. Returns ErrAgentNotFound for unknown ids.
func (m *Manager) Agent(id string) (*agent.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agentLocked(id)
}

func (m *Manager) agentLocked(id string) (*agent.Agent, error) {
	if a, ok := m.agents[id]; ok {
		return a, nil
	}

	a, err := m.storage.load(id, m.opts.Generator, m.opts.ContextTokenLimit)
	if err != nil {
		return nil, err
	}

	m.agents[id] = a
	return a, nil
}

// ListAgents returns the sorted ids of all known agents, resident and
// persisted alike.
func (m *Manager) ListAgents() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids, err := m.storage.listIDs()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	for id := range m.agents {
		if _, ok := seen[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return ids, nil
}

// DeleteAgent evicts the agent and removes its durable state. Deleting an
// unknown agent is an error.
func (m *Manager) DeleteAgent(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.agentLocked(id); err != nil {
		return err
	}

	delete(m.agents, id)
	if err := m.storage.delete(id); err != nil {
		return err
	}

	m.opts.Logger.Info("agent deleted", "agent_id", id)

	return nil
}

// SendMessage runs one conversational turn against the agent identified by
// id and persists the resulting state before returning the response.
func (m *Manager) SendMessage(ctx context.Context, id, message string) (string, error) {
	m.mu.Lock()
	a, err := m.agentLocked(id)
	m.mu.Unlock()
	if err != nil {
		return "", err
	}

	response, err := a.GenerateResponse(ctx, message)
	if err != nil {
		return "", err
	}

	if err := m.storage.save(a); err != nil {
		return "", fmt.Errorf("persist agent %s: %w", id, err)
	}

	return response, nil
}

// SaveAll persists every resident agent. Agents that were never loaded are
// already on disk and untouched.
func (m *Manager) SaveAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, a := range m.agents {
		if err := m.storage.save(a); err != nil {
			return fmt.Errorf("persist agent %s: %w", id, err)
		}
	}

	return nil
}
