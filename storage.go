package agentrecall

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hupe1980/agentrecall/agent"
	"github.com/hupe1980/agentrecall/core"
	"github.com/hupe1980/agentrecall/internal/util"
	"github.com/hupe1980/agentrecall/logging"
	"github.com/hupe1980/agentrecall/model"
	"github.com/hupe1980/agentrecall/snapshot"
)

const (
	metadataFile = "metadata.json"
	memoryFile   = "memory.json"
)

// diskStore persists agents under <root>/<agent id>/ as a metadata document
// plus a memory snapshot. Both files are written atomically, so a crash mid
// save leaves the previous consistent pair in place.
type diskStore struct {
	root   string
	logger logging.Logger
	ranker core.Ranker
}

func (s *diskStore) agentDir(id string) string {
	return filepath.Join(s.root, id)
}

func (s *diskStore) save(a *agent.Agent) error {
	meta, doc := a.Export()

	dir := s.agentDir(meta.AgentID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create agent dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := util.WriteFileAtomic(filepath.Join(dir, metadataFile), data, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	if err := snapshot.SaveDocument(doc, filepath.Join(dir, memoryFile)); err != nil {
		return fmt.Errorf("write memory snapshot: %w", err)
	}

	return nil
}

func (s *diskStore) load(id string, generator model.Generator, tokenLimit int) (*agent.Agent, error) {
	data, err := os.ReadFile(filepath.Join(s.agentDir(id), metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("read metadata for %s: %w", id, err)
	}

	var meta agent.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", id, err)
	}

	store, err := snapshot.Load(filepath.Join(s.agentDir(id), memoryFile), func(o *snapshot.Options) {
		o.Logger = s.logger
		o.Ranker = s.ranker
	})
	if err != nil {
		// A missing snapshot is an agent that never recorded a memory;
		// anything else is a real defect.
		if !errors.Is(err, snapshot.ErrNotFound) {
			return nil, fmt.Errorf("load memory for %s: %w", id, err)
		}
		store = nil
	}

	return agent.New(meta.Name, generator, func(o *agent.Options) {
		o.ID = meta.AgentID
		o.Persona = meta.Persona
		o.CreatedAt = meta.CreatedAt
		o.History = meta.ConversationHistory
		o.Store = store
		o.Ranker = s.ranker
		o.Logger = s.logger
		o.ContextTokenLimit = tokenLimit
	}), nil
}

func (s *diskStore) delete(id string) error {
	if err := os.RemoveAll(s.agentDir(id)); err != nil {
		return fmt.Errorf("delete agent dir %s: %w", id, err)
	}
	return nil
}

func (s *diskStore) listIDs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list agent dirs: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.root, entry.Name(), metadataFile)); err != nil {
			continue
		}
		ids = append(ids, entry.Name())
	}
	sort.Strings(ids)
	return ids, nil
}
