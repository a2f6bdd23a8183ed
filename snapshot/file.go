package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hupe1980/agentrecall/core"
	"github.com/hupe1980/agentrecall/internal/util"
)

// Save encodes the store and writes its snapshot document to path. The write
// is atomic: the document lands in a temporary file in the target directory
// and is renamed into place, so concurrent readers never see a torn file.
func Save(store *core.Store, path string) error {
	return SaveDocument(Encode(store), path)
}

// SaveDocument writes an already encoded snapshot document to path with the
// same atomic rename semantics as Save. Useful when the document was captured
// together with other state and must not be re-encoded.
func SaveDocument(doc Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := util.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads and decodes the snapshot at path. A missing file yields
// ErrNotFound; unreadable or structurally invalid documents surface as
// distinct errors and are never silently swallowed.
func Load(path string, optFns ...func(o *Options)) (*core.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return Decode(doc, optFns...)
}
