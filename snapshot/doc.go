// Package snapshot serializes a memory store to its durable JSON document
// and restores it. The document shape is part of the external interface:
// a top-level object with agent_id and three id-keyed collections (facts,
// conversations, reflections), created_at rendered as ISO-8601 text.
//
// Decode tolerates partially broken legacy documents: conversation and
// reflection entries with missing fields are skipped (logged, non-fatal)
// or repaired with defaults, while a malformed fact entry fails the whole
// decode with the offending id. File writes go through a temp-then-rename
// path so a partial snapshot is never observable on disk.
package snapshot
