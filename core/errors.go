package core

import "errors"

var (
	// ErrInvalidLimit is returned when a retrieval limit is negative.
	ErrInvalidLimit = errors.New("limit must not be negative")

	// ErrInvalidImportance is returned when an importance value falls
	// outside the [0.0, 1.0] range.
	ErrInvalidImportance = errors.New("importance must be between 0.0 and 1.0")

	// ErrEmptyID is returned when a record is added with an empty id.
	ErrEmptyID = errors.New("record id must not be empty")

	// ErrUnknownKind is returned when a record of an unrecognized kind is
	// restored into a store.
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrNoRanker is returned by retrieval when the store was built
	// without a Ranker.
	ErrNoRanker = errors.New("no ranker configured")
)
