package repository

import (
	"context"
	"encoding/json"
)

// Loader reads a slot fresh from disk on every call.
type Loader interface {
	Load(ctx context.Context, slot Slot) (Document, error)
}

// Saver fully replaces a slot's file with the pretty-printed value.
type Saver interface {
	Save(ctx context.Context, slot Slot, value json.RawMessage) error
}

// Repository abstracts persistence and watching of the slot files.
// JSONRepository implements this interface.
type Repository interface {
	Loader
	Saver
	Path(slot Slot) (string, error)
	Dir() (string, error)
	StartWatcher(ctx context.Context, onChange func(Slot)) error
}
