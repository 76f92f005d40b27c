package access

import (
	"context"

	"github.com/Jasmitha1474/women-safety-app/internal/models"
	"github.com/Jasmitha1474/women-safety-app/internal/profile"
)

// Editor exposes profile reads and writes only while the gate is unlocked.
type Editor struct {
	gate  *Gate
	store *profile.Store
}

func NewEditor(gate *Gate, store *profile.Store) *Editor {
	return &Editor{gate: gate, store: store}
}

func (e *Editor) Profile() (models.UserProfile, error) {
	if !e.gate.Unlocked() {
		return models.UserProfile{}, ErrLocked
	}
	return e.store.Snapshot(), nil
}

func (e *Editor) Save(ctx context.Context, c profile.Candidate) (models.UserProfile, error) {
	if !e.gate.Unlocked() {
		return models.UserProfile{}, ErrLocked
	}
	return e.store.Save(ctx, c)
}

func (e *Editor) Clear(ctx context.Context) error {
	if !e.gate.Unlocked() {
		return ErrLocked
	}
	return e.store.Clear(ctx)
}
