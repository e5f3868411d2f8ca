package state

import (
	"context"
	"errors"

	"news/aggregator/internal/domain"
)

// ErrNotFound is returned by Load when nothing has been persisted yet.
var ErrNotFound = errors.New("preferences not found")

// PreferencesStore persists the browsing selection between sessions.
type PreferencesStore interface {
	Load(ctx context.Context) (domain.Preferences, error)
	Save(ctx context.Context, prefs domain.Preferences) error
}
