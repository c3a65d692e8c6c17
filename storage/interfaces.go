package storage

import (
	"context"

	"c3speakers/models"
)

// SnapshotStore is durable keyed storage for the speakers of one congress.
// Writes never overwrite a value that is already stored.
type SnapshotStore interface {
	// EnsureSchema creates the speakers table if it does not exist yet.
	EnsureSchema(ctx context.Context) error
	// Read returns id -> value for every speaker with a non-empty attribute.
	Read(ctx context.Context, attr models.Attribute) (map[string]string, error)
	// WriteNames inserts speakers whose id is not stored yet.
	WriteNames(ctx context.Context, names map[string]string) error
	// WriteHandles sets handles for stored speakers that have none yet.
	WriteHandles(ctx context.Context, handles map[string]string) error
	// ReadAll returns every stored speaker ordered by id.
	ReadAll(ctx context.Context) ([]models.Speaker, error)
	// Name describes where the snapshot lives.
	Name() string
}

// SpeakerWriter is the interface for exporting a snapshot.
type SpeakerWriter interface {
	Write(speakers []models.Speaker) error
	Close() error
}
