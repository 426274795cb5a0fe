package repository

import (
	"context"

	"notion-sync/internal/sync/domain/model"
)

// NoteRepository defines the port to the source document store.
type NoteRepository interface {
	// ListNotes returns a snapshot of the notes collection. When
	// ownerUID is non-empty the query is filtered by equality on the
	// document's "uid" field.
	ListNotes(ctx context.Context, ownerUID string) ([]model.Note, error)
}
