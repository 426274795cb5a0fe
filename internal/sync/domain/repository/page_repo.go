package repository

import (
	"context"

	"notion-sync/internal/sync/domain/model"
)

// PageRepository defines the port to the target tabular store.
type PageRepository interface {
	// FindByFirebaseID queries the target database for the row whose
	// firebase_id property equals the given identifier exactly. It
	// returns at most one match (first result of a size-1 page) and
	// (nil, nil) when no row matches.
	FindByFirebaseID(ctx context.Context, firebaseID string) (*model.Page, error)

	// CreatePage creates a new row with the given properties.
	CreatePage(ctx context.Context, props model.PageProperties) (*model.Page, error)

	// UpdatePage replaces the row's properties and sets its archived
	// flag. Passing archived=false un-archives a previously archived
	// row.
	UpdatePage(ctx context.Context, pageID string, props model.PageProperties, archived bool) error

	// ArchivePage soft-deletes a row. The row is never physically
	// removed.
	ArchivePage(ctx context.Context, pageID string) error

	// ListAllPages paginates through the entire target database and
	// returns every row, including archived ones.
	ListAllPages(ctx context.Context) ([]model.Page, error)
}
