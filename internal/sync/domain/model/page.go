package model

import "time"

// Page represents a row in the target Notion database.
type Page struct {
	// ID is the target-assigned page identifier.
	ID string `json:"id"`
	// FirebaseID is the reconciliation key extracted from the
	// `firebase_id` rich-text property. Empty when the property is
	// absent or malformed; such rows are not managed by the reconciler.
	FirebaseID string `json:"firebaseId"`
	// Archived is the soft-delete flag. The only mutation the
	// reconciler performs on an existing row besides property updates.
	Archived bool `json:"archived"`
}

// PageProperties is the store-agnostic property set computed from a
// Note by the field mapper. The Notion adapter translates it to the
// wire representation.
type PageProperties struct {
	Title      string    `json:"title"`
	CreatedAt  time.Time `json:"createdAt"`
	Tags       []string  `json:"tags"`
	Category   string    `json:"category"`
	FirebaseID string    `json:"firebaseId"`
}

// UpsertOutcome tags the result of a single upsert.
type UpsertOutcome string

const (
	OutcomeCreated UpsertOutcome = "created"
	OutcomeUpdated UpsertOutcome = "updated"
)
