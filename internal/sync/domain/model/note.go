package model

// Note represents one user note fetched from the source document store.
// It is an immutable snapshot: the reconciler reads the collection once
// per run and never writes back.
//
// Tags, CreatedAt and UpdatedAt keep the raw decoded values because the
// source schema is loose: tags may be missing or not a sequence at all,
// and timestamps arrive either as native datetimes, RFC3339 strings or
// the exported `{_seconds: n}` encoding. The field mapper owns all
// coercion rules.
type Note struct {
	ID        string      `json:"id"`
	Content   string      `json:"content"`
	Tags      interface{} `json:"tags,omitempty"`
	SectionID string      `json:"sectionId,omitempty"`
	CreatedAt interface{} `json:"createdAt,omitempty"`
	UpdatedAt interface{} `json:"updatedAt,omitempty"`
}
