package usecase

import (
	"fmt"
	"time"

	"notion-sync/internal/sync/domain/model"
)

// Mapping limits imposed by the target store's property constraints.
const (
	titleMaxLen = 2000
	tagMaxLen   = 100

	// emptyTitlePlaceholder keeps rows with empty content visible in
	// the target database, which rejects empty titles.
	emptyTitlePlaceholder = "•"

	// defaultCategory is used when a note carries no sectionId.
	defaultCategory = "Uncategorized"
)

// MapNote computes the target property set for one source note.
// All inputs are coerced leniently: the mapping never fails, it
// degrades to placeholders and the current time instead.
func MapNote(note model.Note) model.PageProperties {
	title := truncateRunes(note.Content, titleMaxLen)
	if title == "" {
		title = emptyTitlePlaceholder
	}

	category := defaultCategory
	if note.SectionID != "" {
		category = truncateRunes(note.SectionID, tagMaxLen)
	}

	return model.PageProperties{
		Title:      title,
		CreatedAt:  coerceTimestamp(note.UpdatedAt, note.CreatedAt),
		Tags:       coerceTags(note.Tags),
		Category:   category,
		FirebaseID: note.ID,
	}
}

// coerceTags turns the raw tags value into a slice of strings. Only
// sequence inputs yield tags; anything else yields the empty set.
// Each element is stringified and truncated.
func coerceTags(raw interface{}) []string {
	var elems []interface{}
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		tags := make([]string, 0, len(v))
		for _, s := range v {
			tags = append(tags, truncateRunes(s, tagMaxLen))
		}
		return tags
	case []interface{}:
		elems = v
	default:
		return []string{}
	}

	tags := make([]string, 0, len(elems))
	for _, e := range elems {
		tags = append(tags, truncateRunes(fmt.Sprint(e), tagMaxLen))
	}
	return tags
}

// coerceTimestamp picks updatedAt when present, otherwise createdAt,
// and converts the raw value to a time. Parse failures and missing
// values fall back to the current time rather than failing the
// mapping.
func coerceTimestamp(updatedAt, createdAt interface{}) time.Time {
	raw := updatedAt
	if raw == nil {
		raw = createdAt
	}
	if raw == nil {
		return time.Now().UTC()
	}
	if ts, ok := parseTimestamp(raw); ok {
		return ts
	}
	return time.Now().UTC()
}

// parseTimestamp understands the timestamp encodings seen in exported
// notes: native times, RFC3339(-nano) strings, and the
// `{_seconds: n}` map (seconds since epoch, converted via
// milliseconds).
func parseTimestamp(raw interface{}) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		return v.UTC(), true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return v.UTC(), true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts.UTC(), true
			}
		}
		return time.Time{}, false
	case map[string]interface{}:
		seconds, ok := numericField(v, "_seconds")
		if !ok {
			return time.Time{}, false
		}
		millis := int64(seconds * 1000)
		return time.UnixMilli(millis).UTC(), true
	default:
		return time.Time{}, false
	}
}

// numericField extracts a numeric map entry across the types the bson
// and json decoders produce.
func numericField(m map[string]interface{}, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// truncateRunes truncates s to at most n characters, counting runes so
// multi-byte content is never split mid-character.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
