package mongodb

import (
	"context"
	"fmt"
	"time"

	"notion-sync/internal/sync/domain/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoNoteRepository implements the NoteRepository interface using MongoDB
type MongoNoteRepository struct {
	db              *mongo.Database
	notesCollection *mongo.Collection
}

// NewMongoNoteRepository creates a new MongoDB note repository
func NewMongoNoteRepository(db *mongo.Database, collectionName string) *MongoNoteRepository {
	return &MongoNoteRepository{
		db:              db,
		notesCollection: db.Collection(collectionName),
	}
}

// ListNotes fetches the full notes snapshot, filtered by owner uid
// when one is given. Documents are decoded leniently: the source
// schema carries arbitrary fields and the field mapper owns coercion,
// so raw values are preserved as-is.
func (r *MongoNoteRepository) ListNotes(ctx context.Context, ownerUID string) ([]model.Note, error) {
	filter := bson.D{}
	if ownerUID != "" {
		filter = bson.D{{Key: "uid", Value: ownerUID}}
	}

	cursor, err := r.notesCollection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query notes collection: %w", err)
	}
	defer cursor.Close(ctx)

	var notes []model.Note
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode note document: %w", err)
		}
		note := NoteFromDocument(doc)
		if note.ID == "" {
			// A document without an identifier cannot be reconciled.
			continue
		}
		notes = append(notes, note)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("notes cursor failed: %w", err)
	}

	return notes, nil
}

// NoteFromDocument maps one raw BSON document to a Note. Driver types
// are normalized to plain Go values so downstream code never sees bson
// primitives.
func NoteFromDocument(doc bson.M) model.Note {
	return model.Note{
		ID:        documentID(doc),
		Content:   stringField(doc, "content"),
		Tags:      normalizeValue(doc["tags"]),
		SectionID: stringField(doc, "sectionId"),
		CreatedAt: normalizeValue(doc["createdAt"]),
		UpdatedAt: normalizeValue(doc["updatedAt"]),
	}
}

// documentID extracts the source-assigned identifier. Exported
// Firestore documents carry string ids; native Mongo documents carry
// ObjectIDs, which are rendered as hex.
func documentID(doc bson.M) string {
	switch id := doc["_id"].(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	default:
		return ""
	}
}

func stringField(doc bson.M, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

// normalizeValue converts bson driver types into the plain Go values
// the field mapper understands: primitive.DateTime to time.Time,
// primitive.M to map[string]interface{}, primitive.A to []interface{}.
func normalizeValue(raw interface{}) interface{} {
	switch v := raw.(type) {
	case nil:
		return nil
	case primitive.DateTime:
		return v.Time().UTC()
	case time.Time:
		return v.UTC()
	case primitive.M:
		return normalizeMap(map[string]interface{}(v))
	case map[string]interface{}:
		return normalizeMap(v)
	case primitive.A:
		return normalizeSlice([]interface{}(v))
	case []interface{}:
		return normalizeSlice(v)
	default:
		return raw
	}
}

func normalizeMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeSlice(s []interface{}) []interface{} {
	out := make([]interface{}, len(s))
	for i, v := range s {
		out[i] = normalizeValue(v)
	}
	return out
}
