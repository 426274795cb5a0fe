package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKeyString(t *testing.T) {
	assert.Equal(t, "notion-sync context key runID", RunIDKey.String())
	assert.Equal(t, "notion-sync context key ownerUID", OwnerUIDKey.String())
}

func TestContextKeysDoNotCollide(t *testing.T) {
	// A plain string key must not resolve a typed key's value.
	ctx := context.WithValue(context.Background(), RunIDKey, "run-123")

	assert.Equal(t, "run-123", ctx.Value(RunIDKey))
	assert.Nil(t, ctx.Value("runID"))
}

func TestDistinctKeys(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, RunIDKey, "run-1")
	ctx = context.WithValue(ctx, OwnerUIDKey, "user-1")
	ctx = context.WithValue(ctx, DatabaseIDKey, "db-1")

	assert.Equal(t, "run-1", ctx.Value(RunIDKey))
	assert.Equal(t, "user-1", ctx.Value(OwnerUIDKey))
	assert.Equal(t, "db-1", ctx.Value(DatabaseIDKey))
}
