package utils

import (
	"context"
	"errors"

	"notion-sync/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRunIDNotFound      = errors.New("runID not found in context")
	ErrRunIDNotString     = errors.New("runID in context is not a string")
	ErrOwnerUIDNotFound   = errors.New("ownerUID not found in context")
	ErrOwnerUIDNotString  = errors.New("ownerUID in context is not a string")
	ErrDatabaseIDNotFound = errors.New("databaseID not found in context")
	ErrDatabaseIDNotStr   = errors.New("databaseID in context is not a string")
)

// GetRunIDFromContext retrieves the reconciliation run ID from the context.
// It returns the run ID and an error if the run ID is not found or is not a string.
func GetRunIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RunIDKey)
	if val == nil {
		return "", ErrRunIDNotFound
	}
	runID, ok := val.(string)
	if !ok {
		return "", ErrRunIDNotString
	}
	return runID, nil
}

// GetOwnerUIDFromContext retrieves the owner uid filter from the context.
func GetOwnerUIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.OwnerUIDKey)
	if val == nil {
		return "", ErrOwnerUIDNotFound
	}
	ownerUID, ok := val.(string)
	if !ok {
		return "", ErrOwnerUIDNotString
	}
	return ownerUID, nil
}

// GetDatabaseIDFromContext retrieves the target database ID from the context.
func GetDatabaseIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.DatabaseIDKey)
	if val == nil {
		return "", ErrDatabaseIDNotFound
	}
	databaseID, ok := val.(string)
	if !ok {
		return "", ErrDatabaseIDNotStr
	}
	return databaseID, nil
}

// Context builder functions

// WithRunID returns a context carrying the reconciliation run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, contextkeys.RunIDKey, runID)
}

// WithOwnerUID returns a context carrying the owner uid filter.
func WithOwnerUID(ctx context.Context, ownerUID string) context.Context {
	return context.WithValue(ctx, contextkeys.OwnerUIDKey, ownerUID)
}

// WithDatabaseID returns a context carrying the target database ID.
func WithDatabaseID(ctx context.Context, databaseID string) context.Context {
	return context.WithValue(ctx, contextkeys.DatabaseIDKey, databaseID)
}
