package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "notion-sync context key " + string(c)
}

// RunIDKey is the key for the reconciliation run ID in context.Context
const RunIDKey = contextKey("runID")

// OwnerUIDKey is the key for the owner uid filter in context.Context
const OwnerUIDKey = contextKey("ownerUID")

// DatabaseIDKey is the key for the target database ID in context.Context
const DatabaseIDKey = contextKey("databaseID")

// ComponentKey is the key for the component name in context.Context
const ComponentKey = contextKey("component")

// OperationKey is the key for the current operation name in context.Context
const OperationKey = contextKey("operation")
