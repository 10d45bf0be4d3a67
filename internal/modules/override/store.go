package override

import "context"

// Store persists overrides per device.
type Store interface {
	// Save writes every value in the set.
	Save(ctx context.Context, device, entityType, entityID string, values Set) error

	// Load returns the overrides present for the given fields.
	Load(ctx context.Context, device, entityType, entityID string, fields ...string) (Set, error)
}
