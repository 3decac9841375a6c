// Package out defines outbound ports (driven ports) for the application.
package out

import (
	"context"

	"social_server/core/domain"
	"social_server/pkg/identifier"
)

// UserRepository is the entity store port for the users collection.
// Point lookups return (nil, nil) when the document is absent; the
// field-level mutations are atomic with respect to concurrent updates
// to the same document.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id identifier.ID) (*domain.User, error)

	// GetByIDs resolves a batch of identifiers. Missing identifiers are
	// simply absent from the result map, never an error.
	GetByIDs(ctx context.Context, ids []identifier.ID) (map[identifier.ID]*domain.User, error)

	// AddFollowing appends followID to the user's following set only if it
	// is not already present. Returns false when the append did not apply,
	// either because the user is gone or the entry already exists.
	AddFollowing(ctx context.Context, userID, followID identifier.ID) (bool, error)

	// RemoveFollowing removes unfollowID from the following set. Returns
	// false when nothing was removed.
	RemoveFollowing(ctx context.Context, userID, unfollowID identifier.ID) (bool, error)

	// DeleteAll wipes the collection. Bulk-reset utility only.
	DeleteAll(ctx context.Context) (int64, error)
}
