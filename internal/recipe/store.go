// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"context"
	"time"
)

// Repository defines the data access contract for persisted recipes.
//
// # Review Process
//
// This interface is placed in a separate file from recipe.go so entity changes
// and storage-contract changes can be reviewed independently by the team.
//
// # Implementations
//
// The canonical implementation for Doh is PostgreSQL (store_postgres.go).
type Repository interface {
	// Create persists a brand-new recipe. The aggregate is written whole —
	// name, batch parameters, and the full entry list in one statement.
	Create(ctx context.Context, recipe *Recipe) error

	// FindByID returns the recipe with the given ID regardless of owner.
	// Ownership is the service layer's concern so a foreign recipe can be
	// distinguished (Forbidden) from a missing one (NotFound).
	//
	// Returns [apperr.NotFound] if the recipe does not exist.
	FindByID(ctx context.Context, id string) (*Recipe, error)

	// ListByOwner returns a page of the owner's recipes (newest first) and
	// the total count for pagination metadata.
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Recipe, int, error)

	// Update replaces the stored aggregate atomically.
	//
	// Returns [apperr.NotFound] if the recipe does not exist.
	Update(ctx context.Context, recipe *Recipe) error

	// Delete removes the recipe permanently.
	//
	// Returns [apperr.NotFound] if the recipe does not exist.
	Delete(ctx context.Context, id string) error
}

// DraftRepository defines the contract for the volatile scratch cache of
// in-progress (unsaved) recipes.
//
// # Domain Ownership
//
// A draft is keyed by its owner, not by a recipe id: each user has at most
// one working draft, restored on reload and expired after a TTL. The draft
// is not part of the durable store contract.
type DraftRepository interface {
	// Set stores the owner's working draft for a limited duration,
	// replacing any previous draft.
	Set(ctx context.Context, ownerID string, recipe *Recipe, ttl time.Duration) error

	// Get retrieves the owner's working draft.
	//
	// Returns [apperr.NotFound] if no draft exists or it has expired.
	Get(ctx context.Context, ownerID string) (*Recipe, error)

	// Delete discards the owner's working draft.
	Delete(ctx context.Context, ownerID string) error
}
