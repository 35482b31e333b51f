// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/doh/internal/platform/apperr"
	"github.com/taibuivan/doh/internal/platform/validate"
	"github.com/taibuivan/doh/pkg/uuidv7"
)

// Service is the recipe lifecycle manager.
//
// It owns the shared ingredient catalog, mediates between the engine and the
// persistent/volatile stores, and enforces ownership on every store access.
//
// # Concurrency
//
// The catalog is the only shared mutable state (replaced atomically by an
// administrator); everything else is per-request. Recipes themselves need no
// locking: each aggregate is exclusively owned by one interactive session.
type Service struct {
	repository      Repository
	draftRepository DraftRepository
	logger          *slog.Logger
	draftTTL        time.Duration

	catalogMu sync.RWMutex
	catalog   Catalog
}

// NewService constructs a recipe [Service].
func NewService(repository Repository, draftRepository DraftRepository, catalog Catalog, draftTTL time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repository:      repository,
		draftRepository: draftRepository,
		catalog:         catalog,
		draftTTL:        draftTTL,
		logger:          logger,
	}
}

// # Catalog

// Catalog returns the current shared ingredient catalog.
func (service *Service) Catalog() Catalog {
	service.catalogMu.RLock()
	defer service.catalogMu.RUnlock()
	return service.catalog
}

// ReplaceCatalog atomically swaps the shared catalog after validation.
//
// # Returns
//   - [apperr.ValidationError] if the new catalog violates its invariants.
func (service *Service) ReplaceCatalog(ctx context.Context, catalog Catalog) error {
	if err := catalog.Validate(); err != nil {
		return apperr.ValidationError(err.Error())
	}

	service.catalogMu.Lock()
	service.catalog = catalog
	service.catalogMu.Unlock()

	service.logger.InfoContext(ctx, "catalog_replaced", slog.Int("ingredients", len(catalog)))
	return nil
}

// # Working Aggregate

// NewRecipe produces a fresh defaults aggregate from the current catalog.
func (service *Service) NewRecipe() *Recipe {
	return service.Catalog().NewRecipe()
}

// Compute resolves the derived weights for an aggregate. Pure pass-through
// to the engine; exists so handlers depend on the service alone.
func (service *Service) Compute(recipe *Recipe) Breakdown {
	return ComputeBreakdown(recipe)
}

// # Persistence

// GetRecipe fetches a stored recipe on behalf of a principal.
//
// # Returns
//   - [apperr.NotFound] if no recipe has this id.
//   - [apperr.Forbidden] if the recipe belongs to another principal.
func (service *Service) GetRecipe(ctx context.Context, ownerID, id string) (*Recipe, error) {
	recipe, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if recipe.OwnerID != ownerID {
		return nil, apperr.Forbidden("You do not own this recipe")
	}

	return recipe, nil
}

// ListRecipes returns a page of the principal's saved recipes.
func (service *Service) ListRecipes(ctx context.Context, ownerID string, limit, offset int) ([]*Recipe, int, error) {
	return service.repository.ListByOwner(ctx, ownerID, limit, offset)
}

// SaveRecipe persists the aggregate whole: create when it has no id yet,
// update when it does.
//
// # Flow
//  1. Validate — a recipe must be named before it hits the store. On failure
//     no store call is issued, so the caller's working aggregate stays dirty
//     and the same save can simply be retried.
//  2. Ownership — updates verify the stored recipe belongs to the principal.
//  3. Write — the full entry list, name, and batch parameters in one write.
//  4. Adopt — the canonical saved aggregate (with id) is returned.
func (service *Service) SaveRecipe(ctx context.Context, ownerID string, recipe *Recipe) (*Recipe, error) {
	// ── 1. Boundary Validation ────────────────────────────────────────────

	v := &validate.Validator{}
	v.Required("name", recipe.Name).MaxLen("name", recipe.Name, 200)
	v.Custom("ingredients", len(recipe.Ingredients) == 0, "At least one ingredient is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	// ── 2. Create ─────────────────────────────────────────────────────────

	if !recipe.IsSaved() {
		// The id is stamped on a copy. A failed create must leave the caller's
		// aggregate unsaved, otherwise a retry of the same save would take the
		// update branch and miss.
		created := *recipe
		created.ID = uuidv7.New() // Time-sortable ID to prevent PG index fragmentation.
		created.OwnerID = ownerID

		if err := service.repository.Create(ctx, &created); err != nil {
			return nil, fmt.Errorf("recipe_service_create_failed: %w", err)
		}

		service.logger.InfoContext(ctx, "recipe_created", slog.String("recipe_id", created.ID))
		return &created, nil
	}

	// ── 3. Update (ownership enforced against the stored row) ─────────────

	existing, err := service.repository.FindByID(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != ownerID {
		return nil, apperr.Forbidden("You do not own this recipe")
	}

	// OwnerID is immutable after create; carry the stored value forward on a
	// copy so a failed update leaves the caller's aggregate untouched too.
	updated := *recipe
	updated.OwnerID = existing.OwnerID
	updated.CreatedAt = existing.CreatedAt

	if err := service.repository.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("recipe_service_update_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "recipe_updated", slog.String("recipe_id", updated.ID))
	return &updated, nil
}

// DeleteRecipe removes a stored recipe and discards any working draft, so
// the caller's next state is a clean defaults aggregate.
//
// # Returns
//   - [apperr.NotFound] if no recipe has this id.
//   - [apperr.Forbidden] if the recipe belongs to another principal.
func (service *Service) DeleteRecipe(ctx context.Context, ownerID, id string) error {
	recipe, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if recipe.OwnerID != ownerID {
		return apperr.Forbidden("You do not own this recipe")
	}

	if err := service.repository.Delete(ctx, id); err != nil {
		return fmt.Errorf("recipe_service_delete_failed: %w", err)
	}

	// Best-effort: a stale draft referencing the deleted recipe is confusing,
	// but a cache failure must not undo a completed delete.
	if err := service.draftRepository.Delete(ctx, ownerID); err != nil {
		service.logger.WarnContext(ctx, "draft_cleanup_failed", slog.Any("error", err))
	}

	service.logger.InfoContext(ctx, "recipe_deleted", slog.String("recipe_id", id))
	return nil
}

// # Draft Scratch Cache

// SaveDraft stores the principal's in-progress aggregate. Drafts skip name
// validation — that rule applies to durable saves only.
func (service *Service) SaveDraft(ctx context.Context, ownerID string, recipe *Recipe) error {
	if err := service.draftRepository.Set(ctx, ownerID, recipe, service.draftTTL); err != nil {
		return fmt.Errorf("recipe_service_save_draft_failed: %w", err)
	}
	return nil
}

// GetDraft restores the principal's working draft.
//
// # Returns
//   - [apperr.NotFound] if no draft exists or it has expired.
func (service *Service) GetDraft(ctx context.Context, ownerID string) (*Recipe, error) {
	return service.draftRepository.Get(ctx, ownerID)
}

// ClearDraft discards the principal's working draft.
func (service *Service) ClearDraft(ctx context.Context, ownerID string) error {
	if err := service.draftRepository.Delete(ctx, ownerID); err != nil {
		return fmt.Errorf("recipe_service_clear_draft_failed: %w", err)
	}
	return nil
}

// # Draft Edits

// Edit is one reactive edit applied to the working draft. Op selects the
// operation; the remaining fields feed it. Numeric values travel as raw
// strings on purpose — the engine's coerce-to-zero rule is part of the
// contract, not a client courtesy.
type Edit struct {
	Op    string `json:"op"`
	Name  string `json:"name,omitempty"`
	Value string `json:"value,omitempty"`
	Label string `json:"label,omitempty"`
}

// Edit operation identifiers.
const (
	EditSetPercentage       = "set_percentage"
	EditToggleSelected      = "toggle_selected"
	EditSetNumberOfBalls    = "set_number_of_balls"
	EditSetBallWeight       = "set_ball_weight"
	EditAddCustomIngredient = "add_custom_ingredient"
)

// ApplyEdits loads the principal's draft (or a defaults aggregate if none
// exists), applies the edits in order, persists the result back to the
// scratch cache, and returns the updated draft with its fresh breakdown.
//
// # Returns
//   - [apperr.ValidationError] for an unknown op — the edits themselves
//     never fail, per the engine's totality rules.
func (service *Service) ApplyEdits(ctx context.Context, ownerID string, edits []Edit) (*Recipe, Breakdown, error) {
	draft, err := service.draftRepository.Get(ctx, ownerID)
	if err != nil {
		if apperr.As(err) == nil || apperr.As(err).Code != "NOT_FOUND" {
			return nil, Breakdown{}, err
		}
		draft = service.NewRecipe()
	}

	for _, edit := range edits {
		switch edit.Op {
		case EditSetPercentage:
			draft.SetPercentage(edit.Name, edit.Value)
		case EditToggleSelected:
			draft.ToggleSelected(edit.Name)
		case EditSetNumberOfBalls:
			draft.SetNumberOfBalls(edit.Value)
		case EditSetBallWeight:
			draft.SetBallWeight(edit.Value)
		case EditAddCustomIngredient:
			draft.AddCustomIngredient(edit.Label)
		default:
			return nil, Breakdown{}, apperr.ValidationError(fmt.Sprintf("Unknown edit op %q", edit.Op))
		}
	}

	if err := service.SaveDraft(ctx, ownerID, draft); err != nil {
		return nil, Breakdown{}, err
	}

	return draft, ComputeBreakdown(draft), nil
}
