// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doh/internal/platform/apperr"
	"github.com/taibuivan/doh/internal/recipe"
)

// fakeRepository is an in-memory [recipe.Repository] that records call counts.
type fakeRepository struct {
	recipes     map[string]*recipe.Recipe
	createCalls int
	updateCalls int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{recipes: make(map[string]*recipe.Recipe)}
}

func (f *fakeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	f.createCalls++
	stored := *r
	f.recipes[r.ID] = &stored
	return nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*recipe.Recipe, error) {
	stored, ok := f.recipes[id]
	if !ok {
		return nil, apperr.NotFound("Recipe")
	}
	found := *stored
	return &found, nil
}

func (f *fakeRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*recipe.Recipe, int, error) {
	owned := make([]*recipe.Recipe, 0)
	for _, stored := range f.recipes {
		if stored.OwnerID == ownerID {
			found := *stored
			owned = append(owned, &found)
		}
	}
	return owned, len(owned), nil
}

func (f *fakeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	f.updateCalls++
	if _, ok := f.recipes[r.ID]; !ok {
		return apperr.NotFound("Recipe")
	}
	stored := *r
	f.recipes[r.ID] = &stored
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if _, ok := f.recipes[id]; !ok {
		return apperr.NotFound("Recipe")
	}
	delete(f.recipes, id)
	return nil
}

// fakeDraftRepository is an in-memory [recipe.DraftRepository].
type fakeDraftRepository struct {
	drafts map[string]*recipe.Recipe
}

func newFakeDraftRepository() *fakeDraftRepository {
	return &fakeDraftRepository{drafts: make(map[string]*recipe.Recipe)}
}

func (f *fakeDraftRepository) Set(ctx context.Context, ownerID string, r *recipe.Recipe, ttl time.Duration) error {
	stored := *r
	f.drafts[ownerID] = &stored
	return nil
}

func (f *fakeDraftRepository) Get(ctx context.Context, ownerID string) (*recipe.Recipe, error) {
	stored, ok := f.drafts[ownerID]
	if !ok {
		return nil, apperr.NotFound("Draft")
	}
	found := *stored
	return &found, nil
}

func (f *fakeDraftRepository) Delete(ctx context.Context, ownerID string) error {
	delete(f.drafts, ownerID)
	return nil
}

func newTestService(t *testing.T) (*recipe.Service, *fakeRepository, *fakeDraftRepository) {
	t.Helper()
	repo := newFakeRepository()
	drafts := newFakeDraftRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := recipe.NewService(repo, drafts, recipe.DefaultCatalog(), time.Hour, logger)
	return service, repo, drafts
}

const (
	ownerAlice = "0192d3a0-aaaa-7000-8000-000000000001"
	ownerBob   = "0192d3a0-bbbb-7000-8000-000000000002"
)

/*
TestService_SaveRecipe_Create checks the create path: id assignment,
ownership stamping, and persistence of the whole aggregate.
*/
func TestService_SaveRecipe_Create(t *testing.T) {
	service, repo, _ := newTestService(t)

	draft := service.NewRecipe()
	draft.Name = "Weekend Pizza"

	saved, err := service.SaveRecipe(context.Background(), ownerAlice, draft)
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, ownerAlice, saved.OwnerID)
	assert.Equal(t, 1, repo.createCalls)
	assert.Len(t, saved.Ingredients, 8)
}

/*
TestService_SaveRecipe_ValidationBlocksStore checks the save gate: a nameless
recipe is rejected before any store call, leaving the working state intact
for a retry.
*/
func TestService_SaveRecipe_ValidationBlocksStore(t *testing.T) {
	service, repo, _ := newTestService(t)

	draft := service.NewRecipe() // name is empty

	_, err := service.SaveRecipe(context.Background(), ownerAlice, draft)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)

	assert.Zero(t, repo.createCalls)
	assert.Zero(t, repo.updateCalls)
	assert.False(t, draft.IsSaved())
}

// flakyRepository fails a fixed number of Create calls before delegating,
// standing in for a transient store outage.
type flakyRepository struct {
	*fakeRepository
	createFailures int
}

func (f *flakyRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	if f.createFailures > 0 {
		f.createFailures--
		return apperr.ServiceUnavailable("Recipe store is unavailable")
	}
	return f.fakeRepository.Create(ctx, r)
}

/*
TestService_SaveRecipe_CreateFailureLeavesDraftDirty checks that a failed
create does not mark the caller's aggregate as saved, so retrying the same
save takes the create path again and succeeds.
*/
func TestService_SaveRecipe_CreateFailureLeavesDraftDirty(t *testing.T) {
	repo := &flakyRepository{fakeRepository: newFakeRepository(), createFailures: 1}
	drafts := newFakeDraftRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := recipe.NewService(repo, drafts, recipe.DefaultCatalog(), time.Hour, logger)

	draft := service.NewRecipe()
	draft.Name = "Weekend Pizza"

	_, err := service.SaveRecipe(context.Background(), ownerAlice, draft)
	require.Error(t, err)

	assert.Empty(t, draft.ID)
	assert.Empty(t, draft.OwnerID)
	assert.False(t, draft.IsSaved())

	saved, err := service.SaveRecipe(context.Background(), ownerAlice, draft)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, ownerAlice, saved.OwnerID)
	assert.Equal(t, 1, repo.createCalls)
}

/*
TestService_SaveRecipe_Update checks the update path, including the
immutability of ownership and creation time.
*/
func TestService_SaveRecipe_Update(t *testing.T) {
	service, repo, _ := newTestService(t)

	draft := service.NewRecipe()
	draft.Name = "Weekend Pizza"
	saved, err := service.SaveRecipe(context.Background(), ownerAlice, draft)
	require.NoError(t, err)

	saved.Name = "Weekday Pizza"
	saved.SetPercentage("water", "65")

	updated, err := service.SaveRecipe(context.Background(), ownerAlice, saved)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, ownerAlice, updated.OwnerID)
	assert.Equal(t, 1, repo.updateCalls)

	stored, err := service.GetRecipe(context.Background(), ownerAlice, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekday Pizza", stored.Name)
}

/*
TestService_Ownership checks that a foreign principal gets Forbidden, while
a missing id stays NotFound.
*/
func TestService_Ownership(t *testing.T) {
	service, _, _ := newTestService(t)

	draft := service.NewRecipe()
	draft.Name = "Alice's Sourdough"
	saved, err := service.SaveRecipe(context.Background(), ownerAlice, draft)
	require.NoError(t, err)

	t.Run("get_foreign_recipe", func(t *testing.T) {
		_, err := service.GetRecipe(context.Background(), ownerBob, saved.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("update_foreign_recipe", func(t *testing.T) {
		stolen := *saved
		stolen.Name = "Bob's Now"
		_, err := service.SaveRecipe(context.Background(), ownerBob, &stolen)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("delete_foreign_recipe", func(t *testing.T) {
		err := service.DeleteRecipe(context.Background(), ownerBob, saved.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("missing_recipe_is_not_found", func(t *testing.T) {
		_, err := service.GetRecipe(context.Background(), ownerAlice, "0192d3a0-ffff-7000-8000-000000000009")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_DeleteRecipe checks the delete path plus draft cleanup.
*/
func TestService_DeleteRecipe(t *testing.T) {
	service, _, drafts := newTestService(t)

	draft := service.NewRecipe()
	draft.Name = "Short-lived"
	saved, err := service.SaveRecipe(context.Background(), ownerAlice, draft)
	require.NoError(t, err)

	require.NoError(t, service.SaveDraft(context.Background(), ownerAlice, saved))

	require.NoError(t, service.DeleteRecipe(context.Background(), ownerAlice, saved.ID))

	_, err = service.GetRecipe(context.Background(), ownerAlice, saved.ID)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// The working draft goes with the recipe.
	_, ok := drafts.drafts[ownerAlice]
	assert.False(t, ok)
}

/*
TestService_ApplyEdits checks the reactive edit pipeline: starting from a
defaults aggregate when no draft exists, applying ops in order, and
persisting the result.
*/
func TestService_ApplyEdits(t *testing.T) {
	t.Run("fresh_draft_from_defaults", func(t *testing.T) {
		service, _, drafts := newTestService(t)

		updated, breakdown, err := service.ApplyEdits(context.Background(), ownerAlice, []recipe.Edit{
			{Op: recipe.EditSetNumberOfBalls, Value: "4"},
			{Op: recipe.EditSetPercentage, Name: "water", Value: "65"},
			{Op: recipe.EditToggleSelected, Name: "fat"},
		})
		require.NoError(t, err)

		assert.Equal(t, 4.0, updated.NumberOfBalls)
		assert.Equal(t, 65.0, updated.Ingredients[1].Percentage)
		assert.False(t, updated.Ingredients[4].Selected) // fat toggled off
		assert.InDelta(t, 2000, breakdown.TotalDoughMass, 1e-9)

		// The edited draft survives in the scratch cache.
		_, ok := drafts.drafts[ownerAlice]
		assert.True(t, ok)
	})

	t.Run("edits_accumulate_across_calls", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, _, err := service.ApplyEdits(context.Background(), ownerAlice, []recipe.Edit{
			{Op: recipe.EditAddCustomIngredient, Label: "Olive Oil"},
		})
		require.NoError(t, err)

		updated, _, err := service.ApplyEdits(context.Background(), ownerAlice, []recipe.Edit{
			{Op: recipe.EditSetPercentage, Name: "olive-oil", Value: "4"},
		})
		require.NoError(t, err)

		last := updated.Ingredients[len(updated.Ingredients)-1]
		assert.Equal(t, "olive-oil", last.Name)
		assert.Equal(t, 4.0, last.Percentage)
	})

	t.Run("unknown_op_rejected", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, _, err := service.ApplyEdits(context.Background(), ownerAlice, []recipe.Edit{
			{Op: "transmogrify"},
		})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_Drafts checks the scratch cache lifecycle: save, restore, clear.
*/
func TestService_Drafts(t *testing.T) {
	service, _, _ := newTestService(t)

	_, err := service.GetDraft(context.Background(), ownerAlice)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	working := service.NewRecipe()
	working.SetPercentage("water", "80")
	require.NoError(t, service.SaveDraft(context.Background(), ownerAlice, working))

	restored, err := service.GetDraft(context.Background(), ownerAlice)
	require.NoError(t, err)
	assert.Equal(t, 80.0, restored.Ingredients[1].Percentage)

	require.NoError(t, service.ClearDraft(context.Background(), ownerAlice))
	_, err = service.GetDraft(context.Background(), ownerAlice)
	assert.Error(t, err)
}

/*
TestService_ReplaceCatalog checks validation on catalog replacement and that
new defaults aggregates pick the replacement up.
*/
func TestService_ReplaceCatalog(t *testing.T) {
	service, _, _ := newTestService(t)

	t.Run("invalid_catalog_rejected", func(t *testing.T) {
		err := service.ReplaceCatalog(context.Background(), recipe.Catalog{})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("replacement_feeds_new_recipes", func(t *testing.T) {
		replacement := recipe.Catalog{
			{Name: "rye", Label: "Rye Flour", Unit: "g", IsBase: true, DefaultSelected: true},
			{Name: "water", Label: "Water", Unit: "g", DefaultPercentage: 80, DefaultSelected: true},
		}
		require.NoError(t, service.ReplaceCatalog(context.Background(), replacement))

		fresh := service.NewRecipe()
		require.Len(t, fresh.Ingredients, 2)
		assert.Equal(t, "rye", fresh.Ingredients[0].Name)
		assert.Equal(t, 80.0, fresh.Ingredients[1].Percentage)
	})
}
