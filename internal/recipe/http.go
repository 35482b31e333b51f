// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package recipe — HTTP delivery layer.

# Routing Strategy

  - Public: The calculator itself (POST /recipes/compute, GET /recipes/new)
    and the shared catalog (GET /catalog). Anyone can compute a batch without
    an account.
  - Authenticated: Saved recipes and the draft scratch cache.
  - Restricted: Catalog replacement (admin only).

The handler translates between the REST layer and the [Service] domain.
*/
package recipe

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/doh/internal/platform/middleware"
	requestutil "github.com/taibuivan/doh/internal/platform/request"
	"github.com/taibuivan/doh/internal/platform/respond"
	"github.com/taibuivan/doh/internal/platform/sec"
	"github.com/taibuivan/doh/internal/platform/validate"
	"github.com/taibuivan/doh/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for recipe operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new recipe [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the recipe endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Calculator
	router.Get("/new", handler.newRecipe)
	router.Post("/compute", handler.compute)

	// ## Saved Recipes & Draft (Auth Required)
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/", handler.listRecipes)
		authed.Post("/", handler.createRecipe)

		authed.Get("/draft", handler.getDraft)
		authed.Put("/draft", handler.saveDraft)
		authed.Delete("/draft", handler.clearDraft)
		authed.Post("/draft/edits", handler.applyDraftEdits)

		authed.Get("/{id}", handler.getRecipe)
		authed.Put("/{id}", handler.updateRecipe)
		authed.Delete("/{id}", handler.deleteRecipe)
	})

	return router
}

// CatalogRoutes returns a [chi.Router] for the shared ingredient catalog.
func (handler *Handler) CatalogRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.getCatalog)
	router.With(middleware.RequireRole(sec.RoleAdmin)).Put("/", handler.replaceCatalog)

	return router
}

// recipePayload is the JSON body accepted for compute, create, update, and
// draft writes: the full aggregate minus the server-owned identity fields.
type recipePayload struct {
	Name          string       `json:"name"`
	NumberOfBalls float64      `json:"number_of_balls"`
	BallWeight    float64      `json:"ball_weight"`
	Ingredients   []Ingredient `json:"ingredients"`
}

// toRecipe lifts the payload into a working aggregate.
func (payload *recipePayload) toRecipe() *Recipe {
	return &Recipe{
		Name:          payload.Name,
		NumberOfBalls: payload.NumberOfBalls,
		BallWeight:    payload.BallWeight,
		Ingredients:   payload.Ingredients,
	}
}

// computedRecipe pairs an aggregate with its freshly derived weights.
type computedRecipe struct {
	Recipe    *Recipe   `json:"recipe"`
	Breakdown Breakdown `json:"breakdown"`
}

// # Calculator Endpoints

/*
GET /api/v1/recipes/new.

Description: Returns a fresh defaults aggregate seeded from the shared
catalog, with its breakdown, ready for the client to start editing.

Response:
  - 200: computedRecipe: Defaults aggregate and derived weights
*/
func (handler *Handler) newRecipe(writer http.ResponseWriter, request *http.Request) {
	recipe := handler.service.NewRecipe()

	respond.OK(writer, computedRecipe{
		Recipe:    recipe,
		Breakdown: handler.service.Compute(recipe),
	})
}

/*
POST /api/v1/recipes/compute.

Description: Runs the baker's-percentage engine on a posted aggregate.
Stateless: nothing is stored, no authentication required.

Request (Body):
  - recipePayload JSON object

Response:
  - 200: computedRecipe: The aggregate echoed back with derived weights
  - 400: ErrInvalidJSON: Malformed body
*/
func (handler *Handler) compute(writer http.ResponseWriter, request *http.Request) {
	var payload recipePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	recipe := payload.toRecipe()

	respond.OK(writer, computedRecipe{
		Recipe:    recipe,
		Breakdown: handler.service.Compute(recipe),
	})
}

// # Saved Recipe Endpoints

/*
GET /api/v1/recipes.

Description: Retrieves a paginated list of the authenticated user's saved
recipes, newest first.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Recipe: Paginated list
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) listRecipes(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	recipes, total, err := handler.service.ListRecipes(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, recipes, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/recipes/{id}.

Description: Retrieves one saved recipe with its derived weights.

Request:
  - id: string (UUID)

Response:
  - 200: computedRecipe: Success
  - 403: ErrForbidden: Recipe belongs to another user
  - 404: ErrNotFound: Recipe not found
*/
func (handler *Handler) getRecipe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID("id", id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	recipe, err := handler.service.GetRecipe(request.Context(), userID, id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, computedRecipe{
		Recipe:    recipe,
		Breakdown: handler.service.Compute(recipe),
	})
}

/*
POST /api/v1/recipes.

Description: Saves a new named recipe for the authenticated user. The
aggregate is transmitted and stored whole.

Request (Body):
  - recipePayload JSON object (name required)

Response:
  - 201: Recipe: The canonical saved aggregate with its assigned id
  - 400: Validation: Missing name — no store write is attempted
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) createRecipe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload recipePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	saved, err := handler.service.SaveRecipe(request.Context(), userID, payload.toRecipe())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, saved)
}

/*
PUT /api/v1/recipes/{id}.

Description: Replaces a saved recipe atomically.

Request:
  - id: string (UUID)
  - body: recipePayload JSON object (name required)

Response:
  - 200: Recipe: The canonical saved aggregate
  - 400: Validation: Missing name or invalid id
  - 403: ErrForbidden: Recipe belongs to another user
  - 404: ErrNotFound: Recipe not found
*/
func (handler *Handler) updateRecipe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID("id", id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload recipePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	recipe := payload.toRecipe()
	recipe.ID = id

	saved, err := handler.service.SaveRecipe(request.Context(), userID, recipe)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, saved)
}

/*
DELETE /api/v1/recipes/{id}.

Description: Deletes a saved recipe and discards any working draft. The
response carries a fresh defaults aggregate so the client can reset its
working state in one round trip.

Request:
  - id: string (UUID)

Response:
  - 200: computedRecipe: Fresh defaults aggregate
  - 403: ErrForbidden: Recipe belongs to another user
  - 404: ErrNotFound: Recipe not found
*/
func (handler *Handler) deleteRecipe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID("id", id).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteRecipe(request.Context(), userID, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	fresh := handler.service.NewRecipe()
	respond.OK(writer, computedRecipe{
		Recipe:    fresh,
		Breakdown: handler.service.Compute(fresh),
	})
}

// # Draft Endpoints

/*
GET /api/v1/recipes/draft.

Description: Restores the authenticated user's in-progress draft.

Response:
  - 200: computedRecipe: The working draft and derived weights
  - 404: ErrNotFound: No draft exists (or it expired)
*/
func (handler *Handler) getDraft(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft, err := handler.service.GetDraft(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, computedRecipe{
		Recipe:    draft,
		Breakdown: handler.service.Compute(draft),
	})
}

/*
PUT /api/v1/recipes/draft.

Description: Replaces the authenticated user's draft with the posted
aggregate. Drafts are nameless-friendly: no validation beyond JSON shape.

Request (Body):
  - recipePayload JSON object

Response:
  - 200: computedRecipe: The stored draft with derived weights
*/
func (handler *Handler) saveDraft(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload recipePayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft := payload.toRecipe()
	if err := handler.service.SaveDraft(request.Context(), userID, draft); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, computedRecipe{
		Recipe:    draft,
		Breakdown: handler.service.Compute(draft),
	})
}

/*
DELETE /api/v1/recipes/draft.

Description: Discards the authenticated user's draft.

Response:
  - 204: No Content
*/
func (handler *Handler) clearDraft(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ClearDraft(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// applyEditsRequest is the JSON payload for incremental draft edits.
type applyEditsRequest struct {
	Edits []Edit `json:"edits"`
}

/*
POST /api/v1/recipes/draft/edits.

Description: Applies a sequence of reactive edits (set percentage, toggle
selection, change batch size, add custom ingredient) to the user's draft and
returns the recomputed result. Numeric values travel as raw strings; the
engine coerces malformed input to 0 instead of erroring.

Request (Body):
  - edits: []Edit

Response:
  - 200: computedRecipe: The updated draft with derived weights
  - 400: Validation: Unknown edit op
*/
func (handler *Handler) applyDraftEdits(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input applyEditsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	draft, breakdown, err := handler.service.ApplyEdits(request.Context(), userID, input.Edits)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, computedRecipe{Recipe: draft, Breakdown: breakdown})
}

// # Catalog Endpoints

/*
GET /api/v1/catalog.

Description: Returns the shared ingredient catalog with its seed values.

Response:
  - 200: Catalog: Ordered ingredient definitions
*/
func (handler *Handler) getCatalog(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.service.Catalog())
}

/*
PUT /api/v1/catalog.

Description: Atomically replaces the shared ingredient catalog. Admin only.

Request (Body):
  - Catalog JSON array

Response:
  - 200: Catalog: The new catalog
  - 400: Validation: Catalog invariants violated
  - 403: ErrForbidden: Insufficient permissions
*/
func (handler *Handler) replaceCatalog(writer http.ResponseWriter, request *http.Request) {
	var catalog Catalog
	if err := requestutil.DecodeJSON(request, &catalog); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ReplaceCatalog(request.Context(), catalog); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, catalog)
}
