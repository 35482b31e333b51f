// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doh/internal/recipe"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	service, _, _ := newTestService(t)
	return recipe.NewHandler(service).Routes()
}

/*
TestHandler_Compute checks the public stateless calculator endpoint: no
authentication, aggregate in, aggregate plus breakdown out.
*/
func TestHandler_Compute(t *testing.T) {
	router := newTestRouter(t)

	body := `{
		"number_of_balls": 4,
		"ball_weight": 500,
		"ingredients": [
			{"name": "flour", "label": "Flour", "unit": "g", "is_base_ingredient": true, "selected": true},
			{"name": "water", "label": "Water", "unit": "g", "percentage": 60, "selected": true},
			{"name": "salt", "label": "Salt", "unit": "g", "percentage": 2, "selected": true}
		]
	}`

	request := httptest.NewRequest(http.MethodPost, "/compute", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			Recipe    recipe.Recipe    `json:"recipe"`
			Breakdown recipe.Breakdown `json:"breakdown"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.InDelta(t, 2000, envelope.Data.Breakdown.TotalDoughMass, 1e-9)
	assert.InDelta(t, 2000.0/1.62, envelope.Data.Breakdown.BaseWeight, 1e-6)
	assert.Equal(t, "flour", envelope.Data.Breakdown.BaseName)
	require.Len(t, envelope.Data.Breakdown.Ingredients, 2)
	assert.Equal(t, "water", envelope.Data.Breakdown.Ingredients[0].Name)
}

/*
TestHandler_Compute_MalformedJSON checks the invalid-body error envelope.
*/
func TestHandler_Compute_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	request := httptest.NewRequest(http.MethodPost, "/compute", strings.NewReader("{not json"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var envelope struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
}

/*
TestHandler_NewRecipe checks the public defaults endpoint.
*/
func TestHandler_NewRecipe(t *testing.T) {
	router := newTestRouter(t)

	request := httptest.NewRequest(http.MethodGet, "/new", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data struct {
			Recipe recipe.Recipe `json:"recipe"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	assert.Equal(t, 1.0, envelope.Data.Recipe.NumberOfBalls)
	assert.Equal(t, 500.0, envelope.Data.Recipe.BallWeight)
	assert.Len(t, envelope.Data.Recipe.Ingredients, 8)
}

/*
TestHandler_SavedRecipesRequireAuth checks that the persistence surface is
closed to anonymous requests.
*/
func TestHandler_SavedRecipesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/"},
		{http.MethodPost, "/"},
		{http.MethodGet, "/draft"},
		{http.MethodPost, "/draft/edits"},
	} {
		request := httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code, "%s %s", route.method, route.path)
	}
}
