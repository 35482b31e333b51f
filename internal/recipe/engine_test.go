// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doh/internal/recipe"
)

// leanDough is a minimal two-percentage recipe used across the engine tests:
// flour (base), water 60%, salt 2%.
func leanDough() *recipe.Recipe {
	return &recipe.Recipe{
		NumberOfBalls: 4,
		BallWeight:    500,
		Ingredients: []recipe.Ingredient{
			{Name: "flour", Label: "Flour", Unit: "g", IsBase: true, Selected: true},
			{Name: "water", Label: "Water", Unit: "g", Percentage: 60, Selected: true},
			{Name: "salt", Label: "Salt", Unit: "g", Percentage: 2, Selected: true},
		},
	}
}

/*
TestComputeBaseWeight checks the core derivation: total dough mass divided by
one plus the selected percentage sum over 100.
*/
func TestComputeBaseWeight(t *testing.T) {
	tests := []struct {
		name          string
		numberOfBalls float64
		ballWeight    float64
		ingredients   []recipe.Ingredient
		expected      float64
	}{
		{
			name:          "water_and_salt",
			numberOfBalls: 4,
			ballWeight:    500,
			ingredients:   leanDough().Ingredients,
			expected:      2000.0 / 1.62,
		},
		{
			name:          "water_deselected",
			numberOfBalls: 4,
			ballWeight:    500,
			ingredients: []recipe.Ingredient{
				{Name: "flour", IsBase: true, Selected: true},
				{Name: "water", Percentage: 60, Selected: false},
				{Name: "salt", Percentage: 2, Selected: true},
			},
			expected: 2000.0 / 1.02,
		},
		{
			name:          "no_other_ingredients",
			numberOfBalls: 2,
			ballWeight:    250,
			ingredients: []recipe.Ingredient{
				{Name: "flour", IsBase: true, Selected: true},
			},
			expected: 500,
		},
		{
			name:          "zero_balls",
			numberOfBalls: 0,
			ballWeight:    500,
			ingredients:   leanDough().Ingredients,
			expected:      0,
		},
		{
			name:          "zero_ball_weight",
			numberOfBalls: 4,
			ballWeight:    0,
			ingredients:   leanDough().Ingredients,
			expected:      0,
		},
		{
			// The base entry's own percentage never contributes to the sum.
			name:          "base_percentage_ignored",
			numberOfBalls: 4,
			ballWeight:    500,
			ingredients: []recipe.Ingredient{
				{Name: "flour", IsBase: true, Percentage: 100, Selected: true},
				{Name: "water", Percentage: 60, Selected: true},
				{Name: "salt", Percentage: 2, Selected: true},
			},
			expected: 2000.0 / 1.62,
		},
		{
			// Negative percentages pass through without clamping.
			name:          "negative_percentage",
			numberOfBalls: 1,
			ballWeight:    1000,
			ingredients: []recipe.Ingredient{
				{Name: "flour", IsBase: true, Selected: true},
				{Name: "reduction", Percentage: -50, Selected: true},
			},
			expected: 1000.0 / 0.5,
		},
		{
			// A selected sum of exactly -100 would divide by zero; the engine
			// defines the result as 0 instead.
			name:          "denominator_guard",
			numberOfBalls: 4,
			ballWeight:    500,
			ingredients: []recipe.Ingredient{
				{Name: "flour", IsBase: true, Selected: true},
				{Name: "void", Percentage: -100, Selected: true},
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recipe.ComputeBaseWeight(tt.numberOfBalls, tt.ballWeight, tt.ingredients)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

/*
TestPercentageToGrams checks the percentage-to-weight conversion.
*/
func TestPercentageToGrams(t *testing.T) {
	assert.InDelta(t, 740.740740740, recipe.PercentageToGrams(60, 2000.0/1.62), 1e-6)
	assert.InDelta(t, 24.691358024, recipe.PercentageToGrams(2, 2000.0/1.62), 1e-6)
	assert.Zero(t, recipe.PercentageToGrams(0, 1234.56))
	assert.Zero(t, recipe.PercentageToGrams(60, 0))
}

/*
TestComputeBreakdown checks the derived batch view: base identification,
selected-only filtering, and recipe ordering.
*/
func TestComputeBreakdown(t *testing.T) {
	r := leanDough()
	r.Ingredients = append(r.Ingredients,
		recipe.Ingredient{Name: "sugar", Label: "Sugar", Unit: "g", Percentage: 5, Selected: false},
	)

	breakdown := recipe.ComputeBreakdown(r)

	assert.InDelta(t, 2000, breakdown.TotalDoughMass, 1e-9)
	assert.Equal(t, "flour", breakdown.BaseName)
	assert.Equal(t, "Flour", breakdown.BaseLabel)
	assert.InDelta(t, 2000.0/1.62, breakdown.BaseWeight, 1e-9)

	// Sugar is deselected: excluded from the listing, not merely zeroed.
	require.Len(t, breakdown.Ingredients, 2)
	assert.Equal(t, "water", breakdown.Ingredients[0].Name)
	assert.Equal(t, "salt", breakdown.Ingredients[1].Name)

	assert.InDelta(t, 740.740740740, breakdown.Ingredients[0].Grams, 1e-6)
	assert.InDelta(t, 24.691358024, breakdown.Ingredients[1].Grams, 1e-6)
}

/*
TestComputeBreakdown_Conservation pins down the batch-mass conservation law:
the base weight plus every listed ingredient's grams equals the total dough
mass.
*/
func TestComputeBreakdown_Conservation(t *testing.T) {
	r := leanDough()
	r.Ingredients = append(r.Ingredients,
		recipe.Ingredient{Name: "yeast", Label: "Yeast", Unit: "g", Percentage: 1, Selected: true},
		recipe.Ingredient{Name: "fat", Label: "Fat", Unit: "g", Percentage: 10, Selected: true},
	)

	breakdown := recipe.ComputeBreakdown(r)

	sum := breakdown.BaseWeight
	for _, line := range breakdown.Ingredients {
		sum += line.Grams
	}

	assert.InDelta(t, breakdown.TotalDoughMass, sum, 1e-9)
}

/*
TestComputeBreakdown_MonotonicBase checks that selecting an additional
positive-percentage ingredient can only shrink the base weight: the batch
mass is fixed, so new ingredients take their share from the base.
*/
func TestComputeBreakdown_MonotonicBase(t *testing.T) {
	r := leanDough()
	before := recipe.ComputeBreakdown(r).BaseWeight

	r.Ingredients = append(r.Ingredients,
		recipe.Ingredient{Name: "fat", Label: "Fat", Unit: "g", Percentage: 10, Selected: true},
	)
	after := recipe.ComputeBreakdown(r).BaseWeight

	assert.Less(t, after, before)
	assert.InDelta(t, 2000, recipe.ComputeBreakdown(r).TotalDoughMass, 1e-9)
}

/*
TestComputeBreakdown_NoBaseSelected checks that a recipe whose base entry is
deselected still computes, with the base identity fields left empty.
*/
func TestComputeBreakdown_NoBaseSelected(t *testing.T) {
	r := leanDough()
	r.Ingredients[0].Selected = false

	breakdown := recipe.ComputeBreakdown(r)

	assert.Empty(t, breakdown.BaseName)
	assert.Empty(t, breakdown.BaseLabel)
	assert.InDelta(t, 2000.0/1.62, breakdown.BaseWeight, 1e-9)
}
