// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package recipe implements the baker's-percentage core of Doh.

A dough recipe expresses every ingredient as a percentage of the base
ingredient's weight (conventionally flour). The user supplies the batch size —
how many dough balls and the weight of each — and the engine derives the base
weight and every other ingredient's weight in grams.

# Architecture

The engine is a set of pure functions over the [Recipe] aggregate. Derived
weights are never cached: callers recompute after every mutation, which
eliminates the entire stale-derived-state class of bugs that observer-based
recalculation invites.
*/
package recipe

// ComputeBaseWeight derives the base ingredient's weight in grams from the
// batch size and the selected ingredient percentages.
//
// # Algorithm
//
// The total dough mass is numberOfBalls * ballWeight. Every selected non-base
// ingredient contributes its percentage to the sum, so the mass splits as:
//
//	totalDoughMass = baseWeight * (1 + percentageSum/100)
//
// # Totality
//
// This function never returns NaN or ±Inf. If the denominator is exactly
// zero (a selected-percentage sum of -100, a state the UI should prevent),
// the base weight is defined as 0 rather than dividing. Negative percentages
// are used as-is; the engine does not clamp.
func ComputeBaseWeight(numberOfBalls, ballWeight float64, ingredients []Ingredient) float64 {
	totalDoughMass := numberOfBalls * ballWeight

	percentageSum := 0.0
	for _, ingredient := range ingredients {
		// Base entries never contribute; their weight is the derived output.
		if ingredient.Selected && !ingredient.IsBase {
			percentageSum += ingredient.Percentage
		}
	}

	denominator := 1 + percentageSum/100
	if denominator == 0 {
		return 0
	}

	return totalDoughMass / denominator
}

// PercentageToGrams converts a baker's percentage into grams relative to the
// given base weight. Pure, total, no error conditions.
func PercentageToGrams(percentage, baseWeight float64) float64 {
	return (percentage / 100) * baseWeight
}

// IngredientWeight is one resolved line of a batch breakdown.
type IngredientWeight struct {
	Name       string  `json:"name"`
	Label      string  `json:"label"`
	Unit       string  `json:"unit"`
	Percentage float64 `json:"percentage"`
	Grams      float64 `json:"grams"`
}

// Breakdown is the fully derived view of a recipe's batch: the base weight
// plus the gram weight of every selected non-base ingredient.
type Breakdown struct {
	// TotalDoughMass is numberOfBalls * ballWeight.
	TotalDoughMass float64 `json:"total_dough_mass"`

	// BaseName/BaseLabel identify the base ingredient, empty if the recipe
	// has no base entry selected.
	BaseName  string `json:"base_name,omitempty"`
	BaseLabel string `json:"base_label,omitempty"`

	// BaseWeight is the derived weight of the base ingredient in grams.
	BaseWeight float64 `json:"base_weight"`

	// Ingredients lists the selected non-base entries in recipe order.
	Ingredients []IngredientWeight `json:"ingredients"`
}

// ComputeBreakdown resolves the full batch for a recipe.
//
// # Conservation
//
// BaseWeight plus the sum of all Ingredients[i].Grams equals TotalDoughMass
// (within floating-point tolerance) whenever the denominator guard did not
// fire — the batch-mass conservation law the engine tests pin down.
func ComputeBreakdown(r *Recipe) Breakdown {
	baseWeight := ComputeBaseWeight(r.NumberOfBalls, r.BallWeight, r.Ingredients)

	breakdown := Breakdown{
		TotalDoughMass: r.NumberOfBalls * r.BallWeight,
		BaseWeight:     baseWeight,
		Ingredients:    make([]IngredientWeight, 0, len(r.Ingredients)),
	}

	for _, ingredient := range r.Ingredients {
		if !ingredient.Selected {
			// Unselected entries are excluded from display, not just the sum.
			continue
		}

		if ingredient.IsBase {
			breakdown.BaseName = ingredient.Name
			breakdown.BaseLabel = ingredient.Label
			continue
		}

		breakdown.Ingredients = append(breakdown.Ingredients, IngredientWeight{
			Name:       ingredient.Name,
			Label:      ingredient.Label,
			Unit:       ingredient.Unit,
			Percentage: ingredient.Percentage,
			Grams:      PercentageToGrams(ingredient.Percentage, baseWeight),
		})
	}

	return breakdown
}
