// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"strings"
	"time"

	"github.com/taibuivan/doh/pkg/convert"
	"github.com/taibuivan/doh/pkg/slug"
)

// Ingredient is one entry of a recipe: the catalog definition and the
// per-recipe state (percentage, selection) folded into a single record.
//
// # Why one composite record?
//
// The entries form ONE ordered slice keyed by the stable Name. Keeping
// definition and state together rules out the alignment drift that parallel
// index-matched arrays (labels here, percentages there, selection flags
// elsewhere) suffer from when custom ingredients are appended or reordered.
type Ingredient struct {
	// Name is the stable identifier (slug) — the key for edit operations.
	Name string `json:"name"`

	// Label is the display name, copied into the recipe at save time so a
	// later catalog relabel cannot silently rewrite stored recipes.
	Label string `json:"label"`

	// Unit is the measurement unit. Only grams are produced today; the field
	// is kept for extensibility and is not interpreted numerically.
	Unit string `json:"unit"`

	// IsBase marks the base ingredient whose weight is derived, never entered.
	// At most one entry of a recipe carries it.
	IsBase bool `json:"is_base_ingredient"`

	// Percentage is the baker's percentage (parts per 100 parts of base
	// weight). Ignored for the base entry.
	Percentage float64 `json:"percentage"`

	// Selected controls whether the entry participates in the current batch.
	Selected bool `json:"selected"`

	// Custom marks a user-defined ingredient appended to this recipe only.
	Custom bool `json:"custom,omitempty"`
}

// Recipe is the persisted working unit: a named set of ingredient entries
// plus the batch size parameters.
//
// # Rules
//   - Name must be non-empty to save; edits before saving are unrestricted.
//   - ID is assigned on first successful save and absent on drafts.
//   - OwnerID is assigned on create and immutable thereafter.
//   - Edit operations mutate exactly the targeted field; derived weights are
//     recomputed fresh via [ComputeBreakdown], never stored on the aggregate.
type Recipe struct {
	ID            string       `json:"id,omitempty"`
	OwnerID       string       `json:"owner_id,omitempty"`
	Name          string       `json:"name"`
	NumberOfBalls float64      `json:"number_of_balls"`
	BallWeight    float64      `json:"ball_weight"`
	Ingredients   []Ingredient `json:"ingredients"`
	CreatedAt     time.Time    `json:"created_at,omitzero"`
	UpdatedAt     time.Time    `json:"updated_at,omitzero"`
}

// IsSaved reports whether the recipe has been persisted at least once.
func (r *Recipe) IsSaved() bool {
	return r.ID != ""
}

// find returns the entry with the given name key, or nil.
func (r *Recipe) find(name string) *Ingredient {
	for index := range r.Ingredients {
		if r.Ingredients[index].Name == name {
			return &r.Ingredients[index]
		}
	}
	return nil
}

// # Edit Operations
//
// Every operation below is a total function: malformed numeric input coerces
// to 0 and unknown names are no-ops. None of them reorder or drop entries.

// SetPercentage sets the named entry's baker's percentage from raw form
// input. Unparseable input coerces to 0. Writes to the base entry are
// refused — its weight is derived, not entered.
func (r *Recipe) SetPercentage(name, rawValue string) {
	entry := r.find(name)
	if entry == nil || entry.IsBase {
		return
	}
	entry.Percentage = convert.ToFloat64(rawValue)
}

// ToggleSelected flips the named entry's participation flag. Only the flag
// changes; percentage and position are untouched, so toggling off and back
// on restores the exact prior computation.
func (r *Recipe) ToggleSelected(name string) {
	entry := r.find(name)
	if entry == nil {
		return
	}
	entry.Selected = !entry.Selected
}

// SetNumberOfBalls replaces the batch portion count from raw form input,
// coercing unparseable input to 0.
func (r *Recipe) SetNumberOfBalls(rawValue string) {
	r.NumberOfBalls = convert.ToFloat64(rawValue)
}

// SetBallWeight replaces the grams-per-portion from raw form input,
// coercing unparseable input to 0.
func (r *Recipe) SetBallWeight(rawValue string) {
	r.BallWeight = convert.ToFloat64(rawValue)
}

// AddCustomIngredient appends a user-defined ingredient to this recipe.
//
// # Rejection Rules
//
// The call is a no-op returning false when the label is empty/whitespace,
// when an existing entry already carries the same label (case-sensitive
// exact match), or when the derived name key collides with an existing one.
//
// On success the entry starts at percentage 0, selected, never base.
func (r *Recipe) AddCustomIngredient(label string) bool {
	if strings.TrimSpace(label) == "" {
		return false
	}

	name := slug.From(label)
	if name == "" {
		return false
	}

	for _, existing := range r.Ingredients {
		if existing.Label == label || existing.Name == name {
			return false
		}
	}

	r.Ingredients = append(r.Ingredients, Ingredient{
		Name:     name,
		Label:    label,
		Unit:     "g",
		IsBase:   false,
		Selected: true,
		Custom:   true,
	})

	return true
}
