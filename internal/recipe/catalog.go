// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/taibuivan/doh/internal/platform/constants"
)

// Definition is a catalog entry describing an ingredient kind and the seed
// values applied when a fresh recipe is started.
type Definition struct {
	Name              string  `json:"name"`
	Label             string  `json:"label"`
	Unit              string  `json:"unit"`
	IsBase            bool    `json:"is_base_ingredient"`
	DefaultPercentage float64 `json:"default_percentage"`
	DefaultSelected   bool    `json:"default_selected"`
}

// Catalog is the ordered list of ingredient definitions shared by all users.
//
// It is constant configuration: loaded once at startup (compiled-in defaults
// or a JSON override file) and replaced atomically by an administrator, never
// mutated in place.
type Catalog []Definition

// DefaultCatalog returns the compiled-in ingredient catalog.
//
// Flour is the base ingredient; the hydration/salt/yeast/fat seeds follow a
// plain lean-dough profile. Sugar, baking soda and baking powder ship
// unselected so quick breads can opt in.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "flour", Label: "Flour", Unit: "g", IsBase: true, DefaultPercentage: 0, DefaultSelected: true},
		{Name: "water", Label: "Water", Unit: "g", DefaultPercentage: 60, DefaultSelected: true},
		{Name: "salt", Label: "Salt", Unit: "g", DefaultPercentage: 2, DefaultSelected: true},
		{Name: "yeast", Label: "Yeast", Unit: "g", DefaultPercentage: 1, DefaultSelected: true},
		{Name: "fat", Label: "Fat", Unit: "g", DefaultPercentage: 10, DefaultSelected: true},
		{Name: "sugar", Label: "Sugar", Unit: "g", DefaultPercentage: 5, DefaultSelected: false},
		{Name: "baking-soda", Label: "Baking Soda", Unit: "g", DefaultPercentage: 1, DefaultSelected: false},
		{Name: "baking-powder", Label: "Baking Powder", Unit: "g", DefaultPercentage: 2, DefaultSelected: false},
	}
}

// LoadCatalogFile reads a JSON catalog override from disk.
//
// # File Format
//
// A JSON array of [Definition] objects, same shape as the API exposes under
// GET /api/v1/catalog.
func LoadCatalogFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read %s: %w", path, err)
	}

	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse %s: %w", path, err)
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	return catalog, nil
}

// Validate checks the structural invariants of a catalog.
//
// # Invariants
//   - At least one definition.
//   - Every definition has a non-empty name and label.
//   - Names are unique.
//   - At most one definition is marked base.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("catalog: must contain at least one ingredient")
	}

	seenNames := make(map[string]struct{}, len(c))
	baseCount := 0

	for _, definition := range c {
		if strings.TrimSpace(definition.Name) == "" || strings.TrimSpace(definition.Label) == "" {
			return fmt.Errorf("catalog: every ingredient needs a name and a label")
		}

		if _, duplicate := seenNames[definition.Name]; duplicate {
			return fmt.Errorf("catalog: duplicate ingredient name %q", definition.Name)
		}
		seenNames[definition.Name] = struct{}{}

		if definition.IsBase {
			baseCount++
		}
	}

	if baseCount > 1 {
		return fmt.Errorf("catalog: at most one ingredient may be the base, found %d", baseCount)
	}

	return nil
}

// NewRecipe produces a fresh working aggregate from the catalog seeds:
// every definition becomes an entry with its default percentage and
// selection, one ball of 500g, empty name, no id.
func (c Catalog) NewRecipe() *Recipe {
	ingredients := make([]Ingredient, 0, len(c))
	for _, definition := range c {
		ingredients = append(ingredients, Ingredient{
			Name:       definition.Name,
			Label:      definition.Label,
			Unit:       definition.Unit,
			IsBase:     definition.IsBase,
			Percentage: definition.DefaultPercentage,
			Selected:   definition.DefaultSelected,
		})
	}

	return &Recipe{
		NumberOfBalls: constants.DefaultNumberOfBalls,
		BallWeight:    constants.DefaultBallWeight,
		Ingredients:   ingredients,
	}
}
