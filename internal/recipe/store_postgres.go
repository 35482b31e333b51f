// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/doh/internal/platform/apperr"
)

// PostgresRecipeRepository implements the [Repository] interface using pgx.
//
// # Storage Model
//
// The ingredient entries are stored as a single JSONB column. A recipe is
// always read and written whole (the aggregate is never partially
// persisted), so row-per-ingredient normalization would buy nothing and
// cost a join plus ordering bookkeeping on every access.
type PostgresRecipeRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRecipeRepository {
	return &PostgresRecipeRepository{pool: pool}
}

// Create persists a new recipe row into the recipes.recipe table.
func (repository *PostgresRecipeRepository) Create(ctx context.Context, recipe *Recipe) error {
	const query = `
		INSERT INTO recipes.recipe (
			id, ownerid, name, numberofballs, ballweight, ingredients, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_marshal_failed: %w", err)
	}

	now := time.Now()
	if recipe.CreatedAt.IsZero() {
		recipe.CreatedAt = now
	}
	recipe.UpdatedAt = now

	_, err = repository.pool.Exec(ctx, query,
		recipe.ID,
		recipe.OwnerID,
		recipe.Name,
		recipe.NumberOfBalls,
		recipe.BallWeight,
		ingredientsJSON,
		recipe.CreatedAt,
		recipe.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_create_failed: %w", err)
	}

	return nil
}

// FindByID retrieves a recipe row by its primary key.
//
// # Returns
//
// Returns [*Recipe] if found, or [apperr.NotFound] if no recipe exists.
func (repository *PostgresRecipeRepository) FindByID(ctx context.Context, id string) (*Recipe, error) {
	const query = `
		SELECT id, ownerid, name, numberofballs, ballweight, ingredients, createdat, updatedat
		FROM recipes.recipe
		WHERE id = $1`

	recipe, err := scanRecipe(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Recipe")
		}
		return nil, fmt.Errorf("postgres_recipe_repo_find_by_id_failed: %w", err)
	}

	return recipe, nil
}

// ListByOwner retrieves one page of an owner's recipes, newest first, plus
// the owner's total recipe count.
func (repository *PostgresRecipeRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*Recipe, int, error) {
	const countQuery = `SELECT COUNT(*) FROM recipes.recipe WHERE ownerid = $1`

	total := 0
	if err := repository.pool.QueryRow(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_recipe_repo_count_failed: %w", err)
	}

	const listQuery = `
		SELECT id, ownerid, name, numberofballs, ballweight, ingredients, createdat, updatedat
		FROM recipes.recipe
		WHERE ownerid = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(ctx, listQuery, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_recipe_repo_list_failed: %w", err)
	}
	defer rows.Close()

	recipes := make([]*Recipe, 0, limit)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_recipe_repo_scan_failed: %w", err)
		}
		recipes = append(recipes, recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_recipe_repo_rows_failed: %w", err)
	}

	return recipes, total, nil
}

// Update replaces the stored aggregate atomically in one statement.
func (repository *PostgresRecipeRepository) Update(ctx context.Context, recipe *Recipe) error {
	const query = `
		UPDATE recipes.recipe
		SET name = $2, numberofballs = $3, ballweight = $4, ingredients = $5, updatedat = $6
		WHERE id = $1`

	ingredientsJSON, err := json.Marshal(recipe.Ingredients)
	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_marshal_failed: %w", err)
	}

	recipe.UpdatedAt = time.Now()

	tag, err := repository.pool.Exec(ctx, query,
		recipe.ID,
		recipe.Name,
		recipe.NumberOfBalls,
		recipe.BallWeight,
		ingredientsJSON,
		recipe.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_update_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Recipe")
	}

	return nil
}

// Delete removes the recipe row permanently.
func (repository *PostgresRecipeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM recipes.recipe WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_recipe_repo_delete_failed: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Recipe")
	}

	return nil
}

// scanRecipe hydrates one row into a Recipe, decoding the JSONB entry list.
func scanRecipe(row pgx.Row) (*Recipe, error) {
	recipe := &Recipe{}
	var ingredientsJSON []byte

	err := row.Scan(
		&recipe.ID,
		&recipe.OwnerID,
		&recipe.Name,
		&recipe.NumberOfBalls,
		&recipe.BallWeight,
		&ingredientsJSON,
		&recipe.CreatedAt,
		&recipe.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(ingredientsJSON, &recipe.Ingredients); err != nil {
		return nil, fmt.Errorf("postgres_recipe_repo_unmarshal_failed: %w", err)
	}

	return recipe, nil
}
