// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/doh/internal/platform/apperr"
	"github.com/taibuivan/doh/internal/platform/constants"
)

// RedisDraftRepository implements [DraftRepository] using Redis.
//
// # Volatility
//
// Drafts are scratch state: losing one costs the user a few form edits, not
// data. Redis with a TTL mirrors the session-storage semantics the web
// client had, without pinning the draft to a single browser.
type RedisDraftRepository struct {
	client *redis.Client
}

// NewDraftRepository creates a new Redis-backed [DraftRepository].
func NewDraftRepository(client *redis.Client) *RedisDraftRepository {
	return &RedisDraftRepository{client: client}
}

/*
Set stores the owner's working draft with a TTL, replacing any previous draft.

Parameters:
  - context: context.Context
  - ownerID: string
  - recipe: *Recipe
  - ttl: time.Duration

Returns:
  - error: Marshalling or execution errors
*/
func (repository *RedisDraftRepository) Set(context context.Context, ownerID string, recipe *Recipe, ttl time.Duration) error {

	// Use constants for key prefix
	key := constants.RedisPrefixDraft + ownerID

	// Serialize the whole aggregate
	payload, err := json.Marshal(recipe)
	if err != nil {
		return fmt.Errorf("redis_draft_marshal_failed: %w", err)
	}

	// Set the draft with TTL
	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_draft_set_failed: %w", err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the owner's working draft.

Description: Returns apperr.NotFound if the draft is absent or expired.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - *Recipe: The restored working aggregate
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisDraftRepository) Get(context context.Context, ownerID string) (*Recipe, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixDraft + ownerID

	// Get the draft from Redis
	payload, err := repository.client.Get(context, key).Bytes()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Draft")
		}
		return nil, fmt.Errorf("redis_draft_get_failed: %w", err)
	}

	// Deserialize the aggregate
	recipe := &Recipe{}
	if err := json.Unmarshal(payload, recipe); err != nil {
		return nil, fmt.Errorf("redis_draft_unmarshal_failed: %w", err)
	}

	// Return the draft
	return recipe, nil
}

/*
Delete discards the owner's working draft.

Parameters:
  - context: context.Context
  - ownerID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisDraftRepository) Delete(context context.Context, ownerID string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixDraft + ownerID

	// Delete the draft from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_draft_delete_failed: %w", err)
	}

	// Return nil on success
	return nil
}
