// Copyright (c) 2026 Doh. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/doh/internal/platform/sec"
)

/*
TestGenerateSecureToken checks entropy length encoding and non-repetition.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, first, 64) // hex encoding doubles the byte length

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

/*
TestHashToken checks determinism and that the stored value never equals the
raw token.
*/
func TestHashToken(t *testing.T) {
	token := "some-refresh-token"

	hash := sec.HashToken(token)
	assert.Len(t, hash, 64) // SHA-256 hex digest
	assert.NotEqual(t, token, hash)

	// Deterministic: the login-time hash must match the lookup-time hash.
	assert.Equal(t, hash, sec.HashToken(token))
	assert.NotEqual(t, hash, sec.HashToken("other-token"))
}

/*
TestPasswordHashing checks the bcrypt round trip.
*/
func TestPasswordHashing(t *testing.T) {
	hash, err := sec.HashPassword("let-me-bake")
	require.NoError(t, err)
	assert.NotEqual(t, "let-me-bake", hash)

	assert.True(t, sec.CheckPasswordHash("let-me-bake", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
}

/*
TestUserRole_AtLeast checks the role hierarchy comparisons.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleMember))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleMember.AtLeast(sec.RoleMember))
	assert.False(t, sec.RoleMember.AtLeast(sec.RoleAdmin))
	assert.False(t, sec.UserRole("unknown").AtLeast(sec.RoleMember))
}
