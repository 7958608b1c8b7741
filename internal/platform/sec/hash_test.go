// Copyright (c) 2026 JanaSewa. All rights reserved.

package sec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("Sungha123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "Sungha123", hash)
	assert.True(t, CheckPasswordHash("Sungha123", hash))
	assert.False(t, CheckPasswordHash("Sungha124", hash))
}

func TestHashPassword_ProducesUniqueSalts(t *testing.T) {
	first, err := HashPassword("Sungha123")
	require.NoError(t, err)

	second, err := HashPassword("Sungha123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCheckPasswordHash_MalformedHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("anything", "not-a-bcrypt-hash"))
	assert.False(t, CheckPasswordHash("anything", ""))
}

func TestHashPassword_LongInputTruncated(t *testing.T) {
	// bcrypt only reads the first 72 bytes. Two passwords sharing that
	// prefix must verify against each other's hashes.
	prefix := strings.Repeat("a", 72)
	hash, err := HashPassword(prefix + "tail-one")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash(prefix+"tail-two", hash))
	assert.True(t, CheckPasswordHash(prefix, hash))
	assert.False(t, CheckPasswordHash(strings.Repeat("b", 72), hash))
}
