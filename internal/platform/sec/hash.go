// Copyright (c) 2026 JanaSewa. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// bcryptCost matches the work factor the platform has always used for
	// stored credentials. Changing it only affects newly written hashes.
	bcryptCost = 12

	// maxPasswordBytes is the bcrypt input limit. Longer inputs are truncated
	// explicitly so that hashing and verification agree on the effective
	// password regardless of library behavior.
	maxPasswordBytes = 72
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
// The returned string is self-describing (algorithm, cost, salt embedded).
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword(truncatePassword(plainTextPassword), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("sec_hash_password_failed: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
// Any failure, including a malformed stored hash, reports false; callers
// never see an error and cannot distinguish failure causes.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), truncatePassword(plainTextPassword))
	return err == nil
}

func truncatePassword(plainTextPassword string) []byte {
	raw := []byte(plainTextPassword)
	if len(raw) > maxPasswordBytes {
		raw = raw[:maxPasswordBytes]
	}
	return raw
}
