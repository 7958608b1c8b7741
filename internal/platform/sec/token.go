// Copyright (c) 2026 JanaSewa. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random token of byteLength
// random bytes, suitable for one-time verification links.
func GenerateSecureToken(byteLength int) (string, error) {
	raw := make([]byte, byteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec_generate_token_failed: %w", err)
	}
	return hex.EncodeToString(raw), nil
}
