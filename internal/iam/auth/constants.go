// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

// # Authentication Constraints

const (
	// VerificationTokenLength is the byte length of the random verification token.
	VerificationTokenLength = 32

	// TokenTypeBearer is the token_type value reported by login responses.
	TokenTypeBearer = "bearer"

	// Dashboard redirect targets derived from the admin check at login time.
	RedirectAdminDashboard = "/admin-dashboard"
	RedirectUserDashboard  = "/dashboard"
)
