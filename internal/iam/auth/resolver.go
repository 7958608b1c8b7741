// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

import (
	"context"

	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/sec"
)

// # Principal Resolution

// Resolver turns a raw bearer token into a fully hydrated principal.
//
// Every resolution is a fresh read: the token carries only the subject, so
// role grants and deactivations are visible on the very next request without
// re-login. No principal state is cached between requests.
type Resolver struct {
	tokenCodec     *sec.TokenCodec
	userRepository UserRepository
}

// NewResolver constructs a [Resolver].
func NewResolver(tokenCodec *sec.TokenCodec, userRepo UserRepository) *Resolver {
	return &Resolver{
		tokenCodec:     tokenCodec,
		userRepository: userRepo,
	}
}

/*
ResolveRequired decodes an access token and loads the referenced account.

Description: The canonical authentication step for protected endpoints.

Parameters:
  - context: context.Context
  - rawToken: string (bearer token, without the scheme prefix)

Returns:
  - *User: Resolved principal with hydrated roles
  - error: TokenExpired / TokenInvalid (401) or AccountInactive (403)
*/
func (resolver *Resolver) ResolveRequired(context context.Context, rawToken string) (*User, error) {
	claims, err := resolver.tokenCodec.Decode(rawToken, sec.TokenKindAccess)
	if err != nil {
		return nil, err
	}

	// A deleted account invalidates outstanding tokens on the next request.
	user, err := resolver.userRepository.FindByID(context, claims.Subject)
	if err != nil {
		return nil, apperr.TokenInvalid()
	}

	// Distinct class: the token is fine, the account cannot act.
	if !user.IsActive {
		return nil, apperr.AccountInactive()
	}

	return user, nil
}

/*
ResolveOptional resolves a principal if possible, or reports anonymous.

Description: Backs endpoints that personalize output for logged-in users
but remain public. Absent, malformed, expired, or otherwise unusable tokens
all resolve to nil without error.

Parameters:
  - context: context.Context
  - rawToken: string (may be empty)

Returns:
  - *User: Resolved principal, or nil for anonymous
*/
func (resolver *Resolver) ResolveOptional(context context.Context, rawToken string) *User {
	if rawToken == "" {
		return nil
	}

	user, err := resolver.ResolveRequired(context, rawToken)
	if err != nil {
		return nil
	}
	return user
}
