// Copyright (c) 2026 JanaSewa. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/janasewa/janasewa/internal/platform/apperr"
)

// Token kinds embedded in the `type` claim. A token of one kind is never
// accepted where the other is expected.
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// Claims represents the payload embedded inside a JanaSewa JWT.
//
// Tokens deliberately carry only the subject and lifecycle claims. Roles and
// flags are NOT embedded: every request re-reads the account so that role
// grants and deactivations take effect without re-login.
type Claims struct {
	jwt.RegisteredClaims

	// Kind distinguishes access tokens from refresh tokens.
	Kind string `json:"type"`
}

// TokenConfig holds the immutable signing parameters. It is built once in
// main from the environment and never mutated afterwards.
type TokenConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenCodec issues and verifies HS256 JWTs against a single shared secret.
type TokenCodec struct {
	config TokenConfig
}

// NewTokenCodec creates a TokenCodec from an immutable config.
func NewTokenCodec(config TokenConfig) *TokenCodec {
	return &TokenCodec{config: config}
}

// AccessTTL exposes the configured access-token lifetime, used by login
// responses to report expires_in.
func (codec *TokenCodec) AccessTTL() time.Duration {
	return codec.config.AccessTTL
}

// IssueAccessToken creates a signed access token for the given subject.
// An optional ttl override is honored when present (tests use negative
// values to mint pre-expired tokens).
func (codec *TokenCodec) IssueAccessToken(subject string, ttl ...time.Duration) (string, error) {
	timeToLive := codec.config.AccessTTL
	if len(ttl) > 0 {
		timeToLive = ttl[0]
	}
	return codec.issue(subject, TokenKindAccess, timeToLive)
}

// IssueRefreshToken creates a signed refresh token for the given subject.
func (codec *TokenCodec) IssueRefreshToken(subject string, ttl ...time.Duration) (string, error) {
	timeToLive := codec.config.RefreshTTL
	if len(ttl) > 0 {
		timeToLive = ttl[0]
	}
	return codec.issue(subject, TokenKindRefresh, timeToLive)
}

func (codec *TokenCodec) issue(subject, kind string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    codec.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Kind: kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(codec.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sec_token_sign_failed: %w", err)
	}

	return signedToken, nil
}

// Decode verifies the signature and lifetime of a token string and checks
// that it carries the expected kind and a non-empty subject.
//
// Expiry is the only failure reported as [apperr.TokenExpired]; every other
// failure (signature, format, kind mismatch, missing subject) collapses into
// [apperr.TokenInvalid] so clients learn nothing about token internals.
func (codec *TokenCodec) Decode(tokenString, expectedKind string) (*Claims, error) {
	claims, err := codec.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Kind != expectedKind {
		return nil, apperr.TokenInvalid()
	}
	if claims.Subject == "" {
		return nil, apperr.TokenInvalid()
	}

	return claims, nil
}

// TryDecode verifies a token and returns its claims, or nil when the token
// fails for any reason. It never returns an error and performs no kind
// check; it backs optional authentication.
func (codec *TokenCodec) TryDecode(tokenString string) *Claims {
	claims, err := codec.parse(tokenString)
	if err != nil {
		return nil
	}
	return claims
}

func (codec *TokenCodec) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec_unexpected_signing_method: %v", token.Header["alg"])
		}
		return []byte(codec.config.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired()
		}
		return nil, apperr.TokenInvalid()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperr.TokenInvalid()
	}

	return claims, nil
}
