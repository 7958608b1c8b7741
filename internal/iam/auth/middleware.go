// Copyright (c) 2026 JanaSewa. All rights reserved.

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/janasewa/janasewa/internal/platform/apperr"
	"github.com/janasewa/janasewa/internal/platform/constants"
	"github.com/janasewa/janasewa/internal/platform/ctxkey"
	"github.com/janasewa/janasewa/internal/platform/ctxutil"
	"github.com/janasewa/janasewa/internal/platform/respond"
)

// # Context Plumbing

// WithUser returns a new context carrying the resolved principal.
// The user id is mirrored into the logging context for correlation.
func WithUser(ctx context.Context, user *User) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyUser, user)
	return ctxutil.WithUserID(ctx, user.ID)
}

// FromContext retrieves the resolved principal, or nil for anonymous requests.
func FromContext(ctx context.Context) *User {
	user, _ := ctx.Value(ctxkey.KeyUser).(*User)
	return user
}

// RequiredUser retrieves the resolved principal from the request, failing
// with a 401 error when the request is anonymous.
func RequiredUser(request *http.Request) (*User, error) {
	user := FromContext(request.Context())
	if user == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return user, nil
}

// # Middleware

// Authenticate resolves the bearer token into a principal when present.
//
// It never fails the request: anonymous and broken tokens pass through
// unauthenticated, and each protected route decides whether that matters
// via [RequireAuth] or [Require].
func Authenticate(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if user := resolver.ResolveOptional(request.Context(), bearerToken(request)); user != nil {
				request = request.WithContext(WithUser(request.Context(), user))
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAuth rejects requests without a valid access token.
//
// Resolution runs here (not just a context check) so the client receives
// the precise failure class: expired token, invalid token, or inactive
// account.
func RequireAuth(resolver *Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			rawToken := bearerToken(request)
			if rawToken == "" {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			user, err := resolver.ResolveRequired(request.Context(), rawToken)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request.WithContext(WithUser(request.Context(), user)))
		})
	}
}

// Require applies authorization guards to an already authenticated request.
// It must be mounted inside [RequireAuth].
func Require(guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user, err := RequiredUser(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			for _, guard := range guards {
				if err := guard(user); err != nil {
					respond.Error(writer, request, err)
					return
				}
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerToken extracts the raw token from the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func bearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
