package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ladangwatch/internal"
	"ladangwatch/pkg/types"

	"github.com/lestrrat-go/jwx/v3/jwt"
	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeySession contextKey = "session"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireAuth verifies the access-token cookie and attaches a freshly
// built session to the request context. The profile is re-read on every
// request, never cached, so a role change made mid-session takes effect on
// the identity's very next request.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
		if err != nil {
			s.logger.WithError(err).Debug("no access token cookie found")
			s.respondUnauthorized(w)
			return
		}

		var accessToken string
		err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
		if err != nil {
			s.logger.WithError(err).Error("failed to decrypt access token")
			s.respondUnauthorized(w)
			return
		}

		identity, err := s.verifyToken(r.Context(), accessToken)
		if err != nil {
			s.logger.WithError(err).Error("failed to verify access token")
			s.respondUnauthorized(w)
			return
		}

		session := &types.Session{Identity: identity}

		profile, err := s.profileRepo.Profile(r.Context(), identity.ID)
		if err != nil && !errors.Is(err, types.ErrProfileNotFound) {
			s.logger.WithError(err).Error("failed to load profile for session")
			s.respondError(w, err)
			return
		}
		session.Profile = profile

		s.logger.WithFields(logrus.Fields{
			"user_id": identity.ID,
			"email":   identity.Email,
		}).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeySession, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// verifyAccessToken checks the token signature against the Cognito pool's
// JWKS and extracts the identity claims.
func (s *Service) verifyAccessToken(ctx context.Context, accessToken string) (types.Identity, error) {
	set, err := s.jwksCache.Lookup(ctx, s.jwksURL)
	if err != nil {
		return types.Identity{}, fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	token, err := jwt.Parse(
		[]byte(accessToken),
		jwt.WithKeySet(set),
		jwt.WithValidate(true),
	)
	if err != nil {
		return types.Identity{}, fmt.Errorf("failed to parse JWT: %w", err)
	}

	userID, ok := token.Subject()
	if !ok || userID == "" {
		return types.Identity{}, fmt.Errorf("no user ID in JWT subject claim")
	}

	// The email claim is optional on Cognito access tokens.
	var email string
	if err := token.Get("email", &email); err != nil {
		s.logger.WithError(err).Debug("no email claim in JWT")
	}

	return types.Identity{ID: userID, Email: email}, nil
}

func (s *Service) sessionFromContext(ctx context.Context) (*types.Session, error) {
	session, ok := ctx.Value(contextKeySession).(*types.Session)
	if !ok || session == nil {
		return nil, fmt.Errorf("session not found in context")
	}
	return session, nil
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			// Preserve query string
			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
