package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	commonhttp "github.com/AlibekovAA/secure-notes/backend/internal/common/http"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
)

type TokenVerifier interface {
	Verify(token string) (Claims, error)
}

type Resolver interface {
	Resolve(ctx context.Context, username string) (identitydomain.Identity, error)
}

// Middleware authenticates every request before it reaches next. Requests
// without a usable bearer token never touch storage.
func Middleware(verifier TokenVerifier, resolver Resolver, log *logger.Logger) func(next http.Handler) http.Handler {
	errorHandler := commonhttp.NewErrorHandler(log)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				reject(ctx, log, r, "missing_token", nil)
				errorHandler.HandleError(w, r, ErrMissingToken)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				reject(ctx, log, r, "invalid_token", err)
				errorHandler.HandleError(w, r, ErrInvalidToken.WithCause(err))
				return
			}
			if claims.Username == "" {
				reject(ctx, log, r, "missing_username", nil)
				errorHandler.HandleError(w, r, ErrInvalidToken)
				return
			}

			identity, err := resolver.Resolve(ctx, claims.Username)
			if err != nil {
				if errors.Is(err, ErrUnknownIdentity) {
					reject(ctx, log, r, "unknown_identity", err)
					errorHandler.HandleError(w, r, err)
					return
				}
				metrics.AuthAttemptsTotal.WithLabelValues("error", "resolver_failure").Inc()
				errorHandler.HandleError(w, r, err)
				return
			}

			metrics.AuthAttemptsTotal.WithLabelValues("success", "ok").Inc()
			next.ServeHTTP(w, r.WithContext(WithIdentity(ctx, identity)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

func reject(ctx context.Context, log *logger.Logger, r *http.Request, reason string, cause error) {
	metrics.AuthAttemptsTotal.WithLabelValues("rejected", reason).Inc()

	fields := logger.Fields{
		"action": "auth_rejected",
		"reason": reason,
		"path":   r.URL.Path,
	}
	if cause != nil {
		fields["cause"] = cause.Error()
	}
	log.WithFields(ctx, fields).Warn("request authentication failed")
}
