package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonhttp "github.com/AlibekovAA/secure-notes/backend/internal/common/http"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	identityhttp "github.com/AlibekovAA/secure-notes/backend/internal/identity/http"
	notehttp "github.com/AlibekovAA/secure-notes/backend/internal/note/http"
	noteservice "github.com/AlibekovAA/secure-notes/backend/internal/note/service"
)

type RouterDeps struct {
	Log            *logger.Logger
	Verifier       jwtverify.TokenVerifier
	Resolver       jwtverify.Resolver
	Notes          noteservice.Service
	Ready          commonhttp.Pinger
	RateLimiter    *commonhttp.RateLimiter
	RequestTimeout time.Duration
	MaxRequestSize int64
}

// NewRouter assembles the public HTTP surface. Everything under /api
// passes the authentication gate first.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusNotFound, commonhttp.CodeNotFound, "not found", nil, commonhttp.TraceIDFromContext(req.Context()))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, commonhttp.TraceIDFromContext(req.Context()))
	})

	r.Get("/health", commonhttp.HealthHandler(deps.Log))
	if deps.Ready != nil {
		r.Get("/ready", commonhttp.ReadyHandler(deps.Log, deps.Ready))
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Use(jwtverify.Middleware(deps.Verifier, deps.Resolver, deps.Log))
		if deps.RateLimiter != nil {
			api.Use(deps.RateLimiter.Middleware("identity", identityKey))
		}
		if deps.RequestTimeout > 0 {
			api.Use(commonhttp.WithTimeout(deps.RequestTimeout))
		}

		notehttp.NewHandler(deps.Notes, deps.Log).Register(api)
		identityhttp.NewHandler(deps.Log).Register(api)
	})

	return commonhttp.BuildBaseHandler(deps.Log, deps.MaxRequestSize, r)
}

func identityKey(r *http.Request) string {
	if identity, ok := jwtverify.IdentityFromContext(r.Context()); ok {
		return fmt.Sprintf("user:%d", identity.UserID)
	}
	return "ip:" + commonhttp.GetClientIP(r)
}
