package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
)

const readinessTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if log.ShouldLog(logger.DEBUG) {
			log.Debug("health check request")
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func ReadyHandler(log *logger.Logger, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			log.WithFields(r.Context(), logger.Fields{"action": "readiness"}).Warnf("database not ready: %v", err)
			WriteErrorEnvelope(w, http.StatusServiceUnavailable, CodeNotReady, "service not ready", nil, TraceIDFromContext(r.Context()))
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
