package http

import (
	"net/http"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/httpmetrics"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
)

func BuildBaseHandler(log *logger.Logger, maxRequestSize int64, handler http.Handler) http.Handler {
	metrics := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxBody := MaxRequestSizeMiddleware(maxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(traceID(recovery(maxBody(metrics.Wrap(handler))))))
}
