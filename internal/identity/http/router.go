package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/AlibekovAA/secure-notes/backend/internal/common/http"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
)

type identityResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Handler struct {
	log    *logger.Logger
	errors *commonhttp.ErrorHandler
}

func NewHandler(log *logger.Logger) *Handler {
	return &Handler{
		log:    log,
		errors: commonhttp.NewErrorHandler(log),
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/me", h.me)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.IdentityFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, jwtverify.ErrMissingToken)
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"user_id": identity.UserID,
		"action":  "identity_lookup",
	}).Debug("identity resolved")

	commonhttp.WriteJSON(w, http.StatusOK, identityResponse{
		ID:       identity.UserID,
		Username: identity.Username,
	})
}
