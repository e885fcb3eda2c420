package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	commonhttp "github.com/AlibekovAA/secure-notes/backend/internal/common/http"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/jwtverify"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/note/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/note/service"
)

type noteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(n domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type Handler struct {
	notes  service.Service
	log    *logger.Logger
	errors *commonhttp.ErrorHandler
}

func NewHandler(notes service.Service, log *logger.Logger) *Handler {
	return &Handler{
		notes:  notes,
		log:    log,
		errors: commonhttp.NewErrorHandler(log),
	}
}

// Register mounts the note routes. The router must already run the
// authentication middleware.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notes", h.listNotes)
	r.Post("/note", h.createNote)
	r.Post("/note/", h.createNote)
	r.Get("/note/{id}", h.getNote)
	r.Put("/note/{id}", h.updateNote)
	r.Delete("/note/{id}", h.deleteNote)
}

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.IdentityFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, jwtverify.ErrMissingToken)
		return
	}

	notes, err := h.notes.ListNotes(r.Context(), identity)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	resp := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		resp = append(resp, toResponse(n))
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) getNote(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.target(w, r)
	if !ok {
		return
	}

	note, err := h.notes.GetNote(r.Context(), id, identity)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toResponse(note))
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.IdentityFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, jwtverify.ErrMissingToken)
		return
	}

	var input service.CreateNoteInput
	if err := commonhttp.DecodeJSON(r, &input); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	note, err := h.notes.CreateNote(r.Context(), input, identity)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusCreated, toResponse(note))
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var patch domain.Patch
	if err := commonhttp.DecodeJSON(r, &patch); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	note, err := h.notes.UpdateNote(r.Context(), id, patch, identity)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, toResponse(note))
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.notes.DeleteNote(r.Context(), id, identity); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, commonhttp.MessageResponse{Message: "Note deleted"})
}

// target reads the caller and the note id. Ids that do not parse are
// answered like any other missing note.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (identity identitydomain.Identity, id int64, ok bool) {
	identity, ok = jwtverify.IdentityFromContext(r.Context())
	if !ok {
		h.errors.HandleError(w, r, jwtverify.ErrMissingToken)
		return identity, 0, false
	}

	id, ok = commonhttp.PathInt64(r, "id")
	if !ok {
		h.errors.HandleError(w, r, service.ErrNoteNotFound)
		return identity, 0, false
	}
	return identity, id, true
}
