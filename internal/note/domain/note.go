package domain

import (
	"net/http"
	"time"

	commonerrors "github.com/AlibekovAA/secure-notes/backend/internal/common/errors"
)

type Note struct {
	ID        int64
	Title     string
	Content   string
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Patch carries the fields of a partial update. A nil field is left as is.
type Patch struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil
}

// ErrNoteNotFound covers both missing notes and notes owned by someone else.
var ErrNoteNotFound = commonerrors.NewDomainError(
	"NOTE_NOT_FOUND",
	commonerrors.CategoryNotFound,
	http.StatusNotFound,
	"note not found",
)
