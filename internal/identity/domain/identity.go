package domain

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/secure-notes/backend/internal/common/errors"
)

// Identity is the user a request acts as. It is bound to the request
// context after authentication and never persisted.
type Identity struct {
	UserID   int64
	Username string
}

// ErrUnknownIdentity is returned when a verified token names a user that
// does not exist. Its public code and message match an invalid token.
var ErrUnknownIdentity = commonerrors.NewDomainError(
	"UNAUTHORIZED",
	commonerrors.CategoryUnauthorized,
	http.StatusUnauthorized,
	"invalid or expired credentials",
)
