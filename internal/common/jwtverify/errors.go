package jwtverify

import (
	"net/http"

	commonerrors "github.com/AlibekovAA/secure-notes/backend/internal/common/errors"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
)

var (
	ErrMissingToken = commonerrors.NewDomainError(
		"MISSING_AUTHORIZATION",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication required",
	)

	ErrInvalidToken = commonerrors.NewDomainError(
		"UNAUTHORIZED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid or expired credentials",
	)

	ErrUnknownIdentity = identitydomain.ErrUnknownIdentity
)
