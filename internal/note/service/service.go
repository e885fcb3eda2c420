package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	commonerrors "github.com/AlibekovAA/secure-notes/backend/internal/common/errors"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/logger"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/note/domain"
	noterepo "github.com/AlibekovAA/secure-notes/backend/internal/note/repository"
	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
)

var ErrNoteNotFound = domain.ErrNoteNotFound

var ErrValidation = commonerrors.NewDomainError(
	"VALIDATION_FAILED",
	commonerrors.CategoryValidation,
	http.StatusBadRequest,
	"validation failed",
)

type Service interface {
	GetNote(ctx context.Context, id int64, identity identitydomain.Identity) (domain.Note, error)
	ListNotes(ctx context.Context, identity identitydomain.Identity) ([]domain.Note, error)
	CreateNote(ctx context.Context, input CreateNoteInput, identity identitydomain.Identity) (domain.Note, error)
	UpdateNote(ctx context.Context, id int64, patch domain.Patch, identity identitydomain.Identity) (domain.Note, error)
	DeleteNote(ctx context.Context, id int64, identity identitydomain.Identity) error
}

type CreateNoteInput struct {
	Title   *string `json:"title" validate:"required,notblank"`
	Content *string `json:"content" validate:"required,notblank"`
}

type patchRules struct {
	Title   *string `json:"title" validate:"omitnil,notblank"`
	Content *string `json:"content" validate:"omitnil,notblank"`
}

type NoteService struct {
	repo     noterepo.Repository
	log      *logger.Logger
	validate *validator.Validate
}

func NewNoteService(repo noterepo.Repository, log *logger.Logger) *NoteService {
	return &NoteService{
		repo:     repo,
		log:      log,
		validate: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *NoteService) GetNote(ctx context.Context, id int64, identity identitydomain.Identity) (domain.Note, error) {
	note, err := s.repo.Find(ctx, id, identity.UserID)
	if err != nil {
		return domain.Note{}, s.fail(ctx, "get", id, identity, err)
	}

	metrics.NoteOperationsTotal.WithLabelValues("get", "success").Inc()
	return note, nil
}

func (s *NoteService) ListNotes(ctx context.Context, identity identitydomain.Identity) ([]domain.Note, error) {
	notes, err := s.repo.List(ctx, identity.UserID)
	if err != nil {
		return nil, s.fail(ctx, "list", 0, identity, err)
	}

	metrics.NoteOperationsTotal.WithLabelValues("list", "success").Inc()
	return notes, nil
}

func (s *NoteService) CreateNote(ctx context.Context, input CreateNoteInput, identity identitydomain.Identity) (domain.Note, error) {
	if err := s.validateStruct(input); err != nil {
		return domain.Note{}, s.fail(ctx, "create", 0, identity, err)
	}

	note, err := s.repo.Insert(ctx, *input.Title, *input.Content, identity.UserID)
	if err != nil {
		return domain.Note{}, s.fail(ctx, "create", 0, identity, err)
	}

	metrics.NoteOperationsTotal.WithLabelValues("create", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": identity.UserID,
		"note_id": note.ID,
		"action":  "note_created",
	}).Info("note created")
	return note, nil
}

// UpdateNote applies the present fields of patch. An empty patch returns the
// stored note without writing.
func (s *NoteService) UpdateNote(ctx context.Context, id int64, patch domain.Patch, identity identitydomain.Identity) (domain.Note, error) {
	if err := s.validateStruct(patchRules(patch)); err != nil {
		return domain.Note{}, s.fail(ctx, "update", id, identity, err)
	}

	if patch.IsEmpty() {
		note, err := s.repo.Find(ctx, id, identity.UserID)
		if err != nil {
			return domain.Note{}, s.fail(ctx, "update", id, identity, err)
		}
		metrics.NoteOperationsTotal.WithLabelValues("update", "noop").Inc()
		return note, nil
	}

	note, err := s.repo.Update(ctx, id, identity.UserID, patch)
	if err != nil {
		return domain.Note{}, s.fail(ctx, "update", id, identity, err)
	}

	metrics.NoteOperationsTotal.WithLabelValues("update", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": identity.UserID,
		"note_id": note.ID,
		"action":  "note_updated",
	}).Info("note updated")
	return note, nil
}

func (s *NoteService) DeleteNote(ctx context.Context, id int64, identity identitydomain.Identity) error {
	if err := s.repo.Delete(ctx, id, identity.UserID); err != nil {
		return s.fail(ctx, "delete", id, identity, err)
	}

	metrics.NoteOperationsTotal.WithLabelValues("delete", "success").Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": identity.UserID,
		"note_id": id,
		"action":  "note_deleted",
	}).Info("note deleted")
	return nil
}

func (s *NoteService) validateStruct(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return ErrValidation.WithMessage(fieldMessage(fieldErrs[0])).WithCause(err)
	}
	return ErrValidation.WithCause(err)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// fail records the outcome and maps storage faults to a generic internal
// error. Domain errors pass through unchanged.
func (s *NoteService) fail(ctx context.Context, operation string, id int64, identity identitydomain.Identity, err error) error {
	fields := logger.Fields{
		"user_id": identity.UserID,
		"action":  operation + "_note_failed",
	}
	if id != 0 {
		fields["note_id"] = id
	}

	switch {
	case errors.Is(err, ErrNoteNotFound):
		metrics.NoteOperationsTotal.WithLabelValues(operation, "not_found").Inc()
		if s.log.ShouldLog(logger.DEBUG) {
			s.log.WithFields(ctx, fields).Debug("note not found for owner")
		}
		return ErrNoteNotFound
	case errors.Is(err, identitydomain.ErrUnknownIdentity):
		metrics.NoteOperationsTotal.WithLabelValues(operation, "unknown_owner").Inc()
		s.log.WithFields(ctx, fields).Warnf("%s note rejected: owner no longer exists", operation)
		return identitydomain.ErrUnknownIdentity
	case errors.Is(err, ErrValidation):
		metrics.NoteOperationsTotal.WithLabelValues(operation, "invalid").Inc()
		s.log.WithFields(ctx, fields).Warnf("%s note rejected: %v", operation, err)
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		metrics.NoteOperationsTotal.WithLabelValues(operation, "cancelled").Inc()
		s.log.WithFields(ctx, fields).Warnf("%s note cancelled: %v", operation, err)
		return commonerrors.ErrInternalError.WithCause(err)
	default:
		metrics.NoteOperationsTotal.WithLabelValues(operation, "error").Inc()
		s.log.WithFields(ctx, fields).Errorf("%s note failed: %v", operation, err)
		return commonerrors.ErrDatabaseError.WithCause(fmt.Errorf("failed to %s note: %w", operation, err))
	}
}
