package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/db"
	commonerrors "github.com/AlibekovAA/secure-notes/backend/internal/common/errors"
	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
	"github.com/AlibekovAA/secure-notes/backend/internal/user/domain"
)

type Repository interface {
	Create(ctx context.Context, username string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
}

type PgRepository struct {
	db db.Querier
}

func NewPgRepository(q db.Querier) *PgRepository {
	return &PgRepository{db: q}
}

func (r *PgRepository) Create(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (username) VALUES ($1) RETURNING id, username, created_at`,
		username,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err != nil && db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create user", start)
		return domain.User{}, commonerrors.ErrUsernameAlreadyExists.WithCause(err)
	}
	if err := db.HandleExecError(err, "create user", start); err != nil {
		return domain.User{}, err
	}
	metrics.UsersCreatedTotal.Inc()
	return user, nil
}

func (r *PgRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT id, username, created_at FROM users WHERE username = $1`,
		username,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by username", start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT id, username, created_at FROM users WHERE id = $1`,
		id,
	)

	var user domain.User
	err := row.Scan(&user.ID, &user.Username, &user.CreatedAt)
	if err := db.HandleQueryError(err, commonerrors.ErrUserNotFound, "find user by id", start); err != nil {
		return domain.User{}, fmt.Errorf("user %d: %w", id, err)
	}
	return user, nil
}
