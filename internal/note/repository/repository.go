package repository

import (
	"context"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/secure-notes/backend/internal/common/clock"
	"github.com/AlibekovAA/secure-notes/backend/internal/common/db"
	identitydomain "github.com/AlibekovAA/secure-notes/backend/internal/identity/domain"
	"github.com/AlibekovAA/secure-notes/backend/internal/note/domain"
)

// Repository scopes every read and write to the owner passed in. There is
// no method that addresses a note by id alone.
type Repository interface {
	Find(ctx context.Context, id, ownerID int64) (domain.Note, error)
	List(ctx context.Context, ownerID int64) ([]domain.Note, error)
	Insert(ctx context.Context, title, content string, ownerID int64) (domain.Note, error)
	Update(ctx context.Context, id, ownerID int64, patch domain.Patch) (domain.Note, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

const noteColumns = `id, title, content, owner_id, created_at, updated_at`

type PgRepository struct {
	db    db.Querier
	tx    db.TxManager
	clock clock.Clock
}

func NewPgRepository(q db.Querier, clk clock.Clock) *PgRepository {
	return &PgRepository{
		db:    q,
		tx:    db.NewTxManager(q),
		clock: clk,
	}
}

func (r *PgRepository) now() time.Time {
	return r.clock.Now().UTC().Truncate(time.Microsecond)
}

func (r *PgRepository) Find(ctx context.Context, id, ownerID int64) (domain.Note, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = $1 AND owner_id = $2`,
		id,
		ownerID,
	)

	note, err := scanNote(row)
	if err := db.HandleQueryError(err, domain.ErrNoteNotFound, "find note", start); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (r *PgRepository) List(ctx context.Context, ownerID int64) ([]domain.Note, error) {
	start := time.Now()
	rows, err := r.db.Query(
		ctx,
		`SELECT `+noteColumns+` FROM notes WHERE owner_id = $1 ORDER BY id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list notes", start)
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, db.HandleExecError(err, "scan notes", start)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list notes", start)
	}

	db.MeasureQueryDuration("list notes", start)
	return notes, nil
}

func (r *PgRepository) Insert(ctx context.Context, title, content string, ownerID int64) (domain.Note, error) {
	var note domain.Note
	err := r.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		start := time.Now()
		row := tx.QueryRow(
			ctx,
			`INSERT INTO notes (title, content, owner_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $4)
			 RETURNING `+noteColumns,
			title,
			content,
			ownerID,
			r.now(),
		)

		var err error
		note, err = scanNote(row)
		if err != nil && db.IsForeignKeyViolation(err) {
			// the owner was removed after its identity was resolved
			db.MeasureQueryDuration("insert note", start)
			return identitydomain.ErrUnknownIdentity.WithCause(err)
		}
		return db.HandleExecError(err, "insert note", start)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

// Update merges the non-nil patch fields. updated_at moves to the clock time
// or one microsecond past its previous value, whichever is later, so it
// strictly increases even when the clock does not.
func (r *PgRepository) Update(ctx context.Context, id, ownerID int64, patch domain.Patch) (domain.Note, error) {
	var note domain.Note
	err := r.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		start := time.Now()
		row := tx.QueryRow(
			ctx,
			`UPDATE notes
			 SET title = COALESCE($3, title),
			     content = COALESCE($4, content),
			     updated_at = GREATEST($5::timestamptz, updated_at + interval '1 microsecond')
			 WHERE id = $1 AND owner_id = $2
			 RETURNING `+noteColumns,
			id,
			ownerID,
			patch.Title,
			patch.Content,
			r.now(),
		)

		var err error
		note, err = scanNote(row)
		return db.HandleQueryError(err, domain.ErrNoteNotFound, "update note", start)
	})
	if err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func (r *PgRepository) Delete(ctx context.Context, id, ownerID int64) error {
	return r.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		start := time.Now()
		tag, err := tx.Exec(
			ctx,
			`DELETE FROM notes WHERE id = $1 AND owner_id = $2`,
			id,
			ownerID,
		)
		if err := db.HandleExecError(err, "delete note", start); err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNoteNotFound
		}
		return nil
	})
}

func scanNote(row pgx.Row) (domain.Note, error) {
	var note domain.Note
	if err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		&note.OwnerID,
		&note.CreatedAt,
		&note.UpdatedAt,
	); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

var _ Repository = (*PgRepository)(nil)
