package hardware_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hwcatalog/internal/core/apperror"
	"hwcatalog/internal/domain/hardware"
	"hwcatalog/internal/infrastructure/storage/postgres"
)

const pgUniqueViolation = "23505"

// mutableCols are the record columns written by Insert and Update.
var mutableCols = postgres.ExtractDBColumns[hardware.Record](
	"id", "version", "created_at", "updated_at", "images",
)

// Repo is the write side of the hardware store.
// All statements join the transaction carried by ctx, if any.
type Repo struct {
	db querierSource
}

// NewRepo creates a repository executing through txm.
func NewRepo(txm *postgres.TxManager) *Repo {
	return &Repo{db: txm}
}

// ExistsByName reports whether any record carries name.
func (r *Repo) ExistsByName(ctx context.Context, name string) (bool, error) {
	q := Builder().
		Select("1").
		From(tableHardware).
		Where(squirrel.Eq{"name": name}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists by name: %w", err)
	}
	return true, nil
}

func insertQuery(rec *hardware.Record) squirrel.InsertBuilder {
	return Builder().
		Insert(tableHardware).
		SetMap(postgres.StructToMap(rec, mutableCols...)).
		Suffix("RETURNING id, version, created_at, updated_at")
}

// Insert stores rec without its images and fills in the store-owned fields.
func (r *Repo) Insert(ctx context.Context, rec *hardware.Record) error {
	sql, args, err := insertQuery(rec).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	err = r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).
		Scan(&rec.ID, &rec.Version, &rec.Created, &rec.Updated)
	if err != nil {
		return mapWriteError(err, rec.Name, "insert "+tableHardware)
	}
	return nil
}

// InsertImage stores img for the record hardwareID and assigns its identity.
func (r *Repo) InsertImage(ctx context.Context, hardwareID int64, img *hardware.Image) error {
	q := Builder().
		Insert(tableImage).
		Columns("caption", "content_type", "hardware_id").
		Values(img.Caption, img.ContentType, hardwareID).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&img.ID); err != nil {
		return fmt.Errorf("insert %s: %w", tableImage, err)
	}
	img.HardwareID = hardwareID
	return nil
}

// updateQuery compares and increments the version in one statement.
func updateQuery(rec *hardware.Record) squirrel.UpdateBuilder {
	return Builder().
		Update(tableHardware).
		SetMap(postgres.StructToMap(rec, mutableCols...)).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": rec.ID}).
		Where(squirrel.Eq{"version": rec.Version}).
		Suffix("RETURNING version")
}

// Update writes the mutable fields of rec if the stored version still equals
// rec.Version and returns the incremented version.
func (r *Repo) Update(ctx context.Context, rec *hardware.Record) (int, error) {
	sql, args, err := updateQuery(rec).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update: %w", err)
	}

	var version int
	err = r.db.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, apperror.NewVersionOutdated(rec.Version).
			WithDetail("id", rec.ID)
	}
	if err != nil {
		return 0, mapWriteError(err, rec.Name, "update "+tableHardware)
	}
	return version, nil
}

// DeleteImage removes a single image.
func (r *Repo) DeleteImage(ctx context.Context, imageID int64) error {
	q := Builder().
		Delete(tableImage).
		Where(squirrel.Eq{"id": imageID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("execute delete %s: %w", tableImage, err)
	}
	return nil
}

// Delete removes the record row and reports whether a row was removed.
func (r *Repo) Delete(ctx context.Context, id int64) (bool, error) {
	q := Builder().
		Delete(tableHardware).
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete: %w", err)
	}

	result, err := r.db.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("execute delete %s: %w", tableHardware, err)
	}
	return result.RowsAffected() > 0, nil
}

// mapWriteError turns a unique violation on the name into NameExists.
func mapWriteError(err error, name, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperror.NewNameExists(name).WithCause(err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
