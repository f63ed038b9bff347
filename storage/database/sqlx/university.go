package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/Otsikow/bridge-study-global-sub004/core"
	"github.com/Otsikow/bridge-study-global-sub004/core/university"
)

// postgres error codes meaning the schema does not match what the queries expect
var schemaErrorCodes = map[pq.ErrorCode]bool{
	"42P01": true, // undefined_table
	"42703": true, // undefined_column
}

const (
	selectUniversityQuery = `SELECT id, name, COALESCE(city, '') AS city, COALESCE(country, '') AS country,
COALESCE(featured_image_url, '') AS featured_image_url, updated_at FROM universities WHERE id = $1`

	updateFeaturedImageQuery = `UPDATE universities SET featured_image_url = $1, updated_at = now() WHERE id = $2`
)

type universityRepository struct {
	db *sqlx.DB
}

var _ university.Repository = (*universityRepository)(nil)

func NewUniversityRepository(db *sqlx.DB) *universityRepository {
	return &universityRepository{db: db}
}

func (repo *universityRepository) GetByID(ctx context.Context, id string) (university.University, error) {
	var uni university.University
	if err := repo.db.GetContext(ctx, &uni, selectUniversityQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return university.University{}, university.ErrNotFound
		}
		return university.University{}, wrapDBError(err, "selecting university")
	}
	return uni, nil
}

func (repo *universityRepository) SetFeaturedImage(ctx context.Context, id, imageURL string) error {
	res, err := repo.db.ExecContext(ctx, updateFeaturedImageQuery, imageURL, id)
	if err != nil {
		return wrapDBError(err, "updating university featured image")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "updating university featured image")
	}
	if n == 0 {
		return university.ErrNotFound
	}
	return nil
}

// wrapDBError turns schema mismatches into a shutdown error: no request can succeed until the
// database is migrated.
func wrapDBError(err error, msg string) error {
	if pqErr, ok := errors.Cause(err).(*pq.Error); ok && schemaErrorCodes[pqErr.Code] {
		return core.NewShutdownError(msg + ": " + pqErr.Message)
	}
	return errors.Wrap(err, msg)
}
