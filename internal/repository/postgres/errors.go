package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	apperrors "github.com/vizboard/vizboard/api/internal/pkg/errors"
)

// uniqueViolation is the SQLSTATE for unique_violation
const uniqueViolation = "23505"

// constraintFields names the client-facing fields behind each unique
// constraint. Scoping columns such as owner_id are left out.
var constraintFields = map[string][]string{
	"projects_owner_slug_key":            {"slug"},
	"datasets_project_original_name_key": {"original_name"},
}

// translateWriteError turns a unique violation raised by either driver into a
// *errors.DuplicateKeyError. Other errors are returned unchanged.
func translateWriteError(err error) error {
	var (
		constraint string
		detail     string
	)

	var pgErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == uniqueViolation:
		constraint, detail = pgErr.ConstraintName, pgErr.Detail
	case errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation:
		constraint, detail = pqErr.Constraint, pqErr.Detail
	default:
		return err
	}

	fields, ok := constraintFields[constraint]
	if !ok {
		fields = keyColumns(detail)
	}
	return apperrors.DuplicateKey(fields...).WithError(err)
}

// keyColumns extracts the column list from a unique violation detail such as
// "Key (project_id, original_name)=(..., ...) already exists.". The values
// are never returned.
func keyColumns(detail string) []string {
	rest, ok := strings.CutPrefix(detail, "Key (")
	if !ok {
		return nil
	}
	cols, _, ok := strings.Cut(rest, ")=")
	if !ok {
		return nil
	}

	var fields []string
	for _, col := range strings.Split(cols, ",") {
		if col = strings.TrimSpace(col); col != "" {
			fields = append(fields, col)
		}
	}
	return fields
}
