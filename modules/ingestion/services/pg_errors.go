package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// describeStorageError turns a persistence failure into the short message
// recorded on the batch error list. Constraint violations name the
// constraint; everything else passes through the driver message.
func describeStorageError(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}
	switch pgErr.Code {
	case "23505": // unique_violation
		return fmt.Sprintf("unique constraint violated (%s)", pgErr.ConstraintName)
	case "23503": // foreign_key_violation
		return fmt.Sprintf("foreign key violated (%s)", pgErr.ConstraintName)
	case "23502": // not_null_violation
		return fmt.Sprintf("null value in column %s", pgErr.ColumnName)
	case "22001": // string_data_right_truncation
		return "value too long for column"
	default:
		return pgErr.Message
	}
}
