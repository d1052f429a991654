package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation detecta la violación de constraint único (23505). Los repos la
// traducen al sentinel de dominio que corresponda (ErrDuplicate, ErrDuplicateAccount,
// ErrDuplicateOperation) en vez de filtrar el error de pgx hacia arriba.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
