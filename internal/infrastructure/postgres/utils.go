package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reconoce la violación de unicidad de Postgres (23505),
// el respaldo en almacenamiento de la unicidad de seriales y de los códigos
// de catálogo. El fallback textual cubre errores que llegan envueltos fuera
// de *pgconn.PgError.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "23505")
}
