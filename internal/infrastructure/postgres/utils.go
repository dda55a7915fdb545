package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Código SQLSTATE de PostgreSQL para violación de constraint único.
const codeUniqueViolation = "23505"

// isUniqueViolation detecta una violación de unicidad. Los repositorios la
// traducen al error de dominio que corresponda (clave de negocio duplicada,
// colisión de recodificado).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}
