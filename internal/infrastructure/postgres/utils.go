package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE usados por los repositorios.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	if code := pgCode(err); code != "" {
		return code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

// isForeignKeyViolation 23503: referencia inexistente o fila referenciada.
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// isCheckViolation 23514 o valor fuera de rango (22003).
func isCheckViolation(err error) bool {
	code := pgCode(err)
	return code == codeCheckViolation || code == codeNumericOutOfRange
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern patrón ILIKE "contiene" con los comodines del texto escapados (usar con ESCAPE '\').
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
