package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// storageErr traduce un error de pgx al error de dominio correspondiente.
// Clase 23 (integridad) es ConstraintViolation; el resto (conexión, serialización,
// contexto cancelado) es StorageUnavailable y se puede reintentar.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		if isUniqueViolation(err) {
			return domain.Constraint("%s: registro duplicado (%s)", op, pgErr.ConstraintName)
		}
		return domain.Constraint("%s: %s", op, pgErr.Message)
	}
	return domain.Unavailable(op, err)
}
