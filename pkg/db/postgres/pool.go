package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPoolInterface подмножество методов pgxpool.Pool, используемое репозиториями.
// Реализуется также pgxmock.PgxPoolIface.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UniqueViolation код ошибки Postgres для нарушения уникальности.
const UniqueViolation = "23505"

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального ограничения.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation
}
