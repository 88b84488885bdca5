// Package postgres implements C2: the single relational store adapter that
// every domain repository and the outbox engine share. Grounded on the
// teacher's common/mpostgres.PostgresConnection (singleton connect, fail-fast
// panic on unreachable DB) and its per-aggregate *PostgreSQLModel row-mapping
// convention, ported from database/sql+dbresolver onto pgx/v5's pgxpool
// directly: this module has no read-replica, so dbresolver's load-balancing
// concern (see DESIGN.md) has nothing to balance.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/coziyoo/backend/pkg/apperr"
)

// Connection is a hub other repositories embed for pool access.
type Connection struct {
	pool *pgxpool.Pool
}

// Connect opens the pool and pings it once, panicking like the teacher's
// GetDB does on an unreachable database at boot.
func Connect(ctx context.Context, dsn string, maxConns int32) *Connection {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		panic(fmt.Sprintf("postgres: invalid dsn: %v", err))
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		panic(fmt.Sprintf("postgres: failed to create pool: %v", err))
	}
	if err := pool.Ping(ctx); err != nil {
		panic(fmt.Sprintf("postgres: failed to connect: %v", err))
	}

	return &Connection{pool: pool}
}

// Pool exposes the underlying pgxpool for adapters that need raw access.
func (c *Connection) Pool() *pgxpool.Pool { return c.pool }

// Close shuts the pool down.
func (c *Connection) Close() { c.pool.Close() }

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting repositories
// run against either the ambient pool or an active transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// WithTx runs fn inside a Serializable transaction, committing on success and
// rolling back on any error or panic. Producers enqueue outbox rows through
// the same tx, satisfying the at-least-once "write inside the domain
// transaction" contract (spec.md §4.5).
func (c *Connection) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, already := ctx.Value(txKey{}).(pgx.Tx); already {
		return fn(ctx)
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	err = fn(context.WithValue(ctx, txKey{}, tx))
	return err
}

// Q returns the active transaction from ctx if one is running, otherwise the
// ambient pool — the same "repositories don't know if they're in a tx"
// pattern the teacher's GetDB resolves to a dbresolver.DB.
func (c *Connection) Q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return c.pool
}

// TranslatePGError maps a unique/foreign-key constraint violation to a
// stable business apperr.Code, mirroring the teacher's ValidatePGError
// constraint-name switch (internal/services/errors.go). entityType is used
// only for the fallback error message.
func TranslatePGError(err error, entityType string, constraintCodes map[string]apperr.Code) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	if code, ok := constraintCodes[pgErr.ConstraintName]; ok {
		return apperr.Wrap(code, fmt.Sprintf("%s: constraint %s violated", entityType, pgErr.ConstraintName), err)
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		return apperr.Wrap(apperr.CodeConflict, fmt.Sprintf("%s: duplicate value", entityType), err)
	case "23503": // foreign_key_violation
		return apperr.Wrap(apperr.CodeValidation, fmt.Sprintf("%s: referenced row not found", entityType), err)
	case "40001": // serialization_failure
		return apperr.Wrap(apperr.CodeConflict, fmt.Sprintf("%s: concurrent update, retry", entityType), err)
	default:
		return err
	}
}

// EntityName is a small helper so call sites can write
// postgres.EntityName(v) instead of repeating reflect calls; it returns the
// type name of v with any pointer indirection removed.
func EntityName(v any) string {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// IsNoRows reports whether err is the pgx "no rows returned" sentinel,
// equivalent to the teacher's sql.ErrNoRows check in organization.postgresql.go.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// NormalizeEmail lowercases+trims the way the teacher's onboarding layer
// normalizes legal document identifiers before a uniqueness check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
