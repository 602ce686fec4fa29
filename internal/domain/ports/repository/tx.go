package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

// Tx is an opaque transaction handle. Its concrete type is infra-defined
// (pgx.Tx for Postgres); repositories must accept nil for the
// non-transactional path.
type Tx interface{}

var NoTX Tx

// TransactionManager runs fn inside one database transaction, rolling back
// when fn errors. Kept small so use-case interfaces never leak driver types
// beyond the options struct.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
