package storage

import "context"

// Tx is a unit of work handed to repositories. *sql.Tx satisfies it; each
// store implementation asserts back to its own concrete type.
type Tx interface {
	Commit() error
	Rollback() error
}

type TransactionManager interface {
	BeginTx(ctx context.Context) (Tx, error)
}
