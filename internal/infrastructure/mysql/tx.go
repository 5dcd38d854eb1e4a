package mysql

import (
	"database/sql"
	"fmt"

	"agrolink/internal/storage"
)

// SQLTx recovers the *sql.Tx behind a storage.Tx handed to a MySQL repository.
func SQLTx(tx storage.Tx) (*sql.Tx, error) {
	sqlTx, ok := tx.(*sql.Tx)
	if !ok || sqlTx == nil {
		return nil, fmt.Errorf("mysql repository requires a *sql.Tx, got %T", tx)
	}
	return sqlTx, nil
}
