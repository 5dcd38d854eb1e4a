package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	drv "github.com/go-sql-driver/mysql"

	apperrors "agrolink/internal/errors"
)

const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// Client-side connection failures reported by the server protocol.
var unavailableCodes = map[uint16]bool{
	2002: true, // can't connect through socket
	2003: true, // can't connect to server
	2006: true, // server has gone away
	2013: true, // lost connection during query
}

func IsDeadlock(err error) bool {
	var mysqlErr *drv.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errDeadlock
}

func IsLockWaitTimeout(err error) bool {
	var mysqlErr *drv.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == errLockWaitTimeout
}

// Classify maps transport-level failures onto Timeout and StorageUnavailable
// so callers can tell them apart from business-rule rejections. Deadlocks and
// other errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || IsLockWaitTimeout(err) {
		return apperrors.NewTimeoutError("store operation timed out", err)
	}

	var mysqlErr *drv.MySQLError
	if errors.As(err, &mysqlErr) && unavailableCodes[mysqlErr.Number] {
		return apperrors.NewStorageUnavailableError("store unreachable", err)
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, drv.ErrInvalidConn) {
		return apperrors.NewStorageUnavailableError("store connection lost", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return apperrors.NewTimeoutError("store operation timed out", err)
		}
		return apperrors.NewStorageUnavailableError("store unreachable", err)
	}

	return err
}
