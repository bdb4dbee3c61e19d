package database

import (
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrWineNotFound is returned when no wine has the requested id
	ErrWineNotFound = errors.New("wine not found")
	// ErrProfileNotFound is returned when a wine has no investment data yet
	ErrProfileNotFound = errors.New("investment profile not found")
)

// retryable SQLSTATE classes: connection exception, insufficient
// resources, transaction rollback
var transientClasses = map[pq.ErrorClass]bool{
	"08": true,
	"53": true,
	"40": true,
}

// IsTransient reports whether err is a network or server condition worth
// retrying, as opposed to a query or data error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if transientClasses[pqErr.Code.Class()] {
			return true
		}
		// admin_shutdown, crash_shutdown, cannot_connect_now
		return strings.HasPrefix(string(pqErr.Code), "57P")
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
