// pkg/loader/errors.go
package loader

import (
	"database/sql/driver"
	"errors"
	"net"

	"github.com/lib/pq"
)

// ErrDuplicateLoad is returned when the source file's checksum already
// appears in load_runs. Appending the same batch twice duplicates every
// row, so a repeat load must be requested explicitly with force.
var ErrDuplicateLoad = errors.New("source file has already been loaded")

// IsConnectivityError reports whether err means the store is
// unreachable rather than rejecting the data.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Postgres class 08 covers connection exceptions raised server-side.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "08"
	}

	return false
}

// IsConstraintViolation reports whether err is a store-level integrity
// rejection (class 23: not-null, foreign key, unique, check).
func IsConstraintViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}
