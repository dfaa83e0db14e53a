package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverSQLite3 is the cgo driver from github.com/mattn/go-sqlite3.
	DriverSQLite3 = "sqlite3"
	// DriverSQLite is the pure Go driver from modernc.org/sqlite.
	DriverSQLite = "sqlite"
)

// ErrDataStoreUnreachable is returned when a history database cannot be read.
var ErrDataStoreUnreachable = errors.New("data store unreachable")

const visitedURLsQuery = `SELECT url FROM moz_places WHERE visit_count > 0 ORDER BY id`

// History reads visited URLs from Firefox places databases
type History struct {
	driver string
}

// NewHistory creates a history reader using the named database/sql driver
func NewHistory(driver string) (*History, error) {
	if err := ValidateDriver(driver); err != nil {
		return nil, err
	}
	return &History{driver: driver}, nil
}

// ValidateDriver reports whether driver is one of the registered SQLite drivers
func ValidateDriver(driver string) error {
	switch driver {
	case DriverSQLite3, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("unknown sqlite driver %q (supported: %s, %s)", driver, DriverSQLite3, DriverSQLite)
	}
}

// FetchURLs opens the database at path read-only and returns every visited URL
func (h *History) FetchURLs(ctx context.Context, path string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataStoreUnreachable, err)
	}

	conn, err := sql.Open(h.driver, readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrDataStoreUnreachable, err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, visitedURLsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query %s: %v", ErrDataStoreUnreachable, path, err)
	}
	defer rows.Close()

	urls := []string{}
	for rows.Next() {
		var u sql.NullString
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %v", ErrDataStoreUnreachable, err)
		}
		if u.Valid {
			urls = append(urls, u.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrDataStoreUnreachable, path, err)
	}

	return urls, nil
}

// readOnlyDSN builds a SQLite URI that opens path without write access
func readOnlyDSN(path string) string {
	escaped := strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23").Replace(filepath.ToSlash(path))
	return "file:" + escaped + "?mode=ro"
}
