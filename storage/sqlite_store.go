package storage

import (
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	driver:      "sqlite",
	idType:      "INTEGER",
	placeholder: func(int) string { return "?" },
}

// SQLiteStore keeps one congress per database file.
type SQLiteStore struct {
	*tableStore
	path string
}

// NewSQLiteStore returns a store for the given database file and table.
// The file and its directory are created on first use.
func NewSQLiteStore(path, table string) (*SQLiteStore, error) {
	ts, err := newTableStore(sqliteDialect, path, table, fmt.Sprintf("sqlite:%s (table %s)", path, table))
	if err != nil {
		return nil, err
	}
	ts.prepare = func() error {
		return os.MkdirAll(filepath.Dir(path), 0755)
	}
	return &SQLiteStore{tableStore: ts, path: path}, nil
}

// Path returns the database file.
func (s *SQLiteStore) Path() string {
	return s.path
}
