package storage

import (
	"fmt"
	"strconv"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	driver:      "postgres",
	idType:      "BIGINT",
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// PostgresStore keeps one congress per table, named <table>_<year>.
type PostgresStore struct {
	*tableStore
}

// NewPostgresStore returns a store for the given congress year.
func NewPostgresStore(dsn, table string, year int) (*PostgresStore, error) {
	name := fmt.Sprintf("%s_%d", table, year)
	ts, err := newTableStore(postgresDialect, dsn, name, "postgres (table "+name+")")
	if err != nil {
		return nil, err
	}
	return &PostgresStore{tableStore: ts}, nil
}
