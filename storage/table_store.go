package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strconv"

	"c3speakers/models"
)

var identRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dialect captures what differs between the SQL backends.
type dialect struct {
	driver      string
	idType      string
	placeholder func(n int) string
}

// tableStore implements SnapshotStore on top of database/sql. Every
// operation opens its own connection and transaction and closes both
// before returning.
type tableStore struct {
	dialect
	dsn   string
	table string
	name  string
	// prepare runs before a connection is opened.
	prepare func() error
}

func newTableStore(d dialect, dsn, table, name string) (*tableStore, error) {
	if !identRegexp.MatchString(table) {
		return nil, &models.StoreError{Op: "configure", Err: fmt.Errorf("invalid table name %q", table)}
	}
	return &tableStore{dialect: d, dsn: dsn, table: table, name: name}, nil
}

func (s *tableStore) Name() string {
	return s.name
}

// withTx runs fn inside a transaction on a fresh connection, committing on
// success and rolling back on failure.
func (s *tableStore) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	if s.prepare != nil {
		if err := s.prepare(); err != nil {
			return &models.StoreError{Op: op, Err: err}
		}
	}

	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return &models.StoreError{Op: op, Err: fmt.Errorf("open: %w", err)}
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return &models.StoreError{Op: op, Err: fmt.Errorf("begin: %w", err)}
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return &models.StoreError{Op: op, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &models.StoreError{Op: op, Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

func (s *tableStore) EnsureSchema(ctx context.Context) error {
	return s.withTx(ctx, "ensure schema", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id     %s PRIMARY KEY,
				name   TEXT,
				handle TEXT
			)`, s.table, s.idType))
		return err
	})
}

func (s *tableStore) Read(ctx context.Context, attr models.Attribute) (map[string]string, error) {
	col := attr.Column()
	results := make(map[string]string)

	err := s.withTx(ctx, "read "+col, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, fmt.Sprintf(
			`SELECT id, %[1]s FROM %[2]s WHERE %[1]s IS NOT NULL AND %[1]s != ''`, col, s.table))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id int64
			var value string
			if err := rows.Scan(&id, &value); err != nil {
				return fmt.Errorf("scan row: %w", err)
			}
			results[strconv.FormatInt(id, 10)] = value
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *tableStore) WriteNames(ctx context.Context, names map[string]string) error {
	if len(names) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %[1]s (id, name) VALUES (%[2]s, %[3]s)
		ON CONFLICT (id) DO UPDATE SET name = excluded.name
		WHERE %[1]s.name IS NULL OR %[1]s.name = ''`,
		s.table, s.placeholder(1), s.placeholder(2))

	return s.withTx(ctx, "write names", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, id := range models.SortedIDs(names) {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return fmt.Errorf("speaker id %q is not numeric", id)
			}
			if _, err := stmt.ExecContext(ctx, n, names[id]); err != nil {
				return fmt.Errorf("insert speaker %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *tableStore) WriteHandles(ctx context.Context, handles map[string]string) error {
	if len(handles) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET handle = %s
		WHERE id = %s AND (handle IS NULL OR handle = '')`,
		s.table, s.placeholder(1), s.placeholder(2))

	return s.withTx(ctx, "write handles", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, id := range models.SortedIDs(handles) {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				return fmt.Errorf("speaker id %q is not numeric", id)
			}
			if _, err := stmt.ExecContext(ctx, handles[id], n); err != nil {
				return fmt.Errorf("update handle of speaker %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *tableStore) ReadAll(ctx context.Context) ([]models.Speaker, error) {
	var speakers []models.Speaker

	err := s.withTx(ctx, "read all", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, fmt.Sprintf(
			`SELECT id, COALESCE(name, ''), COALESCE(handle, '') FROM %s ORDER BY id`, s.table))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id int64
			var sp models.Speaker
			if err := rows.Scan(&id, &sp.Name, &sp.Handle); err != nil {
				return fmt.Errorf("scan row: %w", err)
			}
			sp.ID = strconv.FormatInt(id, 10)
			speakers = append(speakers, sp)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return speakers, nil
}
