package storage

import (
	"fmt"
	"strings"

	"c3speakers/config"
	"c3speakers/models"
)

// Open returns the configured snapshot store for a congress year.
func Open(cfg *config.Config, year int) (SnapshotStore, error) {
	switch strings.ToLower(cfg.StoreBackend) {
	case "", "sqlite":
		s, err := NewSQLiteStore(cfg.SQLitePath(year), cfg.Table)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "postgresql":
		s, err := NewPostgresStore(cfg.DSN(), cfg.Table, year)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, &models.StoreError{Op: "configure", Err: fmt.Errorf("unknown store backend %q", cfg.StoreBackend)}
	}
}
