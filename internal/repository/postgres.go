package repository

import (
	"fmt"
	"strings"
	"time"

	"suggest/internal/config"
	"suggest/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// OpenPostgres connects to the external destinations store. The store owns
// destination persistence; this service only reads from it to build the
// in-memory index when a DSN is configured.
func OpenPostgres(cfg config.PostgresConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// PostgresLoader reads place records straight from the destinations table,
// skipping the export-to-snapshot hop. Reload failures keep the previous
// snapshot, so a flaky database never empties a running index.
func PostgresLoader(db *sqlx.DB, table string) Loader {
	query := fmt.Sprintf(`
		SELECT
			name,
			COALESCE(rating, 0)       AS rating,
			COALESCE(review_count, 0) AS review_count,
			COALESCE(source_url, '')  AS source_url,
			COALESCE(description, '') AS description
		FROM %s
		ORDER BY name`, table)

	return func() ([]model.PlaceRecord, error) {
		var records []model.PlaceRecord
		if err := db.Select(&records, query); err != nil {
			return nil, fmt.Errorf("load index from %s: %w", table, err)
		}
		return prepareRecords(records), nil
	}
}
