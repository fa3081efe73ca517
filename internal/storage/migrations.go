package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration is one versioned schema step.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Canonical record tables",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS workers (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					personnel_no TEXT UNIQUE,
					full_name TEXT NOT NULL,
					full_name_norm TEXT NOT NULL,
					department TEXT DEFAULT '',
					position TEXT DEFAULT '',
					status TEXT DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_workers_name_norm ON workers(full_name_norm)`,

				`CREATE TABLE IF NOT EXISTS job_types (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					name_norm TEXT NOT NULL UNIQUE,
					unit TEXT DEFAULT 'шт.',
					price REAL NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS contracts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					code TEXT NOT NULL,
					code_norm TEXT NOT NULL UNIQUE,
					name TEXT DEFAULT '',
					type TEXT DEFAULT '',
					executor TEXT DEFAULT '',
					igk TEXT DEFAULT '',
					contract_number TEXT DEFAULT '',
					bank_account TEXT DEFAULT '',
					start_date TEXT DEFAULT '',
					end_date TEXT DEFAULT '',
					description TEXT DEFAULT '',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS products (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT DEFAULT '',
					name_norm TEXT DEFAULT '',
					product_no TEXT DEFAULT '',
					product_no_norm TEXT DEFAULT '',
					contract_code TEXT DEFAULT '',
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_products_no_norm ON products(product_no_norm)`,
				`CREATE INDEX idx_products_name_norm ON products(name_norm)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Work orders with items and worker allocations",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS work_orders (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					order_date TEXT NOT NULL,
					product_id INTEGER REFERENCES products(id),
					contract_id INTEGER REFERENCES contracts(id),
					total REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_work_orders_date ON work_orders(order_date)`,

				`CREATE TABLE IF NOT EXISTS work_order_items (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					work_order_id INTEGER NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
					job_name TEXT NOT NULL,
					unit TEXT DEFAULT 'шт.',
					unit_price REAL NOT NULL DEFAULT 0,
					quantity REAL NOT NULL DEFAULT 0,
					amount REAL NOT NULL DEFAULT 0
				)`,

				`CREATE TABLE IF NOT EXISTS work_order_workers (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					work_order_id INTEGER NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
					worker_id INTEGER NOT NULL REFERENCES workers(id),
					amount REAL NOT NULL DEFAULT 0
				)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Append-only contract history for audit",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS contract_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					contract_id INTEGER NOT NULL REFERENCES contracts(id),
					code TEXT NOT NULL,
					name TEXT DEFAULT '',
					type TEXT DEFAULT '',
					executor TEXT DEFAULT '',
					igk TEXT DEFAULT '',
					contract_number TEXT DEFAULT '',
					bank_account TEXT DEFAULT '',
					start_date TEXT DEFAULT '',
					end_date TEXT DEFAULT '',
					description TEXT DEFAULT '',
					changed_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`)
			if err != nil {
				return fmt.Errorf("failed to create contract_history: %w", err)
			}
			return nil
		},
	},
}

// LatestVersion returns the newest migration version the binary knows.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// SchemaVersion returns the highest applied migration version, 0 for a
// store that has never been migrated.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name = 'schema_version'
	`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}

	var current sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_version`).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(current.Int64), nil
}

// Migrate brings the schema up to the latest version.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		`SELECT MAX(version) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if current.Valid && m.Version <= int(current.Int64) {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
		slog.Info("applied migration", "version", m.Version, "description", m.Description)
	}
	return nil
}
