package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLiteDSN returns the connection string tagbox uses for a SQLite file:
// foreign keys on, WAL journal, a 5s busy timeout and BEGIN IMMEDIATE for
// every transaction. Deferred transactions that read before writing fail
// with SQLITE_BUSY when another writer commits first; immediate ones wait
// on busy_timeout instead.
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// Init opens the metadata store. driver is "sqlite" (modernc) or "pgx".
func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		path, _, _ := strings.Cut(connection, "?")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}

	slog.Info("metadata store ready", "driver", driver)

	return conn, nil
}

func Close(conn *sqlx.DB) error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}
