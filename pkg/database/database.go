package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/alimgiray/staffhub/pkg/logger"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var DB *sql.DB

// Init opens the application database at path and stores it in DB
func Init(path string) error {
	conn, err := Open(path)
	if err != nil {
		return err
	}
	DB = conn
	return nil
}

// Open opens a SQLite database, tunes it and applies pending migrations.
// Transactions take the write lock on BEGIN (_txlock=immediate) so that
// check-then-write sequences cannot interleave between connections.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON&_busy_timeout=30000&_txlock=immediate", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Configure connection pool
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(10)
	conn.SetConnMaxLifetime(time.Hour)

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = optimizeDatabase(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err = RunMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Component("database").WithField("path", path).Info("Database connected successfully with WAL mode")
	return conn, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// optimizeDatabase applies database-wide settings; per-connection pragmas live in the DSN
func optimizeDatabase(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA mmap_size=268435456", // 256MB
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}
	return nil
}

// Close closes the application database
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

type migration struct {
	Version int
	Name    string
	SQL     string
}

func loadMigrations() ([]migration, error) {
	files, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}

	var migrations []migration
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".sql" {
			continue
		}
		content, err := migrationsFS.ReadFile("migrations/" + file.Name())
		if err != nil {
			return nil, err
		}
		var version int
		if _, err := fmt.Sscanf(file.Name(), "%d_", &version); err != nil {
			return nil, fmt.Errorf("invalid migration filename %s: %w", file.Name(), err)
		}
		migrations = append(migrations, migration{Version: version, Name: file.Name(), SQL: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// RunMigrations applies the embedded SQL scripts newer than the recorded schema version
func RunMigrations(conn *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	return WithTx(conn, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
			return fmt.Errorf("create schema_version: %w", err)
		}

		var current int
		err := tx.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&current)
		if err == sql.ErrNoRows {
			if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
				return fmt.Errorf("init schema_version: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("read schema_version: %w", err)
		}

		for _, m := range migrations {
			if m.Version <= current {
				continue
			}
			if _, err := tx.Exec(m.SQL); err != nil {
				return fmt.Errorf("migration %s: %w", m.Name, err)
			}
			if _, err := tx.Exec(`UPDATE schema_version SET version = ?`, m.Version); err != nil {
				return fmt.Errorf("update schema_version: %w", err)
			}
			current = m.Version
			logger.Component("database").Infof("Executed SQL script: %s", m.Name)
		}
		return nil
	})
}

// WithTx runs fn inside a transaction, committing when fn returns nil
func WithTx(conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
