// Package database opens the SQL store every service persists to. PostgreSQL
// is the production dialect; SQLite serves local runs and tests.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerline/bank/shared/logger"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	PingRetries     int
	RetryInterval   time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		PingRetries:     10,
		RetryInterval:   2 * time.Second,
	}
}

// DB is a connection pool that knows which dialect it speaks.
type DB struct {
	*sql.DB
	Dialect string
}

// Open connects to driver ("postgres" or "sqlite") and waits until the
// database answers a ping.
func Open(ctx context.Context, driver, dsn string, opts Options) (*DB, error) {
	var (
		sqlDriver string
		source    = dsn
	)
	switch driver {
	case DriverPostgres:
		sqlDriver = "postgres"
	case DriverSQLite:
		sqlDriver = "sqlite3"
		if source == "" {
			source = ":memory:"
		}
		if !strings.Contains(source, "_foreign_keys") {
			sep := "?"
			if strings.Contains(source, "?") {
				sep = "&"
			}
			source += sep + "_foreign_keys=on"
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite && strings.HasPrefix(source, ":memory:") {
		// every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			db.SetMaxIdleConns(opts.MaxIdleConns)
		}
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	attempts := opts.PingRetries
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		if i < attempts-1 {
			logger.Warn("database not ready, retrying", logger.Fields{
				"driver":  driver,
				"attempt": i + 1,
				"of":      attempts,
				"error":   err.Error(),
			})
			select {
			case <-ctx.Done():
				db.Close()
				return nil, ctx.Err()
			case <-time.After(opts.RetryInterval):
			}
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database after %d attempts: %w", attempts, err)
	}

	return &DB{DB: db, Dialect: driver}, nil
}

// Rebind rewrites PostgreSQL $n placeholders into the dialect's form.
// SQLite binds ? positionally, so queries must use their $n in order.
func (d *DB) Rebind(query string) string {
	if d.Dialect != DriverSQLite {
		return query
	}
	return rebindQuestion(query)
}

func rebindQuestion(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] != '$' {
			b.WriteByte(query[i])
			continue
		}
		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if j == i+1 {
			b.WriteByte('$')
			continue
		}
		b.WriteByte('?')
		i = j - 1
	}
	return b.String()
}

// Migration is one idempotent DDL step. SQLite falls back to Postgres when
// both dialects accept the same statement.
type Migration struct {
	Name     string
	Postgres string
	SQLite   string
}

func (m Migration) statement(dialect string) string {
	if dialect == DriverSQLite && m.SQLite != "" {
		return m.SQLite
	}
	return m.Postgres
}

// Migrate applies each migration in order.
func (d *DB) Migrate(ctx context.Context, migrations ...Migration) error {
	for i, m := range migrations {
		stmt := m.statement(d.Dialect)
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := d.ExecContext(ctx, stmt); err != nil {
			name := m.Name
			if name == "" {
				name = "#" + strconv.Itoa(i+1)
			}
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
	}
	return nil
}
