package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQL dialect names understood by sqlx for bind variables.
const (
	sqlxSQLite   = "sqlite3"
	sqlxPostgres = "pgx"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS expenses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	amount REAL NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT DEFAULT NULL,
	note TEXT
)`

const postgresSchema = `CREATE TABLE IF NOT EXISTS expenses (
	id BIGSERIAL PRIMARY KEY,
	date TEXT NOT NULL,
	amount DOUBLE PRECISION NOT NULL,
	category TEXT NOT NULL,
	subcategory TEXT DEFAULT NULL,
	note TEXT
)`

// Open connects to the configured store and tunes the connection pool. The
// schema is not touched; call EnsureSchema afterwards.
func Open(cfg internal.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 newGormLogger(logger),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Debug("database opened", "driver", cfg.Driver, "max_open_conns", cfg.MaxOpenConns)
	return db, nil
}

func dialectorFor(cfg internal.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite, "":
		return sqlite.Open(sqliteDSN(cfg.Source, cfg.BusyTimeout)), nil
	case DriverPostgres:
		connConfig, err := pgx.ParseConfig(cfg.Source)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres dsn: %w", err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*connConfig)}), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN appends the busy timeout so concurrent writers wait for the lock
// instead of failing immediately, and makes write transactions take the lock
// up front.
func sqliteDSN(source string, busyTimeout time.Duration) string {
	var params []string
	if busyTimeout > 0 && !strings.Contains(source, "_busy_timeout") {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", busyTimeout.Milliseconds()))
	}
	if !strings.Contains(source, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if len(params) == 0 {
		return source
	}
	sep := "?"
	if strings.Contains(source, "?") {
		sep = "&"
	}
	return source + sep + strings.Join(params, "&")
}

// EnsureSchema creates the expenses table when it does not exist yet. An
// existing table is never altered.
func EnsureSchema(ctx context.Context, db *gorm.DB) error {
	ddl := sqliteSchema
	if db.Dialector.Name() == DriverPostgres {
		ddl = postgresSchema
	}
	if err := db.WithContext(ctx).Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to create expenses table: %w", err)
	}
	return nil
}

// SQLDriverName returns the database/sql driver name matching the dialect of
// db, as expected by sqlx.NewDb.
func SQLDriverName(db *gorm.DB) string {
	if db.Dialector.Name() == DriverPostgres {
		return sqlxPostgres
	}
	return sqlxSQLite
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)), "component", "gorm")
}

// newGormLogger routes GORM's own logging through slog so nothing is written
// to stdout, which the stdio transport owns.
func newGormLogger(logger *slog.Logger) gormlogger.Interface {
	return gormlogger.New(slogWriter{logger: logger}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
