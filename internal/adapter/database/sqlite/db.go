package sqlite

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

//go:embed migrations/*.sql
var migrations embed.FS

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

// NewDB opens the SQLite database at path, traced through otelsql and logged
// through sqldb-logger, and brings the schema up to date.
func NewDB(path string, logLevel string) (*DB, error) {
	sqlDB, err := otelsql.Open("sqlite3", path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("todoapi"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
		otelsql.WithMeterProvider(otel.GetMeterProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	lvl, err := zerolog.ParseLevel(logLevel)

	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Str("component", "sqlite").Logger()

	db := sqldblogger.OpenDriver(path, sqlDB.Driver(), zerologadapter.New(logger),
		sqldblogger.WithExecerLevel(sqldblogger.LevelDebug),
		sqldblogger.WithQueryerLevel(sqldblogger.LevelDebug),
		sqldblogger.WithPreparerLevel(sqldblogger.LevelDebug),
	)

	// SQLite has a single writer, and every ":memory:" connection is its own
	// database, so the pool is pinned to one long-lived connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	otelsql.ReportDBStatsMetrics(db,
		otelsql.WithDBName("todoapi"),
		otelsql.WithMeterProvider(otel.GetMeterProvider()),
	)

	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           db,
		QueryBuilder: &queryBuilder,
	}, nil
}

// RunMigrations applies the embedded migrations. The migrate instance is not
// closed since that would close db as well.
func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")

	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
