package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"woodzire_server/config"
	"woodzire_server/structs"

	"github.com/MonkyMars/gecho"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DB wraps the bun database handle
type DB struct {
	*bun.DB
}

var instance *DB

// Connect opens the pool described by the database config and pings it.
func Connect(dbCfg *structs.DatabaseConfig, logger *gecho.Logger) (*DB, error) {
	sqldb, err := openSQL(dbCfg)
	if err != nil {
		return nil, err
	}

	sqldb.SetMaxOpenConns(dbCfg.MaxConns)
	sqldb.SetMaxIdleConns(dbCfg.MinConns)
	sqldb.SetConnMaxLifetime(dbCfg.MaxLifetime)
	sqldb.SetConnMaxIdleTime(dbCfg.MaxIdleTime)

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&connectionHealthHook{logger: logger, slow: dbCfg.SlowQuery})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Connected to database successfully",
		gecho.Field("driver", dbCfg.Driver),
		gecho.Field("database", dbCfg.Name),
	)

	return &DB{db}, nil
}

func openSQL(dbCfg *structs.DatabaseConfig) (*sql.DB, error) {
	addr := net.JoinHostPort(dbCfg.Host, strconv.Itoa(dbCfg.Port))

	switch dbCfg.Driver {
	case "", "pgdriver":
		return sql.OpenDB(pgdriver.NewConnector(
			pgdriver.WithAddr(addr),
			pgdriver.WithUser(dbCfg.User),
			pgdriver.WithPassword(dbCfg.Password),
			pgdriver.WithDatabase(dbCfg.Name),
			pgdriver.WithInsecure(dbCfg.SSLMode == "disable"),
			pgdriver.WithReadTimeout(dbCfg.ReadTimeout),
			pgdriver.WithWriteTimeout(dbCfg.WriteTimeout),
			pgdriver.WithApplicationName("woodzire_server"),
		)), nil
	case "pgx":
		dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
			dbCfg.User, dbCfg.Password, addr, dbCfg.Name, dbCfg.SSLMode)
		sqldb, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open pgx connection: %w", err)
		}
		return sqldb, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dbCfg.Driver)
	}
}

// Initialize sets up the global database instance from the loaded config
func Initialize() error {
	db, err := Connect(config.GetConfig().Database, config.GetLogger())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	instance = db
	return nil
}

// GetInstance returns the global database instance, or nil before Initialize.
func GetInstance() *DB {
	return instance
}

// CloseInstance closes the global database instance
func CloseInstance() error {
	if instance != nil {
		return instance.Close()
	}
	return nil
}

// Health pings the database with a short deadline
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.PingContext(ctx)
}

// connectionHealthHook reports slow queries and dropped connections.
type connectionHealthHook struct {
	logger *gecho.Logger
	slow   time.Duration
}

func (h *connectionHealthHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *connectionHealthHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	duration := time.Since(event.StartTime)
	if h.slow > 0 && duration > h.slow {
		h.logger.Warn("Slow database query detected",
			gecho.Field("query", event.Query),
			gecho.Field("duration", duration),
		)
	}

	if event.Err != nil && (errors.Is(event.Err, io.EOF) || errors.Is(event.Err, io.ErrUnexpectedEOF)) {
		h.logger.Error("Database connection EOF error - connection may have been closed by server",
			gecho.Field("error", event.Err),
			gecho.Field("query", event.Query),
		)
	}
}
