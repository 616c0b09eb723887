// Package postgres implements storage.Storage on PostgreSQL. It mirrors every
// emitted row into a companies table and keeps a log of scan runs.
package postgres

import (
	"context"
	"database/sql"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	root "companyscan"
	"companyscan/pkg/storage"
)

const applicationName = "companyscan"

// Options locate the mirror database and size its connection pool.
type Options struct {
	Username string
	Password string
	Host     string
	Port     int
	Database string
	// SslMode is passed through as the libpq sslmode parameter.
	SslMode string

	// Zero values keep the pgxpool defaults.
	ConnMaxLifetime    time.Duration
	ConnMaxIdleTime    time.Duration
	MaxOpenConnections int
	MinConnections     int
}

// URL returns the connection URL for options. The password is escaped.
func (o Options) URL() string {
	q := url.Values{}
	if o.SslMode != "" {
		q.Set("sslmode", o.SslMode)
	}
	q.Set("application_name", applicationName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(o.Username, o.Password),
		Host:     net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:     "/" + o.Database,
		RawQuery: q.Encode(),
	}

	return u.String()
}

func (o Options) poolConfig() (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(o.URL())
	if err != nil {
		return nil, errors.Wrap(err, "could not parse pgxpool config")
	}
	if o.MaxOpenConnections > 0 {
		cfg.MaxConns = int32(o.MaxOpenConnections) //nolint: gosec
	}
	if o.MinConnections > 0 {
		cfg.MinConns = int32(o.MinConnections) //nolint: gosec
	}
	if o.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = o.ConnMaxLifetime
	}
	if o.ConnMaxIdleTime > 0 {
		cfg.MaxConnIdleTime = o.ConnMaxIdleTime
	}

	return cfg, nil
}

// Querier is what the run and company queries execute on: a *sql.DB outside
// and a *sql.Tx inside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// QueryBuilder is the goqu handle bound to the same Querier.
type QueryBuilder interface {
	From(table ...any) *goqu.SelectDataset
	Insert(table any) *goqu.InsertDataset
	Update(table any) *goqu.UpdateDataset
}

// PgSQL is the PostgreSQL mirror of scan runs and qualified companies.
type PgSQL struct {
	DB      Querier
	Builder QueryBuilder
	// Pool is nil on transactional copies.
	Pool *pgxpool.Pool
}

// New connects to PostgreSQL and checks the server answers. Queries go
// through a database/sql view of the pgx pool so goqu and goose can share it.
func New(ctx context.Context, options Options) (*PgSQL, error) {
	cfg, err := options.poolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create pgx pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, errors.Wrapf(err, "could not reach postgres at %s", cfg.ConnConfig.Host)
	}

	db := stdlib.OpenDBFromPool(pool)

	return &PgSQL{
		DB:      db,
		Builder: goqu.Dialect("postgres").DB(db),
		Pool:    pool,
	}, nil
}

// Close releases the database/sql view and the pool behind it.
func (p *PgSQL) Close() error {
	var err error
	if db, ok := p.DB.(*sql.DB); ok {
		err = db.Close()
	}
	if p.Pool != nil {
		p.Pool.Close()
	}

	return err
}

// Migrate applies every embedded goose migration not yet applied.
func (p *PgSQL) Migrate(ctx context.Context) error {
	db, ok := p.DB.(*sql.DB)
	if !ok {
		return storage.ErrAlreadyInTx
	}

	goose.SetBaseFS(root.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "could not set goose dialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "could not migrate")
	}

	return nil
}
