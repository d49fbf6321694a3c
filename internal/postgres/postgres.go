package postgres

import (
	"context"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/twitsprout/tools/postgres"
)

type Config postgres.Config

var matchFirstCap = regexp.MustCompile("(.)([A-Z][a-z]+)")
var matchAllCap = regexp.MustCompile("([a-z0-9])([A-Z])")

func ToSnakeCase(str string) string {
	snake := matchFirstCap.ReplaceAllString(str, "${1}_${2}")
	snake = matchAllCap.ReplaceAllString(snake, "${1}_${2}")
	return strings.ToLower(snake)
}

// Postgres represents the type to interact with the PostgreSQL database.
type Postgres struct {
	sqldb *sqlx.DB
	db    *postgres.DB
}

type QueryValues struct {
	query string
	args  []interface{}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// New creates a new Postgres store.
func New(c Config, ops ...postgres.Option) (*Postgres, error) {
	db, err := postgres.NewDB(postgres.Config(c), ops...)
	if err != nil {
		return nil, err
	}
	p := NewFromDB(sqlx.NewDb(db.SQLDB(), "postgres"))
	p.db = db
	return p, nil
}

// NewFromDB wraps an already opened connection pool.
func NewFromDB(sqldb *sqlx.DB) *Postgres {
	sqldb.MapperFunc(ToSnakeCase)
	return &Postgres{sqldb: sqldb}
}

// Ping checks that the database can be reached.
func (p *Postgres) Ping(ctx context.Context) error {
	if p.db == nil {
		return p.sqldb.PingContext(ctx)
	}
	return p.db.Do(ctx, "ping", func(ctx context.Context, conn postgres.Conn) error {
		return conn.PingContext(ctx)
	})
}

// Close releases the connection pool.
func (p *Postgres) Close() error {
	if p.db == nil {
		return p.sqldb.Close()
	}
	return p.db.Close()
}

// withTx runs fn inside a transaction, committing only when fn succeeds.
func (p *Postgres) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := p.sqldb.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

func isPQCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
