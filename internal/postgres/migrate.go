package postgres

import (
	"fmt"
	"net/url"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/pkg/errors"
)

// DSN returns the connection URL for c understood by the migration driver.
func (c Config) DSN() string {
	sslMode := "require"
	if c.DisableSSL {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

// Migrate applies every pending migration found at source, e.g.
// "file://db/migrations".
func Migrate(c Config, source string) error {
	return runMigrations(c, source, (*migrate.Migrate).Up)
}

// Rollback reverts every applied migration.
func Rollback(c Config, source string) error {
	return runMigrations(c, source, (*migrate.Migrate).Down)
}

func runMigrations(c Config, source string, fn func(*migrate.Migrate) error) (err error) {
	m, err := migrate.New(source, c.DSN())
	if err != nil {
		return errors.Wrap(err, "open migrations")
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil && srcErr != nil {
			err = errors.Wrap(srcErr, "close migration source")
		}
		if err == nil && dbErr != nil {
			err = errors.Wrap(dbErr, "close migration database")
		}
	}()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "run migrations")
	}
	return nil
}
