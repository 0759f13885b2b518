package db

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all up migrations, or all down migrations when up is false.
func Migrate(sourceURL, connString string, up bool) error {
	m, err := migrate.New(sourceURL, connString)
	if err != nil {
		return err
	}
	defer m.Close()
	if up {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
