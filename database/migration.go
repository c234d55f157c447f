package database

import (
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mbolis/quick-quiz/log"
)

//go:embed migrations/*.sql
var dbMigrations embed.FS

func migrateDB(db *sql.DB) error {
	src, err := iofs.New(dbMigrations, "migrations")
	if err != nil {
		return err
	}

	dst, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return err
	}

	migrator, err := migrate.NewWithInstance("iofs", src, "sqlite3", dst)
	if err != nil {
		return err
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Debug("db.migrate: schema up to date")
	case err != nil:
		return err
	default:
		version, _, _ := migrator.Version()
		log.Infof("db.migrate: schema at version %d", version)
	}
	return nil
}
