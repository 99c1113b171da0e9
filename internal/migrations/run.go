// Package migrations применяет SQL-миграции из каталога migrations.
package migrations

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Version — состояние схемы после применения миграций.
type Version struct {
	Number uint
	Dirty  bool
}

func open(db *sql.DB, dir string) (*migrate.Migrate, error) {
	driver, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithDatabaseInstance("file://"+dir, "pgx_v5", driver)
}

// Run доводит схему до последней версии из dir и возвращает итоговую версию.
// Если новых миграций нет, это не ошибка.
func Run(db *sql.DB, dir string) (Version, error) {
	const op = "migrations.Run"

	m, err := open(db, dir)
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return Version{}, fmt.Errorf("%s: %w", op, err)
	}

	n, dirty, err := m.Version()
	if err != nil {
		return Version{}, fmt.Errorf("%s: %w", op, err)
	}
	return Version{Number: n, Dirty: dirty}, nil
}

// Down откатывает все миграции из dir.
func Down(db *sql.DB, dir string) error {
	const op = "migrations.Down"

	m, err := open(db, dir)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
