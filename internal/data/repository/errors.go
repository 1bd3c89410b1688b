package repository

import (
	"errors"
	"strings"

	"movie-sentiment/internal/data/entity"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePgError maps constraint violations onto entity sentinels and
// returns any other error unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return entity.ErrDuplicateMovie
	case pgForeignKeyViolation:
		return entity.ErrMovieNotFound
	}
	return err
}

func translateSQLiteError(err error) error {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return entity.ErrDuplicateMovie
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return entity.ErrMovieNotFound
	}

	// Without extended result codes only the primary code is set.
	if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		msg := sqliteErr.Error()
		switch {
		case strings.Contains(msg, "UNIQUE"):
			return entity.ErrDuplicateMovie
		case strings.Contains(msg, "FOREIGN KEY"):
			return entity.ErrMovieNotFound
		}
	}
	return err
}
