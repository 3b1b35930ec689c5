package repository

import (
	"errors"
	"strings"

	"github.com/globetrotter/server/internal/apperrors"
	"github.com/lib/pq"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
)

// classifyConstraint recognizes constraint violations from either driver.
func classifyConstraint(err error) constraintKind {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return constraintUnique
		case "23503":
			return constraintForeignKey
		case "23514":
			return constraintCheck
		}
		return constraintNone
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return constraintUnique
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK:
			return constraintCheck
		}
		// Connections without extended result codes only report the primary code.
		if sqliteErr.Code()&0xff == sqlite3lib.SQLITE_CONSTRAINT {
			msg := sqliteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return constraintUnique
			case strings.Contains(msg, "FOREIGN KEY"):
				return constraintForeignKey
			case strings.Contains(msg, "CHECK"):
				return constraintCheck
			}
		}
	}
	return constraintNone
}

// mapWriteError turns constraint violations into taxonomy errors so engine
// messages never reach clients. conflictMsg describes the unique key.
func mapWriteError(err error, conflictMsg string) error {
	if err == nil {
		return nil
	}
	switch classifyConstraint(err) {
	case constraintUnique:
		return apperrors.Wrap(apperrors.CodeConflict, conflictMsg, err)
	case constraintForeignKey:
		return apperrors.Wrap(apperrors.CodeValidation, "referenced record does not exist", err)
	case constraintCheck:
		return apperrors.Wrap(apperrors.CodeValidation, "value violates a constraint", err)
	}
	return err
}
