package errutil

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation    = "23505"
	mysqlDuplicateEntry  = 1062
	sqliteUniqueConflict = "UNIQUE constraint failed"
)

// DuplicateKey reports whether err is a storage-level unique violation and
// returns whatever the driver exposes about the offending key.
func DuplicateKey(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName + " " + pgErr.Detail, true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return myErr.Message, true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return err.Error(), true
	}

	if msg := err.Error(); strings.Contains(msg, sqliteUniqueConflict) {
		return msg, true
	}

	return "", false
}

// DuplicateKeyMessage turns the key hint of a unique violation into the
// message returned to callers.
func DuplicateKeyMessage(key string) string {
	key = strings.ToLower(key)
	switch {
	case strings.Contains(key, "email"):
		return "email already in use"
	case strings.Contains(key, "username"):
		return "username already in use"
	default:
		return "value already in use"
	}
}

// FromDB translates a storage error into the domain taxonomy. Unique
// violations become Conflict, everything else Internal with msg.
func FromDB(err error, msg string) error {
	if err == nil {
		return nil
	}

	if _, ok := As(err); ok {
		return err
	}

	if key, ok := DuplicateKey(err); ok {
		return Conflict(DuplicateKeyMessage(key), err)
	}

	return Internal(msg, err)
}
