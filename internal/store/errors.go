package store

import (
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/erazemk/spajza/internal/model"
)

// ErrNotFound is returned when a referenced row does not exist for the
// requesting owner. A row belonging to a different owner is deliberately
// indistinguishable from a missing one.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when registering an already-used username.
var ErrUsernameTaken = errors.New("username already exists")

// DuplicateError is returned when an item name already exists (compared
// case-insensitively) in the owner's target list.
type DuplicateError struct {
	Name string
	List model.ListType
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%q is already in your %s", e.Name, e.List.Display())
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
