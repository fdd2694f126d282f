package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrIndexNotFound   = errors.New("db: index not found")
	ErrInvalidQuery    = errors.New("db: invalid query")
	ErrUnsupportedSort = errors.New("db: unsupported sort")
)

// Op constants name the backend operation for error context.
const (
	OpSearch      = "FT.SEARCH"
	OpBleveSearch = "BLEVE.SEARCH"
	OpBleveIndex  = "BLEVE.INDEX"
	OpBleveOpen   = "BLEVE.OPEN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
