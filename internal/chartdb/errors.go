package chartdb

import "errors"

var (
	// ErrStoreLocked indicates another process holds the database lock.
	ErrStoreLocked = errors.New("chart database is locked by another process")
	// ErrUnknownYear indicates a year without a chart table.
	ErrUnknownYear = errors.New("unsupported chart year")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
