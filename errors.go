package stash

import "errors"

// Construction errors. These are fatal: a Table, Queue, or Single that
// fails to construct is never partially registered
var (
	ErrNoColumns       = errors.New("table requires at least one column")
	ErrDuplicateColumn = errors.New("column name duplicated in table")
	ErrReservedColumn  = errors.New("column name is reserved")
	ErrColumnLengths   = errors.New("seed columns have mismatched lengths")
	ErrDuplicateName   = errors.New("name already registered in store")
)

// Schema violations. Inserts and updates naming a column the table does
// not have fail with these; Where specifications naming an unknown column
// silently match zero rows instead
var (
	ErrUnknownColumn = errors.New("column not present on table")
	ErrMissingColumn = errors.New("column missing from row")
)
