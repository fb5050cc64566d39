package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrInvalidDatabaseURL = fmt.Errorf("invalid database url")

	// Database errors
	ErrNotFound       = fmt.Errorf("not found")
	ErrDuplicateEntry = fmt.Errorf("duplicate entry")

	// Spreadsheet errors
	ErrSheetNotFound    = fmt.Errorf("sheet not found")
	ErrInvalidLoanCount = fmt.Errorf("invalid loan count")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
