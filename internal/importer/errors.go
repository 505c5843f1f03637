package importer

import "fmt"

// ValidationError reports a required product field that is missing or
// empty after normalization.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("'%s' is not in product's data or is empty", e.Field)
}

// RowError tags a failure with the sheet and the 1-based workbook row it
// originated from.
type RowError struct {
	Sheet string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("sheet '%s', row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
