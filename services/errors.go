package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumn is matched by every *MissingColumnError.
var ErrMissingColumn = errors.New("missing required column")

// MissingColumnError reports columns a later stage depends on that are absent
// from the input. It is returned before any row is touched.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("cleaner: %s: %s", ErrMissingColumn, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Unwrap() error {
	return ErrMissingColumn
}
