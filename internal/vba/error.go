package vba

import (
	"errors"
	"fmt"
)

// ErrNoWriter is returned when changes must be saved to a workbook but no
// write command is configured.
var ErrNoWriter = errors.New("no write command configured")

// ExtractionError reports that the modules of a workbook could not be read.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting VBA from %q: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func errorf(typeMethod, format string, a ...interface{}) error {
	return fmt.Errorf("github.com/xltrail/git-xl/internal/vba."+typeMethod+": "+format, a...)
}
