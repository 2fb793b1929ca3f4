package diff

import (
	"errors"
	"fmt"
)

var (
	// ErrRecursionLimit is returned when aligning two sequences needs more
	// nested refinements than the matcher allows.
	ErrRecursionLimit = errors.New("max recursion depth reached")

	// ErrInconsistent means matching blocks were found not to increase
	// monotonically. It is only ever reported with consistency checks on and
	// always indicates a bug.
	ErrInconsistent = errors.New("non increasing matches")
)

func errorf(typeMethod, format string, a ...interface{}) error {
	return fmt.Errorf("github.com/xltrail/git-xl/internal/diff."+typeMethod+": "+format, a...)
}
