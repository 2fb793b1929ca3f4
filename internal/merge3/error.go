package merge3

import (
	"errors"
	"fmt"
)

// ErrReprocessWithBase is returned when asked to both reprocess conflicts
// and show the base lines within them: reprocessed conflicts have no
// well-defined base.
var ErrReprocessWithBase = errors.New("cannot reprocess and show base")

func errorf(typeMethod, format string, a ...interface{}) error {
	return fmt.Errorf("github.com/xltrail/git-xl/internal/merge3."+typeMethod+": "+format, a...)
}
