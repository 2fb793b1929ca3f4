package driver

import (
	"errors"
	"fmt"
)

// ErrConflict is returned by Merge when the result needs the user's
// attention: some module has conflicts, could not be merged, or the
// merge could not be saved. Git expects exit status 1 then.
var ErrConflict = errors.New("conflict")

func errorf(typeMethod, format string, a ...interface{}) error {
	return fmt.Errorf("github.com/xltrail/git-xl/internal/driver."+typeMethod+": "+format, a...)
}
