package gitconfig

import "fmt"

func errorf(typeMethod, format string, a ...interface{}) error {
	return fmt.Errorf("github.com/xltrail/git-xl/internal/gitconfig."+typeMethod+": "+format, a...)
}
