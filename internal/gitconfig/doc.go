// Package gitconfig registers git-xl with Git: the diff and merge
// drivers in the Git configuration, the attributes routing workbooks to
// them, and the ignore patterns for Excel's lock files.
package gitconfig
