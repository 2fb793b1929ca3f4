package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/xltrail/git-xl/internal/vba"
)

// DefaultWorkbookPattern matches the names of Excel workbooks.
const DefaultWorkbookPattern = "*.xls*"

// Lister lists the workbooks under a directory and their modules.
type Lister struct {
	Extractor vba.Extractor
	Colors    *Colorizer
	Stdout    io.Writer
	Stderr    io.Writer
}

// ListOptions controls LsFiles.
type ListOptions struct {
	// Pattern is matched against file names. Defaults to
	// DefaultWorkbookPattern.
	Pattern string
	// Verbosity 1 shows the code of modules, 2 also their digests.
	Verbosity int
}

// LsFiles walks root, skipping .git directories, and prints each matching
// workbook followed by its modules.
func (l *Lister) LsFiles(ctx context.Context, root string, opts ListOptions) error {
	const method = "Lister.LsFiles"
	pattern := opts.Pattern
	if pattern == "" {
		pattern = DefaultWorkbookPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return errorf(method, "%q: %w", pattern, err)
	}
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return errorf(method, "%w", err)
	}

	w := bufio.NewWriter(l.Stdout)
	c := l.Colors
	for _, f := range files {
		wb, err := l.Extractor.Extract(ctx, f)
		var extractionErr *vba.ExtractionError
		if errors.As(err, &extractionErr) {
			log.WithFields(log.Fields{
				"path":  f,
				"cause": err,
			}).Warning("Skipping workbook")
			fmt.Fprintf(l.Stderr, "git-xl: %v\n", err)
			continue
		}
		if err != nil {
			return errorf(method, "%w", err)
		}
		fmt.Fprintln(w, c.Bold(filepath.ToSlash(f)))
		for _, m := range wb.Modules {
			fmt.Fprintf(w, "    %s\n", m.Path())
			if opts.Verbosity >= 2 {
				fmt.Fprintln(w, c.Faint("    ["+m.Digest[:7]+"]"))
			}
			if opts.Verbosity >= 1 {
				for _, line := range m.Code {
					fmt.Fprintln(w, c.Yellow("        "+line))
				}
			}
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
