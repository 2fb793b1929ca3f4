package driver

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/xltrail/git-xl/internal/diff"
	"github.com/xltrail/git-xl/internal/vba"
	"golang.org/x/sync/errgroup"
)

// DiffArgs are the arguments Git passes to external diff drivers.
type DiffArgs struct {
	Path    string
	OldFile string
	NewFile string
	// ContextLines is negative unless Git passed a count.
	ContextLines int
}

// ParseDiffArgs parses "path old-file old-hex old-mode new-file new-hex
// new-mode", optionally preceded by the number of context lines.
func ParseDiffArgs(args []string) (DiffArgs, error) {
	const method = "ParseDiffArgs"
	parsed := DiffArgs{ContextLines: -1}
	switch len(args) {
	case 7:
	case 8:
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return DiffArgs{}, errorf(method, "context lines: %q", args[0])
		}
		parsed.ContextLines = n
		args = args[1:]
	default:
		return DiffArgs{}, errorf(method, "got %d arguments, want 7 or 8", len(args))
	}
	parsed.Path = args[0]
	parsed.OldFile = args[1]
	parsed.NewFile = args[4]
	return parsed, nil
}

// Differ prints the differences between the VBA modules of two versions
// of a workbook.
type Differ struct {
	Extractor vba.Extractor

	// Matcher aligns module versions. Defaults to diff.Patience.
	Matcher diff.Matcher

	ContextLines int
	Colors       *Colorizer
	Stdout       io.Writer
	Stderr       io.Writer
}

// Diff writes the diff for args. Modules that cannot be compared, and
// workbooks that cannot be read, are reported on Stderr and skipped.
func (d *Differ) Diff(ctx context.Context, args DiffArgs) error {
	contextLines := d.ContextLines
	if args.ContextLines >= 0 {
		contextLines = args.ContextLines
	}
	var left, right *vba.Workbook
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		left, err = d.Extractor.Extract(gctx, args.OldFile)
		return err
	})
	g.Go(func() (err error) {
		right, err = d.Extractor.Extract(gctx, args.NewFile)
		return err
	})
	if err := g.Wait(); err != nil {
		var extractionErr *vba.ExtractionError
		if errors.As(err, &extractionErr) {
			log.WithFields(log.Fields{
				"path":  args.Path,
				"cause": err,
			}).Warning("Skipping workbook")
			_, werr := fmt.Fprintf(d.Stderr, "git-xl: %s: %v\n", args.Path, err)
			return werr
		}
		return err
	}

	w := bufio.NewWriter(d.Stdout)
	c := d.Colors
	var hunks bytes.Buffer
	fmt.Fprintln(w, c.Bold("diff --xl a/"+args.Path+" b/"+args.Path))
	modulePath := func(m *vba.Module) string {
		return args.Path + "/VBA/" + m.Name
	}
	for _, m := range right.Modules {
		before := left.Module(m.Name)
		if before == nil {
			fmt.Fprintln(w, c.Bold("--- /dev/null"))
			fmt.Fprintln(w, c.Bold("+++ b/"+modulePath(m)))
			for _, line := range m.Code {
				fmt.Fprintln(w, c.Green("+"+line))
			}
			fmt.Fprintln(w)
			continue
		}
		// Hunks are buffered so that a failing module prints nothing.
		hunks.Reset()
		err := diff.UnifiedTo(&hunks, before, m, contextLines,
			diff.UnifiedMatcher(d.Matcher),
			diff.UnifiedDecorator(c.DiffLine),
		)
		if err != nil {
			log.WithFields(log.Fields{
				"module": modulePath(m),
				"cause":  err,
			}).Warning("Skipping module")
			fmt.Fprintf(d.Stderr, "git-xl: %s: %v\n", modulePath(m), err)
			continue
		}
		if hunks.Len() == 0 {
			continue
		}
		fmt.Fprintln(w, c.Bold("--- a/"+modulePath(m)))
		fmt.Fprintln(w, c.Bold("+++ b/"+modulePath(m)))
		_, _ = hunks.WriteTo(w)
		fmt.Fprintln(w)
	}
	for _, m := range left.Modules {
		if right.Module(m.Name) != nil {
			continue
		}
		fmt.Fprintln(w, c.Bold("--- a/"+modulePath(m)))
		fmt.Fprintln(w, c.Bold("+++ /dev/null"))
		for _, line := range m.Code {
			fmt.Fprintln(w, c.Red("-"+line))
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
