package driver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xltrail/git-xl/internal/diff"
	"github.com/xltrail/git-xl/internal/merge3"
	"github.com/xltrail/git-xl/internal/vba"
	"golang.org/x/sync/errgroup"
)

// Merger merges the VBA modules of workbooks. Git runs it as
// "merge %P %O %A %B" and expects the result in %A.
type Merger struct {
	Extractor vba.Extractor
	// Writer saves the result. Without one, merges that change modules
	// fail.
	Writer vba.Writer
	// Matcher aligns module versions. Defaults to diff.Patience.
	Matcher diff.Matcher
	// Jobs bounds the number of modules merged concurrently.
	Jobs   int
	Stdout io.Writer
	Stderr io.Writer
}

// moduleMerge is the outcome of merging one module.
type moduleMerge struct {
	name string
	// Type and code of the merged module.
	typ  vba.Type
	code []string
	// The module was deleted in ours.
	deletedInOurs bool
	conflicted    bool
	err           error
}

// Merge merges theirs into ours, given their common ancestor base, and
// saves the result into ours. Path is the name of the workbook in the
// repository. It returns an error wrapping ErrConflict if the user has
// to step in.
func (m *Merger) Merge(ctx context.Context, path, base, ours, theirs string) error {
	const method = "Merger.Merge"
	var x, a, b *vba.Workbook
	g, gctx := errgroup.WithContext(ctx)
	for _, job := range []struct {
		dst  **vba.Workbook
		path string
	}{{&x, base}, {&a, ours}, {&b, theirs}} {
		job := job
		g.Go(func() (err error) {
			*job.dst, err = m.Extractor.Extract(gctx, job.path)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return errorf(method, "%w", err)
	}

	added, deleted, maybeModified := merge3.MergeLists(a.Names(false), b.Names(false), x.Names(false))

	w := bufio.NewWriter(m.Stdout)
	var changes vba.Changeset
	for _, name := range deleted {
		fmt.Fprintf(w, "--- a/%s/%s\n", path, a.Module(name).Path())
		changes.Remove(name)
	}
	for _, name := range added {
		module := b.Module(name)
		changes.Add(name, module.Type, module.Code)
		fmt.Fprintf(w, "+++ b/%s/%s\n", path, module.Path())
	}

	results := m.mergeModules(ctx, x, a, b, maybeModified)
	conflict := false
	for _, r := range results {
		if r == nil {
			continue
		}
		modulePath := path + "/" + (&vba.Module{Name: r.name, Type: r.typ}).Path()
		logger := log.WithField("module", modulePath)
		if r.err != nil {
			conflict = true
			logger.WithField("cause", r.err).Error("Could not merge module")
			fmt.Fprintf(m.Stderr, "error: %s: %v\n", modulePath, r.err)
			continue
		}
		if r.deletedInOurs {
			changes.Add(r.name, r.typ, r.code)
		} else {
			changes.SetContent(r.name, r.code)
		}
		switch {
		case r.conflicted && r.deletedInOurs:
			fmt.Fprintf(w, "CONFLICT (VBA modify/delete): %s deleted in one branch and modified in other branch\n", modulePath)
		case r.conflicted:
			fmt.Fprintf(w, "CONFLICT (VBA content): Merge conflict in %s\n", modulePath)
		default:
			fmt.Fprintf(w, "--- a/%s +++ b/%s\n", modulePath, modulePath)
		}
		conflict = conflict || r.conflicted
		logger.WithField("conflicted", r.conflicted).Debug("Merged module")
	}
	if err := w.Flush(); err != nil {
		return errorf(method, "%w", err)
	}

	if changes.Len() > 0 {
		if m.Writer == nil {
			fmt.Fprintf(m.Stderr, "error: %s: cannot save %d VBA changes: %v\n", path, changes.Len(), vba.ErrNoWriter)
			return fmt.Errorf("%w: %w", ErrConflict, vba.ErrNoWriter)
		}
		if err := m.Writer.Write(ctx, ours, &changes); err != nil {
			return errorf(method, "%w", err)
		}
		log.WithFields(log.Fields{
			"path":    path,
			"changes": changes.Len(),
			"modules": changes.Apply(a).Names(true),
		}).Debug("Saved merge result")
	}
	if conflict {
		return ErrConflict
	}
	return nil
}

// mergeModules merges the named modules concurrently. The results are in
// the order of names; a nil result means there was nothing to merge.
func (m *Merger) mergeModules(ctx context.Context, x, a, b *vba.Workbook, names []string) []*moduleMerge {
	results := make([]*moduleMerge, len(names))
	var g errgroup.Group
	g.SetLimit(max(m.Jobs, 1))
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = &moduleMerge{name: name, err: ctx.Err()}
				return nil
			}
			results[i] = m.mergeModule(x.Module(name), a.Module(name), b.Module(name), name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (m *Merger) mergeModule(x, a, b *vba.Module, name string) *moduleMerge {
	var digestA, digestB string
	if a != nil {
		digestA = a.Digest
	}
	if b != nil {
		digestB = b.Digest
	}
	if digestA == digestB {
		return nil
	}
	if a == nil && x != nil && b != nil && b.Digest == x.Digest {
		// Deleted in ours, untouched in theirs: the deletion stands.
		return nil
	}
	r := &moduleMerge{name: name}
	switch {
	case a != nil:
		r.typ = a.Type
	case b != nil:
		r.typ = b.Type
		r.deletedInOurs = true
	}
	m3 := merge3.New(code(x), code(a), code(b), merge3.WithMatcher(m.Matcher))
	if r.conflicted, r.err = m3.IsConflicted(); r.err != nil {
		return r
	}
	merged, err := m3.MergeLines(merge3.LinesOptions{
		NameA: name + ":ours",
		NameB: name + ":theirs",
	})
	if err != nil {
		r.err = err
		return r
	}
	// Modules hold lines without terminators; only markers have them.
	r.code = make([]string, len(merged))
	for i, line := range merged {
		r.code[i] = strings.TrimRight(line, "\r\n")
	}
	return r
}

func code(m *vba.Module) []string {
	if m == nil {
		return nil
	}
	return m.Code
}
