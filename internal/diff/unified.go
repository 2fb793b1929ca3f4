package diff

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

const bytesForBinaryFileCheck = 1 << 16

type unifiedOptions struct {
	matcher  Matcher
	decorate func(string) string
}

// UnifiedOption follows the functional options pattern to pass options to
// Unified and UnifiedTo.
type UnifiedOption func(*unifiedOptions)

// UnifiedMatcher selects the matcher used to align the two sides. The
// default is Patience with default settings.
func UnifiedMatcher(m Matcher) UnifiedOption {
	return func(opts *unifiedOptions) {
		if m != nil {
			opts.matcher = m
		}
	}
}

// UnifiedDecorator sets a function applied to every output line, hunk
// headers included, before it is written, e.g., to add colors.
func UnifiedDecorator(f func(line string) string) UnifiedOption {
	return func(opts *unifiedOptions) {
		if f != nil {
			opts.decorate = f
		}
	}
}

// Hunks aligns a and b with m and groups the differences into hunks with up
// to contextLines unchanged lines around each change. There are no hunks if
// a and b are equal. Each call computes the hunks afresh.
func Hunks(a, b []string, contextLines int, m Matcher) ([]Hunk, error) {
	blocks, err := m.MatchingBlocks(a, b)
	if err != nil {
		return nil, err
	}
	var hunks []Hunk
	for _, group := range GroupedOpCodes(blocks, contextLines) {
		hunks = append(hunks, newHunk(a, b, group))
	}
	return hunks, nil
}

// Unified wraps UnifiedTo to return a string instead of writing it to a writer.
func Unified(a, b Node, contextLines int, options ...UnifiedOption) (string, error) {
	var buf bytes.Buffer
	err := UnifiedTo(&buf, a, b, contextLines, options...)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// UnifiedTo writes the hunks of a unified diff of the two nodes to the
// passed writer, without the "---" and "+++" header lines, which callers
// write themselves since they know the paths.
func UnifiedTo(w io.Writer, a, b Node, contextLines int, options ...UnifiedOption) error {
	opts := unifiedOptions{
		matcher:  Patience{},
		decorate: func(line string) string { return line },
	}
	for _, opt := range options {
		opt(&opts)
	}
	if same, err := a.SameAs(b); err != nil {
		return err
	} else if same {
		return nil
	}
	aLines, aErr := a.Lines()
	if aErr != nil {
		return aErr
	}
	bLines, bErr := b.Lines()
	if bErr != nil {
		return bErr
	}
	if isLikelyBinaryFile(aLines) || isLikelyBinaryFile(bLines) {
		_, err := fmt.Fprintln(w, opts.decorate("Binary files differ"))
		return err
	}
	hunks, err := Hunks(aLines, bLines, contextLines, opts.matcher)
	if err != nil {
		return err
	}
	p := hunkPrinter{w: w, decorate: opts.decorate}
	for _, h := range hunks {
		if err := p.printHunk(h); err != nil {
			return err
		}
	}
	return nil
}

// Look at a few thousand bytes and see if any of them is null.
func isLikelyBinaryFile(lines []string) bool {
	count := 0
	for _, line := range lines {
		if strings.Contains(line, "\x00") {
			return true
		}
		count += len(line)
		if count >= bytesForBinaryFileCheck {
			break
		}
	}
	return false
}
