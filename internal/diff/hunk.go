package diff

import (
	"fmt"
	"io"
	"strings"
)

// Hunk is a contiguous block of a unified diff.
// See https://www.gnu.org/software/diffutils/manual/html_node/Hunks.html.
type Hunk struct {
	// Location of the hunk: zero-based offsets and line counts on the left
	// and right. Rendered for example as "@@ -16,3 +18,5 @@".
	LeftOffset  int
	LeftCount   int
	RightOffset int
	RightCount  int

	// Lines prefixed with ' ', '-' or '+'.
	Lines []string
}

func newHunk(a, b []string, group []OpCode) Hunk {
	first, last := group[0], group[len(group)-1]
	h := Hunk{
		LeftOffset:  first.I1,
		LeftCount:   last.I2 - first.I1,
		RightOffset: first.J1,
		RightCount:  last.J2 - first.J1,
	}
	for _, c := range group {
		if c.Tag == Equal {
			for _, line := range a[c.I1:c.I2] {
				h.Lines = append(h.Lines, " "+line)
			}
			continue
		}
		// A replacement lists all removed lines before all added ones.
		if c.Tag == Replace || c.Tag == Delete {
			for _, line := range a[c.I1:c.I2] {
				h.Lines = append(h.Lines, "-"+line)
			}
		}
		if c.Tag == Replace || c.Tag == Insert {
			for _, line := range b[c.J1:c.J2] {
				h.Lines = append(h.Lines, "+"+line)
			}
		}
	}
	return h
}

// Header returns the location line, e.g., "@@ -1,4 +1,5 @@". Offsets are
// one-based and counts are always present, zero included.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.LeftOffset+1, h.LeftCount, h.RightOffset+1, h.RightCount)
}

type hunkPrinter struct {
	w        io.Writer
	decorate func(string) string
	printErr error
}

func (p *hunkPrinter) printHunk(h Hunk) error {
	p.print("%s\n", p.decorate(h.Header()))
	for _, line := range h.Lines {
		p.print("%s\n", p.decorate(strings.TrimRight(line, "\n")))
	}
	return p.printErr
}

func (p *hunkPrinter) print(format string, a ...interface{}) {
	if p.printErr != nil {
		return
	}
	_, p.printErr = fmt.Fprintf(p.w, format, a...)
}
