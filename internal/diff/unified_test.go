package diff_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xltrail/git-xl/internal/diff"
)

type sameAsErrorNode struct {
	err error
}

func (node sameAsErrorNode) SameAs(diff.Node) (bool, error) {
	return false, node.err
}

func (sameAsErrorNode) Lines() ([]string, error) {
	panic("not implemented")
}

type linesErrorNode struct {
	err error
}

func (linesErrorNode) SameAs(diff.Node) (bool, error) {
	return false, nil
}

func (node linesErrorNode) Lines() ([]string, error) {
	return nil, node.err
}

func numbered(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("l%d", i)
	}
	return lines
}

func TestUnified(t *testing.T) {
	t.Run("no output when both sides are equal", func(t *testing.T) {
		a := diff.Lines{"Option Explicit", "Sub A()", "End Sub"}
		for _, context := range []int{0, 1, 3, 10} {
			out, err := diff.Unified(a, diff.Lines{"Option Explicit", "Sub A()", "End Sub"}, context)
			require.NoError(t, err)
			assert.Empty(t, out)
		}
		out, err := diff.Unified(diff.Lines(nil), diff.Lines(nil), 3)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
	t.Run("replacements list removed lines first", func(t *testing.T) {
		a := diff.Lines(strings.Fields("one two three four"))
		b := diff.Lines(strings.Fields("zero one tree four"))
		out, err := diff.Unified(a, b, 3)
		require.NoError(t, err)
		want := "@@ -1,4 +1,4 @@\n+zero\n one\n-two\n-three\n+tree\n four\n"
		assert.Equal(t, want, out)
	})
	t.Run("distant changes make separate hunks", func(t *testing.T) {
		a := numbered(20)
		b := numbered(20)
		b[2] = "changed"
		b[17] = "changed too"
		hunks, err := diff.Hunks(a, b, 3, diff.Patience{})
		require.NoError(t, err)
		require.Len(t, hunks, 2)
		assert.Equal(t, "@@ -1,6 +1,6 @@", hunks[0].Header())
		assert.Equal(t, []string{" l0", " l1", "-l2", "+changed", " l3", " l4", " l5"}, hunks[0].Lines)
		assert.Equal(t, "@@ -15,6 +15,6 @@", hunks[1].Header())
		assert.Equal(t, []string{" l14", " l15", " l16", "-l17", "+changed too", " l18", " l19"}, hunks[1].Lines)
	})
	t.Run("close changes share a hunk", func(t *testing.T) {
		a := numbered(20)
		b := numbered(20)
		b[2] = "changed"
		b[8] = "changed too"
		hunks, err := diff.Hunks(a, b, 3, diff.Patience{})
		require.NoError(t, err)
		require.Len(t, hunks, 1)
		assert.Equal(t, "@@ -1,12 +1,12 @@", hunks[0].Header())
	})
	t.Run("pure insertion into empty content", func(t *testing.T) {
		out, err := diff.Unified(diff.Lines(nil), diff.Lines{"x", "y"}, 3)
		require.NoError(t, err)
		assert.Equal(t, "@@ -1,0 +1,2 @@\n+x\n+y\n", out)
	})
	t.Run("pure deletion of all content", func(t *testing.T) {
		out, err := diff.Unified(diff.Lines{"x", "y"}, diff.Lines(nil), 3)
		require.NoError(t, err)
		assert.Equal(t, "@@ -1,2 +1,0 @@\n-x\n-y\n", out)
	})
	t.Run("each matcher produces a valid diff", func(t *testing.T) {
		a := diff.Lines(strings.Fields("one two three four"))
		b := diff.Lines(strings.Fields("zero one tree four"))
		for _, m := range []diff.Matcher{diff.Patience{}, diff.Difflib{}, diff.Myers{}} {
			out, err := diff.Unified(a, b, 3, diff.UnifiedMatcher(m))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(out, "@@ -1,4 +1,4 @@\n"), "%T: %q", m, out)
		}
	})
	t.Run("when SameAs returns an error, Unified fails in turn", func(t *testing.T) {
		a := sameAsErrorNode{err: fmt.Errorf("an error")}
		out, err := diff.Unified(a, diff.Lines(nil), 5)
		assert.Equal(t, "", out)
		assert.Error(t, err)
	})
	t.Run("when Lines returns an error, Unified fails in turn", func(t *testing.T) {
		cause := errors.New("cannot read")
		_, err := diff.Unified(diff.Lines{"x"}, linesErrorNode{err: cause}, 5)
		assert.True(t, errors.Is(err, cause))
	})
	t.Run("recursion limit errors surface", func(t *testing.T) {
		a := diff.Lines{"m", "x", "m"}
		b := diff.Lines{"m", "y", "x", "m"}
		_, err := diff.Unified(a, b, 3, diff.UnifiedMatcher(diff.Patience{MaxRecursion: 1}))
		assert.True(t, errors.Is(err, diff.ErrRecursionLimit), "got %v", err)
	})
	t.Run("binary content", func(t *testing.T) {
		out, err := diff.Unified(diff.Lines{"a\x00b"}, diff.Lines{"c"}, 3)
		require.NoError(t, err)
		assert.Equal(t, "Binary files differ\n", out)
	})
	t.Run("decorator applies to headers and lines", func(t *testing.T) {
		bracket := func(line string) string { return "[" + line + "]" }
		out, err := diff.Unified(diff.Lines{"x", "y"}, diff.Lines{"x", "z"}, 3, diff.UnifiedDecorator(bracket))
		require.NoError(t, err)
		assert.Equal(t, "[@@ -1,2 +1,2 @@]\n[ x]\n[-y]\n[+z]\n", out)
	})
	t.Run("decorator is not called for equal nodes", func(t *testing.T) {
		calls := 0
		count := func(line string) string { calls++; return line }
		out, err := diff.Unified(diff.Lines{"x"}, diff.Lines{"x"}, 3, diff.UnifiedDecorator(count))
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.Zero(t, calls)
	})
	t.Run("nil options keep the defaults", func(t *testing.T) {
		out, err := diff.Unified(diff.Lines{"x"}, diff.Lines{"y"}, 3, diff.UnifiedMatcher(nil), diff.UnifiedDecorator(nil))
		require.NoError(t, err)
		assert.Equal(t, "@@ -1,1 +1,1 @@\n-x\n+y\n", out)
	})
}

func TestGroupedOpCodes(t *testing.T) {
	blocks := []diff.Match{{0, 0, 2}, {3, 3, 14}, {18, 18, 2}, {20, 20, 0}}
	t.Run("opcodes", func(t *testing.T) {
		want := []diff.OpCode{
			{diff.Equal, 0, 2, 0, 2},
			{diff.Replace, 2, 3, 2, 3},
			{diff.Equal, 3, 17, 3, 17},
			{diff.Replace, 17, 18, 17, 18},
			{diff.Equal, 18, 20, 18, 20},
		}
		if d := cmp.Diff(want, diff.OpCodes(blocks)); d != "" {
			t.Errorf("(-want +got):\n%s", d)
		}
	})
	t.Run("no context", func(t *testing.T) {
		want := [][]diff.OpCode{
			{{diff.Equal, 2, 2, 2, 2}, {diff.Replace, 2, 3, 2, 3}, {diff.Equal, 3, 3, 3, 3}},
			{{diff.Equal, 17, 17, 17, 17}, {diff.Replace, 17, 18, 17, 18}, {diff.Equal, 18, 18, 18, 18}},
		}
		if d := cmp.Diff(want, diff.GroupedOpCodes(blocks, 0)); d != "" {
			t.Errorf("(-want +got):\n%s", d)
		}
	})
	t.Run("insertions and deletions", func(t *testing.T) {
		got := diff.OpCodes([]diff.Match{{1, 0, 1}, {2, 3, 0}})
		want := []diff.OpCode{
			{diff.Delete, 0, 1, 0, 0},
			{diff.Equal, 1, 2, 0, 1},
			{diff.Insert, 2, 2, 1, 3},
		}
		if d := cmp.Diff(want, got); d != "" {
			t.Errorf("(-want +got):\n%s", d)
		}
		assert.Equal(t, "insert", diff.Insert.String())
	})
}
