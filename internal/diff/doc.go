// Package diff aligns sequences of lines and renders unified diffs of them.
//
// The default alignment is Patience Diff: lines occurring exactly once on
// both sides are matched first, using a longest increasing subsequence found
// by patience sorting, and the gaps between those anchors are refined
// recursively. This keeps repeated boilerplate (blank lines, "End Sub", ...)
// from pulling the alignment off course, which matters a lot for VBA source.
//
// Two other matchers are available for comparison: Difflib, which is the
// classic Ratcliff/Obershelp matcher from Python's difflib (via
// github.com/pmezard/go-difflib), and Myers, built on the diff-match-patch
// implementation in github.com/sergi/go-diff.
//
// Hunks are grouped the same way Python's difflib groups opcodes, so the
// output of Unified matches what the diff driver used to print.
package diff
