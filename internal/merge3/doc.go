// Package merge3 implements three-way merging of sequences of lines, in the
// style of diff3 and bzr's merge3, and the set-level merge used to decide
// which named modules were added, deleted or possibly modified.
//
// The two descendants A (ours) and B (theirs) are each aligned against BASE.
// Spans of BASE matched by both alignments are sync regions; what lies
// between consecutive sync regions was changed by one side, by both sides
// identically, or by both sides differently, the latter being a conflict.
package merge3
