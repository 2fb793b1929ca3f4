package diff

// Match describes a matching block: a[A:A+Size] equals b[B:B+Size].
type Match struct {
	A    int
	B    int
	Size int
}

// A Matcher finds the matching blocks of two sequences of lines.
//
// The returned blocks increase monotonically in both A and B, never
// overlap, and are terminated by the sentinel {len(a), len(b), 0}, which is
// the only block of size zero.
type Matcher interface {
	MatchingBlocks(a, b []string) ([]Match, error)
}

// CheckConsistency verifies that blocks increase monotonically in both
// sequences. Any error wraps ErrInconsistent.
func CheckConsistency(blocks []Match) error {
	const method = "CheckConsistency"
	nextA, nextB := -1, -1
	for _, m := range blocks {
		if m.A < nextA {
			return errorf(method, "a at %d before %d: %w", m.A, nextA, ErrInconsistent)
		}
		if m.B < nextB {
			return errorf(method, "b at %d before %d: %w", m.B, nextB, ErrInconsistent)
		}
		nextA = m.A + m.Size
		nextB = m.B + m.Size
	}
	return nil
}

// appendMatch appends the block, extending the last one when contiguous.
func appendMatch(blocks []Match, a, b, size int) []Match {
	if size == 0 {
		return blocks
	}
	if n := len(blocks); n > 0 {
		last := &blocks[n-1]
		if last.A+last.Size == a && last.B+last.Size == b {
			last.Size += size
			return blocks
		}
	}
	return append(blocks, Match{A: a, B: b, Size: size})
}
