package diff

import (
	"sort"
)

// DefaultMaxRecursion bounds the nesting of gap refinements in Patience.
const DefaultMaxRecursion = 10

// Patience implements Matcher with the Patience Diff algorithm.
type Patience struct {
	// MaxRecursion is the deepest allowed refinement. Zero or less means
	// DefaultMaxRecursion. Exceeding it fails with ErrRecursionLimit.
	MaxRecursion int

	// CheckConsistency makes MatchingBlocks verify its result. Tests turn it
	// on; it can be enabled in the configuration when debugging.
	CheckConsistency bool
}

var _ Matcher = Patience{}

type pair struct {
	a, b int
}

// patienceRun owns the line pairs accumulated while aligning a and b. It is
// created by MatchingBlocks and never escapes it.
type patienceRun struct {
	a, b    []string
	matches []pair
}

// MatchingBlocks implements Matcher.
func (p Patience) MatchingBlocks(a, b []string) ([]Match, error) {
	const method = "Patience.MatchingBlocks"
	maxRecursion := p.MaxRecursion
	if maxRecursion <= 0 {
		maxRecursion = DefaultMaxRecursion
	}
	run := patienceRun{a: a, b: b}
	if err := run.recurse(0, 0, len(a), len(b), maxRecursion); err != nil {
		return nil, errorf(method, "aligning %d and %d lines: %w", len(a), len(b), err)
	}
	blocks := collapse(run.matches)
	blocks = append(blocks, Match{A: len(a), B: len(b)})
	if p.CheckConsistency {
		if err := CheckConsistency(blocks); err != nil {
			return nil, err
		}
	}
	return blocks, nil
}

// recurse finds the matching lines of a[alo:ahi] and b[blo:bhi].
func (run *patienceRun) recurse(alo, blo, ahi, bhi, maxRecursion int) error {
	if maxRecursion < 0 {
		return ErrRecursionLimit
	}
	if alo == ahi || blo == bhi {
		return nil
	}
	a, b := run.a, run.b
	oldLength := len(run.matches)
	lastA, lastB := alo-1, blo-1
	for _, m := range uniqueLCS(a[alo:ahi], b[blo:bhi]) {
		apos, bpos := m.a+alo, m.b+blo
		// Usually consecutive unique lines match consecutively.
		if lastA+1 != apos || lastB+1 != bpos {
			if err := run.recurse(lastA+1, lastB+1, apos, bpos, maxRecursion-1); err != nil {
				return err
			}
		}
		lastA, lastB = apos, bpos
		run.matches = append(run.matches, pair{apos, bpos})
	}
	switch {
	case len(run.matches) > oldLength:
		// Between the last unique match and the end.
		return run.recurse(lastA+1, lastB+1, ahi, bhi, maxRecursion-1)
	case a[alo] == b[blo]:
		// Matching lines at the very beginning.
		for alo < ahi && blo < bhi && a[alo] == b[blo] {
			run.matches = append(run.matches, pair{alo, blo})
			alo++
			blo++
		}
		return run.recurse(alo, blo, ahi, bhi, maxRecursion-1)
	case a[ahi-1] == b[bhi-1]:
		// Matching lines at the very end.
		nahi, nbhi := ahi-1, bhi-1
		for nahi > alo && nbhi > blo && a[nahi-1] == b[nbhi-1] {
			nahi--
			nbhi--
		}
		if err := run.recurse(lastA+1, lastB+1, nahi, nbhi, maxRecursion-1); err != nil {
			return err
		}
		for i := 0; i < ahi-nahi; i++ {
			run.matches = append(run.matches, pair{nahi + i, nbhi + i})
		}
	}
	return nil
}

// uniqueLCS returns the longest common subsequence of the lines that occur
// exactly once in a and exactly once in b, as pairs of positions.
func uniqueLCS(a, b []string) []pair {
	// index[line] is the position of line in a, or -1 if it is repeated.
	index := make(map[string]int, len(a))
	for i, line := range a {
		if _, ok := index[line]; ok {
			index[line] = -1
		} else {
			index[line] = i
		}
	}
	// btoa[i] is the position in a of b[i], or -1 unless the line occurs
	// exactly once in both.
	btoa := make([]int, len(b))
	seen := make(map[string]int)
	for pos, line := range b {
		btoa[pos] = -1
		apos, ok := index[line]
		if !ok || apos < 0 {
			continue
		}
		if prev, ok := seen[line]; ok {
			btoa[prev] = -1
			delete(index, line)
		} else {
			seen[line] = pos
			btoa[pos] = apos
		}
	}

	// Patience sorting. stacks holds the top a-position of each pile, lasts
	// the b-position that put it there.
	backpointers := make([]int, len(b))
	var stacks, lasts []int
	k := 0
	for bpos, apos := range btoa {
		if apos < 0 {
			continue
		}
		n := len(stacks)
		switch {
		case n > 0 && stacks[n-1] < apos:
			// Usually the line goes at the end.
			k = n
		case n > 0 && stacks[k] < apos && (k == n-1 || stacks[k+1] > apos):
			// Or right after the previous one.
			k++
		default:
			k = sort.Search(n, func(i int) bool { return stacks[i] > apos })
		}
		if k > 0 {
			backpointers[bpos] = lasts[k-1]
		} else {
			backpointers[bpos] = -1
		}
		if k < n {
			stacks[k] = apos
			lasts[k] = bpos
		} else {
			stacks = append(stacks, apos)
			lasts = append(lasts, bpos)
		}
	}
	if len(lasts) == 0 {
		return nil
	}
	result := make([]pair, 0, len(lasts))
	for k := lasts[len(lasts)-1]; k >= 0; k = backpointers[k] {
		result = append(result, pair{btoa[k], k})
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// collapse merges runs of pairs advancing together in both sequences.
func collapse(matches []pair) []Match {
	var blocks []Match
	for _, m := range matches {
		blocks = appendMatch(blocks, m.a, m.b, 1)
	}
	return blocks
}
