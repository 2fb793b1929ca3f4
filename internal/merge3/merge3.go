package merge3

import (
	"strings"

	"github.com/xltrail/git-xl/internal/diff"
)

// Default conflict markers, compatible with diff3 and git.
const (
	DefaultStartMarker = "<<<<<<<"
	DefaultMidMarker   = "======="
	DefaultEndMarker   = ">>>>>>>"
	DefaultBaseMarker  = "|||||||"
)

// Merge3 is a three-way merge of BASE, A (ours) and B (theirs). The three
// sequences must not be modified while the Merge3 is in use. Every method
// recomputes what it needs, so calling it twice yields the same result.
type Merge3 struct {
	base []string
	a    []string
	b    []string

	cherrypick bool
	matcher    diff.Matcher
}

// Option follows the functional options pattern to configure a Merge3.
type Option func(*Merge3)

// Cherrypick marks the merge as a cherry-pick of B into A: spans where B
// still agrees with BASE do not conflict with changes in A.
func Cherrypick(value bool) Option {
	return func(m *Merge3) {
		m.cherrypick = value
	}
}

// WithMatcher sets the matcher used for all alignments. The default is
// diff.Patience with default settings.
func WithMatcher(matcher diff.Matcher) Option {
	return func(m *Merge3) {
		if matcher != nil {
			m.matcher = matcher
		}
	}
}

// New prepares a three-way merge of the given lines.
func New(base, a, b []string, options ...Option) *Merge3 {
	m := &Merge3{
		base:    base,
		a:       a,
		b:       b,
		matcher: diff.Patience{},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// SyncRegions returns the spans where both descendants match BASE, in
// increasing order. The last one is always the empty region at the end of
// all three sequences.
func (m *Merge3) SyncRegions() ([]SyncRegion, error) {
	const method = "Merge3.SyncRegions"
	amatches, err := m.matcher.MatchingBlocks(m.base, m.a)
	if err != nil {
		return nil, errorf(method, "base against a: %w", err)
	}
	bmatches, err := m.matcher.MatchingBlocks(m.base, m.b)
	if err != nil {
		return nil, errorf(method, "base against b: %w", err)
	}
	var regions []SyncRegion
	ia, ib := 0, 0
	for ia < len(amatches) && ib < len(bmatches) {
		am, bm := amatches[ia], bmatches[ib]
		aend, bend := am.A+am.Size, bm.A+bm.Size
		// The unconflicted block lasts until whichever match ends first.
		if start, end, ok := intersect(am.A, aend, bm.A, bend); ok {
			asub := am.B + (start - am.A)
			bsub := bm.B + (start - bm.A)
			n := end - start
			regions = append(regions, SyncRegion{
				BaseStart: start,
				BaseEnd:   end,
				AStart:    asub,
				AEnd:      asub + n,
				BStart:    bsub,
				BEnd:      bsub + n,
			})
		}
		if aend < bend {
			ia++
		} else {
			ib++
		}
	}
	regions = append(regions, SyncRegion{
		BaseStart: len(m.base),
		BaseEnd:   len(m.base),
		AStart:    len(m.a),
		AEnd:      len(m.a),
		BStart:    len(m.b),
		BEnd:      len(m.b),
	})
	return regions, nil
}

// Regions classifies the whole merge into regions, in increasing order of
// BASE, A and B.
func (m *Merge3) Regions() ([]Region, error) {
	const method = "Merge3.Regions"
	syncRegions, err := m.SyncRegions()
	if err != nil {
		return nil, err
	}
	var regions []Region
	// BASE[:iz], A[:ia] and B[:ib] have been disposed of.
	iz, ia, ib := 0, 0, 0
	for _, s := range syncRegions {
		if s.AStart > ia || s.BStart > ib {
			equalA := equalRange(m.a, ia, s.AStart, m.base, iz, s.BaseStart)
			equalB := equalRange(m.b, ib, s.BStart, m.base, iz, s.BaseStart)
			switch {
			case equalRange(m.a, ia, s.AStart, m.b, ib, s.BStart):
				regions = append(regions, takeA(Same, ia, s.AStart))
			case equalA && !equalB:
				regions = append(regions, takeB(ib, s.BStart))
			case equalB && !equalA:
				regions = append(regions, takeA(TakeA, ia, s.AStart))
			case !equalA && !equalB:
				if m.cherrypick {
					refined, err := m.refineCherrypickConflict(iz, s.BaseStart, ia, s.AStart, ib, s.BStart)
					if err != nil {
						return nil, err
					}
					regions = append(regions, refined...)
				} else {
					regions = append(regions, conflict(iz, s.BaseStart, ia, s.AStart, ib, s.BStart))
				}
			default:
				return nil, errorf(method, "a and b equal base but unmatched at base line %d", iz)
			}
			ia, ib = s.AStart, s.BStart
		}
		// If the same part of BASE was deleted on both sides, it is skipped.
		iz = s.BaseStart
		if s.BaseEnd > s.BaseStart {
			regions = append(regions, unchanged(s.BaseStart, s.BaseEnd))
			iz, ia, ib = s.BaseEnd, s.AEnd, s.BEnd
		}
	}
	return regions, nil
}

// refineCherrypickConflict splits a conflict into the parts where B differs
// from BASE. The first part gets the whole A range, later ones an empty one.
func (m *Merge3) refineCherrypickConflict(zstart, zend, astart, aend, bstart, bend int) ([]Region, error) {
	const method = "Merge3.refineCherrypickConflict"
	matches, err := m.matcher.MatchingBlocks(m.base[zstart:zend], m.b[bstart:bend])
	if err != nil {
		return nil, errorf(method, "%w", err)
	}
	var regions []Region
	yieldedA := false
	add := func(zs, ze, bs, be int) {
		if yieldedA {
			regions = append(regions, conflict(zs, ze, aend, aend, bs, be))
		} else {
			yieldedA = true
			regions = append(regions, conflict(zs, ze, astart, aend, bs, be))
		}
	}
	lastBase, lastB := 0, 0
	for _, match := range matches {
		// Lines of BASE replaced by nothing in B do not conflict.
		if match.B > lastB {
			add(zstart+lastBase, zstart+match.A, bstart+lastB, bstart+match.B)
		}
		lastBase = match.A + match.Size
		lastB = match.B + match.Size
	}
	if lastBase != zend-zstart || lastB != bend-bstart {
		add(zstart+lastBase, zend, bstart+lastB, bend)
	}
	if !yieldedA {
		regions = append(regions, conflict(zstart, zend, astart, aend, bstart, bend))
	}
	return regions, nil
}

// reprocessRegions takes the lines both sides changed identically out of
// conflicts, leaving conflicts only around what really disagrees.
func (m *Merge3) reprocessRegions(regions []Region) ([]Region, error) {
	const method = "Merge3.reprocessRegions"
	var out []Region
	for _, r := range regions {
		if r.Kind != Conflict {
			out = append(out, r)
			continue
		}
		matches, err := m.matcher.MatchingBlocks(m.a[r.AStart:r.AEnd], m.b[r.BStart:r.BEnd])
		if err != nil {
			return nil, errorf(method, "%w", err)
		}
		nextA, nextB := r.AStart, r.BStart
		for _, match := range matches[:len(matches)-1] {
			ia, ib := r.AStart+match.A, r.BStart+match.B
			if reg, ok := mismatchRegion(nextA, ia, nextB, ib); ok {
				out = append(out, reg)
			}
			out = append(out, takeA(Same, ia, ia+match.Size))
			nextA, nextB = ia+match.Size, ib+match.Size
		}
		if reg, ok := mismatchRegion(nextA, r.AEnd, nextB, r.BEnd); ok {
			out = append(out, reg)
		}
	}
	return out, nil
}

func mismatchRegion(nextA, regionA, nextB, regionB int) (Region, bool) {
	if nextA < regionA || nextB < regionB {
		return conflict(NoBase, NoBase, nextA, regionA, nextB, regionB), true
	}
	return Region{}, false
}

// Conflicts returns the number of conflict regions.
func (m *Merge3) Conflicts() (int, error) {
	regions, err := m.Regions()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, r := range regions {
		if r.Kind == Conflict {
			n++
		}
	}
	return n, nil
}

// IsConflicted tells whether the merge has at least one conflict.
func (m *Merge3) IsConflicted() (bool, error) {
	n, err := m.Conflicts()
	return n > 0, err
}

// Range is a half-open span [Start, End) of BASE.
type Range struct {
	Start int
	End   int
}

// FindUnconflicted returns the spans of BASE left untouched by both sides.
func (m *Merge3) FindUnconflicted() ([]Range, error) {
	const method = "Merge3.FindUnconflicted"
	am, err := m.matcher.MatchingBlocks(m.base, m.a)
	if err != nil {
		return nil, errorf(method, "base against a: %w", err)
	}
	bm, err := m.matcher.MatchingBlocks(m.base, m.b)
	if err != nil {
		return nil, errorf(method, "base against b: %w", err)
	}
	var ranges []Range
	for len(am) > 0 && len(bm) > 0 {
		a1, a2 := am[0].A, am[0].A+am[0].Size
		b1, b2 := bm[0].A, bm[0].A+bm[0].Size
		if start, end, ok := intersect(a1, a2, b1, b2); ok {
			ranges = append(ranges, Range{start, end})
		}
		if a2 < b2 {
			am = am[1:]
		} else {
			bm = bm[1:]
		}
	}
	return ranges, nil
}

// intersect returns the non-empty intersection of [a1, a2) and [b1, b2).
func intersect(a1, a2, b1, b2 int) (start, end int, ok bool) {
	start, end = max(a1, b1), min(a2, b2)
	if start < end {
		return start, end, true
	}
	return 0, 0, false
}

// equalRange compares a[astart:aend] and b[bstart:bend].
func equalRange(a []string, astart, aend int, b []string, bstart, bend int) bool {
	if aend-astart != bend-bstart {
		return false
	}
	for i := 0; i < aend-astart; i++ {
		if a[astart+i] != b[bstart+i] {
			return false
		}
	}
	return true
}

// newline guesses the line terminator of A from its first line.
func newline(lines []string) string {
	if len(lines) > 0 {
		switch first := lines[0]; {
		case strings.HasSuffix(first, "\r\n"):
			return "\r\n"
		case strings.HasSuffix(first, "\r"):
			return "\r"
		}
	}
	return "\n"
}
