package merge3

// LinesOptions controls how MergeLines renders conflicts.
type LinesOptions struct {
	// NameA, NameB and NameBase are appended to the corresponding markers,
	// separated by a space, when not empty.
	NameA    string
	NameB    string
	NameBase string

	// Markers default to the Default*Marker constants when empty.
	StartMarker string
	MidMarker   string
	EndMarker   string

	// BaseMarker, when set, makes conflicts also show the BASE lines.
	BaseMarker string

	// Reprocess splits conflicts around lines both sides agree on.
	// It cannot be combined with BaseMarker.
	Reprocess bool
}

func marker(value, fallback, name string) string {
	if value == "" {
		value = fallback
	}
	if name != "" {
		value += " " + name
	}
	return value
}

// MergeLines returns the merged lines, with conflict markers around
// conflicting regions. Marker lines end with the line terminator of the
// first line of A.
func (m *Merge3) MergeLines(opts LinesOptions) ([]string, error) {
	const method = "Merge3.MergeLines"
	if opts.BaseMarker != "" && opts.Reprocess {
		return nil, errorf(method, "%w", ErrReprocessWithBase)
	}
	nl := newline(m.a)
	start := marker(opts.StartMarker, DefaultStartMarker, opts.NameA) + nl
	mid := marker(opts.MidMarker, DefaultMidMarker, "") + nl
	end := marker(opts.EndMarker, DefaultEndMarker, opts.NameB) + nl
	var base string
	if opts.BaseMarker != "" {
		base = marker(opts.BaseMarker, "", opts.NameBase) + nl
	}

	regions, err := m.Regions()
	if err != nil {
		return nil, err
	}
	if opts.Reprocess {
		if regions, err = m.reprocessRegions(regions); err != nil {
			return nil, err
		}
	}

	var lines []string
	for _, r := range regions {
		switch r.Kind {
		case Unchanged:
			lines = append(lines, m.base[r.BaseStart:r.BaseEnd]...)
		case Same, TakeA:
			lines = append(lines, m.a[r.AStart:r.AEnd]...)
		case TakeB:
			lines = append(lines, m.b[r.BStart:r.BEnd]...)
		case Conflict:
			lines = append(lines, start)
			lines = append(lines, m.a[r.AStart:r.AEnd]...)
			if base != "" {
				lines = append(lines, base)
				if r.BaseStart != NoBase {
					lines = append(lines, m.base[r.BaseStart:r.BaseEnd]...)
				}
			}
			lines = append(lines, mid)
			lines = append(lines, m.b[r.BStart:r.BEnd]...)
			lines = append(lines, end)
		default:
			return nil, errorf(method, "unexpected region %v", r)
		}
	}
	return lines, nil
}

// MergeAnnotated returns the merged lines, each prefixed by its origin:
// "u | " unchanged, "s | " same on both sides, "a | " from A, "b | " from B.
// Conflicts are enclosed in "<<<<", "----" and ">>>>" lines, their lines
// prefixed by "A | " and "B | ".
func (m *Merge3) MergeAnnotated() ([]string, error) {
	regions, err := m.Regions()
	if err != nil {
		return nil, err
	}
	var lines []string
	prefixed := func(prefix string, src []string) {
		for _, line := range src {
			lines = append(lines, prefix+line)
		}
	}
	for _, r := range regions {
		switch r.Kind {
		case Unchanged:
			prefixed("u | ", m.base[r.BaseStart:r.BaseEnd])
		case Same:
			prefixed("s | ", m.a[r.AStart:r.AEnd])
		case TakeA:
			prefixed("a | ", m.a[r.AStart:r.AEnd])
		case TakeB:
			prefixed("b | ", m.b[r.BStart:r.BEnd])
		case Conflict:
			lines = append(lines, "<<<<\n")
			prefixed("A | ", m.a[r.AStart:r.AEnd])
			lines = append(lines, "----\n")
			prefixed("B | ", m.b[r.BStart:r.BEnd])
			lines = append(lines, ">>>>\n")
		}
	}
	return lines, nil
}

// Group is a run of merged lines sharing a Kind. Conflict groups fill
// Base, A and B; the others fill Lines.
type Group struct {
	Kind  Kind
	Lines []string
	Base  []string
	A     []string
	B     []string
}

// MergeGroups returns the merge as groups of lines, for callers that
// render conflicts themselves.
func (m *Merge3) MergeGroups() ([]Group, error) {
	regions, err := m.Regions()
	if err != nil {
		return nil, err
	}
	groups := make([]Group, 0, len(regions))
	for _, r := range regions {
		g := Group{Kind: r.Kind}
		switch r.Kind {
		case Unchanged:
			g.Lines = m.base[r.BaseStart:r.BaseEnd]
		case Same, TakeA:
			g.Lines = m.a[r.AStart:r.AEnd]
		case TakeB:
			g.Lines = m.b[r.BStart:r.BEnd]
		case Conflict:
			g.Base = m.base[r.BaseStart:r.BaseEnd]
			g.A = m.a[r.AStart:r.AEnd]
			g.B = m.b[r.BStart:r.BEnd]
		}
		groups = append(groups, g)
	}
	return groups, nil
}
