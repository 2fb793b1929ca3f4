package diff

// Tag names the kind of an OpCode.
type Tag byte

const (
	Equal   Tag = 'e'
	Replace Tag = 'r'
	Delete  Tag = 'd'
	Insert  Tag = 'i'
)

func (t Tag) String() string {
	switch t {
	case Equal:
		return "equal"
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// OpCode describes how to turn a[I1:I2] into b[J1:J2].
type OpCode struct {
	Tag Tag
	I1  int
	I2  int
	J1  int
	J2  int
}

// OpCodes converts matching blocks into the edits that transform a into b.
func OpCodes(blocks []Match) []OpCode {
	var codes []OpCode
	i, j := 0, 0
	for _, m := range blocks {
		var tag Tag
		switch {
		case i < m.A && j < m.B:
			tag = Replace
		case i < m.A:
			tag = Delete
		case j < m.B:
			tag = Insert
		}
		if tag != 0 {
			codes = append(codes, OpCode{tag, i, m.A, j, m.B})
		}
		i, j = m.A+m.Size, m.B+m.Size
		if m.Size > 0 {
			codes = append(codes, OpCode{Equal, m.A, i, m.B, j})
		}
	}
	return codes
}

// GroupedOpCodes isolates the changes of blocks into groups with up to n
// lines of context each. Equal runs longer than 2n split groups. Identical
// sequences yield no groups.
func GroupedOpCodes(blocks []Match, n int) [][]OpCode {
	if n < 0 {
		n = 0
	}
	codes := OpCodes(blocks)
	if len(codes) == 0 {
		codes = []OpCode{{Equal, 0, 1, 0, 1}}
	}
	// Trim the context at both ends.
	if c := &codes[0]; c.Tag == Equal {
		c.I1, c.J1 = max(c.I1, c.I2-n), max(c.J1, c.J2-n)
	}
	if c := &codes[len(codes)-1]; c.Tag == Equal {
		c.I2, c.J2 = min(c.I2, c.I1+n), min(c.J2, c.J1+n)
	}
	var groups [][]OpCode
	var group []OpCode
	for _, c := range codes {
		if c.Tag == Equal && c.I2-c.I1 > 2*n {
			group = append(group, OpCode{Equal, c.I1, min(c.I2, c.I1+n), c.J1, min(c.J2, c.J1+n)})
			groups = append(groups, group)
			group = nil
			c.I1, c.J1 = max(c.I1, c.I2-n), max(c.J1, c.J2-n)
		}
		group = append(group, c)
	}
	if len(group) > 0 && !(len(group) == 1 && group[0].Tag == Equal) {
		groups = append(groups, group)
	}
	return groups
}
