package diff

type Node interface {
	// SameAs is an optional shortcut to comparing nodes. This
	// could be implemented, for instance, if the nodes to compare
	// contain digests of their contents. You'd quickly compare the
	// digests before comparing contents. If no shortcuts are
	// possible, one should return false.
	SameAs(Node) (bool, error)

	// Lines returns the content of the node, split into lines.
	Lines() ([]string, error)
}

// Lines is the simplest Node, a sequence of lines held in memory.
type Lines []string

func (l Lines) SameAs(node Node) (bool, error) {
	other, ok := node.(Lines)
	if !ok || len(l) != len(other) {
		return false, nil
	}
	for i := range l {
		if l[i] != other[i] {
			return false, nil
		}
	}
	return true, nil
}

func (l Lines) Lines() ([]string, error) {
	return l, nil
}
