package merge3

import "sort"

// MergeLists merges sets of names: a is ours, b theirs and base their
// common ancestor. It returns, sorted and without duplicates, the names
// added by b only, the names b deleted that a still has, and the names
// that both a and b hold and may need a content merge.
//
// A name present in base and b but missing from a was deleted by a only.
// It is still reported as maybe modified, so callers can detect a
// modify/delete conflict by its absence from a.
func MergeLists(a, b, base []string) (added, deleted, maybeModified []string) {
	inA, inB, inBase := set(a), set(b), set(base)

	for name := range inBase {
		if _, ok := inB[name]; !ok {
			if _, ok := inA[name]; ok {
				deleted = append(deleted, name)
			}
		}
	}
	for name := range inB {
		_, fromBase := inBase[name]
		_, fromA := inA[name]
		if fromBase || fromA {
			maybeModified = append(maybeModified, name)
		} else {
			added = append(added, name)
		}
	}
	sort.Strings(added)
	sort.Strings(deleted)
	sort.Strings(maybeModified)
	return added, deleted, maybeModified
}

func set(names []string) map[string]struct{} {
	s := make(map[string]struct{}, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}
