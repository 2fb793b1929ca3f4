package merge3

import "fmt"

// Kind classifies a Region.
type Kind uint8

const (
	// Unchanged regions take BASE[BaseStart:BaseEnd].
	Unchanged Kind = iota
	// Same regions were changed identically by both sides and take
	// A[AStart:AEnd].
	Same
	// TakeA regions were changed by A only and take A[AStart:AEnd].
	TakeA
	// TakeB regions were changed by B only and take B[BStart:BEnd].
	TakeB
	// Conflict regions were changed differently by both sides. All three
	// ranges are set, except that the base range is NoBase after
	// reprocessing.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Unchanged:
		return "unchanged"
	case Same:
		return "same"
	case TakeA:
		return "a"
	case TakeB:
		return "b"
	case Conflict:
		return "conflict"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// NoBase marks the base range of conflicts produced by reprocessing.
const NoBase = -1

// Region is a span of the merge result. Only the ranges relevant to Kind
// are meaningful; the others are zero.
type Region struct {
	Kind      Kind
	BaseStart int
	BaseEnd   int
	AStart    int
	AEnd      int
	BStart    int
	BEnd      int
}

func unchanged(start, end int) Region {
	return Region{Kind: Unchanged, BaseStart: start, BaseEnd: end}
}

func takeA(kind Kind, start, end int) Region {
	return Region{Kind: kind, AStart: start, AEnd: end}
}

func takeB(start, end int) Region {
	return Region{Kind: TakeB, BStart: start, BEnd: end}
}

func conflict(zstart, zend, astart, aend, bstart, bend int) Region {
	return Region{
		Kind:      Conflict,
		BaseStart: zstart,
		BaseEnd:   zend,
		AStart:    astart,
		AEnd:      aend,
		BStart:    bstart,
		BEnd:      bend,
	}
}

func (r Region) String() string {
	switch r.Kind {
	case Unchanged:
		return fmt.Sprintf("unchanged %d:%d", r.BaseStart, r.BaseEnd)
	case Same, TakeA:
		return fmt.Sprintf("%v %d:%d", r.Kind, r.AStart, r.AEnd)
	case TakeB:
		return fmt.Sprintf("b %d:%d", r.BStart, r.BEnd)
	default:
		return fmt.Sprintf("%v base=%d:%d a=%d:%d b=%d:%d", r.Kind, r.BaseStart, r.BaseEnd, r.AStart, r.AEnd, r.BStart, r.BEnd)
	}
}

// SyncRegion is a span where BASE, A and B agree:
// BASE[BaseStart:BaseEnd] == A[AStart:AEnd] == B[BStart:BEnd].
type SyncRegion struct {
	BaseStart int
	BaseEnd   int
	AStart    int
	AEnd      int
	BStart    int
	BEnd      int
}
