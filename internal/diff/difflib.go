package diff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Difflib implements Matcher with the Ratcliff/Obershelp algorithm of
// Python's difflib.SequenceMatcher, junk heuristic included.
type Difflib struct{}

var _ Matcher = Difflib{}

// MatchingBlocks implements Matcher.
func (Difflib) MatchingBlocks(a, b []string) ([]Match, error) {
	var blocks []Match
	for _, m := range difflib.NewMatcher(a, b).GetMatchingBlocks() {
		blocks = append(blocks, Match{A: m.A, B: m.B, Size: m.Size})
	}
	return blocks, nil
}
