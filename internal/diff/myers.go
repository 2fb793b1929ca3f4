package diff

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Myers implements Matcher with the diff-match-patch implementation of
// Myers' algorithm. Each distinct line is mapped to a rune and the rune
// sequences are diffed without a deadline, so results are deterministic.
type Myers struct{}

var _ Matcher = Myers{}

// MatchingBlocks implements Matcher.
func (Myers) MatchingBlocks(a, b []string) ([]Match, error) {
	ra, rb, err := linesToRunes(a, b)
	if err != nil {
		return nil, err
	}
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	var blocks []Match
	i, j := 0, 0
	for _, d := range dmp.DiffMainRunes(ra, rb, false) {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			blocks = appendMatch(blocks, i, j, n)
			i += n
			j += n
		case diffmatchpatch.DiffDelete:
			i += n
		case diffmatchpatch.DiffInsert:
			j += n
		}
	}
	return append(blocks, Match{A: len(a), B: len(b)}), nil
}

func linesToRunes(a, b []string) ([]rune, []rune, error) {
	ids := make(map[string]rune)
	next := rune(1)
	convert := func(lines []string) ([]rune, error) {
		rr := make([]rune, len(lines))
		for i, line := range lines {
			r, ok := ids[line]
			if !ok {
				if next > utf8.MaxRune {
					return nil, errorf("Myers.MatchingBlocks", "more than %d distinct lines", len(ids))
				}
				r = next
				ids[line] = r
				next++
				// Surrogate halves do not survive the round trip through string.
				if next == 0xD800 {
					next = 0xE000
				}
			}
			rr[i] = r
		}
		return rr, nil
	}
	ra, err := convert(a)
	if err != nil {
		return nil, nil, err
	}
	rb, err := convert(b)
	if err != nil {
		return nil, nil, err
	}
	return ra, rb, nil
}
