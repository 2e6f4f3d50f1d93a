// Package rematch pairs the deleted lines of a change block with its inserted lines.
//
// A unified diff lists a replaced region as a run of deletions followed by a run of insertions, with no indication of which old line became which new line. Pairing
// them by position produces misleading intra-line highlights when the counts differ or a line was dropped. Matcher instead picks the most similar (old, new) pair,
// splits both runs around it, and recurses on the two remaining sub-blocks. The result is an order-preserving (no crossing pairs), injective partition of both runs.
package rematch

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DistanceFunc returns the distance between a and b, normalized to [0, 1]: 0 means identical, 1 means maximally dissimilar.
type DistanceFunc[T any] func(a, b T) float64

// Levenshtein returns the edit distance between a and b, in runes.
func Levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	dmp := diffmatchpatch.New()
	return dmp.DiffLevenshtein(dmp.DiffMain(a, b, false))
}

// Distance returns the Levenshtein distance of the whitespace-trimmed a and b divided by their combined length. Two entirely different strings of the same length
// score 0.5; a string compared against "" scores 1.
func Distance(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 0
	}
	return float64(Levenshtein(a, b)) / float64(total)
}

// NewDistanceFunc returns a DistanceFunc that compares the strings str extracts from its arguments with Distance.
func NewDistanceFunc[T any](str func(T) string) DistanceFunc[T] {
	return func(a, b T) float64 {
		return Distance(str(a), str(b))
	}
}

// Pair is one sub-partition produced by Matcher. Either side may be empty (but not both).
type Pair[T any] struct {
	Old []T
	New []T
}

// DefaultNoMatchThreshold is the distance above which two lines are considered unrelated. With Distance, two same-length lines that share no characters score exactly
// 0.5, so they still pair up; lines that also differ in length score higher and don't.
const DefaultNoMatchThreshold = 0.5

// Matcher pairs old items with new items. A Matcher holds no per-call state and may be reused.
type Matcher[T any] struct {
	distance  DistanceFunc[T]
	threshold float64
}

// NewMatcher returns a Matcher using distance. If the best available pairing of a sub-block scores strictly above noMatchThreshold, the sub-block's old and new
// items are reported as unrelated.
func NewMatcher[T any](distance DistanceFunc[T], noMatchThreshold float64) *Matcher[T] {
	return &Matcher[T]{distance: distance, threshold: noMatchThreshold}
}

// Match partitions oldItems and newItems into Pairs. Concatenating every Pair.Old reproduces oldItems in order (likewise for New). Pairs are ordered by their old
// side, or their new side when the old side is empty.
//
// Single-item pairs are the matches; pairs with one empty side are unmatched leftovers (pure deletions or insertions); a sub-block of fewer than three items whose
// items are similar enough is returned as one positional pair.
func (m *Matcher[T]) Match(oldItems, newItems []T) []Pair[T] {
	s := &search[T]{
		m:     m,
		old:   oldItems,
		new:   newItems,
		cache: make(map[[2]int]float64),
	}
	return s.group(0, len(oldItems), 0, len(newItems))
}

type search[T any] struct {
	m     *Matcher[T]
	old   []T
	new   []T
	cache map[[2]int]float64 // (old index, new index) -> distance
}

func (s *search[T]) dist(i, j int) float64 {
	key := [2]int{i, j}
	if d, ok := s.cache[key]; ok {
		return d
	}
	d := s.m.distance(s.old[i], s.new[j])
	s.cache[key] = d
	return d
}

// best returns the indices of the closest (old, new) pair within old[oLo:oHi] x new[nLo:nHi]. Ties go to the first pair in row-major order.
func (s *search[T]) best(oLo, oHi, nLo, nHi int) (int, int, float64) {
	bi, bj := -1, -1
	bestScore := 0.0
	for i := oLo; i < oHi; i++ {
		for j := nLo; j < nHi; j++ {
			d := s.dist(i, j)
			if bi < 0 || d < bestScore {
				bi, bj, bestScore = i, j, d
			}
		}
	}
	return bi, bj, bestScore
}

func (s *search[T]) group(oLo, oHi, nLo, nHi int) []Pair[T] {
	oldLen := oHi - oLo
	newLen := nHi - nLo
	if oldLen == 0 && newLen == 0 {
		return nil
	}
	if oldLen == 0 || newLen == 0 {
		return []Pair[T]{{Old: sub(s.old, oLo, oHi), New: sub(s.new, nLo, nHi)}}
	}

	bi, bj, score := s.best(oLo, oHi, nLo, nHi)
	if score > s.m.threshold {
		return []Pair[T]{
			{Old: sub(s.old, oLo, oHi)},
			{New: sub(s.new, nLo, nHi)},
		}
	}
	if oldLen+newLen < 3 {
		return []Pair[T]{{Old: sub(s.old, oLo, oHi), New: sub(s.new, nLo, nHi)}}
	}

	var pairs []Pair[T]
	pairs = append(pairs, s.group(oLo, bi, nLo, bj)...)
	pairs = append(pairs, Pair[T]{Old: sub(s.old, bi, bi+1), New: sub(s.new, bj, bj+1)})
	pairs = append(pairs, s.group(bi+1, oHi, bj+1, nHi)...)
	return pairs
}

// sub returns items[lo:hi] with its capacity clipped, or nil if empty.
func sub[T any](items []T, lo, hi int) []T {
	if lo == hi {
		return nil
	}
	return items[lo:hi:hi]
}
