package rows

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// DuplicateSet holds the indices of every row that has at least one exact copy
// elsewhere in the same input, first occurrences included.
type DuplicateSet map[int]struct{}

func (s DuplicateSet) Has(i int) bool {
	_, ok := s[i]
	return ok
}

func (s DuplicateSet) Len() int {
	return len(s)
}

// Sorted returns the indices in ascending order.
func (s DuplicateSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

func (s DuplicateSet) add(i int) {
	s[i] = struct{}{}
}

// Detect returns the indices of all rows that are structurally equal to some
// other row. Rows of different lengths never match. The input is not modified.
func Detect(rs []Row) DuplicateSet {
	set := DuplicateSet{}
	seen := newFirstSeen(len(rs))
	for i, r := range rs {
		if first := seen.firstOf(i, r); first >= 0 {
			set.add(first)
			set.add(i)
		}
	}
	return set
}

// Groups returns every equality class with two or more members, ordered by the
// index of its first member. Indices inside a class are ascending.
func Groups(rs []Row) [][]int {
	seen := newFirstSeen(len(rs))
	byFirst := map[int][]int{}
	var order []int
	for i, r := range rs {
		first := seen.firstOf(i, r)
		if first < 0 {
			continue
		}
		if _, ok := byFirst[first]; !ok {
			order = append(order, first)
			byFirst[first] = []int{first}
		}
		byFirst[first] = append(byFirst[first], i)
	}

	groups := make([][]int, 0, len(order))
	for _, first := range order {
		groups = append(groups, byFirst[first])
	}
	return groups
}

// Unique returns the rows whose index is not in the set.
func Unique(rs []Row, set DuplicateSet) []Row {
	out := make([]Row, 0, len(rs)-min(set.Len(), len(rs)))
	for i, r := range rs {
		if !set.Has(i) {
			out = append(out, r)
		}
	}
	return out
}

// FirstOccurrences drops every repeat and keeps the first row of each class.
func FirstOccurrences(rs []Row) []Row {
	seen := newFirstSeen(len(rs))
	out := make([]Row, 0, len(rs))
	for i, r := range rs {
		if seen.firstOf(i, r) < 0 {
			out = append(out, r)
		}
	}
	return out
}

type seenRow struct {
	first int
	cells []canonical
}

// firstSeen maps a row hash to the rows first recorded under it. Bucket members
// are confirmed cell by cell, so a hash collision never reports a match.
type firstSeen struct {
	buckets map[uint64][]seenRow
}

func newFirstSeen(hint int) *firstSeen {
	return &firstSeen{buckets: make(map[uint64][]seenRow, hint)}
}

// firstOf returns the index of the first earlier row equal to r, or records r
// under index i and returns -1.
func (this *firstSeen) firstOf(i int, r Row) int {
	cells := canonicalizeRow(r)
	h := hashCanonical(cells)
	for _, s := range this.buckets[h] {
		if equalCanonical(s.cells, cells) {
			return s.first
		}
	}
	this.buckets[h] = append(this.buckets[h], seenRow{first: i, cells: cells})
	return -1
}

func hashCanonical(cells []canonical) uint64 {
	d := xxhash.New()
	var buf [9]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(len(cells)))
	_, _ = d.Write(buf[:8])
	for _, c := range cells {
		buf[0] = byte(c.kind)
		binary.LittleEndian.PutUint64(buf[1:], uint64(len(c.text)))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(c.text)
	}
	return d.Sum64()
}
