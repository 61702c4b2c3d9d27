// Package column implements columnar row storage: a set of equal-length
// named value sequences plus the primary key sequence. It is generic over
// the cell type so it carries no dependency on the public value model
package column

import (
	"errors"
	"fmt"
)

// Store holds one sequence per named column and the parallel primary key
// sequence. Every sequence has the same length at every public return
type Store[Value any] struct {
	indexes map[string]int
	names   []string
	cols    [][]Value
	pks     []int64
}

// ErrDuplicateName is raised when a column name is repeated
var ErrDuplicateName = errors.New("column name duplicated")

// Make instantiates a Store with the given column names, all empty
func Make[Value any](names []string) (*Store[Value], error) {
	indexes := map[string]int{}
	for i, n := range names {
		if _, ok := indexes[n]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, n)
		}
		indexes[n] = i
	}
	return &Store[Value]{
		names:   names,
		indexes: indexes,
		cols:    make([][]Value, len(names)),
	}, nil
}

// Names returns the column names in storage order
func (s *Store[_]) Names() []string {
	return s.names[:]
}

// Has returns whether the named column exists
func (s *Store[_]) Has(name string) bool {
	_, ok := s.indexes[name]
	return ok
}

// Len returns the number of rows
func (s *Store[_]) Len() int {
	return len(s.pks)
}

// PKAt returns the primary key of the row at index i
func (s *Store[_]) PKAt(i int) int64 {
	return s.pks[i]
}

// RowAt returns the primary key and cell values, in Names order, of the
// row at index i
func (s *Store[Value]) RowAt(i int) (int64, []Value) {
	res := make([]Value, len(s.cols))
	for c, col := range s.cols {
		res[c] = col[i]
	}
	return s.pks[i], res
}

// IndexByPK returns the index of the row with the given primary key. This
// is a linear scan; primary keys are identities, not an index
func (s *Store[_]) IndexByPK(pk int64) (int, bool) {
	for i, p := range s.pks {
		if p == pk {
			return i, true
		}
	}
	return -1, false
}

// Append adds a row. vals must be in Names order and cover every column
func (s *Store[Value]) Append(pk int64, vals []Value) {
	for c := range s.cols {
		s.cols[c] = append(s.cols[c], vals[c])
	}
	s.pks = append(s.pks, pk)
}

// RemoveAt removes the row at index i from every column
func (s *Store[Value]) RemoveAt(i int) {
	for c, col := range s.cols {
		s.cols[c] = append(col[:i], col[i+1:]...)
	}
	s.pks = append(s.pks[:i], s.pks[i+1:]...)
}

// SetAt writes one cell of the row at index i, returning whether the
// named column exists
func (s *Store[Value]) SetAt(i int, name string, v Value) bool {
	c, ok := s.indexes[name]
	if !ok {
		return false
	}
	s.cols[c][i] = v
	return true
}

// Clear resets every column, and the primary key sequence, to empty
func (s *Store[Value]) Clear() {
	for c := range s.cols {
		s.cols[c] = nil
	}
	s.pks = nil
}
