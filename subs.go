package stash

import "github.com/google/uuid"

type (
	// NotifyKind is the category of committed mutation a subscriber
	// declares interest in
	NotifyKind uint8

	// TableCallback receives a freshly materialized snapshot of the rows
	// visible through the subscription's Where
	TableCallback func(rows []Row)

	// RowCallback receives the affected row after an update, or (nil,
	// false) after a delete
	RowCallback func(row Row, ok bool)

	kindSet uint8

	tableSub struct {
		cb    TableCallback
		last  []Row
		where Where
		kinds kindSet
	}

	rowSub struct {
		cb    RowCallback
		kinds kindSet
	}

	// subscriptions holds one table's subscriber registries: table-level
	// subscriptions, and row-level subscriptions keyed by primary key.
	// Row-level entries survive their row; they simply go inert
	subscriptions struct {
		table map[uuid.UUID]*tableSub
		rows  map[int64]map[uuid.UUID]*rowSub
	}
)

// Notification kinds
const (
	NotifyInsert NotifyKind = 1 << iota
	NotifyUpdate
	NotifyDelete
)

const (
	allKinds = kindSet(NotifyInsert | NotifyUpdate | NotifyDelete)
	rowKinds = kindSet(NotifyUpdate | NotifyDelete)
)

func (k NotifyKind) String() string {
	switch k {
	case NotifyInsert:
		return "insert"
	case NotifyUpdate:
		return "update"
	case NotifyDelete:
		return "delete"
	}
	return "unknown"
}

// makeKindSet folds interest kinds into a set. No kinds means all kinds
func makeKindSet(kinds []NotifyKind) kindSet {
	if len(kinds) == 0 {
		return allKinds
	}
	var res kindSet
	for _, k := range kinds {
		res |= kindSet(k)
	}
	return res
}

// makeRowKindSet is makeKindSet restricted to the kinds meaningful at row
// granularity. A row cannot be inserted after it exists, so insert
// interest is discarded
func makeRowKindSet(kinds []NotifyKind) kindSet {
	res := makeKindSet(kinds) & rowKinds
	if res == 0 {
		return rowKinds
	}
	return res
}

func (s kindSet) has(k NotifyKind) bool {
	return s&kindSet(k) != 0
}

func makeSubscriptions() *subscriptions {
	return &subscriptions{
		table: map[uuid.UUID]*tableSub{},
		rows:  map[int64]map[uuid.UUID]*rowSub{},
	}
}

func (s *subscriptions) addTable(sub *tableSub) uuid.UUID {
	id := uuid.New()
	s.table[id] = sub
	return id
}

func (s *subscriptions) removeTable(id uuid.UUID) {
	delete(s.table, id)
}

func (s *subscriptions) addRow(pk int64, sub *rowSub) uuid.UUID {
	id := uuid.New()
	subs, ok := s.rows[pk]
	if !ok {
		subs = map[uuid.UUID]*rowSub{}
		s.rows[pk] = subs
	}
	subs[id] = sub
	return id
}

func (s *subscriptions) removeRow(pk int64, id uuid.UUID) {
	if subs, ok := s.rows[pk]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(s.rows, pk)
		}
	}
}

func rowsEqual(a, b []Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i, r := range a {
		if !r.Equal(b[i]) {
			return false
		}
	}
	return true
}
