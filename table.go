package stash

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kode4food/stash/internal/column"
)

// Table is a named columnar collection of rows with auto-assigned primary
// keys, lifecycle triggers, and subscriber notification. Tables are
// created through a Store and share its writer lock
type Table struct {
	store  *Store
	cols   *column.Store[Value]
	subs   *subscriptions
	name   string
	order  []ColumnName
	hooks  tableHooks
	nextPK int64
}

func makeTable(s *Store, name string, order []ColumnName) (*Table, error) {
	if len(order) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, name)
	}
	names := make([]string, len(order))
	seen := make(map[ColumnName]bool, len(order))
	for i, n := range order {
		if n == PKColumn {
			return nil, fmt.Errorf("%w: %s", ErrReservedColumn, n)
		}
		if seen[n] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, n)
		}
		seen[n] = true
		names[i] = string(n)
	}
	cols, err := column.Make[Value](names)
	if err != nil {
		return nil, err
	}
	return &Table{
		store: s,
		name:  name,
		order: order,
		cols:  cols,
		subs:  makeSubscriptions(),
	}, nil
}

// Name returns the name this Table is registered under
func (t *Table) Name() string {
	return t.name
}

// ColumnNames returns the user-visible column names, sorted. The PKColumn
// system column is not included
func (t *Table) ColumnNames() []ColumnName {
	res := make([]ColumnName, len(t.order))
	copy(res, t.order)
	sort.Slice(res, func(i, j int) bool {
		return res[i] < res[j]
	})
	return res
}

// InsertOne commits a single row, assigning it the next primary key. The
// row must carry exactly the table's column set. A false result means a
// before-insert hook declined the row; errors are schema violations
func (t *Table) InsertOne(row Row) (Row, bool, error) {
	var res Row
	var ok bool
	var err error
	t.store.run(func() {
		res, ok, err = t.insertRow(row, true)
	})
	return res, ok, err
}

// InsertMany commits a batch of rows, validating every row before any is
// committed. Rows declined by a before-insert hook are skipped, not
// errors. With batchNotify, table subscribers hear once for the whole
// batch; otherwise once per committed row
func (t *Table) InsertMany(rows []Row, batchNotify bool) ([]Row, error) {
	var res []Row
	var err error
	t.store.run(func() {
		res, err = t.insertMany(rows, batchNotify)
	})
	return res, err
}

// Find returns the rows selected by the Where, in insertion order
func (t *Table) Find(w Where) []Row {
	var res []Row
	t.store.run(func() {
		res = t.find(w)
	})
	return res
}

// FindOne returns the first row selected by the Where
func (t *Table) FindOne(w Where) (Row, bool) {
	var res Row
	t.store.run(func() {
		pred, ok := t.compile(w)
		if !ok {
			return
		}
		for i := 0; i < t.cols.Len(); i++ {
			if r := t.materialize(i); pred(r) {
				res = r
				return
			}
		}
	})
	return res, res != nil
}

// FindByPK returns the row with the given primary key
func (t *Table) FindByPK(pk int64) (Row, bool) {
	var res Row
	t.store.run(func() {
		if i, ok := t.cols.IndexByPK(pk); ok {
			res = t.materialize(i)
		}
	})
	return res, res != nil
}

// Count returns the number of rows selected by the Where
func (t *Table) Count(w Where) int {
	var res int
	t.store.run(func() {
		res = len(t.find(w))
	})
	return res
}

// UpdateByPK merges patch over the row with the given primary key. The
// primary key itself is immutable; a PKColumn entry in the patch is
// ignored. A false result means the row was absent or a before-update
// hook declined the change
func (t *Table) UpdateByPK(pk int64, patch Row) (Row, bool, error) {
	var res Row
	var ok bool
	var err error
	t.store.run(func() {
		res, ok, err = t.updateByPK(pk, patch, true)
	})
	return res, ok, err
}

// UpdateMany merges patch over every row selected by the Where, returning
// the number of rows committed
func (t *Table) UpdateMany(w Where, patch Row, batchNotify bool) (int, error) {
	var res int
	var err error
	t.store.run(func() {
		res, err = t.updateMany(w, patch, batchNotify)
	})
	return res, err
}

// DeleteByPK removes the row with the given primary key
func (t *Table) DeleteByPK(pk int64) bool {
	var res bool
	t.store.run(func() {
		res = t.deleteByPK(pk)
	})
	return res
}

// DeleteOne removes the first row selected by the Where
func (t *Table) DeleteOne(w Where) bool {
	var res bool
	t.store.run(func() {
		res = t.deleteOne(w)
	})
	return res
}

// DeleteMany removes every row selected by the Where, returning the
// number removed. All deletes everything
func (t *Table) DeleteMany(w Where, batchNotify bool) int {
	var res int
	t.store.run(func() {
		res = t.deleteMany(w, batchNotify)
	})
	return res
}

// Clear removes every row without running delete hooks. With resetPK the
// primary key counter restarts from zero; without it, later inserts
// continue the old sequence. The Table itself survives
func (t *Table) Clear(resetPK bool) {
	t.store.run(func() {
		t.clear(resetPK)
	})
}

// BeforeInsert installs the before-insert hook, replacing any prior one
func (t *Table) BeforeInsert(h BeforeInsertHook) {
	t.store.run(func() { t.hooks.beforeInsert = h })
}

// AfterInsert installs the after-insert hook, replacing any prior one
func (t *Table) AfterInsert(h AfterInsertHook) {
	t.store.run(func() { t.hooks.afterInsert = h })
}

// BeforeUpdate installs the before-update hook, replacing any prior one
func (t *Table) BeforeUpdate(h BeforeUpdateHook) {
	t.store.run(func() { t.hooks.beforeUpdate = h })
}

// AfterUpdate installs the after-update hook, replacing any prior one
func (t *Table) AfterUpdate(h AfterUpdateHook) {
	t.store.run(func() { t.hooks.afterUpdate = h })
}

// BeforeDelete installs the before-delete hook, replacing any prior one
func (t *Table) BeforeDelete(h BeforeDeleteHook) {
	t.store.run(func() { t.hooks.beforeDelete = h })
}

// AfterDelete installs the after-delete hook, replacing any prior one
func (t *Table) AfterDelete(h AfterDeleteHook) {
	t.store.run(func() { t.hooks.afterDelete = h })
}

// Subscribe registers a table-level subscriber. On every committed
// mutation of an interesting kind the subscriber receives the rows
// visible through its Where, but only when that slice actually changed.
// No kinds means all kinds
func (t *Table) Subscribe(
	w Where, cb TableCallback, kinds ...NotifyKind,
) uuid.UUID {
	var id uuid.UUID
	t.store.run(func() {
		id = t.subs.addTable(&tableSub{
			where: w,
			cb:    cb,
			kinds: makeKindSet(kinds),
			last:  t.find(w),
		})
	})
	return id
}

// Unsubscribe removes a table-level subscription. Unsubscribing twice is
// a no-op
func (t *Table) Unsubscribe(id uuid.UUID) {
	t.store.run(func() {
		t.subs.removeTable(id)
	})
}

// SubscribeRow registers a subscriber on a single primary key. It fires
// on updates with the committed row and on delete with (nil, false),
// after which it goes inert. No kinds means both
func (t *Table) SubscribeRow(
	pk int64, cb RowCallback, kinds ...NotifyKind,
) uuid.UUID {
	var id uuid.UUID
	t.store.run(func() {
		id = t.subs.addRow(pk, &rowSub{
			cb:    cb,
			kinds: makeRowKindSet(kinds),
		})
	})
	return id
}

// UnsubscribeRow removes a row-level subscription. Unsubscribing twice is
// a no-op
func (t *Table) UnsubscribeRow(pk int64, id uuid.UUID) {
	t.store.run(func() {
		t.subs.removeRow(pk, id)
	})
}

// The methods below run under the Store writer lock, either from the
// public surface or re-entrantly through a TriggerAPI

func (t *Table) api() TriggerAPI {
	return TriggerAPI{store: t.store}
}

func (t *Table) materialize(i int) Row {
	pk, vals := t.cols.RowAt(i)
	res := make(Row, len(t.order)+1)
	res[PKColumn] = Int(pk)
	for c, name := range t.order {
		res[name] = vals[c]
	}
	return res
}

func (t *Table) columnValues(r Row) []Value {
	res := make([]Value, len(t.order))
	for c, name := range t.order {
		res[c] = r[name]
	}
	return res
}

// validateRow requires exactly the table's user column set, ignoring the
// PKColumn system column
func (t *Table) validateRow(r Row) error {
	for _, name := range t.order {
		if _, ok := r[name]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	for name := range r {
		if name != PKColumn && !t.cols.Has(string(name)) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
	}
	return nil
}

// validatePatch allows any subset of the user columns, plus the ignored
// PKColumn
func (t *Table) validatePatch(patch Row) error {
	for name := range patch {
		if name != PKColumn && !t.cols.Has(string(name)) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
	}
	return nil
}

// compile resolves a Where into a Predicate. The second result is false
// when the specification can never select a row, which covers the empty
// and unknown-column equality maps
func (t *Table) compile(w Where) (Predicate, bool) {
	switch w.kind {
	case whereAll:
		return func(Row) bool { return true }, true
	case whereMatch:
		return w.pred, true
	case whereEq:
		if len(w.eq) == 0 {
			return nil, false
		}
		for name := range w.eq {
			if name != PKColumn && !t.cols.Has(string(name)) {
				return nil, false
			}
		}
		return func(r Row) bool {
			for name, v := range w.eq {
				if cur, ok := r[name]; !ok || !cur.Equal(v) {
					return false
				}
			}
			return true
		}, true
	}
	return nil, false
}

func (t *Table) find(w Where) []Row {
	pred, ok := t.compile(w)
	if !ok {
		return nil
	}
	var res []Row
	for i := 0; i < t.cols.Len(); i++ {
		if r := t.materialize(i); pred(r) {
			res = append(res, r)
		}
	}
	return res
}

func (t *Table) insertRow(row Row, tableNotify bool) (Row, bool, error) {
	if err := t.validateRow(row); err != nil {
		return nil, false, err
	}
	pk := t.nextPK + 1
	candidate := row.Clone()
	candidate[PKColumn] = Int(pk)
	if h := t.hooks.beforeInsert; h != nil {
		switch res := h(t.api(), candidate); res.kind {
		case hookAbort:
			logTrigger(t.store.log, t.name, NotifyInsert)
			return nil, false, nil
		case hookReplace:
			repl := res.row.Clone()
			if err := t.validateRow(repl); err != nil {
				return nil, false, err
			}
			repl[PKColumn] = Int(pk)
			candidate = repl
		}
	}
	// the hook may have inserted rows of its own; take a fresh key
	pk = t.nextPK + 1
	candidate[PKColumn] = Int(pk)
	t.nextPK = pk
	t.cols.Append(pk, t.columnValues(candidate))
	logMutation(t.store.log, EventTableInsert, t.name, pk)
	if h := t.hooks.afterInsert; h != nil {
		h(t.api(), candidate.Clone())
	}
	if tableNotify {
		t.notifyTable(NotifyInsert)
	}
	return candidate, true, nil
}

func (t *Table) insertMany(rows []Row, batchNotify bool) ([]Row, error) {
	for _, r := range rows {
		if err := t.validateRow(r); err != nil {
			return nil, err
		}
	}
	res := make([]Row, 0, len(rows))
	for _, r := range rows {
		committed, ok, err := t.insertRow(r, !batchNotify)
		if err != nil {
			// a hook replaced a row with an invalid one mid-batch; rows
			// already committed stay committed
			return res, err
		}
		if ok {
			res = append(res, committed)
		}
	}
	if batchNotify {
		t.notifyTable(NotifyInsert)
	}
	return res, nil
}

func (t *Table) updateByPK(
	pk int64, patch Row, tableNotify bool,
) (Row, bool, error) {
	if err := t.validatePatch(patch); err != nil {
		return nil, false, err
	}
	i, ok := t.cols.IndexByPK(pk)
	if !ok {
		return nil, false, nil
	}
	return t.updateAt(i, patch, tableNotify)
}

func (t *Table) updateAt(
	i int, patch Row, tableNotify bool,
) (Row, bool, error) {
	current := t.materialize(i)
	merged := current.Clone()
	for name, v := range patch {
		if name != PKColumn {
			merged[name] = v
		}
	}
	if h := t.hooks.beforeUpdate; h != nil {
		switch res := h(t.api(), current.Clone(), merged); res.kind {
		case hookAbort:
			logTrigger(t.store.log, t.name, NotifyUpdate)
			return nil, false, nil
		case hookReplace:
			repl := res.row.Clone()
			if err := t.validateRow(repl); err != nil {
				return nil, false, err
			}
			repl[PKColumn] = current[PKColumn]
			merged = repl
		}
	}
	// the hook may have moved or already removed the row
	pk := current.PK()
	i, ok := t.cols.IndexByPK(pk)
	if !ok {
		return nil, false, nil
	}
	live := t.materialize(i)
	for _, name := range t.order {
		if next := merged[name]; !live[name].Equal(next) {
			t.cols.SetAt(i, string(name), next)
		}
	}
	logMutation(t.store.log, EventTableUpdate, t.name, pk)
	if h := t.hooks.afterUpdate; h != nil {
		h(t.api(), current, merged.Clone())
	}
	if tableNotify {
		t.notifyTable(NotifyUpdate)
	}
	t.notifyRow(pk, NotifyUpdate, merged, true)
	return merged, true, nil
}

func (t *Table) updateMany(
	w Where, patch Row, batchNotify bool,
) (int, error) {
	if err := t.validatePatch(patch); err != nil {
		return 0, err
	}
	res := 0
	for _, pk := range t.matchingPKs(w) {
		// hooks on earlier rows may have moved or removed later ones
		i, ok := t.cols.IndexByPK(pk)
		if !ok {
			continue
		}
		_, ok, err := t.updateAt(i, patch, !batchNotify)
		if err != nil {
			return res, err
		}
		if ok {
			res++
		}
	}
	if batchNotify && res > 0 {
		t.notifyTable(NotifyUpdate)
	}
	return res, nil
}

func (t *Table) deleteByPK(pk int64) bool {
	if i, ok := t.cols.IndexByPK(pk); ok {
		return t.deleteAt(i, true)
	}
	return false
}

func (t *Table) deleteOne(w Where) bool {
	pred, ok := t.compile(w)
	if !ok {
		return false
	}
	for i := 0; i < t.cols.Len(); i++ {
		if pred(t.materialize(i)) {
			return t.deleteAt(i, true)
		}
	}
	return false
}

func (t *Table) deleteMany(w Where, batchNotify bool) int {
	res := 0
	for _, pk := range t.matchingPKs(w) {
		i, ok := t.cols.IndexByPK(pk)
		if !ok {
			continue
		}
		if t.deleteAt(i, !batchNotify) {
			res++
		}
	}
	if batchNotify && res > 0 {
		t.notifyTable(NotifyDelete)
	}
	return res
}

func (t *Table) deleteAt(i int, tableNotify bool) bool {
	current := t.materialize(i)
	pk := current.PK()
	if h := t.hooks.beforeDelete; h != nil && !h(t.api(), current.Clone()) {
		logTrigger(t.store.log, t.name, NotifyDelete)
		return false
	}
	// the hook may have moved or already removed the row
	i, ok := t.cols.IndexByPK(pk)
	if !ok {
		return false
	}
	t.cols.RemoveAt(i)
	logMutation(t.store.log, EventTableDelete, t.name, pk)
	if h := t.hooks.afterDelete; h != nil {
		h(t.api(), current)
	}
	if tableNotify {
		t.notifyTable(NotifyDelete)
	}
	t.notifyRow(pk, NotifyDelete, nil, false)
	return true
}

func (t *Table) clear(resetPK bool) {
	pks := make([]int64, 0, t.cols.Len())
	for i := 0; i < t.cols.Len(); i++ {
		pks = append(pks, t.cols.PKAt(i))
	}
	t.cols.Clear()
	if resetPK {
		t.nextPK = 0
	}
	logMutation(t.store.log, EventTableClear, t.name, t.nextPK)
	t.notifyTable(NotifyDelete)
	for _, pk := range pks {
		t.notifyRow(pk, NotifyDelete, nil, false)
	}
}

func (t *Table) matchingPKs(w Where) []int64 {
	pred, ok := t.compile(w)
	if !ok {
		return nil
	}
	var res []int64
	for i := 0; i < t.cols.Len(); i++ {
		if pred(t.materialize(i)) {
			res = append(res, t.cols.PKAt(i))
		}
	}
	return res
}

func (t *Table) notifyTable(kind NotifyKind) {
	for _, sub := range t.subs.table {
		if !sub.kinds.has(kind) {
			continue
		}
		snap := t.find(sub.where)
		if rowsEqual(snap, sub.last) {
			continue
		}
		sub.last = snap
		cb := sub.cb
		t.store.enqueue(func() {
			cb(snap)
		})
	}
}

func (t *Table) notifyRow(pk int64, kind NotifyKind, row Row, ok bool) {
	for _, sub := range t.subs.rows[pk] {
		if !sub.kinds.has(kind) {
			continue
		}
		cb := sub.cb
		var r Row
		if row != nil {
			r = row.Clone()
		}
		t.store.enqueue(func() {
			cb(r, ok)
		})
	}
}
