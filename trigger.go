package stash

type (
	// TriggerAPI is the capability surface handed to every hook. Its
	// methods operate on the other entities of the same Store without
	// re-acquiring the writer lock the hook already runs under. Holding a
	// TriggerAPI outside a hook body is a mistake: its operations assume
	// the lock is held
	TriggerAPI struct {
		store *Store
	}

	// TriggerTable is the table surface of a TriggerAPI
	TriggerTable struct {
		t *Table
	}

	// TriggerQueue is the queue surface of a TriggerAPI
	TriggerQueue struct {
		q *Queue
	}

	// TriggerSingle is the single surface of a TriggerAPI
	TriggerSingle struct {
		s *Single
	}
)

// Table returns the named Table's trigger surface, if registered
func (a TriggerAPI) Table(name string) (TriggerTable, bool) {
	t, ok := a.store.tables[name]
	return TriggerTable{t: t}, ok
}

// Queue returns the named Queue's trigger surface, if registered
func (a TriggerAPI) Queue(name string) (TriggerQueue, bool) {
	q, ok := a.store.queues[name]
	return TriggerQueue{q: q}, ok
}

// Single returns the named Single's trigger surface, if registered
func (a TriggerAPI) Single(name string) (TriggerSingle, bool) {
	s, ok := a.store.singles[name]
	return TriggerSingle{s: s}, ok
}

// InsertOne is Table.InsertOne inside the current operation
func (x TriggerTable) InsertOne(row Row) (Row, bool, error) {
	return x.t.insertRow(row, true)
}

// InsertMany is Table.InsertMany inside the current operation
func (x TriggerTable) InsertMany(rows []Row, batchNotify bool) ([]Row, error) {
	return x.t.insertMany(rows, batchNotify)
}

// Find is Table.Find inside the current operation
func (x TriggerTable) Find(w Where) []Row {
	return x.t.find(w)
}

// FindOne is Table.FindOne inside the current operation
func (x TriggerTable) FindOne(w Where) (Row, bool) {
	if rows := x.t.find(w); len(rows) > 0 {
		return rows[0], true
	}
	return nil, false
}

// FindByPK is Table.FindByPK inside the current operation
func (x TriggerTable) FindByPK(pk int64) (Row, bool) {
	if i, ok := x.t.cols.IndexByPK(pk); ok {
		return x.t.materialize(i), true
	}
	return nil, false
}

// Count is Table.Count inside the current operation
func (x TriggerTable) Count(w Where) int {
	return len(x.t.find(w))
}

// UpdateByPK is Table.UpdateByPK inside the current operation
func (x TriggerTable) UpdateByPK(pk int64, patch Row) (Row, bool, error) {
	return x.t.updateByPK(pk, patch, true)
}

// UpdateMany is Table.UpdateMany inside the current operation
func (x TriggerTable) UpdateMany(
	w Where, patch Row, batchNotify bool,
) (int, error) {
	return x.t.updateMany(w, patch, batchNotify)
}

// DeleteOne is Table.DeleteOne inside the current operation
func (x TriggerTable) DeleteOne(w Where) bool {
	return x.t.deleteOne(w)
}

// DeleteMany is Table.DeleteMany inside the current operation
func (x TriggerTable) DeleteMany(w Where, batchNotify bool) int {
	return x.t.deleteMany(w, batchNotify)
}

// Clear is Table.Clear inside the current operation
func (x TriggerTable) Clear(resetPK bool) {
	x.t.clear(resetPK)
}

// Insert is Queue.Insert inside the current operation
func (x TriggerQueue) Insert(item any) bool {
	return x.q.insert(item, nil)
}

// Get is Queue.Get inside the current operation
func (x TriggerQueue) Get() (any, bool) {
	return x.q.get()
}

// Size is Queue.Size inside the current operation
func (x TriggerQueue) Size() int {
	return len(x.q.entries)
}

// Get is Single.Get inside the current operation
func (x TriggerSingle) Get() any {
	return x.s.get()
}

// Set is Single.Set inside the current operation
func (x TriggerSingle) Set(value any) any {
	return x.s.set(value)
}

// SetFn is Single.SetFn inside the current operation
func (x TriggerSingle) SetFn(fn func(current any) any) any {
	return x.s.set(fn(x.s.value))
}
