package stash

import "github.com/google/uuid"

type (
	// Queue is a named first-in-first-out work list. Items have no
	// identity and no filtering; the only reactive surface is the pair of
	// insert/get hooks and the subscriber list
	Queue struct {
		store   *Store
		subs    map[uuid.UUID]QueueCallback
		name    string
		entries []queueEntry
		onInst  QueueHook
		onGet   QueueHook
	}

	// QueueHook observes an item entering or leaving the Queue
	QueueHook func(api TriggerAPI, item any)

	// QueueCallback receives the Queue's size after a change
	QueueCallback func(size int)

	queueEntry struct {
		item any
		cb   func(item any)
	}
)

func makeQueue(s *Store, name string) *Queue {
	return &Queue{
		store: s,
		name:  name,
		subs:  map[uuid.UUID]QueueCallback{},
	}
}

// Name returns the name this Queue is registered under
func (q *Queue) Name() string {
	return q.name
}

// Insert appends an item to the tail of the Queue
func (q *Queue) Insert(item any) bool {
	var res bool
	q.store.run(func() {
		res = q.insert(item, nil)
	})
	return res
}

// InsertFunc appends an item along with a callback that fires once the
// item has been dequeued by Get
func (q *Queue) InsertFunc(item any, cb func(item any)) bool {
	var res bool
	q.store.run(func() {
		res = q.insert(item, cb)
	})
	return res
}

// Get removes and returns the head of the Queue
func (q *Queue) Get() (any, bool) {
	var res any
	var ok bool
	q.store.run(func() {
		res, ok = q.get()
	})
	return res, ok
}

// Size returns the number of items in the Queue
func (q *Queue) Size() int {
	var res int
	q.store.run(func() {
		res = len(q.entries)
	})
	return res
}

// OnInsert installs the insert hook, replacing any prior one
func (q *Queue) OnInsert(h QueueHook) {
	q.store.run(func() { q.onInst = h })
}

// OnGet installs the get hook, replacing any prior one
func (q *Queue) OnGet(h QueueHook) {
	q.store.run(func() { q.onGet = h })
}

// Subscribe registers a subscriber that hears the Queue's size after
// every insert and get
func (q *Queue) Subscribe(cb QueueCallback) uuid.UUID {
	var id uuid.UUID
	q.store.run(func() {
		id = uuid.New()
		q.subs[id] = cb
	})
	return id
}

// Unsubscribe removes a subscription. Unsubscribing twice is a no-op
func (q *Queue) Unsubscribe(id uuid.UUID) {
	q.store.run(func() {
		delete(q.subs, id)
	})
}

func (q *Queue) insert(item any, cb func(any)) bool {
	q.entries = append(q.entries, queueEntry{item: item, cb: cb})
	logQueue(q.store.log, EventQueueInsert, q.name, len(q.entries))
	if h := q.onInst; h != nil {
		h(q.api(), item)
	}
	q.notify()
	return true
}

func (q *Queue) get() (any, bool) {
	if len(q.entries) == 0 {
		return nil, false
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	logQueue(q.store.log, EventQueueGet, q.name, len(q.entries))
	if h := q.onGet; h != nil {
		h(q.api(), head.item)
	}
	if head.cb != nil {
		q.store.enqueue(func() {
			head.cb(head.item)
		})
	}
	q.notify()
	return head.item, true
}

func (q *Queue) notify() {
	size := len(q.entries)
	for _, cb := range q.subs {
		q.store.enqueue(func() {
			cb(size)
		})
	}
}

func (q *Queue) api() TriggerAPI {
	return TriggerAPI{store: q.store}
}
