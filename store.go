package stash

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
)

type (
	// Store owns named Tables, Queues, and Singles for the life of the
	// process. Entities are created once and cleared, never destroyed.
	// One writer lock serializes every mutation, including the hooks and
	// cascaded TriggerAPI mutations it sets off; subscriber callbacks run
	// after the lock is released, in commit order
	Store struct {
		tables  map[string]*Table
		queues  map[string]*Queue
		singles map[string]*Single
		log     zerolog.Logger
		pending []func()
		mu      sync.Mutex
	}

	// Option applies an option to a Store under construction
	Option func(*Store)
)

// New instantiates a Store
func New(opts ...Option) *Store {
	s := &Store{
		tables:  map[string]*Table{},
		queues:  map[string]*Queue{},
		singles: map[string]*Single{},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// WithLogger injects the logger mutation events are written to. The
// default discards everything
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// NewTable creates and registers a Table with the given columns, all
// empty
func (s *Store) NewTable(name string, cols ...ColumnName) (*Table, error) {
	var res *Table
	var err error
	s.run(func() {
		if _, ok := s.tables[name]; ok {
			err = fmt.Errorf("%w: %s", ErrDuplicateName, name)
			return
		}
		if res, err = makeTable(s, name, cols); err == nil {
			s.tables[name] = res
		}
	})
	return res, err
}

// NewTableFrom creates and registers a Table seeded from a map of column
// values. The value slices must all have the same length; seeded rows are
// assigned primary keys 1..n in order. Seeding runs no hooks and fires no
// notifications
func (s *Store) NewTableFrom(
	name string, seed map[ColumnName][]Value,
) (*Table, error) {
	var res *Table
	var err error
	s.run(func() {
		if _, ok := s.tables[name]; ok {
			err = fmt.Errorf("%w: %s", ErrDuplicateName, name)
			return
		}
		order := make([]ColumnName, 0, len(seed))
		for n := range seed {
			order = append(order, n)
		}
		sort.Slice(order, func(i, j int) bool {
			return order[i] < order[j]
		})
		rows := -1
		for _, vals := range seed {
			if rows >= 0 && len(vals) != rows {
				err = fmt.Errorf("%w: %s", ErrColumnLengths, name)
				return
			}
			rows = len(vals)
		}
		var t *Table
		if t, err = makeTable(s, name, order); err != nil {
			return
		}
		for i := 0; i < rows; i++ {
			t.nextPK++
			vals := make([]Value, len(order))
			for c, n := range order {
				vals[c] = seed[n][i]
			}
			t.cols.Append(t.nextPK, vals)
		}
		s.tables[name] = t
		res = t
	})
	return res, err
}

// NewQueue creates and registers a Queue
func (s *Store) NewQueue(name string) (*Queue, error) {
	var res *Queue
	var err error
	s.run(func() {
		if _, ok := s.queues[name]; ok {
			err = fmt.Errorf("%w: %s", ErrDuplicateName, name)
			return
		}
		res = makeQueue(s, name)
		s.queues[name] = res
	})
	return res, err
}

// NewSingle creates and registers a Single with an initial value
func (s *Store) NewSingle(name string, initial any) (*Single, error) {
	var res *Single
	var err error
	s.run(func() {
		if _, ok := s.singles[name]; ok {
			err = fmt.Errorf("%w: %s", ErrDuplicateName, name)
			return
		}
		res = makeSingle(s, name, initial)
		s.singles[name] = res
	})
	return res, err
}

// Table returns the named Table, if registered
func (s *Store) Table(name string) (*Table, bool) {
	var res *Table
	var ok bool
	s.run(func() {
		res, ok = s.tables[name]
	})
	return res, ok
}

// Queue returns the named Queue, if registered
func (s *Store) Queue(name string) (*Queue, bool) {
	var res *Queue
	var ok bool
	s.run(func() {
		res, ok = s.queues[name]
	})
	return res, ok
}

// Single returns the named Single, if registered
func (s *Store) Single(name string) (*Single, bool) {
	var res *Single
	var ok bool
	s.run(func() {
		res, ok = s.singles[name]
	})
	return res, ok
}

// Dump renders every entity as deterministic JSON: table rows in
// insertion order, queue sizes, and single values. It is a debugging aid,
// not a persistence format
func (s *Store) Dump() ([]byte, error) {
	var res []byte
	var err error
	s.run(func() {
		dump := storeDump{
			Tables:  map[string][]Row{},
			Queues:  map[string]int{},
			Singles: map[string]any{},
		}
		for name, t := range s.tables {
			rows := t.find(All())
			if rows == nil {
				rows = []Row{}
			}
			dump.Tables[name] = rows
		}
		for name, q := range s.queues {
			dump.Queues[name] = len(q.entries)
		}
		for name, single := range s.singles {
			dump.Singles[name] = single.value
		}
		res, err = json.MarshalIndent(dump, "", "  ")
	})
	return res, err
}

type storeDump struct {
	Tables  map[string][]Row `json:"tables"`
	Queues  map[string]int   `json:"queues"`
	Singles map[string]any   `json:"singles"`
}

// run executes op under the writer lock, then drains whatever
// notifications the operation enqueued. Subscriber callbacks that mutate
// the Store re-enter as fresh operations; unbounded trigger cascades
// between tables are a user error the engine does not detect
func (s *Store) run(op func()) {
	s.mu.Lock()
	op()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, cb := range pending {
		cb()
	}
}

// enqueue defers a subscriber callback until the current operation's
// writer lock is released. Must be called under the lock
func (s *Store) enqueue(cb func()) {
	s.pending = append(s.pending, cb)
}
