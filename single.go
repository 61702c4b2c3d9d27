package stash

import "github.com/google/uuid"

type (
	// Single is a named reactive scalar container. Its value may be of
	// any shape; the reactive surface is the set/get hooks and the
	// subscriber list, which hears every Set whether or not the value
	// changed
	Single struct {
		store *Store
		value any
		subs  map[uuid.UUID]SingleCallback
		name  string
		onSet SingleSetHook
		onGet SingleGetHook
	}

	// SingleSetHook observes a committed Set with the previous and the
	// new value
	SingleSetHook func(api TriggerAPI, previous any, value any)

	// SingleGetHook observes a Get
	SingleGetHook func(api TriggerAPI, value any)

	// SingleCallback receives the value after every Set
	SingleCallback func(value any)
)

func makeSingle(s *Store, name string, initial any) *Single {
	return &Single{
		store: s,
		name:  name,
		value: initial,
		subs:  map[uuid.UUID]SingleCallback{},
	}
}

// Name returns the name this Single is registered under
func (s *Single) Name() string {
	return s.name
}

// Get returns the current value
func (s *Single) Get() any {
	var res any
	s.store.run(func() {
		res = s.get()
	})
	return res
}

// Set replaces the value, returning the previous one. Subscribers are
// always notified, even when the new value equals the old. That is the
// contract, not an oversight
func (s *Single) Set(value any) any {
	var res any
	s.store.run(func() {
		res = s.set(value)
	})
	return res
}

// SetFn replaces the value with fn(current), returning the previous value
func (s *Single) SetFn(fn func(current any) any) any {
	var res any
	s.store.run(func() {
		res = s.set(fn(s.value))
	})
	return res
}

// OnSet installs the set hook, replacing any prior one
func (s *Single) OnSet(h SingleSetHook) {
	s.store.run(func() { s.onSet = h })
}

// OnGet installs the get hook, replacing any prior one
func (s *Single) OnGet(h SingleGetHook) {
	s.store.run(func() { s.onGet = h })
}

// Subscribe registers a subscriber that hears every Set
func (s *Single) Subscribe(cb SingleCallback) uuid.UUID {
	var id uuid.UUID
	s.store.run(func() {
		id = uuid.New()
		s.subs[id] = cb
	})
	return id
}

// Unsubscribe removes a subscription. Unsubscribing twice is a no-op
func (s *Single) Unsubscribe(id uuid.UUID) {
	s.store.run(func() {
		delete(s.subs, id)
	})
}

func (s *Single) get() any {
	if h := s.onGet; h != nil {
		h(s.api(), s.value)
	}
	return s.value
}

func (s *Single) set(value any) any {
	previous := s.value
	s.value = value
	logSingle(s.store.log, s.name)
	if h := s.onSet; h != nil {
		h(s.api(), previous, value)
	}
	for _, cb := range s.subs {
		s.store.enqueue(func() {
			cb(value)
		})
	}
	return previous
}

func (s *Single) api() TriggerAPI {
	return TriggerAPI{store: s.store}
}
