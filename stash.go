// Package stash is an in-process reactive mini-database: named Tables of
// columnar rows with auto-assigned primary keys, FIFO Queues, and scalar
// Singles, composed by a Store. Mutations run a before/after trigger
// chain and fan out to subscribers; triggers reach the rest of the Store
// through the TriggerAPI they are handed. Nothing is persisted and
// nothing leaves the process
package stash

// GetAs returns a Single's value as T, or T's zero value when the Single
// currently holds something else
func GetAs[T any](s *Single) (T, bool) {
	if v, ok := s.Get().(T); ok {
		return v, true
	}
	var zero T
	return zero, false
}
