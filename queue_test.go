package stash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/stash"
)

func TestQueueFIFO(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	q, err := s.NewQueue("work")
	as.NotNil(q)
	as.Nil(err)
	as.Equal("work", q.Name())

	as.True(q.Insert("first"))
	as.True(q.Insert("second"))
	as.True(q.Insert("third"))
	as.Equal(3, q.Size())

	item, ok := q.Get()
	as.True(ok)
	as.Equal("first", item)

	item, ok = q.Get()
	as.True(ok)
	as.Equal("second", item)
	as.Equal(1, q.Size())
}

func TestQueueGetEmpty(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	q, _ := s.NewQueue("work")

	item, ok := q.Get()
	as.Nil(item)
	as.False(ok)
}

func TestQueueItemCallback(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	q, _ := s.NewQueue("work")

	var done []any
	as.True(q.InsertFunc("job", func(item any) {
		done = append(done, item)
	}))
	as.Empty(done)

	item, ok := q.Get()
	as.True(ok)
	as.Equal("job", item)
	as.Equal([]any{"job"}, done)
}

func TestQueueHooks(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	q, _ := s.NewQueue("work")

	var inserted, fetched []any
	q.OnInsert(func(_ stash.TriggerAPI, item any) {
		inserted = append(inserted, item)
	})
	q.OnGet(func(_ stash.TriggerAPI, item any) {
		fetched = append(fetched, item)
	})

	q.Insert(1)
	q.Insert(2)
	as.Equal([]any{1, 2}, inserted)
	as.Empty(fetched)

	q.Get()
	as.Equal([]any{1}, fetched)
}

func TestQueueSubscribe(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	q, _ := s.NewQueue("work")

	var sizes []int
	id := q.Subscribe(func(size int) {
		sizes = append(sizes, size)
	})

	q.Insert("a")
	q.Insert("b")
	q.Get()
	as.Equal([]int{1, 2, 1}, sizes)

	q.Unsubscribe(id)
	q.Unsubscribe(id)
	q.Insert("c")
	as.Equal([]int{1, 2, 1}, sizes)
}

func TestQueueHookUsesAPI(t *testing.T) {
	as := assert.New(t)
	s := stash.New()
	q, _ := s.NewQueue("work")
	depth, _ := s.NewSingle("depth", 0)

	q.OnInsert(func(api stash.TriggerAPI, _ any) {
		if d, ok := api.Single("depth"); ok {
			d.SetFn(func(cur any) any {
				return cur.(int) + 1
			})
		}
	})

	q.Insert("a")
	q.Insert("b")
	n, ok := stash.GetAs[int](depth)
	as.True(ok)
	as.Equal(2, n)
}
