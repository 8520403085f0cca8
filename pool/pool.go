// pool.go implements a generic pool of objects backed by foreign memory.

// Package pool recycles objects that own memory outside of the Go heap
// (libav packets); objects dropped by the pool are freed by a finalizer.
package pool

import (
	"runtime"
	"sync"
)

type Pool[T any] struct {
	sync.Pool
	ResetFunc func(*T)
}

func NewPool[T any](
	allocFunc func() *T,
	resetFunc func(*T),
	freeFunc func(*T),
) *Pool[T] {
	return &Pool[T]{
		Pool: sync.Pool{
			New: func() any {
				v := allocFunc()
				runtime.SetFinalizer(v, freeFunc)
				return v
			},
		},
		ResetFunc: resetFunc,
	}
}

func (p *Pool[T]) Get() *T {
	return p.Pool.Get().(*T)
}

// Put resets the item and gives it back to the pool.
func (p *Pool[T]) Put(item *T) {
	p.ResetFunc(item)
	p.Pool.Put(item)
}
