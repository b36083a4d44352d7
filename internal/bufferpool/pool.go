// Package bufferpool hands out fixed-size packet buffers for the copy
// loops in the commands.
package bufferpool

import "sync"

type Pool struct {
	size int
	pool sync.Pool
}

func New(size int) *Pool {
	p := &Pool{size: size}
	p.pool.New = func() any {
		b := make([]byte, size)
		return &b
	}
	return p
}

func (p *Pool) Get() []byte {
	return (*p.pool.Get().(*[]byte))[:p.size]
}

// Put returns a buffer to the pool. Sub-slices are fine as long as the
// backing array still holds a full buffer; anything smaller is dropped.
func (p *Pool) Put(b []byte) {
	if cap(b) < p.size {
		return
	}
	b = b[:p.size]
	p.pool.Put(&b)
}

func (p *Pool) Size() int { return p.size }
