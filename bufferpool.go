package bitable

import "sync"

// zeroBufferPool hands out page-sized, zero-filled byte slices for the
// large-value store's padding writes (§4.2.2), so a run of small pad writes
// does not allocate a fresh zero slice each time. Adapted from the
// teacher's NodePool, a sync.Pool of pre-allocated objects kept off the
// garbage collector's hot path; here the pooled object is a zeroed page
// buffer instead of a trie node.
type zeroBufferPool struct {
	pool     sync.Pool
	pageSize uint32
}

func newZeroBufferPool(pageSize uint32) *zeroBufferPool {
	p := &zeroBufferPool{pageSize: pageSize}
	p.pool.New = func() interface{} {
		return make([]byte, pageSize)
	}
	return p
}

// get returns a zero-filled buffer of at least n bytes. Buffers larger than
// the pool's page size are allocated directly and not pooled.
func (p *zeroBufferPool) get(n uint32) []byte {
	if n > p.pageSize {
		return make([]byte, n)
	}

	buf := p.pool.Get().([]byte)[:n]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

func (p *zeroBufferPool) put(buf []byte) {
	if uint32(cap(buf)) != p.pageSize {
		return
	}
	p.pool.Put(buf[:p.pageSize])
}
