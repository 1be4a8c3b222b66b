// Package bufferpool is a concrete stand-in for the singleton buffer pool
// an ingest pipeline typically borrows PCM chunks from. Streaming ingest
// borrows one reusable PCM chunk per file from a Pool and releases it on
// every exit path, including error.
package bufferpool

import (
	"sync"
	"sync/atomic"
)

// Pool hands out []float32 slices of a fixed capacity and tracks the peak
// number of bytes concurrently checked out, for reporting via ingest.Stats.
//
// A plain sync.Pool is the right tool here: the concern is "reuse a
// fixed-size scratch buffer across calls without per-file GC churn", which
// is exactly sync.Pool's job, and none of the ecosystem allocators pulled in
// by the rest of this module (gorm's connection pool, mpb's render buffers)
// address a general-purpose byte/sample buffer pool.
type Pool struct {
	capacity int
	pool     sync.Pool
	inUse    int64
	peak     int64
}

// New creates a Pool whose buffers each have room for capacity float32
// samples.
func New(capacity int) *Pool {
	p := &Pool{capacity: capacity}
	p.pool.New = func() any {
		buf := make([]float32, capacity)
		return &buf
	}
	return p
}

// Default returns a Pool sized for the default 1 MiB streaming chunk
// (262144 float32 samples).
func Default() *Pool {
	return New((1 << 20) / 4)
}

// Capacity returns the sample capacity of buffers this pool hands out.
func (p *Pool) Capacity() int {
	if p == nil {
		return 0
	}
	return p.capacity
}

// Get checks out a buffer, growing the in-use/peak counters.
func (p *Pool) Get() []float32 {
	buf := p.pool.Get().(*[]float32)
	inUse := atomic.AddInt64(&p.inUse, int64(len(*buf)*4))
	for {
		peak := atomic.LoadInt64(&p.peak)
		if inUse <= peak || atomic.CompareAndSwapInt64(&p.peak, peak, inUse) {
			break
		}
	}
	return (*buf)[:cap(*buf)]
}

// Put returns a buffer to the pool. Callers must not use buf after Put.
func (p *Pool) Put(buf []float32) {
	full := buf[:cap(buf)]
	atomic.AddInt64(&p.inUse, -int64(len(full)*4))
	p.pool.Put(&full)
}

// PeakBytes reports the largest number of bytes concurrently checked out
// since the pool was created.
func (p *Pool) PeakBytes() int64 {
	return atomic.LoadInt64(&p.peak)
}
