// Package idpool allocates client-side Wayland object IDs and
// recycles them once the compositor returns them via delete_id.
//
// Object ID 1 is reserved for the display; IDs handed out by a Pool
// always start at 2.
package idpool

import "github.com/kestrelwl/wl/internal/debug"

// highWaterMark is the free-list size past which Destroy starts
// logging through internal/debug instead of growing the list
// silently. The list is never capped: dropping a returned ID would
// leak it forever, whereas logging keeps the leak observable under
// WAYLAND_DEBUG=1 while correctness (nextID still advances) is
// unaffected either way.
const highWaterMark = 1024

// Pool allocates object IDs starting at 2 and recycles IDs returned
// via Destroy. It is not safe for concurrent use without external
// synchronization, matching the single-threaded connection it backs.
type Pool struct {
	nextID uint32
	free   []uint32
	queued map[uint32]struct{}
	warned bool
}

// New creates a Pool ready to hand out IDs starting at 2.
func New() *Pool {
	return &Pool{
		nextID: 2,
		queued: make(map[uint32]struct{}),
	}
}

// Create returns an unused object ID: the most recently freed one, if
// any are available, otherwise the next never-used ID. The result is
// always >= 2.
func (p *Pool) Create() uint32 {
	if n := len(p.free); n > 0 {
		id := p.free[n-1]
		p.free = p.free[:n-1]
		delete(p.queued, id)
		return id
	}

	id := p.nextID
	p.nextID++
	return id
}

// Destroy returns id to the pool. Returning the same id more than
// once is idempotent: only the first call has any effect, satisfying
// the invariant that the free list never contains a duplicate.
func (p *Pool) Destroy(id uint32) {
	if _, ok := p.queued[id]; ok {
		return
	}

	p.queued[id] = struct{}{}
	p.free = append(p.free, id)

	if len(p.free) > highWaterMark && !p.warned {
		p.warned = true
		debug.Printf("idpool: free list exceeds %d entries; ids may be leaking", highWaterMark)
	}
}

// Len reports how many IDs are currently available for reuse.
func (p *Pool) Len() int {
	return len(p.free)
}
