package ps2

import "sync/atomic"

// ringSize must be a power of two so the free-running indices can wrap
// with a bitmask.
const ringSize = 16

// Ring is the single-producer single-consumer buffer of completed PS/2
// bytes. The receive engine (interrupt context) is the only writer of
// tail; the polling consumer is the only writer of head. A slot is
// fully written before tail advances and the consumer never reads past
// its own head, so no critical section is needed beyond the atomic
// index accesses.
//
// At most ringSize-1 bytes are buffered. Pushing into a full ring drops
// the newest byte and leaves everything already buffered untouched.
type Ring struct {
	buf   [ringSize]byte
	head  atomic.Uint32
	tail  atomic.Uint32
	drops atomic.Uint32
}

// Push appends b. It reports false when the ring was full and the byte
// was dropped. Producer side only.
func (r *Ring) Push(b byte) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() >= ringSize-1 {
		r.drops.Add(1)
		return false
	}
	r.buf[tail&(ringSize-1)] = b
	r.tail.Store(tail + 1)
	return true
}

// Pop removes and returns the oldest byte. Consumer side only.
func (r *Ring) Pop() (byte, bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return 0, false
	}
	b := r.buf[head&(ringSize-1)]
	r.head.Store(head + 1)
	return b, true
}

// Len returns the number of buffered bytes.
func (r *Ring) Len() int {
	return int(r.tail.Load() - r.head.Load())
}

// Drops returns the number of bytes discarded because the ring was
// full. Overflow is otherwise silent; this counter is the only way to
// observe it.
func (r *Ring) Drops() uint32 {
	return r.drops.Load()
}
