package soaecs

import "github.com/edwinsyarief/soaecs/internal/assert"

// rowAlignment is the granularity every ColumnStore capacity is rounded to.
const rowAlignment = 32

// roundUp rounds n up to the next multiple of rowAlignment. n must leave rowAlignment-1 of headroom
// below math.MaxInt.
func roundUp(n int) int {
	return (n + rowAlignment - 1) &^ (rowAlignment - 1)
}

// nextPowerOfTwo returns the smallest power of two that is >= n. n must not exceed 1<<31, the
// largest power of two a uint32 holds.
func nextPowerOfTwo(n uint32) uint32 {
	assert.That(n <= 1<<31, "no power of two >= %d fits in 32 bits", n)
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}

// retiredSlot is a slot index waiting in the free list, stamped with the allocator's create
// counter at the moment it was retired.
type retiredSlot struct {
	index uint32
	tick  uint64
}

// slotQueue is a FIFO of retired slots backed by a ring buffer. Popping from the front of a plain
// slice would leak the head of the backing array, so the queue wraps instead.
type slotQueue struct {
	buf  []retiredSlot
	head int
	size int
}

func (q *slotQueue) len() int {
	return q.size
}

// push appends s at the tail, doubling the ring when it is full.
func (q *slotQueue) push(s retiredSlot) {
	if q.size == len(q.buf) {
		newCap := max(2*len(q.buf), 16)
		nb := make([]retiredSlot, newCap)
		n := copy(nb, q.buf[q.head:])
		copy(nb[n:], q.buf[:q.head])
		q.buf = nb
		q.head = 0
	}
	q.buf[(q.head+q.size)%len(q.buf)] = s
	q.size++
}

// peek returns the oldest slot. The queue must not be empty.
func (q *slotQueue) peek() retiredSlot {
	return q.buf[q.head]
}

// pop removes and returns the oldest slot. The queue must not be empty.
func (q *slotQueue) pop() retiredSlot {
	s := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return s
}

func (q *slotQueue) reset() {
	q.head = 0
	q.size = 0
}
