package soaecs

import (
	"testing"

	"github.com/edwinsyarief/soaecs/internal/testutils"
	"github.com/stretchr/testify/assert"
)

func TestRoundUp(t *testing.T) {
	t.Parallel()
	for in, want := range map[int]int{1: 32, 31: 32, 32: 32, 33: 64, 100: 128, 1024: 1024} {
		assert.Equal(t, want, roundUp(in), "roundUp(%d)", in)
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	t.Parallel()
	for in, want := range map[uint32]uint32{0: 1, 1: 1, 2: 2, 3: 4, 17: 32, 101: 128, 1 << 20: 1 << 20, 1 << 31: 1 << 31} {
		assert.Equal(t, want, nextPowerOfTwo(in), "nextPowerOfTwo(%d)", in)
	}
	testutils.RequireContractPanic(t, func() { nextPowerOfTwo(1<<31 + 1) }, "would wrap to zero")
}

func TestSlotQueue_WrapsInOrder(t *testing.T) {
	t.Parallel()

	var q slotQueue
	next := uint32(0)
	want := uint32(0)
	// Interleave pushes and pops so the head walks around the ring several times while it grows.
	for round := range 50 {
		for range round%7 + 3 {
			q.push(retiredSlot{index: next})
			next++
		}
		for range round%5 + 1 {
			if q.len() == 0 {
				break
			}
			assert.Equal(t, want, q.peek().index)
			assert.Equal(t, want, q.pop().index)
			want++
		}
	}
	for q.len() > 0 {
		assert.Equal(t, want, q.pop().index)
		want++
	}
	assert.Equal(t, next, want)

	q.push(retiredSlot{index: 9})
	q.reset()
	assert.Equal(t, 0, q.len())
}
