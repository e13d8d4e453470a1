package soaecs

import (
	"github.com/edwinsyarief/soaecs/internal/assert"
	"github.com/rs/zerolog"
)

// DefaultMinFreedBuildup is the number of retired indices the allocator collects before it starts
// handing them out again.
const DefaultMinFreedBuildup = 1024

// EntityAllocator issues and retires Entity handles. It keeps one generation counter per slot and
// a FIFO of retired slots. Slot 0 is reserved so the zero Entity can act as a null handle.
//
// A retired slot sits out minFreedBuildup calls to Create before it is handed out again: the
// minFreedBuildup-th Create after a Destroy is the first one that may reuse the slot. Code that
// still holds a copy of a destroyed handle for a short while therefore sees it as dead, instead of
// silently pointing at a fresh entity that happened to land in the same slot.
//
// An EntityAllocator is not safe for concurrent use.
type EntityAllocator struct {
	generations     []uint32   // generation per slot; index 0 is the reserved null slot
	free            slotQueue // retired slots waiting for reuse, oldest first
	minFreedBuildup int
	creates         uint64 // Create calls so far; stamps retired slots
	alive           int
	parked          int // slots retired for good after reaching MaxGeneration
	logger          zerolog.Logger
	bus             *EventBus
}

// NewEntityAllocator creates an allocator whose retired slots wait out minFreedBuildup creations
// before reuse. A value of 0 reuses slots on the very next Create.
//
// Parameters:
//   - minFreedBuildup: Reuse delay, usually DefaultMinFreedBuildup. Must not be negative.
//   - opts: Optional logger and event bus.
//
// Returns:
//   - The new allocator. No entity is alive.
func NewEntityAllocator(minFreedBuildup int, opts ...Option) *EntityAllocator {
	assert.That(minFreedBuildup >= 0, "minFreedBuildup must not be negative, got %d", minFreedBuildup)
	o := newOptions(opts)
	return &EntityAllocator{
		generations:     make([]uint32, 1, 64),
		minFreedBuildup: minFreedBuildup,
		logger:          o.logger.With().Str("component", "entities").Logger(),
		bus:             o.bus,
	}
}

// Create issues a new handle. When the oldest retired slot has waited long enough it is reused
// with its already bumped generation, otherwise a brand new slot with generation 0 is appended.
func (a *EntityAllocator) Create() Entity {
	a.creates++
	var index uint32
	if a.free.len() > 0 && a.creates-a.free.peek().tick >= uint64(a.minFreedBuildup) {
		index = a.free.pop().index
	} else {
		assert.That(uint64(len(a.generations)) <= MaxEntityIndex, "entity index space exhausted")
		index = uint32(len(a.generations))
		a.generations = append(a.generations, 0)
	}
	e := Entity{Index: index, Generation: a.generations[index]}
	a.alive++
	Publish(a.bus, EntityCreated{Entity: e})
	return e
}

// CreateN issues n handles and returns them in creation order.
func (a *EntityAllocator) CreateN(n int) []Entity {
	assert.That(n >= 0, "cannot create %d entities", n)
	if n == 0 {
		return nil
	}
	ents := make([]Entity, n)
	for i := range ents {
		ents[i] = a.Create()
	}
	return ents
}

// Alive reports whether e was issued by this allocator and has not been destroyed since. It never
// panics, whatever the handle holds.
func (a *EntityAllocator) Alive(e Entity) bool {
	if e.Index == 0 || int(e.Index) >= len(a.generations) {
		return false
	}
	gen := a.generations[e.Index]
	return gen == e.Generation && gen != parkedGeneration
}

// Destroy retires e. The slot's generation is bumped right away so every copy of e reads as dead,
// and the slot joins the back of the free list.
//
// Destroying a handle that is not alive is a caller bug and panics.
func (a *EntityAllocator) Destroy(e Entity) {
	assert.That(a.Alive(e), "destroy of an entity that is not alive: %s", e)

	next := a.generations[e.Index] + 1
	parked := next > MaxGeneration
	if parked {
		// Never wrap: a stale handle from generation 0 would read as alive again.
		a.generations[e.Index] = parkedGeneration
		a.parked++
		a.logger.Debug().Uint32("index", e.Index).Msg("slot reached max generation and was parked")
	} else {
		a.generations[e.Index] = next
		a.free.push(retiredSlot{index: e.Index, tick: a.creates})
	}
	a.alive--
	Publish(a.bus, EntityDestroyed{Entity: e, Parked: parked})
}

// Len returns the number of live entities.
func (a *EntityAllocator) Len() int {
	return a.alive
}

// Cap returns the number of slots ever allocated, including the reserved null slot.
func (a *EntityAllocator) Cap() int {
	return len(a.generations)
}

// FreeLen returns the number of retired slots waiting for reuse.
func (a *EntityAllocator) FreeLen() int {
	return a.free.len()
}

// Parked returns the number of slots retired for good.
func (a *EntityAllocator) Parked() int {
	return a.parked
}

// MinFreedBuildup returns the reuse threshold the allocator was built with.
func (a *EntityAllocator) MinFreedBuildup() int {
	return a.minFreedBuildup
}

// Reset forgets every entity and slot. Handles issued before the reset must be dropped by the
// caller: indices and generations start over, so old handles may read as alive again. Components
// sharing the event bus clear themselves on the EntitiesReset event.
func (a *EntityAllocator) Reset() {
	a.generations = a.generations[:1]
	a.free.reset()
	a.creates = 0
	a.alive = 0
	a.parked = 0
	Publish(a.bus, EntitiesReset{})
}
