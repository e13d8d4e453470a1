package soaecs

import (
	"fmt"
	"math"
)

// MaxGeneration is the highest generation a slot can carry while it is still recyclable. A slot
// retired at this generation is parked for good instead of wrapping back to zero.
const MaxGeneration = math.MaxUint32 - 1

// parkedGeneration marks a slot that will never be issued again.
const parkedGeneration = math.MaxUint32

// MaxEntityIndex is the highest slot index the allocator will hand out.
const MaxEntityIndex = math.MaxUint32 - 1

// Entity is an opaque identity token for an object managed by an EntityAllocator. It pairs a
// recyclable slot index with the generation the slot had when the handle was issued, so a handle
// kept after its entity was destroyed can be told apart from whatever reuses the slot later.
//
// The zero value is the null handle. It is never returned by Create and is never alive.
type Entity struct {
	// Index is the slot the entity occupies. Components use it directly as a row number.
	Index uint32
	// Generation is the slot's retirement counter at the time the handle was issued.
	Generation uint32
}

// NullEntity is the reserved invalid handle.
var NullEntity = Entity{}

// IsNull reports whether e is the reserved null handle.
func (e Entity) IsNull() bool {
	return e == NullEntity
}

func (e Entity) String() string {
	return fmt.Sprintf("Entity(%d:%d)", e.Index, e.Generation)
}
