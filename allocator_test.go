package soaecs

import (
	"testing"

	"github.com/edwinsyarief/soaecs/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// go test -run ^TestEntityAllocator_CreateSequential$ . -count 1
func TestEntityAllocator_CreateSequential(t *testing.T) {
	t.Parallel()

	a := NewEntityAllocator(DefaultMinFreedBuildup)
	seen := make(map[Entity]struct{}, 1024)
	for i := range 1024 {
		e := a.Create()
		assert.Equal(t, uint32(i+1), e.Index, "index 0 is reserved for the null handle")
		assert.Equal(t, uint32(0), e.Generation)
		assert.False(t, e.IsNull())
		_, dup := seen[e]
		assert.False(t, dup, "duplicate handle %s", e)
		seen[e] = struct{}{}
	}
	for e := range seen {
		assert.True(t, a.Alive(e), "%s should be alive", e)
	}
	assert.Equal(t, 1024, a.Len())
	assert.Equal(t, 1025, a.Cap())
}

// go test -run ^TestEntityAllocator_ReuseAfterBuildup$ . -count 1
func TestEntityAllocator_ReuseAfterBuildup(t *testing.T) {
	t.Parallel()

	a := NewEntityAllocator(DefaultMinFreedBuildup)
	ents := a.CreateN(1024)
	victim := ents[4]
	require.Equal(t, uint32(5), victim.Index)

	a.Destroy(victim)
	assert.False(t, a.Alive(victim))
	assert.Equal(t, 1, a.FreeLen())

	for range DefaultMinFreedBuildup - 1 {
		e := a.Create()
		assert.NotEqual(t, victim.Index, e.Index, "slot reused before the buildup delay elapsed")
	}

	reused := a.Create()
	assert.Equal(t, Entity{Index: 5, Generation: 1}, reused)
	assert.True(t, a.Alive(reused))
	assert.False(t, a.Alive(victim), "stale handle must stay dead after its slot is reused")
	assert.Equal(t, 0, a.FreeLen())
}

// go test -run ^TestEntityAllocator_ReuseIsFIFO$ . -count 1
func TestEntityAllocator_ReuseIsFIFO(t *testing.T) {
	t.Parallel()

	a := NewEntityAllocator(0)
	ents := a.CreateN(4)
	a.Destroy(ents[2])
	a.Destroy(ents[0])
	a.Destroy(ents[3])

	assert.Equal(t, ents[2].Index, a.Create().Index)
	assert.Equal(t, ents[0].Index, a.Create().Index)
	assert.Equal(t, ents[3].Index, a.Create().Index)
	assert.Equal(t, uint32(5), a.Create().Index, "fresh slot once the free list is drained")
}

// go test -run ^TestEntityAllocator_AliveEdgeCases$ . -count 1
func TestEntityAllocator_AliveEdgeCases(t *testing.T) {
	t.Parallel()

	a := NewEntityAllocator(DefaultMinFreedBuildup)
	e := a.Create()

	tests := []struct {
		name   string
		handle Entity
		want   bool
	}{
		{name: "issued handle", handle: e, want: true},
		{name: "null handle", handle: NullEntity, want: false},
		{name: "index past high water mark", handle: Entity{Index: 99}, want: false},
		{name: "wrong generation", handle: Entity{Index: e.Index, Generation: 1}, want: false},
		{name: "parked marker", handle: Entity{Index: e.Index, Generation: parkedGeneration}, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, a.Alive(tt.handle), tt.name)
	}
}

// go test -run ^TestEntityAllocator_DestroyContract$ . -count 1
func TestEntityAllocator_DestroyContract(t *testing.T) {
	t.Parallel()

	a := NewEntityAllocator(DefaultMinFreedBuildup)
	e := a.Create()
	a.Destroy(e)

	testutils.RequireContractPanic(t, func() { a.Destroy(e) }, "double destroy")
	testutils.RequireContractPanic(t, func() { a.Destroy(NullEntity) }, "null handle")
	testutils.RequireContractPanic(t, func() { a.Destroy(Entity{Index: 42}) }, "unknown slot")
	testutils.RequireContractPanic(t, func() { NewEntityAllocator(-1) }, "negative buildup")
}

// go test -run ^TestEntityAllocator_GenerationParking$ . -count 1
func TestEntityAllocator_GenerationParking(t *testing.T) {
	t.Parallel()

	bus := &EventBus{}
	var destroyed []EntityDestroyed
	Subscribe(bus, func(ev EntityDestroyed) { destroyed = append(destroyed, ev) })

	a := NewEntityAllocator(0, WithEventBus(bus))
	e := a.Create()
	a.generations[e.Index] = MaxGeneration
	e.Generation = MaxGeneration
	require.True(t, a.Alive(e))

	a.Destroy(e)
	assert.False(t, a.Alive(e))
	assert.False(t, a.Alive(Entity{Index: e.Index, Generation: 0}), "generation must not wrap to 0")
	assert.Equal(t, 1, a.Parked())
	assert.Equal(t, 0, a.FreeLen())

	next := a.Create()
	assert.NotEqual(t, e.Index, next.Index, "parked slot must never be reissued")

	require.Len(t, destroyed, 1)
	assert.True(t, destroyed[0].Parked)
}

// go test -run ^TestEntityAllocator_Events$ . -count 1
func TestEntityAllocator_Events(t *testing.T) {
	t.Parallel()

	bus := &EventBus{}
	var created, destroyed []Entity
	Subscribe(bus, func(ev EntityCreated) { created = append(created, ev.Entity) })
	Subscribe(bus, func(ev EntityDestroyed) { destroyed = append(destroyed, ev.Entity) })

	a := NewEntityAllocator(DefaultMinFreedBuildup, WithEventBus(bus))
	ents := a.CreateN(3)
	a.Destroy(ents[1])

	assert.Equal(t, ents, created)
	assert.Equal(t, []Entity{ents[1]}, destroyed)
}

// go test -run ^TestEntityAllocator_Reset$ . -count 1
func TestEntityAllocator_Reset(t *testing.T) {
	t.Parallel()

	bus := &EventBus{}
	resets := 0
	Subscribe(bus, func(EntitiesReset) { resets++ })

	a := NewEntityAllocator(0, WithEventBus(bus))
	ents := a.CreateN(10)
	a.Destroy(ents[0])
	a.Reset()

	assert.Equal(t, 1, resets)
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, a.Cap())
	assert.Equal(t, 0, a.FreeLen())
	assert.Equal(t, Entity{Index: 1}, a.Create())
	assert.Nil(t, a.CreateN(0))
}

// -------------------------------------------------------------------------------------------------
// Model-based fuzzing allocator operations
// -------------------------------------------------------------------------------------------------
// Runs random create/destroy/alive sequences against a map of live handles and checks that Alive
// agrees with the model, that reuse never happens inside the buildup window, and that reused slots
// come back with a bumped generation.
// -------------------------------------------------------------------------------------------------

func TestEntityAllocator_ModelFuzz(t *testing.T) {
	t.Parallel()
	prng := testutils.NewRand(t)

	const (
		opsMax  = 1 << 14
		buildup = 16
	)

	impl := NewEntityAllocator(buildup)
	live := make(map[Entity]struct{})
	var dead []Entity
	retiredAt := make(map[uint32]int) // slot -> create count when it was retired
	creates := 0

	for range opsMax {
		switch testutils.PickWeighted(prng, allocatorOps) {
		case a_create:
			creates++
			e := impl.Create()
			_, dup := live[e]
			require.False(t, dup, "create returned live handle %s", e)
			if at, ok := retiredAt[e.Index]; ok {
				assert.GreaterOrEqual(t, creates-at, buildup, "slot %d reused too early", e.Index)
				delete(retiredAt, e.Index)
			}
			live[e] = struct{}{}

		case a_destroy:
			if len(live) == 0 {
				continue
			}
			e := testutils.PickKey(prng, live)
			impl.Destroy(e)
			delete(live, e)
			dead = append(dead, e)
			retiredAt[e.Index] = creates

		case a_alive:
			if len(dead) > 0 {
				e := dead[prng.IntN(len(dead))]
				assert.False(t, impl.Alive(e), "destroyed handle %s reads as alive", e)
			}
			if len(live) > 0 {
				e := testutils.PickKey(prng, live)
				assert.True(t, impl.Alive(e), "live handle %s reads as dead", e)
			}

		default:
			panic("unreachable")
		}
	}

	assert.Equal(t, len(live), impl.Len())
	for e := range live {
		assert.True(t, impl.Alive(e))
	}
}

type allocatorOp uint8

const (
	a_create  allocatorOp = 40
	a_destroy allocatorOp = 35
	a_alive   allocatorOp = 25
)

var allocatorOps = []allocatorOp{a_create, a_destroy, a_alive}
