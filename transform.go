package soaecs

import (
	"github.com/edwinsyarief/soaecs/internal/assert"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/kelindar/bitmap"
	"github.com/rs/zerolog"
)

// Instance is a row of a TransformComponent. It is an entity's Index reused as a row number and
// carries no generation of its own: liveness is the EntityAllocator's business.
type Instance uint32

// RootInstance is the permanent root row. It is the parent of every top-level transform.
const RootInstance Instance = 0

// transform field indices in the backing store.
const (
	transformParent = iota
	transformPosition
	transformRotation
	transformScale
	transformLocalMatrix
)

// transformFields is the row layout: parent, position, rotation (x, y, z, w), scale and the
// column-major local matrix.
var transformFields = []FieldSpec{
	F(Uint32, 1),
	F(Float32, 3),
	F(Float32, 4),
	F(Float32, 3),
	F(Float32, 16),
}

// TransformDesc is the initial state of a transform.
type TransformDesc struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// IdentityTransform is a TransformDesc at the origin with no rotation and unit scale.
func IdentityTransform() TransformDesc {
	return TransformDesc{
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// TransformComponent stores a position, rotation, scale and parent link per entity, plus a local
// matrix derived from the TRS fields. Rows are indexed directly by entity index, so the backing
// store is sparse: it grows to cover the highest index ever assigned.
//
// The local matrix only ever reflects the row's own TRS fields. The parent link is stored but not
// folded in; WorldMatrix walks the chain on demand for callers that need it.
//
// A TransformComponent is not safe for concurrent use.
type TransformComponent struct {
	entities *EntityAllocator
	store    *ColumnStore
	assigned bitmap.Bitmap // rows handed out by Assign and not yet released
	logger   zerolog.Logger

	// Views into store, refreshed by rebase whenever the store reallocates.
	parents   []uint32
	positions []float32
	rotations []float32
	scales    []float32
	matrices  []float32
}

// NewTransformComponent creates a component for entities issued by entities. The root row is
// written immediately.
//
// When opts carries an event bus, destroying an entity releases its row: Has reports false for it
// and Each skips it. The row data itself stays in place until the index is assigned again. Resetting
// the allocator clears the whole component.
func NewTransformComponent(entities *EntityAllocator, initialCapacity int, opts ...Option) *TransformComponent {
	assert.That(entities != nil, "transform component needs an entity allocator")

	o := newOptions(opts)
	t := &TransformComponent{
		entities: entities,
		store:    NewColumnStore(initialCapacity, transformFields, opts...),
		logger:   o.logger.With().Str("component", "transform").Logger(),
	}
	t.store.Resize(1)
	t.rebase()
	t.write(RootInstance, IdentityTransform(), RootInstance)

	if o.bus != nil {
		Subscribe(o.bus, func(ev EntityDestroyed) {
			t.assigned.Remove(ev.Entity.Index)
		})
		Subscribe(o.bus, func(EntitiesReset) {
			t.Clear()
		})
	}
	return t
}

// Clear releases every row and zeroes everything but the root. The store keeps its capacity, so
// cached views stay valid.
func (t *TransformComponent) Clear() {
	t.assigned.Clear()
	t.store.Resize(1)
}

// rebase refreshes the cached field views after the store moved.
func (t *TransformComponent) rebase() {
	t.parents = View[uint32](t.store, transformParent)
	t.positions = View[float32](t.store, transformPosition)
	t.rotations = View[float32](t.store, transformRotation)
	t.scales = View[float32](t.store, transformScale)
	t.matrices = View[float32](t.store, transformLocalMatrix)
}

// Assign gives e a transform row and returns it. The backing store grows to the next power of two
// covering e.Index when needed. parent must be RootInstance or an assigned row.
//
// Parameters:
//   - e: A live entity other than the null handle.
//   - desc: Initial position, rotation and scale.
//   - parent: The row this transform hangs under.
//
// Returns:
//   - The Instance for e, equal to e.Index.
func (t *TransformComponent) Assign(e Entity, desc TransformDesc, parent Instance) Instance {
	assert.That(e.Index != 0, "the root row cannot be assigned")
	assert.That(t.entities.Alive(e), "assign of an entity that is not alive: %s", e)

	if int(e.Index) >= t.store.Len() {
		rows := nextPowerOfTwo(e.Index + 1)
		if t.store.Resize(int(rows)) {
			t.rebase()
			t.logger.Debug().
				Uint32("index", e.Index).
				Int("capacity", t.store.Cap()).
				Msg("transform rows grown")
		}
	}

	i := Instance(e.Index)
	t.checkParent(i, parent)
	t.write(i, desc, parent)
	t.assigned.Set(e.Index)
	return i
}

func (t *TransformComponent) write(i Instance, desc TransformDesc, parent Instance) {
	t.parents[i] = uint32(parent)
	setVec3(t.positions, i, desc.Position)
	setQuat(t.rotations, i, desc.Rotation)
	setVec3(t.scales, i, desc.Scale)
	t.compose(i)
}

func (t *TransformComponent) check(i Instance) {
	assert.That(int(i) < t.store.Len(), "instance %d out of range [0, %d)", i, t.store.Len())
}

// checkMutable guards the fields of i. The root row is written once at construction and stays fixed.
func (t *TransformComponent) checkMutable(i Instance) {
	t.check(i)
	assert.That(i != RootInstance, "the root row is immutable")
}

// checkParent only accepts the root or an assigned row, so a gap row with a zero scale and rotation
// can never end up in a parent chain.
func (t *TransformComponent) checkParent(i, parent Instance) {
	assert.That(parent != i, "instance %d cannot be its own parent", i)
	assert.That(parent == RootInstance || t.Has(parent), "parent %d is not an assigned row", parent)
}

// compose recomputes the local matrix of i from its own TRS fields.
func (t *TransformComponent) compose(i Instance) {
	m := ComposeTRS(t.Rotation(i), t.Position(i), t.Scale(i))
	copy(t.matrices[int(i)*16:int(i)*16+16], m[:])
}

// SetPosition sets the position of i and recomputes its local matrix.
func (t *TransformComponent) SetPosition(i Instance, position mgl32.Vec3) {
	t.checkMutable(i)
	setVec3(t.positions, i, position)
	t.compose(i)
}

// SetRotation sets the rotation of i and recomputes its local matrix.
func (t *TransformComponent) SetRotation(i Instance, rotation mgl32.Quat) {
	t.checkMutable(i)
	setQuat(t.rotations, i, rotation)
	t.compose(i)
}

// SetScale sets the scale of i and recomputes its local matrix.
func (t *TransformComponent) SetScale(i Instance, scale mgl32.Vec3) {
	t.checkMutable(i)
	setVec3(t.scales, i, scale)
	t.compose(i)
}

// SetPositionAndRotation sets both fields with a single matrix rebuild.
func (t *TransformComponent) SetPositionAndRotation(i Instance, position mgl32.Vec3, rotation mgl32.Quat) {
	t.checkMutable(i)
	setVec3(t.positions, i, position)
	setQuat(t.rotations, i, rotation)
	t.compose(i)
}

// SetParent relinks i under parent. The local matrix is unaffected.
func (t *TransformComponent) SetParent(i, parent Instance) {
	t.checkMutable(i)
	t.checkParent(i, parent)
	t.parents[i] = uint32(parent)
}

// Parent returns the row i hangs under.
func (t *TransformComponent) Parent(i Instance) Instance {
	t.check(i)
	return Instance(t.parents[i])
}

// Position returns the position of i.
func (t *TransformComponent) Position(i Instance) mgl32.Vec3 {
	t.check(i)
	return getVec3(t.positions, i)
}

// Rotation returns the rotation of i.
func (t *TransformComponent) Rotation(i Instance) mgl32.Quat {
	t.check(i)
	r := t.rotations[int(i)*4 : int(i)*4+4]
	return mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
}

// Scale returns the scale of i.
func (t *TransformComponent) Scale(i Instance) mgl32.Vec3 {
	t.check(i)
	return getVec3(t.scales, i)
}

// LocalMatrix returns the matrix composed from the TRS fields of i alone.
func (t *TransformComponent) LocalMatrix(i Instance) mgl32.Mat4 {
	t.check(i)
	var m mgl32.Mat4
	copy(m[:], t.matrices[int(i)*16:int(i)*16+16])
	return m
}

// WorldMatrix composes the local matrices from the root down to i. It is computed on every call
// and never stored.
func (t *TransformComponent) WorldMatrix(i Instance) mgl32.Mat4 {
	m := t.LocalMatrix(i)
	for steps, p := 0, t.Parent(i); p != RootInstance; p = t.Parent(p) {
		steps++
		assert.That(steps < t.store.Len(), "parent chain of instance %d has a cycle", i)
		m = t.LocalMatrix(p).Mul4(m)
	}
	return m
}

// Has reports whether i was assigned and not released since.
func (t *TransformComponent) Has(i Instance) bool {
	return t.assigned.Contains(uint32(i))
}

// Count returns the number of assigned rows, not counting the root.
func (t *TransformComponent) Count() int {
	return t.assigned.Count()
}

// Len returns the number of rows the backing store covers, including the root and any gaps.
func (t *TransformComponent) Len() int {
	return t.store.Len()
}

// Each calls fn for every assigned row in ascending order. fn must not call Assign.
func (t *TransformComponent) Each(fn func(Instance)) {
	t.assigned.Range(func(x uint32) {
		fn(Instance(x))
	})
}

// Store exposes the backing column store for read-only layout inspection, e.g. by an upload path
// that wants Fields and RowStride.
func (t *TransformComponent) Store() *ColumnStore {
	return t.store
}

func setVec3(dst []float32, i Instance, v mgl32.Vec3) {
	copy(dst[int(i)*3:int(i)*3+3], v[:])
}

func getVec3(src []float32, i Instance) mgl32.Vec3 {
	o := int(i) * 3
	return mgl32.Vec3{src[o], src[o+1], src[o+2]}
}

func setQuat(dst []float32, i Instance, q mgl32.Quat) {
	o := int(i) * 4
	dst[o], dst[o+1], dst[o+2], dst[o+3] = q.V[0], q.V[1], q.V[2], q.W
}
