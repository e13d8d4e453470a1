package soaecs

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// transformRecord is the debug dump of one row.
type transformRecord struct {
	Instance    Instance   `json:"instance"`
	Parent      Instance   `json:"parent"`
	Position    mgl32.Vec3 `json:"position"`
	Rotation    [4]float32 `json:"rotation"`
	Scale       mgl32.Vec3 `json:"scale"`
	LocalMatrix mgl32.Mat4 `json:"localMatrix"`
}

type transformDump struct {
	Capacity  int               `json:"capacity"`
	Rows      int               `json:"rows"`
	RowStride int               `json:"rowStride"`
	Records   []transformRecord `json:"records"`
}

func (t *TransformComponent) record(i Instance) transformRecord {
	q := t.Rotation(i)
	return transformRecord{
		Instance:    i,
		Parent:      t.Parent(i),
		Position:    t.Position(i),
		Rotation:    [4]float32{q.V[0], q.V[1], q.V[2], q.W},
		Scale:       t.Scale(i),
		LocalMatrix: t.LocalMatrix(i),
	}
}

// MarshalJSON dumps the root and every assigned row. Rotations are written as x, y, z, w.
func (t *TransformComponent) MarshalJSON() ([]byte, error) {
	dump := transformDump{
		Capacity:  t.store.Cap(),
		Rows:      t.store.Len(),
		RowStride: t.store.RowStride(),
		Records:   make([]transformRecord, 0, t.Count()+1),
	}
	dump.Records = append(dump.Records, t.record(RootInstance))
	t.Each(func(i Instance) {
		dump.Records = append(dump.Records, t.record(i))
	})

	data, err := json.Marshal(dump)
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal transform rows")
	}
	return data, nil
}
