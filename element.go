package soaecs

import (
	"reflect"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
)

// ArrayKind names the typed-array flavor a field's elements map to when the store is handed to a
// layer that speaks in raw buffers, such as a GPU upload path.
type ArrayKind uint8

const (
	KindInvalid ArrayKind = iota
	KindInt8
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindFloat32
	KindFloat64
)

var arrayKindNames = [...]string{
	KindInvalid: "Invalid",
	KindInt8:    "Int8Array",
	KindUint8:   "Uint8Array",
	KindInt16:   "Int16Array",
	KindUint16:  "Uint16Array",
	KindInt32:   "Int32Array",
	KindUint32:  "Uint32Array",
	KindFloat32: "Float32Array",
	KindFloat64: "Float64Array",
}

func (k ArrayKind) String() string {
	if int(k) < len(arrayKindNames) {
		return arrayKindNames[k]
	}
	return arrayKindNames[KindInvalid]
}

// Number is the set of element types a ColumnStore field can hold.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~float32 | ~float64
}

// ElementType describes one scalar of a field.
type ElementType struct {
	Name     string
	ByteSize int
	Signed   bool
	Kind     ArrayKind

	goType reflect.Type // keys columnFactories; nil for the zero ElementType
}

// columnFactories maps each Go element type seen by ElementOf to a constructor for its typed run.
// Keeping the constructor out of ElementType leaves it comparable.
var columnFactories sync.Map // reflect.Type -> func(elements int) column

// newColumn builds an empty run for et, or returns false when et did not come from ElementOf.
func (et ElementType) newColumn(elements int) (column, bool) {
	if et.goType == nil {
		return nil, false
	}
	f, ok := columnFactories.Load(et.goType)
	if !ok {
		return nil, false
	}
	return f.(func(int) column)(elements), true
}

var (
	Int8    = ElementOf[int8]()
	Uint8   = ElementOf[uint8]()
	Int16   = ElementOf[int16]()
	Uint16  = ElementOf[uint16]()
	Int32   = ElementOf[int32]()
	Uint32  = ElementOf[uint32]()
	Float32 = ElementOf[float32]()
	Float64 = ElementOf[float64]()
)

var elementTypesByName = map[string]ElementType{
	"int8":    Int8,
	"uint8":   Uint8,
	"int16":   Int16,
	"uint16":  Uint16,
	"int32":   Int32,
	"uint32":  Uint32,
	"float32": Float32,
	"float64": Float64,
}

// ElementOf returns the ElementType for T. Named types keep their own identity: a field declared
// with ElementOf[Meters]() must be viewed with View[Meters].
func ElementOf[T Number]() ElementType {
	t := reflect.TypeFor[T]()
	columnFactories.LoadOrStore(t, func(elements int) column {
		return &typedColumn[T]{data: make([]T, elements)}
	})
	et := ElementType{
		Name:     t.String(),
		ByteSize: int(t.Size()),
		goType:   t,
	}
	switch t.Kind() {
	case reflect.Int8:
		et.Kind, et.Signed = KindInt8, true
	case reflect.Uint8:
		et.Kind = KindUint8
	case reflect.Int16:
		et.Kind, et.Signed = KindInt16, true
	case reflect.Uint16:
		et.Kind = KindUint16
	case reflect.Int32:
		et.Kind, et.Signed = KindInt32, true
	case reflect.Uint32:
		et.Kind = KindUint32
	case reflect.Float32:
		et.Kind, et.Signed = KindFloat32, true
	case reflect.Float64:
		et.Kind, et.Signed = KindFloat64, true
	default:
		panic("unreachable")
	}
	return et
}

// ParseElementType looks up one of the predefined element types by its Go name, e.g. "float32".
func ParseElementType(name string) (ElementType, error) {
	et, ok := elementTypesByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return ElementType{}, eris.Errorf("unknown element type %q", name)
	}
	return et, nil
}

// FieldSpec declares one field of a ColumnStore: Count elements of Type per row.
type FieldSpec struct {
	Type  ElementType
	Count int
}

// F is shorthand for a FieldSpec.
func F(t ElementType, count int) FieldSpec {
	return FieldSpec{Type: t, Count: count}
}

// Field is the layout metadata of a declared field.
type Field struct {
	Type  ElementType
	Count int
	// ByteOffset is the field's offset inside one row-major row. It is fixed for the lifetime of
	// the store.
	ByteOffset int
}

// ByteSize is the number of bytes the field takes in one row.
func (f Field) ByteSize() int {
	return f.Type.ByteSize * f.Count
}

// BaseOffset is where the field's run starts inside a single packed buffer holding capacity rows.
func (f Field) BaseOffset(capacity int) int {
	return f.ByteOffset * capacity
}
