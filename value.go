package jsondoc

import (
	"math"

	"github.com/cybergodev/jsondoc/internal"
)

// Value is an immutable JSON value: null, boolean, one of three numeric
// widths, string, array or object. The zero Value is JSON null.
//
// Values are small and passed by value; arrays and objects are referenced,
// so copies share the same underlying tree.
type Value struct {
	kind Kind
	bits uint64 // bool, int32, int64 or float64 bits depending on kind
	str  string
	arr  *Array
	obj  *Object
}

// Null returns the JSON null value
func Null() Value {
	return Value{}
}

// Bool returns a JSON boolean
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

// Int returns a 32-bit JSON integer
func Int(i int32) Value {
	return Value{kind: KindInt, bits: uint64(int64(i))}
}

// Long returns a 64-bit JSON integer
func Long(l int64) Value {
	return Value{kind: KindLong, bits: uint64(l)}
}

// Double returns a JSON floating point number. NaN and infinities have no
// JSON text form and render as null.
func Double(d float64) Value {
	return Value{kind: KindDouble, bits: math.Float64bits(d)}
}

// String returns a JSON string
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// integer returns the smallest integer variant holding n
func integer(n int64) Value {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return Int(int32(n))
	}
	return Long(n)
}

// Kind returns the variant of v
func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsBool() bool   { return v.kind == KindBool }
func (v Value) IsNumber() bool { return v.kind.IsNumber() }
func (v Value) IsString() bool { return v.kind == KindString }
func (v Value) IsArray() bool  { return v.kind == KindArray }
func (v Value) IsObject() bool { return v.kind == KindObject }

// IsInt reports whether v is a number with an integral value that fits 32 bits
func (v Value) IsInt() bool {
	n, ok := v.integral()
	return ok && n >= math.MinInt32 && n <= math.MaxInt32
}

// IsLong reports whether v is a number with an integral value that fits 64 bits
func (v Value) IsLong() bool {
	_, ok := v.integral()
	return ok
}

// IsDouble reports whether v is a number; every number has a double representation
func (v Value) IsDouble() bool {
	return v.kind.IsNumber()
}

// AsBool returns the boolean held by v
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, newTypeMismatch(KindBool, v)
	}
	return v.bits == 1, nil
}

// AsInt returns the number held by v as int32 when it is integral and in range
func (v Value) AsInt() (int32, error) {
	if !v.IsInt() {
		return 0, newTypeMismatch(KindInt, v)
	}
	n, _ := v.integral()
	return int32(n), nil
}

// AsLong returns the number held by v as int64 when it is integral and in range
func (v Value) AsLong() (int64, error) {
	n, ok := v.integral()
	if !ok {
		return 0, newTypeMismatch(KindLong, v)
	}
	return n, nil
}

// AsDouble returns any number held by v as float64
func (v Value) AsDouble() (float64, error) {
	if !v.kind.IsNumber() {
		return 0, newTypeMismatch(KindDouble, v)
	}
	return v.float(), nil
}

// AsString returns the text held by v
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", newTypeMismatch(KindString, v)
	}
	return v.str, nil
}

// AsArray returns the array held by v
func (v Value) AsArray() (*Array, error) {
	if v.kind != KindArray {
		return nil, newTypeMismatch(KindArray, v)
	}
	return v.arr, nil
}

// AsObject returns the object held by v
func (v Value) AsObject() (*Object, error) {
	if v.kind != KindObject {
		return nil, newTypeMismatch(KindObject, v)
	}
	return v.obj, nil
}

// integral returns the integer value of a number if it has one
func (v Value) integral() (int64, bool) {
	switch v.kind {
	case KindInt, KindLong:
		return int64(v.bits), true
	case KindDouble:
		return floatToInt(math.Float64frombits(v.bits))
	}
	return 0, false
}

func (v Value) float() float64 {
	switch v.kind {
	case KindInt, KindLong:
		return float64(int64(v.bits))
	case KindDouble:
		return math.Float64frombits(v.bits)
	}
	return 0
}

// floatToInt converts f when it is a whole number inside the int64 range
func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// Equal reports structural equality. Numbers compare by numeric value
// regardless of width and any two NaNs are equal. Object members compare
// regardless of order and array elements compare positionally.
func (v Value) Equal(other Value) bool {
	if v.kind.IsNumber() && other.kind.IsNumber() {
		return numbersEqual(v, other)
	}
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.bits == other.bits
	case KindString:
		return v.str == other.str
	case KindArray:
		return v.arr.Equal(other.arr)
	case KindObject:
		return v.obj.Equal(other.obj)
	}
	return false
}

func numbersEqual(a, b Value) bool {
	if a.kind != KindDouble && b.kind != KindDouble {
		return int64(a.bits) == int64(b.bits)
	}
	if a.kind == KindDouble && b.kind == KindDouble {
		af, bf := a.float(), b.float()
		// NaN equals NaN so Equal stays reflexive
		return af == bf || (math.IsNaN(af) && math.IsNaN(bf))
	}
	// one integer, one double: equal only if the double is that exact integer
	ai, aok := a.integral()
	bi, bok := b.integral()
	return aok && bok && ai == bi
}

// same reports whether a and b can be treated as the identical value without
// a deep comparison: equal scalars or the very same container.
func same(a, b Value) bool {
	switch {
	case a.kind == KindObject && b.kind == KindObject:
		return a.obj == b.obj
	case a.kind == KindArray && b.kind == KindArray:
		return a.arr == b.arr
	case a.kind == KindObject || a.kind == KindArray || b.kind == KindObject || b.kind == KindArray:
		return false
	}
	return a.kind == b.kind && a.Equal(b)
}

// String renders v as canonical JSON text
func (v Value) String() string {
	switch v.kind {
	case KindArray:
		return v.arr.String()
	case KindObject:
		return v.obj.String()
	}
	w := internal.GetWriter(0)
	v.writeTo(w)
	s := w.String()
	internal.PutWriter(w)
	return s
}

func (v Value) writeTo(w *internal.Writer) {
	switch v.kind {
	case KindNull:
		w.WriteNull()
	case KindBool:
		w.WriteBool(v.bits == 1)
	case KindInt, KindLong:
		w.WriteInt(int64(v.bits))
	case KindDouble:
		w.WriteFloat(math.Float64frombits(v.bits))
	case KindString:
		w.WriteString(v.str)
	case KindArray:
		v.arr.writeTo(w)
	case KindObject:
		v.obj.writeTo(w)
	}
}

// Depth returns the nesting depth of v: 0 for scalars, 1 for a flat container.
func (v Value) Depth() int {
	switch v.kind {
	case KindArray:
		deepest := 0
		for _, e := range v.arr.values {
			if d := e.Depth(); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	case KindObject:
		deepest := 0
		for _, f := range v.obj.fields {
			if d := f.Value.Depth(); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	}
	return 0
}
