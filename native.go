package jsondoc

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// FromNative converts Go values of the shapes produced by encoding/json (and
// common integer widths) into a Value. Maps are converted with sorted keys.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Object:
		return t.AsValue(), nil
	case *Array:
		return t.AsValue(), nil
	case bool:
		return Bool(t), nil
	case int:
		return integer(int64(t)), nil
	case int8:
		return Int(int32(t)), nil
	case int16:
		return Int(int32(t)), nil
	case int32:
		return Int(t), nil
	case int64:
		return integer(t), nil
	case uint:
		return fromUint(uint64(t)), nil
	case uint8:
		return Int(int32(t)), nil
	case uint16:
		return Int(int32(t)), nil
	case uint32:
		return integer(int64(t)), nil
	case uint64:
		return fromUint(t), nil
	case float32:
		return Double(float64(t)), nil
	case float64:
		return Double(t), nil
	case json.Number:
		return ParseNumber(t.String())
	case string:
		return String(t), nil
	case []Value:
		return ArrayOf(t...), nil
	case []any:
		b := NewArrayBuilder()
		for i, e := range t {
			v, err := FromNative(e)
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			b.Add(v)
		}
		return b.Build().AsValue(), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b := NewObjectBuilder()
		for _, k := range keys {
			if k == "" {
				return Value{}, fmt.Errorf("%w: object keys must not be empty", ErrIllegalArgument)
			}
			v, err := FromNative(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("member %q: %w", k, err)
			}
			b.Set(Key(k), v)
		}
		return b.Build().AsValue(), nil
	}
	return Value{}, fmt.Errorf("%w: cannot convert %T to a JSON value", ErrIllegalArgument, x)
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return Double(float64(u))
	}
	return integer(int64(u))
}

// Native converts v into plain Go values: nil, bool, int32, int64, float64,
// string, []any and map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.bits == 1
	case KindInt:
		return int32(int64(v.bits))
	case KindLong:
		return int64(v.bits)
	case KindDouble:
		return math.Float64frombits(v.bits)
	case KindString:
		return v.str
	case KindArray:
		out := make([]any, len(v.arr.values))
		for i, e := range v.arr.values {
			out[i] = e.Native()
		}
		return out
	case KindObject:
		out := make(map[string]any, len(v.obj.fields))
		for _, f := range v.obj.fields {
			out[string(f.Key)] = f.Value.Native()
		}
		return out
	}
	return nil
}

// MarshalJSON implements json.Marshaler with the canonical rendering
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseBytes(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (o *Object) MarshalJSON() ([]byte, error) {
	return []byte(o.String()), nil
}

func (a *Array) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}
