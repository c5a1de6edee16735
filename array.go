package jsondoc

import (
	"iter"

	"github.com/cybergodev/jsondoc/internal"
)

// Array is an immutable ordered sequence of values.
type Array struct {
	values []Value
	text   textCache
}

var emptyArray = &Array{}

// EmptyArray returns the shared empty array
func EmptyArray() *Array {
	return emptyArray
}

// NewArray creates an array holding a copy of values
func NewArray(values ...Value) *Array {
	if len(values) == 0 {
		return emptyArray
	}
	return &Array{values: append([]Value(nil), values...)}
}

// ArrayOf is a shorthand for NewArray(values...).AsValue()
func ArrayOf(values ...Value) Value {
	return NewArray(values...).AsValue()
}

// AsValue wraps a as a Value
func (a *Array) AsValue() Value {
	return Value{kind: KindArray, arr: a}
}

// Len returns the number of elements
func (a *Array) Len() int {
	return len(a.values)
}

// IsEmpty reports whether a has no elements
func (a *Array) IsEmpty() bool {
	return len(a.values) == 0
}

// At returns the element at index i
func (a *Array) At(i int) (Value, bool) {
	if i < 0 || i >= len(a.values) {
		return Value{}, false
	}
	return a.values[i], true
}

// Values returns a copy of the elements
func (a *Array) Values() []Value {
	return append([]Value(nil), a.values...)
}

// All iterates over index/element pairs
func (a *Array) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range a.values {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Add returns a new array with values appended
func (a *Array) Add(values ...Value) *Array {
	if len(values) == 0 {
		return a
	}
	out := make([]Value, 0, len(a.values)+len(values))
	out = append(out, a.values...)
	return &Array{values: append(out, values...)}
}

// IndexOf returns the position of the first element equal to v, or -1
func (a *Array) IndexOf(v Value) int {
	for i, e := range a.values {
		if e.Equal(v) {
			return i
		}
	}
	return -1
}

// Contains reports whether some element equals v
func (a *Array) Contains(v Value) bool {
	return a.IndexOf(v) >= 0
}

// Equal compares element-wise in order
func (a *Array) Equal(other *Array) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil || len(a.values) != len(other.values) {
		return false
	}
	for i, v := range a.values {
		if !v.Equal(other.values[i]) {
			return false
		}
	}
	return true
}

// String renders a as canonical JSON; the text is cached until reclaimed
func (a *Array) String() string {
	if len(a.values) == 0 {
		return "[]"
	}
	return a.text.load(len(a.values)*8, a.render)
}

func (a *Array) writeTo(w *internal.Writer) {
	if s, ok := a.text.peek(); ok {
		w.WriteRaw(s)
		return
	}
	a.render(w)
}

func (a *Array) render(w *internal.Writer) {
	w.WriteByte('[')
	for i, v := range a.values {
		if i > 0 {
			w.WriteByte(',')
		}
		v.writeTo(w)
	}
	w.WriteByte(']')
}
