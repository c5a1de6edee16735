package jsondoc

import (
	"fmt"
	"iter"

	"github.com/cybergodev/jsondoc/internal"
)

// indexThreshold is the member count above which objects keep a key index
const indexThreshold = 8

// FieldMarker is an opaque tag attached to a field definition.
type FieldMarker string

// FieldDefinition describes an expected field: where it lives, the kind of
// value it holds and the markers used for selective serialization.
type FieldDefinition struct {
	Pointer Pointer
	Type    Kind
	Markers []FieldMarker
}

// NewFieldDefinition creates a definition for the field at pointer
func NewFieldDefinition(pointer Pointer, kind Kind, markers ...FieldMarker) *FieldDefinition {
	return &FieldDefinition{Pointer: pointer, Type: kind, Markers: append([]FieldMarker(nil), markers...)}
}

// HasMarker reports whether the definition carries m
func (d *FieldDefinition) HasMarker(m FieldMarker) bool {
	if d == nil {
		return false
	}
	for _, marker := range d.Markers {
		if marker == m {
			return true
		}
	}
	return false
}

// accepts reports whether v satisfies the definition's type. JSON null is
// accepted where an object or array is expected.
func (d *FieldDefinition) accepts(v Value) bool {
	switch d.Type {
	case KindInt:
		return v.IsInt()
	case KindLong:
		return v.IsLong()
	case KindDouble:
		return v.IsNumber()
	case KindObject, KindArray:
		return v.kind == d.Type || v.IsNull()
	}
	return v.kind == d.Type
}

// Field is a key/value member of an object. The optional definition does not
// take part in equality.
type Field struct {
	Key        Key
	Value      Value
	Definition *FieldDefinition
}

// NewField creates a field without a definition
func NewField(key Key, value Value) Field {
	return Field{Key: key, Value: value}
}

// Equal compares key and value only
func (f Field) Equal(other Field) bool {
	return f.Key == other.Key && f.Value.Equal(other.Value)
}

func (f Field) String() string {
	return string(internal.AppendQuoted(nil, string(f.Key))) + ":" + f.Value.String()
}

// Object is an immutable, insertion-ordered JSON object. Operations that
// "modify" an object return a new one sharing all untouched members.
type Object struct {
	fields []Field
	index  map[Key]int // nil below indexThreshold
	text   textCache
}

var emptyObject = &Object{}

// EmptyObject returns the shared empty object
func EmptyObject() *Object {
	return emptyObject
}

// newObject takes ownership of fields, which must have unique keys
func newObject(fields []Field) *Object {
	if len(fields) == 0 {
		return emptyObject
	}
	o := &Object{fields: fields}
	if len(fields) > indexThreshold {
		o.index = make(map[Key]int, len(fields))
		for i, f := range fields {
			o.index[f.Key] = i
		}
	}
	return o
}

func (o *Object) indexOf(key Key) int {
	if o.index != nil {
		if i, ok := o.index[key]; ok {
			return i
		}
		return -1
	}
	for i := range o.fields {
		if o.fields[i].Key == key {
			return i
		}
	}
	return -1
}

// AsValue wraps o as a Value
func (o *Object) AsValue() Value {
	return Value{kind: KindObject, obj: o}
}

// Len returns the number of members
func (o *Object) Len() int {
	return len(o.fields)
}

// IsEmpty reports whether o has no members
func (o *Object) IsEmpty() bool {
	return len(o.fields) == 0
}

// Keys returns the member keys in insertion order
func (o *Object) Keys() []Key {
	keys := make([]Key, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the members in insertion order
func (o *Object) Fields() []Field {
	return append([]Field(nil), o.fields...)
}

// All iterates over the members in insertion order
func (o *Object) All() iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		for _, f := range o.fields {
			if !yield(f.Key, f.Value) {
				return
			}
		}
	}
}

// Field returns the member stored under key
func (o *Object) Field(key Key) (Field, bool) {
	if i := o.indexOf(key); i >= 0 {
		return o.fields[i], true
	}
	return Field{}, false
}

// Get returns the value stored under key
func (o *Object) Get(key Key) (Value, bool) {
	if i := o.indexOf(key); i >= 0 {
		return o.fields[i].Value, true
	}
	return Value{}, false
}

// ContainsKey reports whether key is a member of o
func (o *Object) ContainsKey(key Key) bool {
	return o.indexOf(key) >= 0
}

// With returns an object with key set to value. An existing member keeps its
// position and definition; a new member is appended. If the member already
// holds the same value, o itself is returned.
func (o *Object) With(key Key, value Value) *Object {
	if key == "" {
		panic("jsondoc: object key must not be empty")
	}
	i := o.indexOf(key)
	if i >= 0 && same(o.fields[i].Value, value) {
		return o
	}
	return o.withField(i, Field{Key: key, Value: value, Definition: o.definitionAt(i)})
}

// WithField returns an object with f set, replacing any definition under the same key
func (o *Object) WithField(f Field) *Object {
	if f.Key == "" {
		panic("jsondoc: object key must not be empty")
	}
	return o.withField(o.indexOf(f.Key), f)
}

func (o *Object) definitionAt(i int) *FieldDefinition {
	if i < 0 {
		return nil
	}
	return o.fields[i].Definition
}

func (o *Object) withField(i int, f Field) *Object {
	if i >= 0 {
		fields := append([]Field(nil), o.fields...)
		fields[i] = f
		return newObject(fields)
	}
	fields := make([]Field, len(o.fields), len(o.fields)+1)
	copy(fields, o.fields)
	return newObject(append(fields, f))
}

// Without returns an object lacking key, or o itself if key is absent
func (o *Object) Without(key Key) *Object {
	i := o.indexOf(key)
	if i < 0 {
		return o
	}
	fields := make([]Field, 0, len(o.fields)-1)
	fields = append(fields, o.fields[:i]...)
	fields = append(fields, o.fields[i+1:]...)
	return newObject(fields)
}

// SetAt returns an object with value stored at pointer. Missing objects along
// the path are created and non-object values along the path are replaced by
// new objects. Every object from the root to the leaf is new; all other
// members are shared with o.
//
// The empty pointer replaces o as a whole and is only allowed for an object value.
func (o *Object) SetAt(pointer Pointer, value Value) (*Object, error) {
	switch len(pointer.levels) {
	case 0:
		if value.kind == KindObject {
			return value.obj, nil
		}
		return nil, fmt.Errorf("%w: cannot replace an object with a JSON %s at the empty pointer", ErrIllegalArgument, value.kind)
	case 1:
		return o.With(pointer.levels[0], value), nil
	}

	first := pointer.levels[0]
	child := emptyObject
	if existing, ok := o.Get(first); ok && existing.kind == KindObject {
		child = existing.obj
	}
	updated, err := child.SetAt(pointer.NextLevel(), value)
	if err != nil {
		return nil, err
	}
	return o.With(first, updated.AsValue()), nil
}

// RemoveAt returns an object without the value at pointer. If any level of the
// path is absent, o itself is returned.
func (o *Object) RemoveAt(pointer Pointer) *Object {
	switch len(pointer.levels) {
	case 0:
		return o
	case 1:
		return o.Without(pointer.levels[0])
	}

	first := pointer.levels[0]
	existing, ok := o.Get(first)
	if !ok || existing.kind != KindObject {
		return o
	}
	updated := existing.obj.RemoveAt(pointer.NextLevel())
	if updated == existing.obj {
		return o
	}
	return o.With(first, updated.AsValue())
}

// ValueAt walks pointer from o. The empty pointer yields o itself; a path that
// does not exist, including one running through a non-object, yields false.
func (o *Object) ValueAt(pointer Pointer) (Value, bool) {
	current := o
	for i, key := range pointer.levels {
		v, ok := current.Get(key)
		if !ok {
			return Value{}, false
		}
		if i == len(pointer.levels)-1 {
			return v, true
		}
		if v.kind != KindObject {
			return Value{}, false
		}
		current = v.obj
	}
	return o.AsValue(), true
}

// Contains reports whether the whole of pointer resolves to a value. The
// empty pointer names no member and is not contained.
func (o *Object) Contains(pointer Pointer) bool {
	if len(pointer.levels) == 0 {
		return false
	}
	_, ok := o.ValueAt(pointer)
	return ok
}

// Lookup returns the value for def. A missing field yields false; a present
// field of the wrong kind yields a TypeMismatchError.
func (o *Object) Lookup(def *FieldDefinition) (Value, bool, error) {
	v, ok := o.ValueAt(def.Pointer)
	if !ok || def.Pointer.IsEmpty() {
		return Value{}, false, nil
	}
	if !def.accepts(v) {
		return Value{}, true, newTypeMismatch(def.Type, v)
	}
	return v, true, nil
}

// Require returns the value for def, failing with a MissingFieldError when
// it is absent.
func (o *Object) Require(def *FieldDefinition) (Value, error) {
	v, ok, err := o.Lookup(def)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return Value{}, &MissingFieldError{Pointer: def.Pointer}
	}
	return v, nil
}

// FieldPredicate decides whether a field is kept by Filter.
type FieldPredicate func(Field) bool

// HasMarker keeps fields whose definition carries m
func HasMarker(m FieldMarker) FieldPredicate {
	return func(f Field) bool { return f.Definition.HasMarker(m) }
}

// NotMarker keeps fields whose definition does not carry m, including fields without a definition
func NotMarker(m FieldMarker) FieldPredicate {
	return func(f Field) bool { return !f.Definition.HasMarker(m) }
}

// AnyOf keeps fields accepted by at least one of preds
func AnyOf(preds ...FieldPredicate) FieldPredicate {
	return func(f Field) bool {
		for _, p := range preds {
			if p(f) {
				return true
			}
		}
		return false
	}
}

// Filter returns the members accepted by pred, applied recursively to nested objects.
func (o *Object) Filter(pred FieldPredicate) *Object {
	var fields []Field
	changed := false
	for _, f := range o.fields {
		if !pred(f) {
			changed = true
			continue
		}
		if f.Value.kind == KindObject {
			filtered := f.Value.obj.Filter(pred)
			if filtered != f.Value.obj {
				f.Value = filtered.AsValue()
				changed = true
			}
		}
		fields = append(fields, f)
	}
	if !changed {
		return o
	}
	return newObject(fields)
}

// Merge overlays the members of other onto o, one level deep. Members of
// other win; nested objects are replaced, not merged.
func (o *Object) Merge(other *Object) *Object {
	if other == nil || len(other.fields) == 0 {
		return o
	}
	if len(o.fields) == 0 {
		return other
	}
	b := o.ToBuilder()
	for _, f := range other.fields {
		if f.Definition == nil {
			b.Set(f.Key, f.Value)
			continue
		}
		b.SetField(f)
	}
	return b.Build()
}

// Pointers lists the pointer of every non-object value and every empty object
// under o, in member order.
func (o *Object) Pointers() []Pointer {
	var out []Pointer
	o.collectPointers(EmptyPointer(), &out)
	return out
}

func (o *Object) collectPointers(prefix Pointer, out *[]Pointer) {
	for _, f := range o.fields {
		p := prefix.AddLeaf(f.Key)
		if f.Value.kind == KindObject && len(f.Value.obj.fields) > 0 {
			f.Value.obj.collectPointers(p, out)
			continue
		}
		*out = append(*out, p)
	}
}

// Equal compares members by key and value, ignoring order and definitions
func (o *Object) Equal(other *Object) bool {
	if o == other {
		return true
	}
	if o == nil || other == nil || len(o.fields) != len(other.fields) {
		return false
	}
	for _, f := range o.fields {
		v, ok := other.Get(f.Key)
		if !ok || !f.Value.Equal(v) {
			return false
		}
	}
	return true
}

// String renders o as canonical JSON; the text is cached until reclaimed
func (o *Object) String() string {
	if len(o.fields) == 0 {
		return "{}"
	}
	return o.text.load(len(o.fields)*16, o.render)
}

func (o *Object) writeTo(w *internal.Writer) {
	if s, ok := o.text.peek(); ok {
		w.WriteRaw(s)
		return
	}
	o.render(w)
}

func (o *Object) render(w *internal.Writer) {
	w.WriteByte('{')
	for i, f := range o.fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteString(string(f.Key))
		w.WriteByte(':')
		f.Value.writeTo(w)
	}
	w.WriteByte('}')
}
