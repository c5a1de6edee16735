package jsondoc

// ObjectBuilder accumulates members for a new Object. It is a single-owner
// mutable value and must not be shared between goroutines.
type ObjectBuilder struct {
	fields []Field
	index  map[Key]int
}

// NewObjectBuilder returns an empty builder
func NewObjectBuilder() *ObjectBuilder {
	return &ObjectBuilder{index: make(map[Key]int)}
}

// ToBuilder returns a builder pre-filled with the members of o
func (o *Object) ToBuilder() *ObjectBuilder {
	b := &ObjectBuilder{
		fields: append(make([]Field, 0, len(o.fields)+4), o.fields...),
		index:  make(map[Key]int, len(o.fields)),
	}
	for i, f := range o.fields {
		b.index[f.Key] = i
	}
	return b
}

// Set stores value under key, keeping the position and definition of an
// existing member. It panics on an empty key.
func (b *ObjectBuilder) Set(key Key, value Value) *ObjectBuilder {
	if i, ok := b.index[key]; ok {
		b.fields[i].Value = value
		return b
	}
	return b.SetField(Field{Key: key, Value: value})
}

// SetField stores f, replacing any member with the same key
func (b *ObjectBuilder) SetField(f Field) *ObjectBuilder {
	if f.Key == "" {
		panic("jsondoc: object key must not be empty")
	}
	if i, ok := b.index[f.Key]; ok {
		b.fields[i] = f
		return b
	}
	if b.index == nil {
		b.index = make(map[Key]int)
	}
	b.index[f.Key] = len(b.fields)
	b.fields = append(b.fields, f)
	return b
}

// SetAll stores every member of o
func (b *ObjectBuilder) SetAll(o *Object) *ObjectBuilder {
	for _, f := range o.fields {
		b.SetField(f)
	}
	return b
}

// Remove deletes key if present
func (b *ObjectBuilder) Remove(key Key) *ObjectBuilder {
	i, ok := b.index[key]
	if !ok {
		return b
	}
	delete(b.index, key)
	b.fields = append(b.fields[:i], b.fields[i+1:]...)
	for j := i; j < len(b.fields); j++ {
		b.index[b.fields[j].Key] = j
	}
	return b
}

// Len returns the number of members accumulated so far
func (b *ObjectBuilder) Len() int {
	return len(b.fields)
}

// Build returns an immutable object; the builder may be reused afterwards
func (b *ObjectBuilder) Build() *Object {
	return newObject(append([]Field(nil), b.fields...))
}

// ArrayBuilder accumulates elements for a new Array. It is a single-owner
// mutable value and must not be shared between goroutines.
type ArrayBuilder struct {
	values []Value
}

// NewArrayBuilder returns an empty builder
func NewArrayBuilder() *ArrayBuilder {
	return &ArrayBuilder{}
}

// ToBuilder returns a builder pre-filled with the elements of a
func (a *Array) ToBuilder() *ArrayBuilder {
	return &ArrayBuilder{values: append([]Value(nil), a.values...)}
}

// Add appends values
func (b *ArrayBuilder) Add(values ...Value) *ArrayBuilder {
	b.values = append(b.values, values...)
	return b
}

// Set replaces the element at index i; out of range indexes are ignored
func (b *ArrayBuilder) Set(i int, value Value) *ArrayBuilder {
	if i >= 0 && i < len(b.values) {
		b.values[i] = value
	}
	return b
}

// Remove deletes the element at index i; out of range indexes are ignored
func (b *ArrayBuilder) Remove(i int) *ArrayBuilder {
	if i >= 0 && i < len(b.values) {
		b.values = append(b.values[:i], b.values[i+1:]...)
	}
	return b
}

// Len returns the number of elements accumulated so far
func (b *ArrayBuilder) Len() int {
	return len(b.values)
}

// Build returns an immutable array; the builder may be reused afterwards
func (b *ArrayBuilder) Build() *Array {
	return NewArray(b.values...)
}
