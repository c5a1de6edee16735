package jsondoc

// Handler receives the structural events of a JSON document from a
// tokenizer. Begin and end events arrive correctly paired; MemberName
// precedes the value of each object member.
type Handler interface {
	StartObject() error
	MemberName(name string) error
	ScalarValue(v Value) error
	EndObject() error
	StartArray() error
	EndArray() error
}

// ValueBuilder is a Handler assembling the events into a Value.
type ValueBuilder struct {
	stack  []frame
	result Value
	done   bool
}

type frame struct {
	object *ObjectBuilder
	array  *ArrayBuilder
	key    Key
	keyed  bool
}

// NewValueBuilder returns a handler ready for one document
func NewValueBuilder() *ValueBuilder {
	return &ValueBuilder{}
}

func (b *ValueBuilder) StartObject() error {
	if err := b.expectValue(); err != nil {
		return err
	}
	b.stack = append(b.stack, frame{object: NewObjectBuilder()})
	return nil
}

func (b *ValueBuilder) StartArray() error {
	if err := b.expectValue(); err != nil {
		return err
	}
	b.stack = append(b.stack, frame{array: NewArrayBuilder()})
	return nil
}

func (b *ValueBuilder) MemberName(name string) error {
	top := b.top()
	if top == nil || top.object == nil {
		return NewParseError("member name outside of an object", nil)
	}
	if top.keyed {
		return NewParseError("member name '"+name+"' follows a member name", nil)
	}
	if name == "" {
		return NewParseError("object keys must not be empty", nil)
	}
	top.key, top.keyed = Key(name), true
	return nil
}

func (b *ValueBuilder) ScalarValue(v Value) error {
	if err := b.expectValue(); err != nil {
		return err
	}
	return b.emit(v)
}

func (b *ValueBuilder) EndObject() error {
	top := b.top()
	if top == nil || top.object == nil {
		return NewParseError("unexpected end of object", nil)
	}
	if top.keyed {
		return NewParseError("member '"+string(top.key)+"' has no value", nil)
	}
	v := top.object.Build().AsValue()
	b.stack = b.stack[:len(b.stack)-1]
	return b.emit(v)
}

func (b *ValueBuilder) EndArray() error {
	top := b.top()
	if top == nil || top.array == nil {
		return NewParseError("unexpected end of array", nil)
	}
	v := top.array.Build().AsValue()
	b.stack = b.stack[:len(b.stack)-1]
	return b.emit(v)
}

// Result returns the assembled value once the document is complete
func (b *ValueBuilder) Result() (Value, error) {
	if !b.done || len(b.stack) > 0 {
		return Value{}, NewParseError("incomplete JSON document", nil)
	}
	return b.result, nil
}

func (b *ValueBuilder) top() *frame {
	if len(b.stack) == 0 {
		return nil
	}
	return &b.stack[len(b.stack)-1]
}

func (b *ValueBuilder) expectValue() error {
	top := b.top()
	switch {
	case top == nil && b.done:
		return NewParseError("more than one top-level value", nil)
	case top != nil && top.object != nil && !top.keyed:
		return NewParseError("object member without a name", nil)
	}
	return nil
}

// emit attaches a completed value to its parent, or finishes the document
func (b *ValueBuilder) emit(v Value) error {
	top := b.top()
	switch {
	case top == nil:
		b.result, b.done = v, true
	case top.object != nil:
		top.object.Set(top.key, v)
		top.key, top.keyed = "", false
	default:
		top.array.Add(v)
	}
	return nil
}
