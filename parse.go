package jsondoc

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/cybergodev/jsondoc/internal"
	"github.com/valyala/fastjson"
)

// The tokenizer is fastjson; its token tree is replayed as Handler events.
var parserPool fastjson.ParserPool

// Parse parses JSON text into a Value
func Parse(text string) (Value, error) {
	b := NewValueBuilder()
	if err := ParseWithHandler(text, b); err != nil {
		return Value{}, err
	}
	return b.Result()
}

// ParseBytes parses JSON text into a Value
func ParseBytes(data []byte) (Value, error) {
	return Parse(string(data))
}

// ParseObject parses JSON text that must hold an object
func ParseObject(text string) (*Object, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return v.AsObject()
}

// ParseArray parses JSON text that must hold an array
func ParseArray(text string) (*Array, error) {
	v, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return v.AsArray()
}

// ParseWithHandler tokenizes text and reports its structure to h. Errors
// returned by h abort parsing and are returned unchanged.
func ParseWithHandler(text string, h Handler) error {
	p := parserPool.Get()
	defer parserPool.Put(p)

	tree, err := p.Parse(text)
	if err != nil {
		return NewParseError("malformed JSON text", err)
	}
	return replay(tree, h)
}

func replay(v *fastjson.Value, h Handler) error {
	switch v.Type() {
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return NewParseError("malformed object", err)
		}
		if err := h.StartObject(); err != nil {
			return err
		}
		var visitErr error
		obj.Visit(func(key []byte, child *fastjson.Value) {
			if visitErr != nil {
				return
			}
			if visitErr = h.MemberName(internal.GlobalKeyIntern.InternBytes(key)); visitErr != nil {
				return
			}
			visitErr = replay(child, h)
		})
		if visitErr != nil {
			return visitErr
		}
		return h.EndObject()

	case fastjson.TypeArray:
		elems, err := v.Array()
		if err != nil {
			return NewParseError("malformed array", err)
		}
		if err := h.StartArray(); err != nil {
			return err
		}
		for _, elem := range elems {
			if err := replay(elem, h); err != nil {
				return err
			}
		}
		return h.EndArray()

	case fastjson.TypeString:
		s, err := v.StringBytes()
		if err != nil {
			return NewParseError("malformed string", err)
		}
		return h.ScalarValue(String(string(s)))

	case fastjson.TypeNumber:
		n, err := ParseNumber(string(v.MarshalTo(nil)))
		if err != nil {
			return err
		}
		return h.ScalarValue(n)

	case fastjson.TypeTrue:
		return h.ScalarValue(Bool(true))
	case fastjson.TypeFalse:
		return h.ScalarValue(Bool(false))
	case fastjson.TypeNull:
		return h.ScalarValue(Null())
	}
	return NewParseError("unsupported token "+v.Type().String(), nil)
}

// ParseNumber converts a JSON number literal into the narrowest numeric
// variant: integral literals become Int or Long when they fit, everything
// else becomes Double. Non-finite results are rejected.
func ParseNumber(literal string) (Value, error) {
	if !strings.ContainsAny(literal, ".eE") {
		n, err := strconv.ParseInt(literal, 10, 64)
		if err == nil {
			return integer(n), nil
		}
		if !errors.Is(err, strconv.ErrRange) {
			return Value{}, NewParseError("invalid number '"+literal+"'", err)
		}
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return Value{}, NewParseError("invalid number '"+literal+"'", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, NewParseError("number '"+literal+"' is not finite", nil)
	}
	return Double(f), nil
}
