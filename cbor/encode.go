// Package cbor encodes JSON values in a compact binary form following the
// Concise Binary Object Representation (RFC 8949) data model.
//
// Encoding always produces definite-length items. Integers use the shortest
// head that holds them and doubles are written as 64-bit IEEE 754 floats.
// Decoding additionally accepts indefinite-length text, arrays and maps,
// half and single precision floats, and tags, which are skipped.
//
// Decoding never panics: malformed, truncated or hostile input always
// yields a *jsondoc.ParseError.
package cbor

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/cybergodev/jsondoc"
)

// Major types
const (
	majorUnsigned byte = 0
	majorNegative byte = 1
	majorBytes    byte = 2
	majorText     byte = 3
	majorArray    byte = 4
	majorMap      byte = 5
	majorTag      byte = 6
	majorSimple   byte = 7
)

// Additional information values
const (
	infoUint8      byte = 24
	infoUint16     byte = 25
	infoUint32     byte = 26
	infoUint64     byte = 27
	infoIndefinite byte = 31
)

// Simple values and markers
const (
	simpleFalse     byte = 20
	simpleTrue      byte = 21
	simpleNull      byte = 22
	simpleUndefined byte = 23

	breakMarker byte = 0xff
)

// Encode returns the binary encoding of v
func Encode(v jsondoc.Value) []byte {
	return Append(nil, v)
}

// Append appends the binary encoding of v to dst
func Append(dst []byte, v jsondoc.Value) []byte {
	switch v.Kind() {
	case jsondoc.KindBool:
		b, _ := v.AsBool()
		if b {
			return append(dst, majorSimple<<5|simpleTrue)
		}
		return append(dst, majorSimple<<5|simpleFalse)

	case jsondoc.KindInt, jsondoc.KindLong:
		n, _ := v.AsLong()
		if n < 0 {
			return appendHead(dst, majorNegative, uint64(-1-n))
		}
		return appendHead(dst, majorUnsigned, uint64(n))

	case jsondoc.KindDouble:
		f, _ := v.AsDouble()
		dst = append(dst, majorSimple<<5|infoUint64)
		return binary.BigEndian.AppendUint64(dst, math.Float64bits(f))

	case jsondoc.KindString:
		s, _ := v.AsString()
		dst = appendHead(dst, majorText, uint64(len(s)))
		return append(dst, s...)

	case jsondoc.KindArray:
		a, _ := v.AsArray()
		dst = appendHead(dst, majorArray, uint64(a.Len()))
		for _, elem := range a.All() {
			dst = Append(dst, elem)
		}
		return dst

	case jsondoc.KindObject:
		o, _ := v.AsObject()
		dst = appendHead(dst, majorMap, uint64(o.Len()))
		for key, member := range o.All() {
			dst = appendHead(dst, majorText, uint64(len(key)))
			dst = append(dst, string(key)...)
			dst = Append(dst, member)
		}
		return dst
	}
	return append(dst, majorSimple<<5|simpleNull)
}

// appendHead writes the initial byte and argument of an item in the
// shortest form that holds n
func appendHead(dst []byte, major byte, n uint64) []byte {
	switch {
	case n < uint64(infoUint8):
		return append(dst, major<<5|byte(n))
	case n <= math.MaxUint8:
		return append(dst, major<<5|infoUint8, byte(n))
	case n <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(dst, major<<5|infoUint16), uint16(n))
	case n <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(dst, major<<5|infoUint32), uint32(n))
	}
	return binary.BigEndian.AppendUint64(append(dst, major<<5|infoUint64), n)
}

// Encoder writes encoded values to an output stream.
type Encoder struct {
	w   io.Writer
	buf []byte
}

// NewEncoder returns an encoder writing to w
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the encoding of v
func (e *Encoder) Encode(v jsondoc.Value) error {
	e.buf = Append(e.buf[:0], v)
	_, err := e.w.Write(e.buf)
	return err
}
