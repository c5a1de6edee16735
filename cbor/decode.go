package cbor

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/cybergodev/jsondoc"
	"github.com/x448/float16"
)

// DefaultMaxDepth bounds container and tag nesting while decoding
const DefaultMaxDepth = 512

// Option configures decoding.
type Option func(*options)

type options struct {
	maxDepth   int
	strictUTF8 bool
}

// WithMaxDepth sets the nesting limit; values below 1 keep the default
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithStrictUTF8 rejects text strings and keys that are not valid UTF-8.
// By default text bytes are taken as they are, matching what Encode writes.
func WithStrictUTF8() Option {
	return func(o *options) {
		o.strictUTF8 = true
	}
}

func newOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Decode decodes a single item that must span all of data
func Decode(data []byte, opts ...Option) (jsondoc.Value, error) {
	return decodeAll(&sliceSource{data: data}, newOptions(opts))
}

// DecodeRange decodes a single item spanning data[offset:offset+length].
// Bytes outside the range are never read.
func DecodeRange(data []byte, offset, length int, opts ...Option) (jsondoc.Value, error) {
	if offset < 0 || length < 0 || offset > len(data) || length > len(data)-offset {
		return jsondoc.Value{}, fmt.Errorf("%w: range [%d, %d+%d) is outside a buffer of %d bytes",
			jsondoc.ErrIllegalArgument, offset, offset, length, len(data))
	}
	return decodeAll(&sliceSource{data: data[offset : offset+length : offset+length]}, newOptions(opts))
}

// DecodeReaderAt decodes a single item spanning size bytes of r starting at
// off, using positional reads only
func DecodeReaderAt(r io.ReaderAt, off, size int64, opts ...Option) (jsondoc.Value, error) {
	if off < 0 || size < 0 {
		return jsondoc.Value{}, fmt.Errorf("%w: negative offset or size", jsondoc.ErrIllegalArgument)
	}
	return decodeAll(newReaderAtSource(r, off, size), newOptions(opts))
}

func decodeAll(src source, o options) (jsondoc.Value, error) {
	if src.remaining() == 0 {
		return jsondoc.Value{}, &jsondoc.ParseError{Description: "empty input", Offset: 0}
	}
	d := decoder{src: src, opts: o}
	v, err := d.value(0)
	if err != nil {
		return jsondoc.Value{}, err
	}
	if n := src.remaining(); n > 0 {
		return jsondoc.Value{}, d.fail(fmt.Sprintf("%d trailing bytes after item", n), nil)
	}
	return v, nil
}

// Decoder reads a sequence of encoded values from a stream.
type Decoder struct {
	r    *bufio.Reader
	opts options
}

// NewDecoder returns a decoder reading from r
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Decoder{r: br, opts: newOptions(opts)}
}

// Decode reads the next value. It returns io.EOF when the stream ends
// cleanly between values.
func (dec *Decoder) Decode() (jsondoc.Value, error) {
	if _, err := dec.r.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return jsondoc.Value{}, io.EOF
		}
		return jsondoc.Value{}, &jsondoc.ParseError{Description: "read failed", Offset: -1, Err: err}
	}
	d := decoder{src: &streamSource{r: dec.r}, opts: dec.opts}
	return d.value(0)
}

type decoder struct {
	src  source
	opts options
}

func (d *decoder) fail(description string, cause error) error {
	return &jsondoc.ParseError{Description: description, Offset: d.src.offset(), Err: cause}
}

func (d *decoder) readFailure(err error) error {
	if errors.Is(err, errTruncated) {
		return d.fail("unexpected end of input", io.ErrUnexpectedEOF)
	}
	return d.fail("read failed", err)
}

// head reads an initial byte and its argument. indefinite is set for
// additional information 31, in which case the argument is zero.
func (d *decoder) head() (major, info byte, arg uint64, indefinite bool, err error) {
	b, err := d.src.readByte()
	if err != nil {
		return 0, 0, 0, false, d.readFailure(err)
	}
	major, info = b>>5, b&0x1f
	switch {
	case info < infoUint8:
		return major, info, uint64(info), false, nil
	case info == infoIndefinite:
		return major, info, 0, true, nil
	case info > infoUint64:
		return 0, 0, 0, false, d.fail(fmt.Sprintf("reserved additional information %d", info), nil)
	}

	size := uint64(1) << (info - infoUint8)
	raw, err := d.src.readN(size)
	if err != nil {
		return 0, 0, 0, false, d.readFailure(err)
	}
	switch size {
	case 1:
		arg = uint64(raw[0])
	case 2:
		arg = uint64(binary.BigEndian.Uint16(raw))
	case 4:
		arg = uint64(binary.BigEndian.Uint32(raw))
	default:
		arg = binary.BigEndian.Uint64(raw)
	}
	return major, info, arg, false, nil
}

func (d *decoder) value(depth int) (jsondoc.Value, error) {
	major, info, arg, indefinite, err := d.head()
	if err != nil {
		return jsondoc.Value{}, err
	}
	return d.item(major, info, arg, indefinite, depth)
}

func (d *decoder) item(major, info byte, arg uint64, indefinite bool, depth int) (jsondoc.Value, error) {
	if indefinite && (major == majorUnsigned || major == majorNegative || major == majorTag) {
		return jsondoc.Value{}, d.fail(fmt.Sprintf("indefinite length is not allowed for major type %d", major), nil)
	}

	switch major {
	case majorUnsigned:
		if arg > math.MaxInt64 {
			return jsondoc.Double(float64(arg)), nil
		}
		return integerValue(int64(arg)), nil

	case majorNegative:
		if arg > math.MaxInt64 {
			return jsondoc.Double(-1 - float64(arg)), nil
		}
		return integerValue(-1 - int64(arg)), nil

	case majorBytes:
		return jsondoc.Value{}, d.fail("byte strings have no JSON representation", nil)

	case majorText:
		s, err := d.text(arg, indefinite)
		if err != nil {
			return jsondoc.Value{}, err
		}
		return jsondoc.String(s), nil

	case majorArray:
		if depth >= d.opts.maxDepth {
			return jsondoc.Value{}, d.fail("nesting too deep", jsondoc.ErrDepthLimit)
		}
		return d.array(arg, indefinite, depth+1)

	case majorMap:
		if depth >= d.opts.maxDepth {
			return jsondoc.Value{}, d.fail("nesting too deep", jsondoc.ErrDepthLimit)
		}
		return d.object(arg, indefinite, depth+1)

	case majorTag:
		if depth >= d.opts.maxDepth {
			return jsondoc.Value{}, d.fail("nesting too deep", jsondoc.ErrDepthLimit)
		}
		return d.value(depth + 1)
	}
	return d.simple(info, arg, indefinite)
}

func (d *decoder) simple(info byte, arg uint64, indefinite bool) (jsondoc.Value, error) {
	switch {
	case indefinite:
		return jsondoc.Value{}, d.fail("unexpected break", nil)
	case info == simpleFalse:
		return jsondoc.Bool(false), nil
	case info == simpleTrue:
		return jsondoc.Bool(true), nil
	case info == simpleNull, info == simpleUndefined:
		return jsondoc.Null(), nil
	case info == infoUint16:
		return jsondoc.Double(float64(float16.Frombits(uint16(arg)).Float32())), nil
	case info == infoUint32:
		return jsondoc.Double(float64(math.Float32frombits(uint32(arg)))), nil
	case info == infoUint64:
		return jsondoc.Double(math.Float64frombits(arg)), nil
	}
	return jsondoc.Value{}, d.fail(fmt.Sprintf("unsupported simple value %d", arg), nil)
}

// text reads a definite string, or the chunks of an indefinite one
func (d *decoder) text(length uint64, indefinite bool) (string, error) {
	if !indefinite {
		return d.textChunk(length)
	}

	var out []byte
	for {
		major, _, arg, chunkIndefinite, err := d.head()
		if err != nil {
			return "", err
		}
		if major == majorSimple && chunkIndefinite {
			return string(out), nil
		}
		if major != majorText || chunkIndefinite {
			return "", d.fail("indefinite-length text must consist of definite text chunks", nil)
		}
		chunk, err := d.textChunk(arg)
		if err != nil {
			return "", err
		}
		out = append(out, chunk...)
	}
}

func (d *decoder) textChunk(length uint64) (string, error) {
	if r := d.src.remaining(); r >= 0 && length > uint64(r) {
		return "", d.fail(fmt.Sprintf("text length %d exceeds the %d remaining bytes", length, r), io.ErrUnexpectedEOF)
	}
	raw, err := d.src.readN(length)
	if err != nil {
		return "", d.readFailure(err)
	}
	if d.opts.strictUTF8 && !utf8.Valid(raw) {
		return "", d.fail("text is not valid UTF-8", nil)
	}
	return string(raw), nil
}

// checkCount rejects a declared element count the remaining input cannot
// hold, with each element taking at least width bytes
func (d *decoder) checkCount(count, width uint64) error {
	r := d.src.remaining()
	if r < 0 {
		return nil
	}
	if count > uint64(r)/width {
		return d.fail(fmt.Sprintf("declared length %d exceeds the %d remaining bytes", count, r), io.ErrUnexpectedEOF)
	}
	return nil
}

func (d *decoder) array(count uint64, indefinite bool, depth int) (jsondoc.Value, error) {
	b := jsondoc.NewArrayBuilder()
	if indefinite {
		for {
			major, info, arg, ind, err := d.head()
			if err != nil {
				return jsondoc.Value{}, err
			}
			if major == majorSimple && ind {
				return b.Build().AsValue(), nil
			}
			v, err := d.item(major, info, arg, ind, depth)
			if err != nil {
				return jsondoc.Value{}, err
			}
			b.Add(v)
		}
	}

	if err := d.checkCount(count, 1); err != nil {
		return jsondoc.Value{}, err
	}
	for i := uint64(0); i < count; i++ {
		v, err := d.value(depth)
		if err != nil {
			return jsondoc.Value{}, err
		}
		b.Add(v)
	}
	return b.Build().AsValue(), nil
}

func (d *decoder) object(count uint64, indefinite bool, depth int) (jsondoc.Value, error) {
	b := jsondoc.NewObjectBuilder()
	member := func(major byte, arg uint64, ind bool) error {
		if major != majorText {
			return d.fail(fmt.Sprintf("map keys must be text, found major type %d", major), nil)
		}
		key, err := d.text(arg, ind)
		if err != nil {
			return err
		}
		if key == "" {
			return d.fail("map keys must not be empty", nil)
		}
		v, err := d.value(depth)
		if err != nil {
			return err
		}
		b.Set(jsondoc.Key(key), v)
		return nil
	}

	if indefinite {
		for {
			major, _, arg, ind, err := d.head()
			if err != nil {
				return jsondoc.Value{}, err
			}
			if major == majorSimple && ind {
				return b.Build().AsValue(), nil
			}
			if err := member(major, arg, ind); err != nil {
				return jsondoc.Value{}, err
			}
		}
	}

	if err := d.checkCount(count, 2); err != nil {
		return jsondoc.Value{}, err
	}
	for i := uint64(0); i < count; i++ {
		major, _, arg, ind, err := d.head()
		if err != nil {
			return jsondoc.Value{}, err
		}
		if err := member(major, arg, ind); err != nil {
			return jsondoc.Value{}, err
		}
	}
	return b.Build().AsValue(), nil
}

// integerValue returns the narrowest integer variant holding n
func integerValue(n int64) jsondoc.Value {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return jsondoc.Int(int32(n))
	}
	return jsondoc.Long(n)
}
