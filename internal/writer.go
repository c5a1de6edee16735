package internal

import (
	"math"
	"strconv"
	"sync"
	"unicode/utf8"
)

const hexChars = "0123456789abcdef"

// needsEscapeTable is a pre-computed lookup table for ASCII bytes that need escaping.
// Multi-byte sequences are inspected separately for U+2028 and U+2029.
var needsEscapeTable = [256]bool{
	0x00: true, 0x01: true, 0x02: true, 0x03: true, 0x04: true, 0x05: true, 0x06: true, 0x07: true,
	0x08: true, 0x09: true, 0x0A: true, 0x0B: true, 0x0C: true, 0x0D: true, 0x0E: true, 0x0F: true,
	0x10: true, 0x11: true, 0x12: true, 0x13: true, 0x14: true, 0x15: true, 0x16: true, 0x17: true,
	0x18: true, 0x19: true, 0x1A: true, 0x1B: true, 0x1C: true, 0x1D: true, 0x1E: true, 0x1F: true,
	'"':  true,
	'\\': true,
	// 0xE2 starts U+2028 / U+2029 and must be looked at
	0xE2: true,
}

// Writer appends canonical JSON text to a reusable buffer
type Writer struct {
	buf []byte
}

var writerPool = sync.Pool{
	New: func() any {
		return &Writer{buf: make([]byte, 0, 256)}
	},
}

var largeWriterPool = sync.Pool{
	New: func() any {
		return &Writer{buf: make([]byte, 0, 8192)}
	},
}

// GetWriter retrieves a writer from the pool, sized by hint
func GetWriter(hint int) *Writer {
	var w *Writer
	if hint > 1024 {
		w = largeWriterPool.Get().(*Writer)
	} else {
		w = writerPool.Get().(*Writer)
	}
	w.buf = w.buf[:0]
	return w
}

// PutWriter returns a writer to its pool; buffers above 64KB are dropped
func PutWriter(w *Writer) {
	if w == nil {
		return
	}
	c := cap(w.buf)
	switch {
	case c <= 1024:
		w.buf = w.buf[:0]
		writerPool.Put(w)
	case c <= 65536:
		w.buf = w.buf[:0]
		largeWriterPool.Put(w)
	}
}

// String returns a copy of the written text
func (w *Writer) String() string {
	return string(w.buf)
}

// Len returns the number of bytes written so far
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteByte appends a single structural byte
func (w *Writer) WriteByte(c byte) error {
	w.buf = append(w.buf, c)
	return nil
}

// WriteRaw appends pre-rendered JSON text verbatim
func (w *Writer) WriteRaw(s string) {
	w.buf = append(w.buf, s...)
}

// WriteNull appends the null literal
func (w *Writer) WriteNull() {
	w.buf = append(w.buf, "null"...)
}

// WriteBool appends a boolean literal
func (w *Writer) WriteBool(b bool) {
	if b {
		w.buf = append(w.buf, "true"...)
	} else {
		w.buf = append(w.buf, "false"...)
	}
}

// WriteInt appends a decimal integer
func (w *Writer) WriteInt(n int64) {
	if n >= 0 && n < 10 {
		w.buf = append(w.buf, byte('0'+n))
		return
	}
	w.buf = strconv.AppendInt(w.buf, n, 10)
}

// WriteFloat appends a finite float in the shortest form that round-trips.
// Non-finite values have no JSON form and are written as null.
func (w *Writer) WriteFloat(f float64) {
	w.buf = AppendFloat(w.buf, f)
}

// AppendFloat formats f like encoding/json: plain notation for moderate
// magnitudes, exponent notation otherwise.
func AppendFloat(dst []byte, f float64) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst
}

// WriteString appends a quoted, escaped JSON string
func (w *Writer) WriteString(s string) {
	w.buf = AppendQuoted(w.buf, s)
}

// AppendQuoted appends s as a JSON string literal. Control characters, quote,
// backslash, U+2028 and U+2029 are escaped.
func AppendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	if !needsEscape(s) {
		dst = append(dst, s...)
		return append(dst, '"')
	}

	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if !needsEscapeTable[c] {
			i++
			continue
		}
		if c == 0xE2 {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r != '\u2028' && r != '\u2029' {
				i += size
				continue
			}
			dst = append(dst, s[start:i]...)
			dst = append(dst, '\\', 'u', '2', '0', '2', hexChars[r&0xF])
			i += size
			start = i
			continue
		}

		dst = append(dst, s[start:i]...)
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexChars[c>>4], hexChars[c&0x0F])
		}
		i++
		start = i
	}
	dst = append(dst, s[start:]...)
	return append(dst, '"')
}

func needsEscape(s string) bool {
	for i := 0; i < len(s); i++ {
		if needsEscapeTable[s[i]] {
			return true
		}
	}
	return false
}
