package cbor

import (
	"bufio"
	"errors"
	"io"
)

// errTruncated reports input ending inside an item
var errTruncated = errors.New("unexpected end of input")

// source is a positional byte producer for the decoder.
type source interface {
	readByte() (byte, error)
	// readN returns the next n bytes; the result is only valid until the next read
	readN(n uint64) ([]byte, error)
	// remaining returns the number of unread bytes, or -1 when unknown
	remaining() int64
	offset() int64
}

// sliceSource reads from an in-memory range.
type sliceSource struct {
	data []byte
	pos  int
}

func (s *sliceSource) readByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, errTruncated
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func (s *sliceSource) readN(n uint64) ([]byte, error) {
	if n > uint64(len(s.data)-s.pos) {
		return nil, errTruncated
	}
	out := s.data[s.pos : s.pos+int(n)]
	s.pos += int(n)
	return out, nil
}

func (s *sliceSource) remaining() int64 { return int64(len(s.data) - s.pos) }
func (s *sliceSource) offset() int64    { return int64(s.pos) }

const readerAtWindow = 4096

// readerAtSource reads a range of an io.ReaderAt through positional reads
// only, buffering a small window.
type readerAtSource struct {
	r      io.ReaderAt
	base   int64
	pos    int64 // relative to base
	end    int64 // relative to base
	window []byte
	winPos int64 // relative offset of window[0]
}

func newReaderAtSource(r io.ReaderAt, off, size int64) *readerAtSource {
	return &readerAtSource{r: r, base: off, end: size, winPos: -1}
}

func (s *readerAtSource) fill(at, n int64) error {
	if cap(s.window) < int(n) {
		s.window = make([]byte, n)
	}
	s.window = s.window[:n]
	read, err := s.r.ReadAt(s.window, s.base+at)
	if int64(read) < n {
		if err == nil || errors.Is(err, io.EOF) {
			err = errTruncated
		}
		s.winPos = -1
		return err
	}
	s.winPos = at
	return nil
}

func (s *readerAtSource) readByte() (byte, error) {
	if s.pos >= s.end {
		return 0, errTruncated
	}
	if s.winPos < 0 || s.pos < s.winPos || s.pos >= s.winPos+int64(len(s.window)) {
		if err := s.fill(s.pos, min(readerAtWindow, s.end-s.pos)); err != nil {
			return 0, err
		}
	}
	b := s.window[s.pos-s.winPos]
	s.pos++
	return b, nil
}

func (s *readerAtSource) readN(n uint64) ([]byte, error) {
	if n > uint64(s.end-s.pos) {
		return nil, errTruncated
	}
	size := int64(n)
	if s.winPos >= 0 && s.pos >= s.winPos && s.pos+size <= s.winPos+int64(len(s.window)) {
		out := s.window[s.pos-s.winPos : s.pos-s.winPos+size]
		s.pos += size
		return out, nil
	}
	out := make([]byte, size)
	read, err := s.r.ReadAt(out, s.base+s.pos)
	if int64(read) < size {
		if err == nil || errors.Is(err, io.EOF) {
			err = errTruncated
		}
		return nil, err
	}
	s.pos += size
	return out, nil
}

func (s *readerAtSource) remaining() int64 { return s.end - s.pos }
func (s *readerAtSource) offset() int64    { return s.pos }

const streamChunk = 64 * 1024

// streamSource reads sequentially from a buffered stream. Declared lengths
// cannot be checked up front, so long items are read in bounded chunks.
type streamSource struct {
	r   *bufio.Reader
	pos int64
	buf []byte
}

func (s *streamSource) readByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, errTruncated
		}
		return 0, err
	}
	s.pos++
	return b, nil
}

func (s *streamSource) readN(n uint64) ([]byte, error) {
	s.buf = s.buf[:0]
	for n > 0 {
		chunk := min(n, streamChunk)
		start := len(s.buf)
		s.buf = append(s.buf, make([]byte, chunk)...)
		read, err := io.ReadFull(s.r, s.buf[start:])
		s.pos += int64(read)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errTruncated
			}
			return nil, err
		}
		n -= chunk
	}
	return s.buf, nil
}

func (s *streamSource) remaining() int64 { return -1 }
func (s *streamSource) offset() int64    { return s.pos }
