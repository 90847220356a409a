// Package scan provides a forward-only cursor over symbol names.
package scan

import (
	"errors"
	"strings"
)

// ErrUnexpectedEOF is returned when a read runs past the end of the symbol.
var ErrUnexpectedEOF = errors.New("scan: unexpected end of symbol")

// Reader walks a symbol name one byte at a time.
// The underlying string is never modified.
type Reader struct {
	data   string
	offset int
}

// NewReader creates a Reader over s.
func NewReader(s string) *Reader {
	return &Reader{data: s, offset: 0}
}

// Offset returns the current read position.
func (r *Reader) Offset() int {
	return r.offset
}

// Remaining returns the number of bytes remaining.
func (r *Reader) Remaining() int {
	if r.offset >= len(r.data) {
		return 0
	}
	return len(r.data) - r.offset
}

// EOF reports whether every byte has been consumed.
func (r *Reader) EOF() bool {
	return r.offset >= len(r.data)
}

// Skip advances the read position by n bytes.
func (r *Reader) Skip(n int) error {
	if r.offset+n > len(r.data) {
		return ErrUnexpectedEOF
	}
	r.offset += n
	return nil
}

// ReadByte reads one byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.offset >= len(r.data) {
		return 0, ErrUnexpectedEOF
	}
	v := r.data[r.offset]
	r.offset++
	return v, nil
}

// PeekAt returns the byte n positions ahead of the cursor, or 0 past the end.
func (r *Reader) PeekAt(n int) byte {
	i := r.offset + n
	if i < 0 || i >= len(r.data) {
		return 0
	}
	return r.data[i]
}

// Prev returns the byte just before the cursor, or 0 at the start.
func (r *Reader) Prev() byte {
	return r.PeekAt(-1)
}

// HasPrefix reports whether the unread data starts with prefix.
func (r *Reader) HasPrefix(prefix string) bool {
	return strings.HasPrefix(r.Rest(), prefix)
}

// ReadString reads n bytes as a string.
func (r *Reader) ReadString(n int) (string, error) {
	if r.offset+n > len(r.data) {
		return "", ErrUnexpectedEOF
	}
	v := r.data[r.offset : r.offset+n]
	r.offset += n
	return v, nil
}

// Rest returns the unread data.
func (r *Reader) Rest() string {
	if r.offset >= len(r.data) {
		return ""
	}
	return r.data[r.offset:]
}
