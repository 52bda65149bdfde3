// Package strings provides pooled, low-allocation string building for Vireo.
// Diagnostic strings (block dumps, error messages) are built on hot paths, so
// the builders here are reused through a sync.Pool instead of being allocated
// per call.
package strings

import (
	"fmt"
	"sync"
	"unsafe"
)

// BytesToString converts a byte slice to a string without allocation.
// The returned string shares memory with the slice; the slice must not be
// modified afterwards.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// StringToBytes converts a string to a byte slice without allocation.
// The returned slice must not be modified.
func StringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Builder accumulates a string in a reusable byte buffer.
type Builder struct {
	buf []byte
}

// NewBuilder creates a builder with the given initial capacity.
func NewBuilder(capacity int) *Builder {
	return &Builder{buf: make([]byte, 0, capacity)}
}

// WriteString appends s to the builder.
func (b *Builder) WriteString(s string) {
	b.buf = append(b.buf, s...)
}

// WriteByte appends a single byte.
func (b *Builder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns the built string. The result shares memory with the
// builder, so callers that outlive the builder must Clone it.
func (b *Builder) String() string {
	return BytesToString(b.buf)
}

// Len returns the number of bytes written.
func (b *Builder) Len() int { return len(b.buf) }

// Reset empties the builder for reuse.
func (b *Builder) Reset() { b.buf = b.buf[:0] }

var builderPool = sync.Pool{
	New: func() interface{} {
		return NewBuilder(1024)
	},
}

// GetBuilder retrieves a pooled builder. Return it with PutBuilder.
func GetBuilder() *Builder {
	b := builderPool.Get().(*Builder)
	b.Reset()
	return b
}

// PutBuilder returns a builder to the pool.
func PutBuilder(b *Builder) {
	if b == nil {
		return
	}
	b.Reset()
	builderPool.Put(b)
}

// Clone copies s into freshly owned memory.
func Clone(s string) string {
	if len(s) == 0 {
		return ""
	}
	b := make([]byte, len(s))
	copy(b, s)
	return BytesToString(b)
}

// Join concatenates parts with sep between them, sizing the buffer up front.
func Join(parts []string, sep string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}

	total := (len(parts) - 1) * len(sep)
	for _, p := range parts {
		total += len(p)
	}

	b := NewBuilder(total)
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		b.WriteString(sep)
		b.WriteString(p)
	}
	return b.String()
}

// Sprintf formats into a pooled builder and returns an owned string.
func Sprintf(format string, args ...interface{}) string {
	b := GetBuilder()
	fmt.Fprintf(b, format, args...)
	s := Clone(b.String())
	PutBuilder(b)
	return s
}
