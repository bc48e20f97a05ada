// Package nartest builds NAR byte streams for tests.
package nartest

import (
	"bytes"
	"encoding/binary"
)

// Writer appends NAR fields to an in-memory buffer.
type Writer struct {
	buf *bytes.Buffer

	// Filler is the byte written as padding. Real archives use zero.
	Filler byte
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Raw writes data without framing.
func (w *Writer) Raw(data []byte) *Writer {
	w.buf.Write(data)
	return w
}

// U64 writes a little-endian uint64.
func (w *Writer) U64(v uint64) *Writer {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
	return w
}

// Padded writes a length-prefixed payload followed by its padding.
func (w *Writer) Padded(data []byte) *Writer {
	w.U64(uint64(len(data)))
	w.buf.Write(data)
	w.pad(len(data))
	return w
}

// Tag writes a framing literal.
func (w *Writer) Tag(s string) *Writer {
	return w.Padded([]byte(s))
}

// Tags writes several framing literals in order.
func (w *Writer) Tags(ss ...string) *Writer {
	for _, s := range ss {
		w.Tag(s)
	}
	return w
}

func (w *Writer) pad(n int) {
	for n%8 != 0 {
		w.buf.WriteByte(w.Filler)
		n++
	}
}

// Node is a filesystem tree description that Writer can serialize.
type Node interface {
	write(w *Writer)
}

// File is a regular file.
type File struct {
	Contents   []byte
	Executable bool
}

// Link is a symbolic link. Bare omits the target keyword.
type Link struct {
	Target string
	Bare   bool
}

// Dir is a directory with entries written in the given order.
type Dir []Named

// Named is one directory entry.
type Named struct {
	Node Node
	Name string
}

func (f File) write(w *Writer) {
	w.Tags("(", "type", "regular")
	if f.Executable {
		w.Tags("executable", "")
	}
	w.Tag("contents").Padded(f.Contents)
	w.Tag(")")
}

func (l Link) write(w *Writer) {
	w.Tags("(", "type", "symlink")
	if !l.Bare {
		w.Tag("target")
	}
	w.Padded([]byte(l.Target))
	w.Tag(")")
}

func (d Dir) write(w *Writer) {
	w.Tags("(", "type", "directory")
	for _, e := range d {
		w.Tags("entry", "(", "name").Padded([]byte(e.Name)).Tag("node")
		e.Node.write(w)
		w.Tag(")")
	}
	w.Tag(")")
}

// Entry writes n without the archive header.
func (w *Writer) Entry(n Node) *Writer {
	n.write(w)
	return w
}

// Archive writes the archive header followed by n.
func (w *Writer) Archive(n Node) *Writer {
	return w.Tag("nix-archive-1").Entry(n)
}

// Encode returns the complete archive for n.
func Encode(n Node) []byte {
	return NewWriter().Archive(n).Bytes()
}

// Sample is a small tree exercising every node type.
var Sample = Dir{
	{Name: "bin", Node: Dir{
		{Name: "hello", Node: File{Executable: true, Contents: []byte("#!/bin/sh\necho hello\n")}},
	}},
	{Name: "empty", Node: Dir{}},
	{Name: "lib", Node: Link{Target: "../share/lib"}},
	{Name: "share", Node: Dir{
		{Name: "README", Node: File{Contents: []byte("hello\x00world\xff")}},
	}},
}
