package nar

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Format renders e as a one-line s-expression.
func Format(e Entry) string {
	var b strings.Builder
	format(&b, e)
	return b.String()
}

func format(b *strings.Builder, e Entry) {
	switch e := e.(type) {
	case *Regular:
		b.WriteString("regular (executable ")
		b.WriteString(strconv.FormatBool(e.Executable))
		b.WriteByte(')')
	case *Symlink:
		b.WriteString("symlink (target ")
		b.WriteString(strconv.Quote(string(e.Target)))
		b.WriteByte(')')
	case *Directory:
		b.WriteString("(directory (")
		for _, child := range e.Entries {
			b.WriteString("((name ")
			b.WriteString(strconv.Quote(string(child.Name)))
			b.WriteString(") (")
			format(b, child.Node)
			b.WriteString("))")
		}
		b.WriteString("))")
	}
}

func (f *Regular) String() string   { return Format(f) }
func (l *Symlink) String() string   { return Format(l) }
func (d *Directory) String() string { return Format(d) }

// TreeStyle decorates names in WriteTree output. Nil functions leave the
// text unchanged.
type TreeStyle struct {
	Dir     func(string) string
	Exec    func(string) string
	Link    func(string) string
	Comment func(string) string
}

// TreeOptions configures WriteTree.
type TreeOptions struct {
	Style TreeStyle

	// Root is the label printed for the root entry. Defaults to ".".
	Root string

	// Sizes appends the byte count of regular files.
	Sizes bool
}

// WriteTree writes an indented listing of e, one node per line.
func WriteTree(w io.Writer, e Entry, opts TreeOptions) error {
	bw := bufio.NewWriter(w)
	root := opts.Root
	if root == "" {
		root = "."
	}
	tw := &treeWriter{w: bw, opts: opts}
	tw.line("", root, e)
	tw.children("", e)
	return bw.Flush()
}

type treeWriter struct {
	w    *bufio.Writer
	opts TreeOptions
}

func (t *treeWriter) children(prefix string, e Entry) {
	d, ok := e.(*Directory)
	if !ok {
		return
	}
	for i, child := range d.Entries {
		branch, indent := "├── ", "│   "
		if i == len(d.Entries)-1 {
			branch, indent = "└── ", "    "
		}
		t.line(prefix+branch, string(child.Name), child.Node)
		t.children(prefix+indent, child.Node)
	}
}

func (t *treeWriter) line(prefix, name string, e Entry) {
	s := t.opts.Style
	t.w.WriteString(prefix)
	switch e := e.(type) {
	case *Directory:
		t.w.WriteString(apply(s.Dir, name+"/"))
	case *Symlink:
		t.w.WriteString(apply(s.Link, name))
		t.w.WriteString(" -> ")
		t.w.WriteString(string(e.Target))
	case *Regular:
		if e.Executable {
			t.w.WriteString(apply(s.Exec, name+"*"))
		} else {
			t.w.WriteString(name)
		}
		if t.opts.Sizes {
			t.w.WriteString(apply(s.Comment, "  ("+strconv.Itoa(len(e.Contents))+" bytes)"))
		}
	}
	t.w.WriteByte('\n')
}

func apply(f func(string) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}
