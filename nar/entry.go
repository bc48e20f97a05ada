package nar

import "bytes"

// Type identifies the kind of a decoded node.
type Type uint8

const (
	TypeRegular Type = iota + 1
	TypeSymlink
	TypeDirectory
)

// String returns the keyword the type is encoded with.
func (t Type) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeSymlink:
		return "symlink"
	case TypeDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Entry is a decoded filesystem node: *Regular, *Symlink or *Directory.
//
// All byte slices reachable from an Entry are views into the buffer it
// was decoded from. Modifying that buffer modifies the tree.
type Entry interface {
	Type() Type
	String() string

	entry()
}

// Regular is a file.
type Regular struct {
	Contents   []byte
	Executable bool
}

// Symlink is a symbolic link. Target is the raw link text and is not
// validated as a path.
type Symlink struct {
	Target []byte
}

// Directory holds its entries in stored order.
type Directory struct {
	Entries []DirEntry
}

// DirEntry is one named child of a Directory.
type DirEntry struct {
	Node Entry
	Name []byte
}

func (*Regular) Type() Type   { return TypeRegular }
func (*Symlink) Type() Type   { return TypeSymlink }
func (*Directory) Type() Type { return TypeDirectory }

func (*Regular) entry()   {}
func (*Symlink) entry()   {}
func (*Directory) entry() {}

// Len returns the number of entries.
func (d *Directory) Len() int {
	return len(d.Entries)
}

// Lookup returns the first child called name. Entries are scanned in
// stored order, so it works on archives that are not sorted.
func (d *Directory) Lookup(name string) (Entry, bool) {
	for _, e := range d.Entries {
		if string(e.Name) == name {
			return e.Node, true
		}
	}
	return nil, false
}

// Equal reports whether a and b describe the same tree.
func Equal(a, b Entry) bool {
	switch a := a.(type) {
	case *Regular:
		b, ok := b.(*Regular)
		return ok && a.Executable == b.Executable && bytes.Equal(a.Contents, b.Contents)
	case *Symlink:
		b, ok := b.(*Symlink)
		return ok && bytes.Equal(a.Target, b.Target)
	case *Directory:
		b, ok := b.(*Directory)
		if !ok || len(a.Entries) != len(b.Entries) {
			return false
		}
		for i := range a.Entries {
			if !bytes.Equal(a.Entries[i].Name, b.Entries[i].Name) {
				return false
			}
			if !Equal(a.Entries[i].Node, b.Entries[i].Node) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
