package nar

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"
)

// FS exposes a decoded tree through the io/fs interfaces.
//
// Symbolic links are never followed: their targets may point outside the
// archive. Stat therefore behaves like Lstat, and Open on a link yields a
// file that can be stated but not read. Modification times are zero.
type FS struct {
	root Entry
}

var (
	_ fs.ReadDirFS  = (*FS)(nil)
	_ fs.ReadFileFS = (*FS)(nil)
	_ fs.StatFS     = (*FS)(nil)
	_ fs.ReadLinkFS = (*FS)(nil)
)

// NewFS returns a filesystem rooted at root.
func NewFS(root Entry) *FS {
	return &FS{root: root}
}

func (f *FS) lookup(op, name string) (Entry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	e := f.root
	if name == "." {
		return e, nil
	}
	for _, elem := range strings.Split(name, "/") {
		d, ok := e.(*Directory)
		if !ok {
			return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
		}
		child, ok := d.Lookup(elem)
		if !ok {
			return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
		}
		e = child
	}
	return e, nil
}

// Open implements fs.FS.
func (f *FS) Open(name string) (fs.File, error) {
	e, err := f.lookup("open", name)
	if err != nil {
		return nil, err
	}
	info := newFileInfo(name, e)
	switch e := e.(type) {
	case *Directory:
		return &openDir{info: info, entries: dirEntries(e)}, nil
	case *Regular:
		return &openFile{info: info, r: bytes.NewReader(e.Contents)}, nil
	default:
		return &openLink{info: info}, nil
	}
}

// ReadDir implements fs.ReadDirFS. Entries are sorted by name.
func (f *FS) ReadDir(name string) ([]fs.DirEntry, error) {
	e, err := f.lookup("readdir", name)
	if err != nil {
		return nil, err
	}
	d, ok := e.(*Directory)
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	return dirEntries(d), nil
}

// ReadFile implements fs.ReadFileFS. The returned slice is a copy.
func (f *FS) ReadFile(name string) ([]byte, error) {
	e, err := f.lookup("read", name)
	if err != nil {
		return nil, err
	}
	r, ok := e.(*Regular)
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return bytes.Clone(r.Contents), nil
}

// Stat implements fs.StatFS. Symlinks are described, not followed.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	e, err := f.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return newFileInfo(name, e), nil
}

// Lstat implements fs.ReadLinkFS.
func (f *FS) Lstat(name string) (fs.FileInfo, error) {
	e, err := f.lookup("lstat", name)
	if err != nil {
		return nil, err
	}
	return newFileInfo(name, e), nil
}

// ReadLink implements fs.ReadLinkFS.
func (f *FS) ReadLink(name string) (string, error) {
	e, err := f.lookup("readlink", name)
	if err != nil {
		return "", err
	}
	l, ok := e.(*Symlink)
	if !ok {
		return "", &fs.PathError{Op: "readlink", Path: name, Err: fs.ErrInvalid}
	}
	return string(l.Target), nil
}

func dirEntries(d *Directory) []fs.DirEntry {
	out := make([]fs.DirEntry, 0, len(d.Entries))
	for _, child := range d.Entries {
		out = append(out, fileInfo{name: string(child.Name), e: child.Node})
	}
	slices.SortStableFunc(out, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// fileInfo implements both fs.FileInfo and fs.DirEntry.
type fileInfo struct {
	e    Entry
	name string
}

func newFileInfo(name string, e Entry) fileInfo {
	return fileInfo{name: path.Base(name), e: e}
}

func (fi fileInfo) Name() string { return fi.name }

func (fi fileInfo) Size() int64 {
	switch e := fi.e.(type) {
	case *Regular:
		return int64(len(e.Contents))
	case *Symlink:
		return int64(len(e.Target))
	default:
		return 0
	}
}

func (fi fileInfo) Mode() fs.FileMode {
	switch e := fi.e.(type) {
	case *Regular:
		if e.Executable {
			return 0o555
		}
		return 0o444
	case *Symlink:
		return fs.ModeSymlink | 0o777
	default:
		return fs.ModeDir | 0o555
	}
}

func (fi fileInfo) ModTime() time.Time         { return time.Time{} }
func (fi fileInfo) IsDir() bool                { return fi.e.Type() == TypeDirectory }
func (fi fileInfo) Sys() any                   { return fi.e }
func (fi fileInfo) Type() fs.FileMode          { return fi.Mode().Type() }
func (fi fileInfo) Info() (fs.FileInfo, error) { return fi, nil }
func (fi fileInfo) String() string             { return fs.FormatFileInfo(fi) }

type openFile struct {
	r    *bytes.Reader
	info fileInfo
}

func (f *openFile) Stat() (fs.FileInfo, error)                   { return f.info, nil }
func (f *openFile) Read(p []byte) (int, error)                   { return f.r.Read(p) }
func (f *openFile) ReadAt(p []byte, off int64) (int, error)      { return f.r.ReadAt(p, off) }
func (f *openFile) Seek(offset int64, whence int) (int64, error) { return f.r.Seek(offset, whence) }
func (f *openFile) Close() error                                 { return nil }

type openDir struct {
	info    fileInfo
	entries []fs.DirEntry
	off     int
}

func (d *openDir) Stat() (fs.FileInfo, error) { return d.info, nil }
func (d *openDir) Close() error               { return nil }

func (d *openDir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.name, Err: fs.ErrInvalid}
}

// ReadDir implements fs.ReadDirFile.
func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	rest := d.entries[d.off:]
	if n <= 0 {
		d.off = len(d.entries)
		return rest, nil
	}
	if len(rest) == 0 {
		return nil, io.EOF
	}
	n = min(n, len(rest))
	d.off += n
	return rest[:n], nil
}

type openLink struct {
	info fileInfo
}

func (l *openLink) Stat() (fs.FileInfo, error) { return l.info, nil }
func (l *openLink) Close() error               { return nil }

func (l *openLink) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: l.info.name, Err: fs.ErrInvalid}
}
