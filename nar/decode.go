package nar

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/narkit/errors"
	"github.com/wippyai/narkit/nar/internal/binary"
)

// Archive is a decoded archive together with the buffer its tree
// borrows from. Data must not be modified while Root is in use.
type Archive struct {
	Root Entry
	Data []byte
}

// Size returns the number of bytes the archive occupied.
func (a *Archive) Size() int {
	return len(a.Data)
}

// Decode decodes a complete archive, magic header included, from the start
// of data. It returns the root entry and the offset of the first byte
// after it.
//
// A *errors.Error of kind incomplete means data ends before the archive
// does; the caller may append more bytes and call Decode again. Any other
// error is a permanent grammar violation and no tree is returned.
func Decode(data []byte, opts ...Option) (Entry, int, error) {
	return decode(data, newConfig(opts), true)
}

// DecodeEntry decodes a single entry without the archive header.
func DecodeEntry(data []byte, opts ...Option) (Entry, int, error) {
	return decode(data, newConfig(opts), false)
}

// DecodeArchive decodes a complete archive and keeps the consumed bytes
// alongside the tree.
func DecodeArchive(data []byte, opts ...Option) (*Archive, error) {
	root, n, err := Decode(data, opts...)
	if err != nil {
		return nil, err
	}
	return &Archive{Root: root, Data: data[:n:n]}, nil
}

func decode(data []byte, cfg *config, header bool) (Entry, int, error) {
	log := cfg.logger
	log.Debug("decode", zap.Int("size", len(data)), zap.Bool("header", header))

	p := &parser{r: binary.NewReader(data), cfg: cfg}
	root, err := p.archive(header)
	if err != nil {
		if incomplete(err) {
			log.Debug("decode suspended", zap.Error(err))
		} else {
			log.Debug("decode failed", zap.Error(err))
		}
		return nil, 0, err
	}

	end := p.r.Position()
	if cfg.strictEnd && p.r.Remaining() > 0 {
		err := errors.TrailingData(end, p.r.Remaining())
		log.Debug("decode failed", zap.Error(err))
		return nil, 0, err
	}

	log.Debug("decoded", zap.Stringer("root", root.Type()), zap.Int("consumed", end))
	return root, end, nil
}

type parser struct {
	r   *binary.Reader
	cfg *config
}

func (p *parser) archive(header bool) (Entry, error) {
	if header {
		if err := p.r.ExpectTag(binary.Magic); err != nil {
			return nil, within(err, "archive")
		}
	}
	e, err := p.entry(0)
	if err != nil && header {
		return nil, within(err, "archive")
	}
	return e, err
}

// variants lists the node types in the order they are tried.
var variants = [...]Type{TypeRegular, TypeSymlink, TypeDirectory}

func (p *parser) entry(depth int) (Entry, error) {
	if err := p.r.ExpectTag(binary.Open); err != nil {
		return nil, within(err, "entry")
	}

	typ, err := p.variant()
	if err != nil {
		return nil, within(err, "entry")
	}

	var e Entry
	switch typ {
	case TypeRegular:
		e, err = p.regular()
	case TypeSymlink:
		e, err = p.symlink()
	case TypeDirectory:
		e, err = p.directory(depth)
	}
	if err != nil {
		return nil, within(within(err, typ.String()), "entry")
	}

	if err := p.r.ExpectTag(binary.Close); err != nil {
		return nil, within(err, "entry")
	}
	return e, nil
}

// variant consumes the "type" keyword and the node type that follows.
// Candidates are matched in order and the first incomplete one stops the
// search, so a truncated keyword is never mistaken for a mismatch.
func (p *parser) variant() (Type, error) {
	start := p.r.Position()
	if err := p.r.ExpectTag(binary.Type); err != nil {
		if incomplete(err) {
			return 0, err
		}
		return 0, errors.NoMatchingVariant(start, err)
	}

	var last error
	for _, t := range variants {
		err := p.r.ExpectTag(t.String())
		if err == nil {
			return t, nil
		}
		if incomplete(err) {
			return 0, err
		}
		last = err
	}
	return 0, errors.NoMatchingVariant(start, last)
}

func (p *parser) regular() (Entry, error) {
	f := &Regular{}

	switch err := p.r.ExpectTag(binary.Executable); {
	case err == nil:
		if err := p.r.ExpectTag(binary.Empty); err != nil {
			return nil, within(err, "executable")
		}
		f.Executable = true
	case incomplete(err):
		return nil, err
	}

	if err := p.r.ExpectTag(binary.Contents); err != nil {
		return nil, err
	}
	contents, err := p.r.ReadPadded()
	if err != nil {
		return nil, within(err, "contents")
	}
	f.Contents = contents
	return f, nil
}

func (p *parser) symlink() (Entry, error) {
	if err := p.r.ExpectTag(binary.Target); err != nil {
		if incomplete(err) || p.cfg.requireTarget {
			return nil, err
		}
	}
	target, err := p.r.ReadPadded()
	if err != nil {
		return nil, within(err, "target")
	}
	return &Symlink{Target: target}, nil
}

func (p *parser) directory(depth int) (Entry, error) {
	d := &Directory{}
	for i := 0; ; i++ {
		start := p.r.Position()
		if err := p.r.ExpectTag(binary.Entry); err != nil {
			if incomplete(err) {
				return nil, err
			}
			return d, nil
		}

		elem := "entry[" + strconv.Itoa(i) + "]"
		name, node, err := p.dirEntry(depth + 1)
		if err != nil {
			return nil, within(err, elem)
		}

		if p.cfg.canonical {
			var prev []byte
			if i > 0 {
				prev = d.Entries[i-1].Name
			}
			if err := checkName(prev, name, i > 0); err != nil {
				err.Offset = start
				return nil, within(err, elem)
			}
		}

		d.Entries = append(d.Entries, DirEntry{Name: name, Node: node})
	}
}

func (p *parser) dirEntry(depth int) ([]byte, Entry, error) {
	if err := p.r.ExpectTag(binary.Open); err != nil {
		return nil, nil, err
	}
	if err := p.r.ExpectTag(binary.Name); err != nil {
		return nil, nil, err
	}
	name, err := p.r.ReadPadded()
	if err != nil {
		return nil, nil, within(err, "name")
	}
	if err := p.r.ExpectTag(binary.Node); err != nil {
		return nil, nil, err
	}

	if p.cfg.maxDepth > 0 && depth > p.cfg.maxDepth {
		return nil, nil, errors.New(errors.PhaseDecode, errors.KindDepthExceeded).
			Offset(p.r.Position()).
			Value(depth).
			Detail("nesting depth %d exceeds limit %d", depth, p.cfg.maxDepth).
			Build()
	}

	node, err := p.entry(depth)
	if err != nil {
		return nil, nil, within(err, "node")
	}
	if err := p.r.ExpectTag(binary.Close); err != nil {
		return nil, nil, err
	}
	return name, node, nil
}

func incomplete(err error) bool {
	_, ok := errors.IsIncomplete(err)
	return ok
}

// within prefixes the production path of a structured error.
func within(err error, elem string) error {
	if e, ok := err.(*errors.Error); ok {
		return e.WithPath(elem)
	}
	return err
}
