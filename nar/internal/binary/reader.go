package binary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/narkit/errors"
)

// Alignment is the boundary every NAR field is padded to.
const Alignment = 8

// maxPayload is the largest payload length whose encoded field size still
// fits in an int.
const maxPayload = math.MaxInt - 2*Alignment

// Padding returns the number of filler bytes that follow an n byte payload.
func Padding(n uint64) uint64 {
	if n%Alignment == 0 {
		return 0
	}
	return Alignment - n%Alignment
}

// FieldSize returns the encoded size of a padded field carrying n payload
// bytes: the length word, the payload and its padding.
func FieldSize(n int) int {
	return Alignment + n + int(Padding(uint64(n)))
}

// Reader is a cursor over an immutable NAR buffer.
//
// Every read either succeeds and advances the cursor, or fails and leaves
// the cursor where it was. Payloads are returned as views into the buffer.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unconsumed bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Rest returns the unconsumed input.
func (r *Reader) Rest() []byte {
	return r.data[r.pos:]
}

// Reset seeks to the given position.
func (r *Reader) Reset(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return errors.InvalidInput(errors.PhaseDecode,
			fmt.Sprintf("position %d outside buffer of %d bytes", pos, len(r.data)))
	}
	r.pos = pos
	return nil
}

// ReadU64 reads a little-endian uint64 (fixed 8 bytes).
func (r *Reader) ReadU64() (uint64, error) {
	if n := r.Remaining(); n < 8 {
		return 0, errors.Incomplete(r.pos, 8-n)
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadPadded reads a length-prefixed payload and skips its padding.
// The padding content is not inspected.
func (r *Reader) ReadPadded() ([]byte, error) {
	start := r.pos
	n, err := r.ReadU64()
	if err != nil {
		return nil, err
	}
	r.pos = start

	if n > maxPayload {
		return nil, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Offset(start).
			Value(n).
			Detail("length %d exceeds addressable memory", n).
			Build()
	}

	size := FieldSize(int(n))
	if avail := len(r.data) - start; avail < size {
		return nil, errors.Incomplete(start, size-avail)
	}

	p := start + Alignment
	end := p + int(n)
	r.pos = start + size
	return r.data[p:end:end], nil
}

// ExpectTag consumes the padded encoding of the literal t.
//
// The length word and payload are compared as far as the buffer reaches:
// any differing byte is a tag mismatch, an identical but short prefix is
// incomplete.
func (r *Reader) ExpectTag(t string) error {
	start := r.pos
	size := FieldSize(len(t))
	avail := len(r.data) - start

	var want [Alignment]byte
	binary.LittleEndian.PutUint64(want[:], uint64(len(t)))

	got := r.data[start:min(start+Alignment, len(r.data))]
	if !bytes.Equal(got, want[:len(got)]) {
		b := errors.New(errors.PhaseDecode, errors.KindTagMismatch).
			Offset(start).
			Expected(t)
		if len(got) == Alignment {
			n := binary.LittleEndian.Uint64(got)
			b.Value(n).Detail("length %d, want %d", n, len(t))
		} else {
			b.Detail("length word differs")
		}
		return b.Build()
	}
	if len(got) < Alignment {
		return errors.Incomplete(start, size-avail)
	}

	p := start + Alignment
	body := r.data[p:min(p+len(t), len(r.data))]
	if string(body) != t[:len(body)] {
		return errors.New(errors.PhaseDecode, errors.KindTagMismatch).
			Offset(start).
			Expected(t).
			Value(string(body)).
			Detail("got %q", body).
			Build()
	}
	if avail < size {
		return errors.Incomplete(start, size-avail)
	}

	r.pos = start + size
	return nil
}

// PeekTag reports whether the literal t comes next without consuming it.
func (r *Reader) PeekTag(t string) error {
	pos := r.pos
	err := r.ExpectTag(t)
	r.pos = pos
	return err
}
