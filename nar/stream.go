package nar

import (
	"context"
	stderrors "errors"
	"io"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/narkit/errors"
)

// Status is the outcome of feeding a Decoder.
type Status uint8

const (
	StatusNeedMore Status = iota
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusNeedMore:
		return "need-more"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// readChunk is the read size used by ReadFrom and DecodeReader.
const readChunk = 32 << 10

// Decoder decodes an archive that arrives in pieces.
//
// Bytes are buffered as they are written. A decode of the whole buffer is
// attempted only once it holds at least as many bytes as the previous
// attempt asked for, so a stream written a byte at a time is not parsed
// once per byte. Each attempt starts from the first byte: the grammar
// keeps no continuation between attempts.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	cfg    *config
	buf    []byte
	root   Entry
	err    error
	last   error
	need   int
	end    int
	status Status
}

// NewDecoder creates a decoder for one archive.
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{cfg: newConfig(opts)}
}

// Write buffers p and decodes once enough input is available. It fails
// only if the decoder has already finished.
func (d *Decoder) Write(p []byte) (int, error) {
	if err := d.writable(); err != nil {
		return 0, err
	}
	d.buf = append(d.buf, p...)
	d.try()
	return len(p), nil
}

// ReadFrom implements io.ReaderFrom. It reads until the archive is
// complete, decoding fails or r is exhausted, and may read past the end
// of the archive. Reaching EOF is not an error; call Close to find out
// whether the archive was truncated.
func (d *Decoder) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	for d.status == StatusNeedMore {
		n, err := d.fill(r)
		total += int64(n)
		if stderrors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// fill performs one read from r directly into the buffer.
func (d *Decoder) fill(r io.Reader) (int, error) {
	if err := d.writable(); err != nil {
		return 0, err
	}
	d.buf = slices.Grow(d.buf, readChunk)
	n, err := r.Read(d.buf[len(d.buf):cap(d.buf)])
	d.buf = d.buf[:len(d.buf)+n]
	if n > 0 {
		d.try()
	}
	return n, err
}

func (d *Decoder) writable() error {
	switch d.status {
	case StatusDone:
		return errors.InvalidInput(errors.PhaseStream, "archive already complete")
	case StatusFailed:
		return d.err
	}
	return nil
}

func (d *Decoder) try() {
	if len(d.buf) < d.need {
		return
	}

	root, end, err := decode(d.buf, d.cfg, true)
	need, incomplete := errors.IsIncomplete(err)
	switch {
	case err == nil:
		d.root, d.end, d.status = root, end, StatusDone
	case incomplete:
		d.last = err
		d.need = len(d.buf) + max(need, 1)
		d.cfg.logger.Debug("stream needs more input",
			zap.Int("buffered", len(d.buf)),
			zap.Int("need", need))
	default:
		d.err, d.status = err, StatusFailed
	}
}

// Status reports the state of the decode.
func (d *Decoder) Status() Status {
	return d.status
}

// Need returns the minimum number of additional bytes required before
// the next decode attempt, or 0 once the decoder has finished.
func (d *Decoder) Need() int {
	if d.status != StatusNeedMore {
		return 0
	}
	return max(d.need-len(d.buf), 1)
}

// Buffered returns the number of bytes written so far.
func (d *Decoder) Buffered() int {
	return len(d.buf)
}

// Result returns the decoded archive. Before the archive is complete it
// returns the pending incomplete error.
func (d *Decoder) Result() (*Archive, error) {
	switch d.status {
	case StatusDone:
		return &Archive{Root: d.root, Data: d.buf[:d.end:d.end]}, nil
	case StatusFailed:
		return nil, d.err
	}
	if d.last != nil {
		return nil, d.last
	}
	return nil, errors.Incomplete(len(d.buf), d.Need())
}

// Close signals the end of input. An archive that is still incomplete
// becomes a permanent truncation error.
func (d *Decoder) Close() error {
	if d.status == StatusNeedMore {
		d.err = errors.New(errors.PhaseStream, errors.KindIncomplete).
			Offset(len(d.buf)).
			Need(d.Need()).
			Cause(d.last).
			Detail("archive truncated").
			Build()
		d.status = StatusFailed
		d.cfg.logger.Debug("stream truncated", zap.Int("buffered", len(d.buf)))
	}
	if d.status == StatusFailed {
		return d.err
	}
	return nil
}

// DecodeReader reads and decodes an archive from r. The context is
// checked between reads.
func DecodeReader(ctx context.Context, r io.Reader, opts ...Option) (*Archive, error) {
	d := NewDecoder(opts...)
	for d.Status() == StatusNeedMore {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		_, err := d.fill(r)
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if d.Status() == StatusFailed {
				return nil, err
			}
			return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "read archive")
		}
	}
	if err := d.Close(); err != nil {
		return nil, err
	}

	if d.cfg.strictEnd {
		var probe [1]byte
		if n, _ := io.ReadFull(r, probe[:]); n > 0 {
			return nil, errors.New(errors.PhaseDecode, errors.KindTrailingData).
				Offset(d.end).
				Detail("unexpected bytes after archive").
				Build()
		}
	}
	return d.Result()
}
