package nar_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/wippyai/narkit/errors"
	"github.com/wippyai/narkit/internal/nartest"
	"github.com/wippyai/narkit/nar"
)

func TestDecoderByteAtATime(t *testing.T) {
	data := nartest.Encode(nartest.Sample)
	d := nar.NewDecoder()

	for i, b := range data {
		if d.Status() != nar.StatusNeedMore {
			t.Fatalf("status %v after %d bytes", d.Status(), i)
		}
		if d.Need() < 1 {
			t.Fatalf("Need() = %d after %d bytes", d.Need(), i)
		}
		if _, err := d.Write([]byte{b}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if d.Status() != nar.StatusDone {
		t.Fatalf("status %v, want done", d.Status())
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	a, err := d.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if !nar.Equal(a.Root, mustDecode(t, data)) {
		t.Error("streamed tree differs from buffered decode")
	}
	if a.Size() != len(data) {
		t.Errorf("Size() = %d, want %d", a.Size(), len(data))
	}
}

func TestDecoderNeedIsHonest(t *testing.T) {
	data := nartest.Encode(nartest.Sample)
	d := nar.NewDecoder()

	// Feeding exactly what the decoder asks for must never overshoot.
	pos := 0
	for d.Status() == nar.StatusNeedMore {
		n := d.Need()
		if pos+n > len(data) {
			t.Fatalf("at %d the decoder asked for %d bytes, only %d remain", pos, n, len(data)-pos)
		}
		d.Write(data[pos : pos+n])
		pos += n
	}
	if d.Status() != nar.StatusDone || pos != len(data) {
		t.Errorf("status %v after %d of %d bytes", d.Status(), pos, len(data))
	}
}

func TestDecoderPendingResult(t *testing.T) {
	data := nartest.Encode(nartest.Sample)
	d := nar.NewDecoder()
	d.Write(data[:10])

	_, err := d.Result()
	if _, ok := errors.IsIncomplete(err); !ok {
		t.Fatalf("Result before completion: %v, want incomplete", err)
	}
	if d.Buffered() != 10 {
		t.Errorf("Buffered() = %d, want 10", d.Buffered())
	}
}

func TestDecoderClosePrematurely(t *testing.T) {
	data := nartest.Encode(nartest.Sample)
	d := nar.NewDecoder()
	d.Write(data[:len(data)/2])

	err := d.Close()
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseStream || e.Kind != errors.KindIncomplete {
		t.Fatalf("Close: %v, want stream truncation", err)
	}
	if _, ok := errors.IsIncomplete(err); ok {
		t.Error("truncation after Close must be permanent")
	}
	if d.Status() != nar.StatusFailed {
		t.Errorf("status %v, want failed", d.Status())
	}
	if _, err := d.Write([]byte{0}); err == nil {
		t.Error("Write after failure should fail")
	}
}

func TestDecoderFailsFast(t *testing.T) {
	d := nar.NewDecoder()
	d.Write(nartest.NewWriter().Tag("not-a-nar").Bytes())
	if d.Status() != nar.StatusFailed {
		t.Fatalf("status %v, want failed", d.Status())
	}
	_, err := d.Result()
	wantKind(t, err, errors.KindTagMismatch)
}

func TestDecoderWriteAfterDone(t *testing.T) {
	d := nar.NewDecoder()
	d.Write(scenarioRegular())
	if _, err := d.Write([]byte("more")); err == nil {
		t.Error("Write after completion should fail")
	}
}

func TestDecoderReadFrom(t *testing.T) {
	data := nartest.Encode(nartest.Sample)
	d := nar.NewDecoder()

	n, err := d.ReadFrom(iotest.HalfReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != int64(len(data)) {
		t.Errorf("read %d bytes, want %d", n, len(data))
	}
	if d.Status() != nar.StatusDone {
		t.Errorf("status %v", d.Status())
	}
}

func TestDecodeReader(t *testing.T) {
	data := nartest.Encode(nartest.Sample)
	a, err := nar.DecodeReader(context.Background(), iotest.OneByteReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("DecodeReader: %v", err)
	}
	if !nar.Equal(a.Root, mustDecode(t, data)) {
		t.Error("tree differs from buffered decode")
	}
}

func TestDecodeReaderTruncated(t *testing.T) {
	data := nartest.Encode(nartest.Sample)
	_, err := nar.DecodeReader(context.Background(), bytes.NewReader(data[:len(data)-1]))
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Phase != errors.PhaseStream || e.Kind != errors.KindIncomplete {
		t.Fatalf("got %v, want stream truncation", err)
	}
}

func TestDecodeReaderReadError(t *testing.T) {
	boom := stderrors.New("boom")
	r := io.MultiReader(bytes.NewReader(scenarioRegular()[:20]), iotest.ErrReader(boom))
	_, err := nar.DecodeReader(context.Background(), r)
	if !stderrors.Is(err, boom) {
		t.Fatalf("got %v, want read error", err)
	}
}

func TestDecodeReaderCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := nar.DecodeReader(ctx, bytes.NewReader(scenarioRegular()))
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestDecodeReaderStrictEnd(t *testing.T) {
	data := scenarioRegular()

	if _, err := nar.DecodeReader(context.Background(), bytes.NewReader(data), nar.WithStrictEnd()); err != nil {
		t.Fatalf("exact archive: %v", err)
	}

	// The trailing byte arrives in a later read than the archive end.
	r := io.MultiReader(bytes.NewReader(data), bytes.NewReader([]byte{0}))
	_, err := nar.DecodeReader(context.Background(), r, nar.WithStrictEnd())
	wantKind(t, err, errors.KindTrailingData)
}

func TestStatusString(t *testing.T) {
	for s, want := range map[nar.Status]string{
		nar.StatusNeedMore: "need-more",
		nar.StatusDone:     "done",
		nar.StatusFailed:   "failed",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
