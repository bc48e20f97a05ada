package narkit

import (
	"context"
	"io"

	"github.com/wippyai/narkit/nar"
)

// Re-export types from nar for the public API.
type (
	// Entry is a decoded filesystem node.
	Entry = nar.Entry

	// Archive is a decoded tree together with the bytes it borrows from.
	Archive = nar.Archive

	// Option configures decoding.
	Option = nar.Option
)

// Re-export decode options.
var (
	WithStrictEnd        = nar.WithStrictEnd
	WithCanonicalOrder   = nar.WithCanonicalOrder
	WithRequireTargetTag = nar.WithRequireTargetTag
	WithMaxDepth         = nar.WithMaxDepth
)

// Decode decodes a complete archive held in data.
func Decode(data []byte, opts ...Option) (*Archive, error) {
	return nar.DecodeArchive(data, opts...)
}

// DecodeReader reads and decodes an archive from r.
func DecodeReader(ctx context.Context, r io.Reader, opts ...Option) (*Archive, error) {
	return nar.DecodeReader(ctx, r, opts...)
}

// Walk visits every node of root with its slash-separated path.
func Walk(root Entry, fn nar.WalkFunc) error {
	return nar.Walk(root, fn)
}
