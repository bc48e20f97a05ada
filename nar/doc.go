// Package nar decodes Nix Archive (NAR) byte streams into an in-memory tree.
//
// A NAR is a self-framing serialization of a filesystem tree made of
// regular files, symbolic links and directories. Every field is an 8-byte
// little-endian length, the payload, and zero padding to the next multiple
// of 8. Framing keywords ("(", "type", "contents", ...) are encoded the
// same way.
//
// # Decoding
//
// Decode a buffer holding a whole archive:
//
//	data, _ := os.ReadFile("hello.nar")
//	root, n, err := nar.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(root, "consumed", n)
//
// The decoded tree does not copy the input. Names, link targets and file
// contents are sub-slices of data, so data must stay alive and unmodified
// for as long as the tree is used. DecodeArchive keeps both together.
//
// # Grammar
//
//	archive     = tag("nix-archive-1") entry
//	entry       = tag("(") (regular | symlink | directory) tag(")")
//	regular     = tag("type") tag("regular") [tag("executable") tag("")] tag("contents") bytes
//	symlink     = tag("type") tag("symlink") [tag("target")] bytes
//	directory   = tag("type") tag("directory") entry_block*
//	entry_block = tag("entry") tag("(") tag("name") bytes tag("node") entry tag(")")
//
// The node type is selected by matching the keyword after "type" against
// regular, symlink and directory in that order.
//
// # Incomplete Input
//
// Decoding distinguishes data that ends too early from data that is wrong.
// A truncated buffer yields an *errors.Error of kind incomplete carrying the
// minimum number of additional bytes known to be needed:
//
//	_, _, err := nar.Decode(partial)
//	if need, ok := errors.IsIncomplete(err); ok {
//	    // append at least need bytes and decode again
//	}
//
// Any other error is permanent and no partial tree is returned. Decoder
// wraps this protocol for data arriving in pieces; DecodeReader reads an
// archive from an io.Reader.
//
// # Options
//
// By default the decoder checks grammar only. Directory entries are accepted
// in any order, trailing bytes after the archive are left to the caller and
// the "target" keyword of symlinks is optional. WithCanonicalOrder,
// WithStrictEnd and WithRequireTargetTag tighten each of these.
//
// # Inspecting Trees
//
// Walk visits every node with its slash-separated path, WriteTree prints an
// indented listing, Format renders the compact s-expression form and NewFS
// exposes the tree through io/fs.
//
// # Thread Safety
//
// Decode is a pure function of its input and may run concurrently on the
// same buffer. Decoder is not safe for concurrent use.
package nar
