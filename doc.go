// Package narkit decodes Nix Archive (NAR) files into in-memory trees.
//
// A NAR is the serialization Nix uses to hash, copy and store filesystem
// trees. This module reads one without invoking nix-store and without
// copying file contents out of the input buffer.
//
// # Architecture Overview
//
//	narkit/              Root package re-exporting the decode API
//	├── nar/             Entry model, grammar, streaming decoder, io/fs view
//	│   └── internal/
//	│       └── binary/  Padded fields and framing keywords
//	├── errors/          Structured error types for diagnosing bad archives
//	└── cmd/narinfo/     Command-line inspector with an interactive browser
//
// # Quick Start
//
//	data, err := os.ReadFile("hello.nar")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a, err := narkit.Decode(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	narkit.Walk(a.Root, func(path string, e narkit.Entry) error {
//	    fmt.Println(path, e.Type())
//	    return nil
//	})
//
// # Streaming
//
// Archives read from a pipe or socket can be fed to a Decoder as they
// arrive. The decoder reports whether it needs more bytes, is done, or has
// failed, and never mistakes a short read for a corrupt archive:
//
//	a, err := narkit.DecodeReader(ctx, conn)
//
// # Memory Model
//
// Names, link targets and file contents in a decoded tree are views into
// the decoded buffer. Keep the buffer unmodified while the tree is in use.
package narkit
