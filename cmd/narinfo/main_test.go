package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/narkit/internal/nartest"
)

func writeArchive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.nar")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testInvocation(narFile, format string) *invocation {
	s := defaultSettings()
	s.Color = "never"
	s.Format = format
	return &invocation{settings: s, narFile: narFile}
}

func TestRunTree(t *testing.T) {
	path := writeArchive(t, nartest.Encode(nartest.Sample))

	var out bytes.Buffer
	if err := run(context.Background(), testInvocation(path, "tree"), nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := strings.Join([]string{
		"sample.nar/",
		"├── bin/",
		"│   └── hello*  (21 bytes)",
		"├── empty/",
		"├── lib -> ../share/lib",
		"└── share/",
		"    └── README  (12 bytes)",
		"",
	}, "\n")
	if out.String() != want {
		t.Errorf("tree output:\n%s\nwant:\n%s", out.String(), want)
	}
}

func TestRunSexpr(t *testing.T) {
	data := nartest.Encode(nartest.Link{Target: "/nix/store/abc"})

	var out bytes.Buffer
	inv := testInvocation("-", "sexpr")
	if err := run(context.Background(), inv, bytes.NewReader(data), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := out.String(), "symlink (target \"/nix/store/abc\")\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRunList(t *testing.T) {
	path := writeArchive(t, nartest.Encode(nartest.Sample))

	var out bytes.Buffer
	if err := run(context.Background(), testInvocation(path, "list"), nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	for _, want := range []string{
		fmt.Sprintf("%s %10d %s", "-r-xr-xr-x", 21, "bin/hello"),
		fmt.Sprintf("%s %10d %s", "-r--r--r--", 12, "share/README"),
		fmt.Sprintf("%s %10d %s -> %s", "Lrwxrwxrwx", 12, "lib", "../share/lib"),
	} {
		if !strings.Contains(out.String(), want+"\n") {
			t.Errorf("missing line %q in:\n%s", want, out.String())
		}
	}
}

func TestRunCat(t *testing.T) {
	path := writeArchive(t, nartest.Encode(nartest.Sample))

	inv := testInvocation(path, "tree")
	inv.catPath = "bin/hello"
	var out bytes.Buffer
	if err := run(context.Background(), inv, nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := out.String(); got != "#!/bin/sh\necho hello\n" {
		t.Errorf("cat output %q", got)
	}

	inv.catPath = "share"
	if err := run(context.Background(), inv, nil, &out); err == nil {
		t.Error("cat of a directory succeeded")
	}
}

func TestRunErrors(t *testing.T) {
	data := nartest.Encode(nartest.Sample)

	t.Run("missing file", func(t *testing.T) {
		inv := testInvocation(filepath.Join(t.TempDir(), "none.nar"), "tree")
		if err := run(context.Background(), inv, nil, &bytes.Buffer{}); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("truncated file", func(t *testing.T) {
		inv := testInvocation(writeArchive(t, data[:len(data)-8]), "tree")
		err := run(context.Background(), inv, nil, &bytes.Buffer{})
		if err == nil || !strings.Contains(err.Error(), "sample.nar") {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("strict trailing data", func(t *testing.T) {
		inv := testInvocation(writeArchive(t, append(append([]byte{}, data...), 0)), "tree")
		inv.Strict = true
		if err := run(context.Background(), inv, nil, &bytes.Buffer{}); err == nil {
			t.Error("trailing byte accepted in strict mode")
		}
	})

	t.Run("canonical", func(t *testing.T) {
		unsorted := nartest.Encode(nartest.Dir{
			{Name: "b", Node: nartest.File{}},
			{Name: "a", Node: nartest.File{}},
		})
		inv := testInvocation("-", "tree")
		if err := run(context.Background(), inv, bytes.NewReader(unsorted), &bytes.Buffer{}); err != nil {
			t.Fatalf("lenient decode: %v", err)
		}
		inv.Canonical = true
		if err := run(context.Background(), inv, bytes.NewReader(unsorted), &bytes.Buffer{}); err == nil {
			t.Error("unsorted entries accepted with canonical order")
		}
	})
}

func TestDisplayName(t *testing.T) {
	if got := displayName("-"); got != "<stdin>" {
		t.Errorf("displayName(-) = %q", got)
	}
	if got := displayName("/tmp/x/foo.nar"); got != "foo.nar" {
		t.Errorf("displayName = %q", got)
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	if colorEnabled("auto", &buf) {
		t.Error("auto colored a buffer")
	}
	if !colorEnabled("always", &buf) {
		t.Error("always did not color")
	}
	if colorEnabled("never", os.Stdout) {
		t.Error("never colored")
	}
}
