package nar_test

import (
	"strings"
	"testing"

	"github.com/wippyai/narkit/errors"
	"github.com/wippyai/narkit/internal/nartest"
	"github.com/wippyai/narkit/nar"
)

func TestCheckCanonical(t *testing.T) {
	if err := nar.CheckCanonical(mustDecode(t, nartest.Encode(nartest.Sample))); err != nil {
		t.Fatalf("Sample is canonical, got %v", err)
	}
	for _, leaf := range []nar.Entry{&nar.Regular{}, &nar.Symlink{Target: []byte("x")}} {
		if err := nar.CheckCanonical(leaf); err != nil {
			t.Errorf("CheckCanonical(%v) = %v", leaf, err)
		}
	}
}

func TestCheckCanonicalViolations(t *testing.T) {
	file := nartest.File{}
	tests := []struct {
		name string
		dir  nartest.Dir
		kind errors.Kind
		path string
	}{
		{
			name: "unsorted at root",
			dir:  nartest.Dir{{Name: "b", Node: file}, {Name: "a", Node: file}},
			kind: errors.KindUnsortedEntries,
			path: "entry[1]",
		},
		{
			name: "byte order not locale order",
			dir:  nartest.Dir{{Name: "a", Node: file}, {Name: "B", Node: file}},
			kind: errors.KindUnsortedEntries,
			path: "entry[1]",
		},
		{
			name: "duplicate nested",
			dir: nartest.Dir{{Name: "sub", Node: nartest.Dir{
				{Name: "x", Node: file}, {Name: "x", Node: file},
			}}},
			kind: errors.KindDuplicateEntry,
			path: "sub.entry[1]",
		},
		{
			name: "nul in name",
			dir:  nartest.Dir{{Name: "a\x00b", Node: file}},
			kind: errors.KindInvalidName,
			path: "entry[0]",
		},
		{
			name: "dot",
			dir:  nartest.Dir{{Name: ".", Node: file}},
			kind: errors.KindInvalidName,
			path: "entry[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustDecode(t, nartest.Encode(tt.dir))
			err := nar.CheckCanonical(root)
			e := wantKind(t, err, tt.kind)
			if e.Phase != errors.PhaseValidate {
				t.Errorf("Phase = %v, want validate", e.Phase)
			}
			if got := strings.Join(e.Path, "."); got != tt.path {
				t.Errorf("Path = %s, want %s", got, tt.path)
			}
		})
	}
}
