package nar_test

import (
	stderrors "errors"
	"slices"
	"testing"

	"github.com/wippyai/narkit/internal/nartest"
	"github.com/wippyai/narkit/nar"
)

func TestWalk(t *testing.T) {
	root := mustDecode(t, nartest.Encode(nartest.Sample))

	var paths []string
	err := nar.Walk(root, func(path string, e nar.Entry) error {
		paths = append(paths, path+":"+e.Type().String())
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{
		":directory",
		"bin:directory",
		"bin/hello:regular",
		"empty:directory",
		"lib:symlink",
		"share:directory",
		"share/README:regular",
	}
	if !slices.Equal(paths, want) {
		t.Errorf("Walk visited %v, want %v", paths, want)
	}
}

func TestWalkSkipDir(t *testing.T) {
	root := mustDecode(t, nartest.Encode(nartest.Sample))

	var paths []string
	err := nar.Walk(root, func(path string, e nar.Entry) error {
		paths = append(paths, path)
		if path == "bin" {
			return nar.SkipDir
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if slices.Contains(paths, "bin/hello") {
		t.Errorf("SkipDir did not skip bin: %v", paths)
	}
	if !slices.Contains(paths, "share/README") {
		t.Errorf("SkipDir skipped too much: %v", paths)
	}
}

func TestWalkSkipRoot(t *testing.T) {
	root := mustDecode(t, nartest.Encode(nartest.Sample))
	calls := 0
	err := nar.Walk(root, func(string, nar.Entry) error {
		calls++
		return nar.SkipDir
	})
	if err != nil || calls != 1 {
		t.Errorf("err=%v calls=%d, want nil and 1", err, calls)
	}
}

func TestWalkStops(t *testing.T) {
	root := mustDecode(t, nartest.Encode(nartest.Sample))
	stop := stderrors.New("stop")
	calls := 0
	err := nar.Walk(root, func(path string, e nar.Entry) error {
		calls++
		if path == "empty" {
			return stop
		}
		return nil
	})
	if err != stop {
		t.Errorf("Walk returned %v, want stop", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
}
