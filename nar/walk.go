package nar

import (
	stderrors "errors"
)

// SkipDir returned by a WalkFunc skips the children of the directory
// being visited.
var SkipDir = stderrors.New("skip this directory")

// WalkFunc is called once per node. The root has path "".
type WalkFunc func(path string, e Entry) error

// Walk visits root and its descendants depth-first, parents before
// children, in stored order.
func Walk(root Entry, fn WalkFunc) error {
	err := walk("", root, fn)
	if err == SkipDir {
		return nil
	}
	return err
}

func walk(path string, e Entry, fn WalkFunc) error {
	if err := fn(path, e); err != nil {
		return err
	}
	d, ok := e.(*Directory)
	if !ok {
		return nil
	}
	for _, child := range d.Entries {
		p := string(child.Name)
		if path != "" {
			p = path + "/" + p
		}
		if err := walk(p, child.Node, fn); err != nil {
			if err == SkipDir {
				continue
			}
			return err
		}
	}
	return nil
}
