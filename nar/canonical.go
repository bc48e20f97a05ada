package nar

import (
	"bytes"
	"strconv"

	"github.com/wippyai/narkit/errors"
)

// CheckCanonical reports the first place where root departs from the
// canonical form: directory entries in strictly ascending byte order and
// names that are valid path components. It returns nil for canonical trees.
func CheckCanonical(root Entry) error {
	return checkCanonical(root, nil)
}

func checkCanonical(e Entry, path []string) error {
	d, ok := e.(*Directory)
	if !ok {
		return nil
	}
	for i, child := range d.Entries {
		var prev []byte
		if i > 0 {
			prev = d.Entries[i-1].Name
		}
		if err := checkName(prev, child.Name, i > 0); err != nil {
			err.Path = append(append([]string{}, path...), "entry["+strconv.Itoa(i)+"]")
			return err
		}
		if err := checkCanonical(child.Node, append(path, string(child.Name))); err != nil {
			return err
		}
	}
	return nil
}

// checkName validates name as a directory entry that follows prev.
func checkName(prev, name []byte, hasPrev bool) *errors.Error {
	switch {
	case len(name) == 0:
		return nameError(errors.KindInvalidName, name, "empty name")
	case string(name) == "." || string(name) == "..":
		return nameError(errors.KindInvalidName, name, "reserved name %q", name)
	case bytes.IndexByte(name, '/') >= 0:
		return nameError(errors.KindInvalidName, name, "name %q contains '/'", name)
	case bytes.IndexByte(name, 0) >= 0:
		return nameError(errors.KindInvalidName, name, "name %q contains NUL", name)
	}

	if !hasPrev {
		return nil
	}
	switch c := bytes.Compare(prev, name); {
	case c == 0:
		return nameError(errors.KindDuplicateEntry, name, "duplicate entry %q", name)
	case c > 0:
		return nameError(errors.KindUnsortedEntries, name, "%q sorts before %q", name, prev)
	}
	return nil
}

func nameError(kind errors.Kind, name []byte, msg string, args ...any) *errors.Error {
	return errors.New(errors.PhaseValidate, kind).
		Value(string(name)).
		Detail(msg, args...).
		Build()
}
