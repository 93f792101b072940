// Package nav maintains the current folder path for a file browser and
// derives breadcrumb segments from it.
package nav

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned when a folder name is empty or contains a
// path separator.
var ErrInvalidName = errors.New("invalid folder name")

// ErrIndexOutOfRange is returned when a breadcrumb index does not exist.
var ErrIndexOutOfRange = errors.New("breadcrumb index out of range")

// Navigator tracks a slash-delimited folder path. The zero value starts at
// the root. Navigator performs no I/O; callers refresh listings after each
// mutation.
type Navigator struct {
	current string // "" at root, otherwise "a/b/c" with no leading or trailing slash
}

// New returns a Navigator positioned at the root.
func New() *Navigator {
	return &Navigator{}
}

// Current returns the current path, "" for the root.
func (n *Navigator) Current() string {
	return n.current
}

// AtRoot reports whether the navigator is at the root.
func (n *Navigator) AtRoot() bool {
	return n.current == ""
}

// NavigateInto descends into folder and returns the new path.
func (n *Navigator) NavigateInto(folder string) (string, error) {
	if folder == "" || strings.Contains(folder, "/") {
		return n.current, fmt.Errorf("%w: %q", ErrInvalidName, folder)
	}
	if n.current == "" {
		n.current = folder
	} else {
		n.current = n.current + "/" + folder
	}
	return n.current, nil
}

// NavigateUp drops the last segment and returns the new path. At the root
// it is a no-op.
func (n *Navigator) NavigateUp() string {
	if i := strings.LastIndex(n.current, "/"); i >= 0 {
		n.current = n.current[:i]
	} else {
		n.current = ""
	}
	return n.current
}

// NavigateHome resets to the root.
func (n *Navigator) NavigateHome() string {
	n.current = ""
	return n.current
}

// NavigateToBreadcrumb jumps to the ancestor identified by the breadcrumb
// index i and returns the new path. Index 0 is the first segment below the
// root.
func (n *Navigator) NavigateToBreadcrumb(i int) (string, error) {
	segs := n.Breadcrumbs()
	if i < 0 || i >= len(segs) {
		return n.current, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i, len(segs))
	}
	n.current = strings.Join(segs[:i+1], "/")
	return n.current, nil
}

// Breadcrumbs returns the path segments in order, empty at the root.
func (n *Navigator) Breadcrumbs() []string {
	if n.current == "" {
		return nil
	}
	return strings.Split(n.current, "/")
}
