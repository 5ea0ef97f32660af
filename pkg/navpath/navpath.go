// Package navpath decomposes absolute paths into a root and segments
// independently of the platform the process runs on.
package navpath

import (
	"errors"
	"runtime"
)

// ErrInvalidPath reports an empty, relative or otherwise malformed path.
var ErrInvalidPath = errors.New("invalid path")

// Convention is a platform path syntax.
type Convention interface {
	Name() string
	Separator() byte

	// IsAbs reports whether p names a location starting at a volume root.
	IsAbs(p string) bool

	// Normalize returns the canonical form of an absolute path.
	Normalize(p string) (string, error)

	// Split returns the volume root of p and the segments below it.
	Split(p string) (root string, segments []string, err error)

	// Join builds a normalized path from a root and segments.
	Join(root string, segments ...string) string

	// Child appends a single entry name to a normalized directory path.
	Child(dir, name string) string

	// DefaultRoot is the root used when nothing better is known.
	DefaultRoot() string
}

var (
	Posix   Convention = posix{}
	Windows Convention = windows{}
)

var goos = runtime.GOOS

// Native returns the convention of the running platform.
func Native() Convention {
	if goos == "windows" {
		return Windows
	}
	return Posix
}

// Ancestors returns the chain from the volume root down to p itself.
func Ancestors(c Convention, p string) ([]string, error) {
	root, segments, err := c.Split(p)
	if err != nil {
		return nil, err
	}
	chain := make([]string, 0, len(segments)+1)
	chain = append(chain, root)
	for i := range segments {
		chain = append(chain, c.Join(root, segments[:i+1]...))
	}
	return chain, nil
}

// Parent returns the directory containing p. A root is its own parent.
func Parent(c Convention, p string) (string, error) {
	root, segments, err := c.Split(p)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return root, nil
	}
	return c.Join(root, segments[:len(segments)-1]...), nil
}

// Name returns the last segment of p, or the root itself.
func Name(c Convention, p string) string {
	root, segments, err := c.Split(p)
	if err != nil {
		return p
	}
	if len(segments) == 0 {
		return root
	}
	return segments[len(segments)-1]
}

// IsRoot reports whether p is a volume root.
func IsRoot(c Convention, p string) bool {
	_, segments, err := c.Split(p)
	return err == nil && len(segments) == 0
}

// Resolve interprets p relative to base unless p is already absolute.
func Resolve(c Convention, base, p string) (string, error) {
	if p == "" {
		return "", ErrInvalidPath
	}
	if c.IsAbs(p) {
		return c.Normalize(p)
	}
	return c.Normalize(base + string(c.Separator()) + p)
}

// cleanSegments drops empty and "." segments and resolves "..",
// never climbing above the root.
func cleanSegments(raw []string) []string {
	segments := make([]string, 0, len(raw))
	for _, s := range raw {
		switch s {
		case "", ".":
			continue
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, s)
		}
	}
	return segments
}
