package navpath

import (
	"strings"
)

type posix struct{}

func (posix) Name() string        { return "posix" }
func (posix) Separator() byte     { return '/' }
func (posix) DefaultRoot() string { return "/" }

func (posix) IsAbs(p string) bool {
	return strings.HasPrefix(p, "/")
}

func (c posix) Normalize(p string) (string, error) {
	root, segments, err := c.Split(p)
	if err != nil {
		return "", err
	}
	return c.Join(root, segments...), nil
}

func (c posix) Split(p string) (string, []string, error) {
	if !c.IsAbs(p) {
		return "", nil, ErrInvalidPath
	}
	return "/", cleanSegments(strings.Split(p, "/")), nil
}

func (posix) Join(root string, segments ...string) string {
	return root + strings.Join(segments, "/")
}

func (posix) Child(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
