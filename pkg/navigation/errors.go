package navigation

import (
	"io/fs"
	"syscall"

	"github.com/jmgilman/go/errors"
	"github.com/maxstrb/greenfm/pkg/navpath"
)

// Kind classifies navigation failures.
type Kind string

const (
	KindNotFound         Kind = "NotFound"
	KindPermissionDenied Kind = "PermissionDenied"
	KindInvalidPath      Kind = "InvalidPath"
	KindUnavailable      Kind = "Unavailable"
	KindUnknown          Kind = "Unknown"
)

// pathKey is the error context key holding the offending path.
const pathKey = "path"

var kindCodes = map[Kind]errors.ErrorCode{
	KindNotFound:         errors.CodeNotFound,
	KindPermissionDenied: errors.CodeForbidden,
	KindInvalidPath:      errors.CodeInvalidInput,
	KindUnavailable:      errors.CodeUnavailable,
}

// KindOf returns the kind of a navigation error, KindUnknown for anything else.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	code := errors.GetCode(err)
	for kind, c := range kindCodes {
		if c == code {
			return kind
		}
	}
	return KindUnknown
}

// PathOf returns the path a navigation error is about.
func PathOf(err error) string {
	var platformErr errors.PlatformError
	if !errors.As(err, &platformErr) {
		return ""
	}
	p, _ := platformErr.Context()[pathKey].(string)
	return p
}

func newError(kind Kind, p string, cause error, message string) error {
	code, ok := kindCodes[kind]
	if !ok {
		code = errors.CodeUnknown
	}
	var err errors.PlatformError
	if cause == nil {
		err = errors.New(code, message)
	} else {
		err = errors.Wrap(cause, code, message)
	}
	return errors.WithContext(err, pathKey, p)
}

// classify maps a file-system error onto a navigation kind.
func classify(err error) Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return KindNotFound
	case errors.Is(err, fs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, navpath.ErrInvalidPath):
		return KindInvalidPath
	}
	return KindUnknown
}

func wrapFS(err error, p, message string) error {
	return newError(classify(err), p, err, message)
}

func invalidPath(p string, cause error) error {
	return newError(KindInvalidPath, p, cause, "invalid path: "+p)
}

func launchFailed(err error, p, message string) error {
	return errors.WithContext(errors.Wrap(err, errors.CodeExecutionFailed, message), pathKey, p)
}
