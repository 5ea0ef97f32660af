package navpath

import (
	"os"
	"strings"
)

type windows struct{}

func (windows) Name() string    { return "windows" }
func (windows) Separator() byte { return '\\' }

func (windows) DefaultRoot() string {
	if drive := os.Getenv("SystemDrive"); hasDriveLetter(drive) {
		return strings.ToUpper(drive[:1]) + `:\`
	}
	return `C:\`
}

func (c windows) IsAbs(p string) bool {
	_, _, err := c.Split(p)
	return err == nil
}

func (c windows) Normalize(p string) (string, error) {
	root, segments, err := c.Split(p)
	if err != nil {
		return "", err
	}
	return c.Join(root, segments...), nil
}

// Split accepts drive paths (C:\dir, c:/dir, bare C:) and UNC paths
// (\\server\share\dir), with or without the \\?\ prefix.
func (windows) Split(p string) (string, []string, error) {
	if p == "" {
		return "", nil, ErrInvalidPath
	}
	s := stripExtendedPrefix(strings.ReplaceAll(p, "/", `\`))

	var root, rest string
	switch {
	case strings.HasPrefix(s, `\\`):
		parts := strings.SplitN(s[2:], `\`, 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return "", nil, ErrInvalidPath
		}
		root = `\\` + parts[0] + `\` + parts[1] + `\`
		if len(parts) == 3 {
			rest = parts[2]
		}
	case hasDriveLetter(s):
		rest = s[2:]
		if rest != "" && rest[0] != '\\' {
			// C:dir is relative to the drive's current directory.
			return "", nil, ErrInvalidPath
		}
		root = strings.ToUpper(s[:1]) + `:\`
	default:
		return "", nil, ErrInvalidPath
	}

	segments := cleanSegments(strings.Split(rest, `\`))
	for _, segment := range segments {
		if strings.ContainsRune(segment, ':') {
			return "", nil, ErrInvalidPath
		}
	}
	return root, segments, nil
}

func (windows) Join(root string, segments ...string) string {
	return root + strings.Join(segments, `\`)
}

func (windows) Child(dir, name string) string {
	if strings.HasSuffix(dir, `\`) {
		return dir + name
	}
	return dir + `\` + name
}

func hasDriveLetter(s string) bool {
	if len(s) < 2 || s[1] != ':' {
		return false
	}
	c := s[0]
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func stripExtendedPrefix(s string) string {
	for _, prefix := range []string{`\\?\`, `\\.\`} {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		s = s[len(prefix):]
		if len(s) >= 4 && strings.EqualFold(s[:4], `UNC\`) {
			return `\\` + s[4:]
		}
		return s
	}
	return s
}
