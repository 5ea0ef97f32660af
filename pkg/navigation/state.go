// Package navigation owns the current working location of a file browser
// and answers every question a renderer asks about it.
package navigation

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/jmgilman/go/errors"
	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/maxstrb/greenfm/pkg/navpath"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
)

// Entry is an immutable snapshot of one child of a listed directory.
type Entry struct {
	Name     string     `json:"name"`
	FullPath string     `json:"full_path"`
	IsDir    bool       `json:"is_dir"`
	Size     int64      `json:"size,omitempty"`
	ModTime  *time.Time `json:"modified,omitempty"`
}

// Launcher hands paths over to programs outside the browser.
type Launcher interface {
	Open(ctx context.Context, path string) error
	Shell(ctx context.Context, dir string) error
}

type Option func(*State)

// WithPathConvention overrides the platform path syntax, e.g. for in-memory stores.
func WithPathConvention(c navpath.Convention) Option {
	return func(s *State) {
		s.paths = c
	}
}

func WithLauncher(l Launcher) Option {
	return func(s *State) {
		s.launcher = l
	}
}

func WithLogger(log *logrus.Entry) Option {
	return func(s *State) {
		s.log = log
	}
}

// OnDirectoryChanged registers a hook called after every successful ChangeDirectory.
func OnDirectoryChanged(f func(path string)) Option {
	return func(s *State) {
		s.onChange = append(s.onChange, f)
	}
}

// State is the navigation state of one browser session.
type State struct {
	store    files.Store
	paths    navpath.Convention
	launcher Launcher
	log      *logrus.Entry
	onChange []func(path string)

	mu      sync.RWMutex
	current string
}

// New starts a session at startPath, which must be an existing directory.
func New(ctx context.Context, store files.Store, startPath string, o ...Option) (*State, error) {
	s := &State{
		store: store,
		paths: navpath.Native(),
		log:   logging.NewLogger("navigation"),
	}
	for _, opt := range o {
		opt(s)
	}
	if !s.paths.IsAbs(startPath) {
		return nil, invalidPath(startPath, navpath.ErrInvalidPath)
	}
	current, err := s.resolveDir(ctx, s.paths.DefaultRoot(), startPath)
	if err != nil {
		return nil, err
	}
	s.current = current
	return s, nil
}

// Store returns the file system the session browses.
func (s *State) Store() files.Store {
	return s.store
}

// PathConvention returns the path syntax of the session.
func (s *State) PathConvention() navpath.Convention {
	return s.paths
}

// RootTitle names the store being browsed, e.g. the host name.
func (s *State) RootTitle() string {
	return s.store.RootTitle()
}

func (s *State) RootURL() url.URL {
	return s.store.RootURL()
}

func (s *State) CurrentDirectory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ChangeDirectory moves to newPath, resolved against the current directory when relative.
// The current directory is untouched on failure.
func (s *State) ChangeDirectory(ctx context.Context, newPath string) error {
	target, err := s.resolveDir(ctx, s.CurrentDirectory(), newPath)
	if err != nil {
		s.log.WithError(err).WithField("path", newPath).Debug("change directory rejected")
		return err
	}

	s.mu.Lock()
	previous := s.current
	s.current = target
	s.mu.Unlock()

	if previous != target {
		s.log.WithField("path", target).Info("current directory changed")
	}
	for _, f := range s.onChange {
		f(target)
	}
	return nil
}

// ResolveDirectory validates p the way ChangeDirectory does and returns its
// normalized form without moving.
func (s *State) ResolveDirectory(ctx context.Context, p string) (string, error) {
	return s.resolveDir(ctx, s.CurrentDirectory(), p)
}

// ListCurrentDirectory lists the directory that is current when the call starts,
// even if another goroutine changes directory while it runs.
func (s *State) ListCurrentDirectory(ctx context.Context) ([]Entry, error) {
	return s.list(ctx, s.CurrentDirectory())
}

func (s *State) ListDirectory(ctx context.Context, p string) ([]Entry, error) {
	dir, err := s.paths.Normalize(p)
	if err != nil {
		return nil, invalidPath(p, err)
	}
	return s.list(ctx, dir)
}

func (s *State) Ancestors() []string {
	chain, _ := navpath.Ancestors(s.paths, s.CurrentDirectory())
	return chain
}

// AncestorsOf returns the chain from the volume root down to p, p included.
func (s *State) AncestorsOf(p string) ([]string, error) {
	chain, err := navpath.Ancestors(s.paths, p)
	if err != nil {
		return nil, invalidPath(p, err)
	}
	return chain, nil
}

func (s *State) Parent() string {
	parent, _ := navpath.Parent(s.paths, s.CurrentDirectory())
	return parent
}

// ParentOf returns the directory containing p. A volume root is its own parent.
func (s *State) ParentOf(p string) (string, error) {
	parent, err := navpath.Parent(s.paths, p)
	if err != nil {
		return "", invalidPath(p, err)
	}
	return parent, nil
}

func (s *State) ListVolumes(ctx context.Context) ([]files.Volume, error) {
	found, err := s.store.Volumes(ctx)
	if err != nil {
		return nil, newError(KindUnavailable, "", err, "cannot enumerate volumes")
	}
	s.log.WithField("count", len(found)).Debug("listed volumes")
	return found, nil
}

// OpenFile opens a file with the default handler of the platform.
func (s *State) OpenFile(ctx context.Context, p string) error {
	target, err := navpath.Resolve(s.paths, s.CurrentDirectory(), p)
	if err != nil {
		return invalidPath(p, err)
	}
	info, err := s.store.Stat(ctx, target)
	if err != nil {
		return wrapFS(err, target, "cannot open "+target)
	}
	if info.IsDir() {
		return newError(KindNotFound, target, nil, "not a file: "+target)
	}
	if s.launcher == nil {
		return newError(KindUnavailable, target, nil, "no file handler configured")
	}
	if err = s.launcher.Open(ctx, target); err != nil {
		return launchFailed(err, target, "cannot open "+target)
	}
	return nil
}

// OpenShell opens a terminal in p, or in the current directory when p is empty.
func (s *State) OpenShell(ctx context.Context, p string) error {
	current := s.CurrentDirectory()
	if p == "" {
		p = current
	}
	dir, err := s.resolveDir(ctx, current, p)
	if err != nil {
		return err
	}
	if s.launcher == nil {
		return newError(KindUnavailable, dir, nil, "no shell configured")
	}
	if err = s.launcher.Shell(ctx, dir); err != nil {
		return launchFailed(err, dir, "cannot open shell in "+dir)
	}
	return nil
}

func (s *State) resolveDir(ctx context.Context, base, p string) (string, error) {
	target, err := navpath.Resolve(s.paths, base, p)
	if err != nil {
		return "", invalidPath(p, err)
	}
	info, err := s.store.Stat(ctx, target)
	if err != nil {
		return "", wrapFS(err, target, "cannot change directory to "+target)
	}
	if !info.IsDir() {
		return "", newError(KindNotFound, target, nil, "not a directory: "+target)
	}
	return target, nil
}

func (s *State) list(ctx context.Context, dir string) ([]Entry, error) {
	children, err := s.store.ReadDir(ctx, dir)
	if err != nil {
		return nil, wrapFS(err, dir, "cannot list "+dir)
	}
	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		entry, exists, err := s.describe(ctx, dir, child)
		if err != nil {
			return nil, err
		}
		if exists {
			entries = append(entries, entry)
		}
	}
	if err = ctx.Err(); err != nil {
		return nil, wrapFS(err, dir, "cannot list "+dir)
	}
	sortEntries(entries)
	s.log.WithFields(logrus.Fields{"path": dir, "count": len(entries)}).Debug("listed directory")
	return entries, nil
}

// describe reports false for a child removed after the directory was read.
func (s *State) describe(ctx context.Context, dir string, child os.DirEntry) (Entry, bool, error) {
	fullPath := s.paths.Child(dir, child.Name())
	entry := Entry{
		Name:     child.Name(),
		FullPath: fullPath,
		IsDir:    child.IsDir(),
	}
	info, err := child.Info()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, false, nil
		}
		return Entry{}, false, wrapFS(err, fullPath, "cannot describe "+fullPath)
	}
	if child.Type()&fs.ModeSymlink != 0 {
		// A dangling link stays a non-directory.
		if target, err := s.store.Stat(ctx, fullPath); err == nil {
			info = target
			entry.IsDir = target.IsDir()
		}
	}
	if info != nil {
		if !entry.IsDir {
			entry.Size = info.Size()
		}
		if modTime := info.ModTime(); !modTime.IsZero() {
			entry.ModTime = &modTime
		}
	}
	return entry, true, nil
}

// sortEntries puts directories first, then orders by case-folded name with
// the exact name breaking ties.
func sortEntries(entries []Entry) {
	fold := cases.Fold()
	keys := make(map[string]string, len(entries))
	for _, entry := range entries {
		keys[entry.Name] = fold.String(entry.Name)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		if a, b := keys[entries[i].Name], keys[entries[j].Name]; a != b {
			return a < b
		}
		return entries[i].Name < entries[j].Name
	})
}
