// Package billyfile serves a go-billy filesystem as a files.Store.
// With memfs it gives fully in-memory trees for demos and tests.
package billyfile

import (
	"context"
	"net/url"
	"os"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/maxstrb/greenfm/pkg/files"
)

const schema = "billy"

var _ files.Store = (*Store)(nil)

type StoreOption func(*Store)

// WithTitle overrides the title shown for the store root.
func WithTitle(title string) StoreOption {
	return func(s *Store) {
		s.title = title
	}
}

// WithVolumes makes the store report the given volumes instead of its single root.
func WithVolumes(v ...files.Volume) StoreOption {
	return func(s *Store) {
		s.volumes = append([]files.Volume(nil), v...)
	}
}

// WithoutModTimes drops modification times for filesystems that cannot keep
// them. memfs reports the current time on every call.
func WithoutModTimes() StoreOption {
	return func(s *Store) {
		s.modTimes = false
	}
}

type Store struct {
	fs       billy.Filesystem
	title    string
	volumes  []files.Volume
	modTimes bool
}

func NewStore(fs billy.Filesystem, o ...StoreOption) *Store {
	store := &Store{
		fs:       fs,
		title:    schema + "://" + fs.Root(),
		modTimes: true,
	}
	for _, opt := range o {
		opt(store)
	}
	return store
}

func NewMemoryStore(o ...StoreOption) *Store {
	return NewStore(memfs.New(), append([]StoreOption{WithoutModTimes()}, o...)...)
}

// Filesystem gives access to the underlying filesystem, e.g. to seed a memfs tree.
func (s *Store) Filesystem() billy.Filesystem {
	return s.fs
}

func (s *Store) RootURL() url.URL {
	return url.URL{
		Scheme: schema,
		Path:   s.fs.Root(),
	}
}

func (s *Store) RootTitle() string {
	return s.title
}

func (s *Store) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := s.fs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	entries := make([]os.DirEntry, 0, len(infos))
	for _, info := range infos {
		o := []files.FileInfoOption{files.Size(info.Size()), files.Mode(info.Mode())}
		if s.modTimes {
			o = append(o, files.ModTime(info.ModTime()))
		}
		entries = append(entries, files.NewDirEntry(info.Name(), info.IsDir(), o...))
	}
	return entries, nil
}

func (s *Store) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info, err := s.fs.Stat(name)
	if err != nil || s.modTimes {
		return info, err
	}
	return undatedInfo{info}, nil
}

type undatedInfo struct {
	os.FileInfo
}

func (undatedInfo) ModTime() time.Time { return time.Time{} }

func (s *Store) Volumes(ctx context.Context) ([]files.Volume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(s.volumes) > 0 {
		return append([]files.Volume(nil), s.volumes...), nil
	}
	return []files.Volume{{ID: "/", Label: files.VolumeLabel(s.title, "/")}}, nil
}
