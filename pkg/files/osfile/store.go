package osfile

import (
	"context"
	"net/url"
	"os"
	"strings"

	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/maxstrb/greenfm/pkg/volumes"
)

var osReadDir = os.ReadDir
var osStat = os.Stat
var osHostname = os.Hostname
var listVolumes = volumes.List

var _ files.Store = (*Store)(nil)

// Store reads the local disks of this machine.
type Store struct {
	title string
}

func (s Store) RootURL() url.URL {
	return url.URL{
		Scheme: "file",
	}
}

func (s Store) RootTitle() string {
	return strings.TrimSuffix(s.title, ".local")
}

func (s Store) ReadDir(ctx context.Context, name string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return osReadDir(name)
}

// Stat follows symbolic links.
func (s Store) Stat(ctx context.Context, name string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return osStat(name)
}

func (s Store) Volumes(ctx context.Context) ([]files.Volume, error) {
	return listVolumes(ctx)
}

func NewStore() *Store {
	var store Store
	var err error
	if store.title, err = osHostname(); err != nil {
		store.title = err.Error()
	}
	store.title = "🖥️" + store.title
	return &store
}
