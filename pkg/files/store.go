package files

//go:generate mockgen -source=store.go -destination=mock_store.go -package=files

import (
	"context"
	"net/url"
	"os"
)

// Store gives read access to one file system: its directories,
// the metadata of single paths and the volumes it is mounted from.
type Store interface {
	RootTitle() string
	RootURL() url.URL
	ReadDir(ctx context.Context, name string) ([]os.DirEntry, error)
	Stat(ctx context.Context, name string) (os.FileInfo, error)
	Volumes(ctx context.Context) ([]Volume, error)
}
