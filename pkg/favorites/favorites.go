// Package favorites persists the directories a user pinned in the browser.
package favorites

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/maxstrb/greenfm/pkg/fsutils"
	"github.com/maxstrb/greenfm/pkg/settings"
)

type Favorite struct {
	Path string `json:"path" yaml:"path"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Expanded returns Path with a leading ~ replaced by the home directory.
func (f Favorite) Expanded() string {
	return fsutils.ExpandHome(f.Path)
}

// Title is the text a renderer shows for the favourite.
func (f Favorite) Title() string {
	if f.Name != "" {
		return f.Name
	}
	return f.Path
}

const favoritesFileName = "greenfm-favorites.yaml"

var favoritesFilePath string

var GetUserDir = settings.GetUserDir
var readYAML = fsutils.ReadYAMLFile
var writeYAML = fsutils.WriteYAMLFile

func init() {
	userDir, err := GetUserDir()
	if err == nil {
		favoritesFilePath = filepath.Join(userDir, favoritesFileName)
	}
}

var errUserHomeDirIsUnknown = errors.New("user home directory is unknown")

// GetFavorites returns the stored favourites. On first use the defaults are written.
func GetFavorites() ([]Favorite, error) {
	if favoritesFilePath == "" {
		return nil, errUserHomeDirIsUnknown
	}
	var favorites []Favorite
	if err := readYAML(favoritesFilePath, true, &favorites); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		defaults := defaultFavorites()
		if err = writeYAML(favoritesFilePath, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if favorites == nil {
		favorites = []Favorite{}
	}
	for i := range favorites {
		favorites[i].Path = fold(favorites[i].Path)
	}
	return favorites, nil
}

// AddFavorite stores f, replacing a favourite with the same path.
func AddFavorite(f Favorite) error {
	if favoritesFilePath == "" {
		return errUserHomeDirIsUnknown
	}
	f.Path = fold(f.Path)
	favorites, err := GetFavorites()
	if err != nil {
		return err
	}
	for i, existing := range favorites {
		if existing.Path == f.Path {
			favorites[i] = f
			return writeYAML(favoritesFilePath, favorites)
		}
	}
	return writeYAML(favoritesFilePath, append(favorites, f))
}

// DeleteFavorite removes the favourite pointing at p. Unknown paths are ignored.
func DeleteFavorite(p string) error {
	if favoritesFilePath == "" {
		return errUserHomeDirIsUnknown
	}
	favorites, err := GetFavorites()
	if err != nil {
		return err
	}
	p = fold(p)
	updated := make([]Favorite, 0, len(favorites))
	for _, item := range favorites {
		if item.Path == p {
			continue
		}
		updated = append(updated, item)
	}
	return writeYAML(favoritesFilePath, updated)
}

func fold(p string) string {
	if p == "" || p == "~" || (len(p) > 1 && p[:2] == "~/") {
		return p
	}
	return fsutils.FoldHome(filepath.Clean(p))
}

func defaultFavorites() []Favorite {
	return []Favorite{
		{Path: "~", Name: "Home"},
		{Path: settings.UserDir, Name: "GreenFM settings"},
	}
}
