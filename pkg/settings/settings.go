// Package settings locates the user directory and loads greenfm.yaml.
package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maxstrb/greenfm/pkg/fsutils"
	"github.com/maxstrb/greenfm/pkg/launch"
	"github.com/maxstrb/greenfm/pkg/logging"
)

const UserDir = "~/.greenfm"

const ConfigFileName = "greenfm.yaml"

// EnvStartDir overrides start_dir.
const EnvStartDir = "GREENFM_START_DIR"

const DefaultServeAddr = "127.0.0.1:7878"

var osUserHomeDir = os.UserHomeDir
var getenv = os.Getenv
var readYAML = fsutils.ReadYAMLFile

// GetUserDir returns the expanded user directory, or UserDir itself when there is no home.
func GetUserDir() (string, error) {
	userHomeDir, err := osUserHomeDir()
	if err != nil {
		return UserDir, err
	}
	return filepath.Join(userHomeDir, UserDir[2:]), nil
}

type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

type Config struct {
	StartDir        string         `yaml:"start_dir,omitempty"`
	RememberLastDir bool           `yaml:"remember_last_dir"`
	Log             logging.Config `yaml:"log,omitempty"`
	Launch          launch.Config  `yaml:"launch,omitempty"`
	Serve           ServeConfig    `yaml:"serve,omitempty"`
}

func Default() Config {
	return Config{
		RememberLastDir: true,
		Serve:           ServeConfig{Addr: DefaultServeAddr},
	}
}

// Load reads the configuration at filePath, or greenfm.yaml in the user directory
// when filePath is empty. Only an explicitly named file has to exist.
func Load(filePath string) (Config, error) {
	cfg := Default()
	required := filePath != ""
	if !required {
		userDir, err := GetUserDir()
		if err != nil {
			// Without a home directory there is nothing to read.
			return withEnv(cfg), nil
		}
		filePath = filepath.Join(userDir, ConfigFileName)
	}
	if err := readYAML(fsutils.ExpandHome(filePath), required, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", filePath, err)
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultServeAddr
	}
	return withEnv(cfg), nil
}

func withEnv(cfg Config) Config {
	if startDir := getenv(EnvStartDir); startDir != "" {
		cfg.StartDir = startDir
	}
	cfg.StartDir = fsutils.ExpandHome(cfg.StartDir)
	cfg.Log.File = fsutils.ExpandHome(cfg.Log.File)
	return cfg
}
