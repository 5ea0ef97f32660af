package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxstrb/greenfm/pkg/launch"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T, home string, err error) {
	t.Helper()
	withTestGlobalLock(t)
	oldOsUserHomeDir := osUserHomeDir
	t.Cleanup(func() {
		osUserHomeDir = oldOsUserHomeDir
	})
	osUserHomeDir = func() (string, error) {
		return home, err
	}
}

func TestGetUserDir_Success(t *testing.T) {
	withHome(t, "/tmp/home", nil)

	userDir, err := GetUserDir()
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/home", ".greenfm"), userDir)
}

func TestGetUserDir_Error(t *testing.T) {
	wantErr := errors.New("home dir error")
	withHome(t, "", wantErr)

	userDir, err := GetUserDir()
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, UserDir, userDir)
}

func TestLoad_Defaults(t *testing.T) {
	withHome(t, t.TempDir(), nil)
	t.Setenv(EnvStartDir, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.True(t, cfg.RememberLastDir)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
}

func TestLoad_NoHome(t *testing.T) {
	withHome(t, "", errors.New("no home"))
	t.Setenv(EnvStartDir, "/srv")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv", cfg.StartDir)
}

func TestLoad_UserDirFile(t *testing.T) {
	home := t.TempDir()
	withHome(t, home, nil)
	t.Setenv("HOME", home)
	t.Setenv(EnvStartDir, "")

	userDir := filepath.Join(home, ".greenfm")
	require.NoError(t, os.MkdirAll(userDir, 0o755))
	content := `start_dir: ~/projects
remember_last_dir: false
log:
  level: debug
  format: json
  file: ~/greenfm.log
launch:
  handler: less {path}
  shell: xterm
serve:
  addr: ":9000"
`
	require.NoError(t, os.WriteFile(filepath.Join(userDir, ConfigFileName), []byte(content), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Config{
		StartDir:        filepath.Join(home, "projects"),
		RememberLastDir: false,
		Log:             logging.Config{Level: "debug", Format: "json", File: filepath.Join(home, "greenfm.log")},
		Launch:          launch.Config{Handler: "less {path}", Shell: "xterm"},
		Serve:           ServeConfig{Addr: ":9000"},
	}, cfg)
}

func TestLoad_ExplicitFile(t *testing.T) {
	withHome(t, t.TempDir(), nil)
	t.Setenv(EnvStartDir, "/from/env")

	filePath := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte("start_dir: /from/file\nserve: {}\n"), 0o644))

	cfg, err := Load(filePath)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.StartDir)
	assert.Equal(t, DefaultServeAddr, cfg.Serve.Addr)
	assert.True(t, cfg.RememberLastDir)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	withHome(t, t.TempDir(), nil)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ReadError(t *testing.T) {
	withHome(t, t.TempDir(), nil)
	origReadYAML := readYAML
	defer func() { readYAML = origReadYAML }()
	readYAML = func(string, bool, any) error { return errors.New("broken") }

	_, err := Load("")
	assert.EqualError(t, err, "failed to read config "+filepath.Join(mustUserDir(t), ConfigFileName)+": broken")
}

func mustUserDir(t *testing.T) string {
	t.Helper()
	userDir, err := GetUserDir()
	require.NoError(t, err)
	return userDir
}
