package state

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withUserDir(t *testing.T, dir string) {
	t.Helper()
	origGetUserDir := getUserDir
	getUserDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { getUserDir = origGetUserDir })
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	t.Cleanup(func() { logging.SetOutput(os.Stderr) })
	return &buf
}

func TestGetCurrentDir(t *testing.T) {
	withUserDir(t, t.TempDir())

	origReadJSON := readJSON
	defer func() { readJSON = origReadJSON }()

	t.Run("empty_state", func(t *testing.T) {
		readJSON = func(filePath string, required bool, o any) error {
			return nil
		}
		assert.Equal(t, "", GetCurrentDir())
	})

	t.Run("with_state", func(t *testing.T) {
		readJSON = func(filePath string, required bool, o any) error {
			o.(*State).CurrentDir = "/some/dir"
			return nil
		}
		assert.Equal(t, "/some/dir", GetCurrentDir())
	})

	t.Run("read_error", func(t *testing.T) {
		readJSON = func(filePath string, required bool, o any) error {
			o.(*State).CurrentDir = "/partial"
			return errors.New("read error")
		}
		assert.Equal(t, "", GetCurrentDir())
	})
}

func TestSaveCurrentDir_RoundTrip(t *testing.T) {
	userDir := filepath.Join(t.TempDir(), ".greenfm")
	withUserDir(t, userDir)

	SaveCurrentDir("/home/user/docs")
	assert.Equal(t, "/home/user/docs", GetCurrentDir())

	data, err := os.ReadFile(filepath.Join(userDir, stateFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"current_dir": "/home/user/docs"`)
}

func TestSaveCurrentDir(t *testing.T) {
	tmpDir := t.TempDir()
	withUserDir(t, tmpDir)

	origReadJSON := readJSON
	origWriteJSON := writeJSON
	defer func() {
		readJSON = origReadJSON
		writeJSON = origWriteJSON
	}()

	t.Run("success", func(t *testing.T) {
		readJSON = func(filePath string, required bool, o any) error {
			return nil
		}
		var saved State
		writeJSON = func(filePath string, o any) error {
			assert.Equal(t, filepath.Join(tmpDir, stateFileName), filePath)
			saved = o.(State)
			return nil
		}
		SaveCurrentDir("/new/dir")
		assert.Equal(t, "/new/dir", saved.CurrentDir)
	})

	t.Run("read_error_still_writes", func(t *testing.T) {
		buf := captureLog(t)
		readJSON = func(filePath string, required bool, o any) error {
			return errors.New("read error")
		}
		var written bool
		writeJSON = func(filePath string, o any) error {
			written = true
			return nil
		}
		SaveCurrentDir("/new/dir")
		assert.True(t, written)
		assert.Contains(t, buf.String(), "cannot read state file")
	})

	t.Run("not_a_directory", func(t *testing.T) {
		buf := captureLog(t)
		readJSON = func(filePath string, required bool, o any) error {
			return nil
		}
		file, err := os.CreateTemp(tmpDir, "notadir")
		require.NoError(t, err)
		_ = file.Close()
		withUserDir(t, file.Name())

		writeJSON = func(filePath string, o any) error {
			t.Error("writeJSON must not be called")
			return nil
		}
		SaveCurrentDir("/new/dir")
		assert.Contains(t, buf.String(), "settings path is not a directory")
	})

	t.Run("write_error", func(t *testing.T) {
		buf := captureLog(t)
		withUserDir(t, tmpDir)
		readJSON = func(filePath string, required bool, o any) error {
			return nil
		}
		writeJSON = func(filePath string, o any) error {
			return errors.New("write error")
		}
		SaveCurrentDir("/new/dir")
		assert.Contains(t, buf.String(), "cannot write state file")
	})
}

func TestSaveCurrentDir_NoUserDir(t *testing.T) {
	buf := captureLog(t)
	origGetUserDir := getUserDir
	defer func() { getUserDir = origGetUserDir }()
	getUserDir = func() (string, error) { return "", errors.New("no home") }

	SaveCurrentDir("/x")
	assert.Contains(t, buf.String(), "cannot locate state file")
	assert.Equal(t, "", GetCurrentDir())
}

func TestGetStateFilePath(t *testing.T) {
	withUserDir(t, "/tmp/test")

	path, err := getStateFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/test", stateFileName), path)
}
