// Package state remembers the last directory a session was in.
package state

import (
	"os"
	"path/filepath"

	"github.com/maxstrb/greenfm/pkg/fsutils"
	"github.com/maxstrb/greenfm/pkg/logging"
	"github.com/maxstrb/greenfm/pkg/settings"
)

const stateFileName = "greenfm-state.json"

type State struct {
	CurrentDir string `json:"current_dir,omitempty"`
}

var getUserDir = settings.GetUserDir
var readJSON = fsutils.ReadJSONFile
var writeJSON = fsutils.WriteJSONFile

var log = logging.NewLogger("state")

func getStateFilePath() (string, error) {
	userDir, err := getUserDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userDir, stateFileName), nil
}

func GetState() (*State, error) {
	var state State
	filePath, err := getStateFilePath()
	if err != nil {
		return &state, err
	}
	return &state, readJSON(filePath, false, &state)
}

// GetCurrentDir returns the remembered directory, or "" when there is none.
func GetCurrentDir() string {
	state, err := GetState()
	if err != nil {
		log.WithError(err).Debug("state is unreadable")
		return ""
	}
	return state.CurrentDir
}

// SaveCurrentDir remembers dir. Failures are logged, never returned.
func SaveCurrentDir(dir string) {
	saveSettingValue(func(state *State) {
		state.CurrentDir = dir
	})
}

func saveSettingValue(f func(state *State)) {
	filePath, err := getStateFilePath()
	if err != nil {
		log.WithError(err).Warn("cannot locate state file")
		return
	}
	var state State
	if err = readJSON(filePath, false, &state); err != nil {
		log.WithError(err).Warn("cannot read state file, overwriting it")
	}

	settingsDirPath := filepath.Dir(filePath)
	if dirInfo, err := os.Stat(settingsDirPath); err == nil && !dirInfo.IsDir() {
		log.WithField("path", settingsDirPath).Warn("settings path is not a directory")
		return
	}

	f(&state)
	if err = writeJSON(filePath, state); err != nil {
		log.WithError(err).WithField("path", filePath).Warn("cannot write state file")
	}
}
