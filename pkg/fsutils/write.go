package fsutils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var osMkdirAll = os.MkdirAll
var osRename = os.Rename

// WriteJSONFile stores o as indented JSON, creating parent directories as needed.
func WriteJSONFile(filePath string, o any) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filePath, err)
	}
	return writeFile(filePath, append(data, '\n'))
}

func WriteYAMLFile(filePath string, o any) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filePath, err)
	}
	return writeFile(filePath, data)
}

// writeFile replaces filePath through a temporary sibling so readers never see a partial file.
func writeFile(filePath string, data []byte) (err error) {
	dir := filepath.Dir(filePath)
	if err = osMkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return osRename(tmp.Name(), filePath)
}
