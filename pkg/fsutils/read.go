package fsutils

import (
	"encoding/json"
	"io"
	"os"

	"github.com/maxstrb/greenfm/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Decoder decodes
type Decoder interface {
	Decode(o any) error
}

var osOpen = os.Open

func ReadJSONFile(filePath string, required bool, o any) error {
	return ReadFile(filePath, required, o, func(r io.Reader) Decoder {
		return json.NewDecoder(r)
	})
}

// ReadYAMLFile decodes a YAML document. An empty file leaves o untouched.
func ReadYAMLFile(filePath string, required bool, o any) error {
	err := ReadFile(filePath, required, o, func(r io.Reader) Decoder {
		return yaml.NewDecoder(r)
	})
	if err == io.EOF {
		return nil
	}
	return err
}

// ReadFile decodes filePath into o. A missing file is only an error when required.
func ReadFile(filePath string, required bool, o any, newDecoder func(r io.Reader) Decoder) (err error) {
	var file *os.File
	if file, err = osOpen(filePath); err != nil {
		if os.IsNotExist(err) && !required {
			err = nil
		}
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logging.NewLogger("fsutils").WithError(closeErr).Warnf("failed to close %s", filePath)
		}
	}()
	return newDecoder(file).Decode(o)
}
