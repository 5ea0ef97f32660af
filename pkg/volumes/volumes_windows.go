//go:build windows

package volumes

import (
	"context"
	"fmt"
	"unicode/utf16"

	"github.com/maxstrb/greenfm/pkg/files"
	"golang.org/x/sys/windows"
)

var getLogicalDriveStrings = windows.GetLogicalDriveStrings
var getVolumeInformation = windows.GetVolumeInformation

func listVolumes(_ context.Context) ([]files.Volume, error) {
	buf := make([]uint16, 254)
	n, err := getLogicalDriveStrings(uint32(len(buf)), &buf[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read windows drives: %w", err)
	}
	found := make([]files.Volume, 0, 4)
	for _, drive := range splitNull(string(utf16.Decode(buf[:n]))) {
		if drive == "" {
			continue
		}
		found = append(found, files.Volume{
			ID:    drive,
			Label: files.VolumeLabel(volumeName(drive), drive),
		})
	}
	return found, nil
}

// volumeName is empty for drives without a label or without media.
func volumeName(root string) string {
	rootPtr, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return ""
	}
	name := make([]uint16, windows.MAX_PATH+1)
	if err = getVolumeInformation(rootPtr, &name[0], uint32(len(name)), nil, nil, nil, nil, 0); err != nil {
		return ""
	}
	return windows.UTF16ToString(name)
}
