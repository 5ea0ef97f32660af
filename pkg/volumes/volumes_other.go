//go:build !windows

package volumes

import (
	"context"
	"fmt"
	"path"

	"github.com/maxstrb/greenfm/pkg/files"
	"github.com/shirou/gopsutil/v4/disk"
)

var diskPartitions = disk.PartitionsWithContext

func listVolumes(ctx context.Context) ([]files.Volume, error) {
	partitions, err := diskPartitions(ctx, false)
	if err != nil && len(partitions) == 0 {
		return nil, fmt.Errorf("failed to enumerate partitions: %w", err)
	}
	found := make([]files.Volume, 0, len(partitions)+1)
	hasRoot := false
	for _, p := range partitions {
		if p.Mountpoint == "" {
			continue
		}
		if p.Mountpoint == "/" {
			hasRoot = true
		}
		found = append(found, files.Volume{
			ID:    p.Mountpoint,
			Label: files.VolumeLabel(deviceName(p.Device), p.Mountpoint),
		})
	}
	// "/" is always mounted, containers just don't list it as a partition.
	if !hasRoot {
		found = append(found, files.Volume{ID: "/", Label: files.VolumeLabel("", "/")})
	}
	return found, nil
}

func deviceName(device string) string {
	switch device {
	case "", "none", "overlay":
		return ""
	}
	return path.Base(device)
}
