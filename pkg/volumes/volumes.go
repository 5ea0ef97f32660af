// Package volumes enumerates the drives and mount points of the running system.
package volumes

import (
	"context"
	"sort"

	"github.com/maxstrb/greenfm/pkg/files"
)

// List returns the currently mounted volumes sorted by ID.
// Nothing is cached: removable media may come and go between calls.
func List(ctx context.Context) ([]files.Volume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found, err := listVolumes(ctx)
	if err != nil {
		return nil, err
	}
	return sortUnique(found), nil
}

func sortUnique(found []files.Volume) []files.Volume {
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].ID < found[j].ID
	})
	unique := found[:0]
	for i, v := range found {
		if i > 0 && v.ID == found[i-1].ID {
			continue
		}
		unique = append(unique, v)
	}
	return unique
}

// splitNull splits a list of NUL-terminated strings.
// Text after the last NUL is not terminated and is dropped.
func splitNull(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return parts
}
