package files

// Volume is a top-level mount point or drive.
type Volume struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DefaultVolumeName is shown for volumes the OS reports without a name.
const DefaultVolumeName = "Local Disk"

// VolumeLabel formats a label as "<name> (<mount>)".
func VolumeLabel(name, mountPoint string) string {
	if name == "" {
		name = DefaultVolumeName
	}
	return name + " (" + mountPoint + ")"
}
